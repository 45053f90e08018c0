package assets

import (
	"errors"
	"fmt"
	"strings"
)

// Names of the built-in assets.
const (
	StyleApp   = "app"
	StylePrint = "print"

	TemplateLayout  = "layout"
	TemplateIndex   = "index"
	TemplatePreview = "preview"
	TemplatePrint   = "print"
)

// AssetLoader loads CSS styles and HTML templates by name, without extension.
// Implementations return ErrStyleNotFound or ErrTemplateNotFound for missing
// assets and ErrInvalidAssetName for unsafe names.
type AssetLoader interface {
	LoadStyle(name string) (string, error)
	LoadTemplate(name string) (string, error)
}

// ValidateAssetName checks that name is safe to use as a file name stem.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, "/\\.\x00") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}

// PageSet holds the templates and styles the web surface renders with.
type PageSet struct {
	Layout  string
	Index   string
	Preview string
	Style   string
}

// LoadPageSet loads every web page asset from loader.
func LoadPageSet(loader AssetLoader) (*PageSet, error) {
	var (
		ps   PageSet
		errs []error
	)
	load := func(dst *string, name string) {
		s, err := loader.LoadTemplate(name)
		if err != nil {
			errs = append(errs, err)
			return
		}
		*dst = s
	}
	load(&ps.Layout, TemplateLayout)
	load(&ps.Index, TemplateIndex)
	load(&ps.Preview, TemplatePreview)

	style, err := loader.LoadStyle(StyleApp)
	if err != nil {
		errs = append(errs, err)
	}
	ps.Style = style

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &ps, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrStyleNotFound) || errors.Is(err, ErrTemplateNotFound)
}
