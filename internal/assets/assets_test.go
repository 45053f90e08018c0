package assets

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateAssetName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "app", false},
		{"hyphenated", "my-style", false},
		{"empty", "", true},
		{"slash", "a/b", true},
		{"backslash", `a\b`, true},
		{"dot", "app.css", true},
		{"traversal", "..", true},
		{"null byte", "a\x00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateAssetName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateAssetName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidAssetName) {
				t.Errorf("error = %v, want ErrInvalidAssetName", err)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestLoadPageSet - Web page bundle
// ---------------------------------------------------------------------------

type stubLoader struct {
	templates map[string]string
	styles    map[string]string
}

func (s *stubLoader) LoadStyle(name string) (string, error) {
	if v, ok := s.styles[name]; ok {
		return v, nil
	}
	return "", ErrStyleNotFound
}

func (s *stubLoader) LoadTemplate(name string) (string, error) {
	if v, ok := s.templates[name]; ok {
		return v, nil
	}
	return "", ErrTemplateNotFound
}

func TestLoadPageSet(t *testing.T) {
	t.Parallel()

	t.Run("embedded set is complete", func(t *testing.T) {
		t.Parallel()

		ps, err := LoadPageSet(NewEmbeddedLoader())
		if err != nil {
			t.Fatalf("LoadPageSet() error = %v", err)
		}
		if !strings.Contains(ps.Layout, `{{define "layout"}}`) {
			t.Error("layout template does not define \"layout\"")
		}
		for name, tmpl := range map[string]string{"index": ps.Index, "preview": ps.Preview} {
			if !strings.Contains(tmpl, `{{define "content"}}`) {
				t.Errorf("%s template does not define \"content\"", name)
			}
		}
		if ps.Style == "" {
			t.Error("Style is empty")
		}
	})

	t.Run("missing pieces are all reported", func(t *testing.T) {
		t.Parallel()

		loader := &stubLoader{templates: map[string]string{TemplateLayout: "x"}}
		_, err := LoadPageSet(loader)
		if !errors.Is(err, ErrTemplateNotFound) {
			t.Errorf("error = %v, want ErrTemplateNotFound", err)
		}
		if !errors.Is(err, ErrStyleNotFound) {
			t.Errorf("error = %v, want ErrStyleNotFound", err)
		}
	})
}
