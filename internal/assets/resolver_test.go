package assets

import (
	"errors"
	"testing"
)

func TestNewAssetResolver(t *testing.T) {
	t.Parallel()

	t.Run("empty path uses embedded only", func(t *testing.T) {
		t.Parallel()

		r, err := NewAssetResolver("")
		if err != nil {
			t.Fatalf("NewAssetResolver(\"\") error = %v", err)
		}
		if r.HasCustomLoader() {
			t.Error("expected no custom loader for empty path")
		}
	})

	t.Run("invalid custom path", func(t *testing.T) {
		t.Parallel()

		_, err := NewAssetResolver("/nonexistent/path/abc123xyz")
		if !errors.Is(err, ErrInvalidBasePath) {
			t.Errorf("error = %v, want ErrInvalidBasePath", err)
		}
	})
}

func TestAssetResolver_Fallback(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeAsset(t, root, "templates", "index.html", "custom index")

	r, err := NewAssetResolver(root)
	if err != nil {
		t.Fatal(err)
	}
	if !r.HasCustomLoader() {
		t.Fatal("expected custom loader")
	}

	t.Run("custom wins", func(t *testing.T) {
		t.Parallel()

		got, err := r.LoadTemplate(TemplateIndex)
		if err != nil {
			t.Fatal(err)
		}
		if got != "custom index" {
			t.Errorf("LoadTemplate(index) = %q, want custom content", got)
		}
	})

	t.Run("embedded fills the gaps", func(t *testing.T) {
		t.Parallel()

		if _, err := r.LoadTemplate(TemplatePreview); err != nil {
			t.Errorf("LoadTemplate(preview) error = %v", err)
		}
		if _, err := r.LoadStyle(StyleApp); err != nil {
			t.Errorf("LoadStyle(app) error = %v", err)
		}
	})

	t.Run("validation errors do not fall back", func(t *testing.T) {
		t.Parallel()

		_, err := r.LoadStyle("a/b")
		if !errors.Is(err, ErrInvalidAssetName) {
			t.Errorf("error = %v, want ErrInvalidAssetName", err)
		}
	})

	t.Run("missing everywhere", func(t *testing.T) {
		t.Parallel()

		_, err := r.LoadTemplate("nonexistent")
		if !errors.Is(err, ErrTemplateNotFound) {
			t.Errorf("error = %v, want ErrTemplateNotFound", err)
		}
	})
}
