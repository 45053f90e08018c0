package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.Server.Addr != DefaultAddr {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, DefaultAddr)
	}
	if cfg.Server.UploadDir != "static/uploads" {
		t.Errorf("Server.UploadDir = %q, want static/uploads", cfg.Server.UploadDir)
	}
	if cfg.Roster.Path != "student.csv" {
		t.Errorf("Roster.Path = %q, want student.csv", cfg.Roster.Path)
	}
	if cfg.Converter.Backend != "soffice" || cfg.Converter.Command != "soffice" {
		t.Errorf("Converter = %+v, want soffice/soffice", cfg.Converter)
	}
	if cfg.Converter.Timeout.Std() != 60*time.Second {
		t.Errorf("Converter.Timeout = %s, want 60s", cfg.Converter.Timeout.Std())
	}
	if cfg.Export.KeepFiles {
		t.Error("Export.KeepFiles = true, want false")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() error = %v", err)
	}
}

// ---------------------------------------------------------------------------
// TestValidate - Field rules
// ---------------------------------------------------------------------------

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
		field   string
	}{
		{"empty addr", func(c *Config) { c.Server.Addr = " " }, ErrInvalidValue, "server.addr"},
		{"empty upload dir", func(c *Config) { c.Server.UploadDir = "" }, ErrInvalidValue, "server.uploadDir"},
		{"zero upload size", func(c *Config) { c.Server.MaxUploadBytes = 0 }, ErrInvalidValue, "server.maxUploadBytes"},
		{"bare cors origin", func(c *Config) { c.Server.CORSOrigins = []string{"school.example"} }, ErrInvalidValue, "server.corsOrigins"},
		{"zero read timeout", func(c *Config) { c.Server.ReadTimeout = 0 }, ErrInvalidValue, "server.readTimeout"},
		{"negative converter timeout", func(c *Config) { c.Converter.Timeout = Duration(-time.Second) }, ErrInvalidValue, "converter.timeout"},
		{"empty roster path", func(c *Config) { c.Roster.Path = "" }, ErrInvalidValue, "roster.path"},
		{"unknown backend", func(c *Config) { c.Converter.Backend = "word" }, ErrInvalidValue, "converter.backend"},
		{"empty command", func(c *Config) { c.Converter.Command = "" }, ErrInvalidValue, "converter.command"},
		{"too many workers", func(c *Config) { c.Converter.Workers = MaxWorkers + 1 }, ErrInvalidValue, "converter.workers"},
		{"unknown log mode", func(c *Config) { c.Log.Mode = "verbose" }, ErrInvalidValue, "log.mode"},
		{"title too long", func(c *Config) { c.Site.Title = strings.Repeat("x", MaxTitleLength+1) }, ErrFieldTooLong, "site.title"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() error = %v, want %v", err, tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q does not name %s", err, tt.field)
			}
		})
	}

	t.Run("chrome needs no command", func(t *testing.T) {
		t.Parallel()

		cfg := DefaultConfig()
		cfg.Converter.Backend = "chrome"
		cfg.Converter.Command = ""
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate() error = %v", err)
		}
	})

	t.Run("all problems reported", func(t *testing.T) {
		t.Parallel()

		cfg := DefaultConfig()
		cfg.Server.Addr = ""
		cfg.Log.Mode = "x"
		err := cfg.Validate()
		if err == nil || !strings.Contains(err.Error(), "server.addr") || !strings.Contains(err.Error(), "log.mode") {
			t.Errorf("Validate() error = %v, want both fields reported", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestLoadConfig - File loading
// ---------------------------------------------------------------------------

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("partial file keeps defaults", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, t.TempDir(), "journal.yaml", `
server:
  addr: ":8080"
  corsOrigins: ["https://school.example"]
converter:
  timeout: 90s
  workers: 2
export:
  keepFiles: true
site:
  intro: |
    Upload your **weekly** page.
`)
		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}

		if cfg.Server.Addr != ":8080" {
			t.Errorf("Server.Addr = %q", cfg.Server.Addr)
		}
		if len(cfg.Server.CORSOrigins) != 1 || cfg.Server.CORSOrigins[0] != "https://school.example" {
			t.Errorf("Server.CORSOrigins = %v", cfg.Server.CORSOrigins)
		}
		if cfg.Converter.Timeout.Std() != 90*time.Second {
			t.Errorf("Converter.Timeout = %s, want 90s", cfg.Converter.Timeout.Std())
		}
		if cfg.Converter.Workers != 2 || !cfg.Export.KeepFiles {
			t.Errorf("Converter.Workers = %d, Export.KeepFiles = %v", cfg.Converter.Workers, cfg.Export.KeepFiles)
		}
		if !strings.Contains(cfg.Site.Intro, "**weekly**") {
			t.Errorf("Site.Intro = %q", cfg.Site.Intro)
		}
		// Untouched sections keep defaults.
		if cfg.Server.UploadDir != DefaultUploadDir || cfg.Converter.Command != DefaultCommand {
			t.Errorf("defaults lost: uploadDir=%q command=%q", cfg.Server.UploadDir, cfg.Converter.Command)
		}
	})

	t.Run("unknown key rejected", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, t.TempDir(), "bad.yaml", "server:\n  port: 80\n")
		if _, err := LoadConfig(path); !errors.Is(err, ErrConfigParse) {
			t.Errorf("LoadConfig() error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("bad duration rejected", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, t.TempDir(), "bad.yaml", "converter:\n  timeout: soon\n")
		if _, err := LoadConfig(path); err == nil {
			t.Error("LoadConfig() succeeded with an invalid duration")
		}
	})

	t.Run("invalid value rejected", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, t.TempDir(), "bad.yaml", "converter:\n  backend: word\n")
		if _, err := LoadConfig(path); !errors.Is(err, ErrInvalidValue) {
			t.Errorf("LoadConfig() error = %v, want ErrInvalidValue", err)
		}
	})

	t.Run("missing path", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("LoadConfig() error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("missing name", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfig("journal-config-that-does-not-exist")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("LoadConfig() error = %v, want ErrConfigNotFound", err)
		}
		if !strings.Contains(err.Error(), "journal-config-that-does-not-exist.yaml") {
			t.Errorf("error %q does not list searched paths", err)
		}
	})

	t.Run("empty name", func(t *testing.T) {
		t.Parallel()

		if _, err := LoadConfig(""); !errors.Is(err, ErrEmptyConfigName) {
			t.Errorf("LoadConfig(\"\") error = %v, want ErrEmptyConfigName", err)
		}
	})
}

func TestSearchPaths(t *testing.T) {
	t.Parallel()

	paths := SearchPaths("journal")
	if len(paths) < 2 || paths[0] != "journal.yaml" || paths[1] != "journal.yml" {
		t.Errorf("SearchPaths() = %v, want local .yaml then .yml first", paths)
	}
	for _, p := range paths[2:] {
		if !strings.Contains(p, appDirName) {
			t.Errorf("user path %q not under %s", p, appDirName)
		}
	}
}

func TestDuration_UnmarshalText(t *testing.T) {
	t.Parallel()

	var d Duration
	if err := d.UnmarshalText([]byte("1m30s")); err != nil || d.Std() != 90*time.Second {
		t.Errorf("UnmarshalText(1m30s) = %s, %v", d.Std(), err)
	}
	if err := d.UnmarshalText([]byte("ninety")); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("UnmarshalText(ninety) error = %v, want ErrInvalidValue", err)
	}
	if b, _ := Duration(2 * time.Second).MarshalText(); string(b) != "2s" {
		t.Errorf("MarshalText() = %q, want 2s", b)
	}
}
