// Package config loads and validates the journal service configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-journal/internal/fileutil"
	"github.com/alnah/go-journal/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrInvalidValue    = errors.New("invalid config value")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
)

// Field limits.
const (
	MaxTitleLength = 200
	MaxIntroLength = 16 << 10
	MaxWorkers     = 64
)

// Default values.
const (
	DefaultAddr            = "127.0.0.1:5000"
	DefaultUploadDir       = "static/uploads"
	DefaultRosterPath      = "student.csv"
	DefaultMaxUploadBytes  = 8 << 20
	DefaultBackend         = "soffice"
	DefaultCommand         = "soffice"
	DefaultConvertTimeout  = 60 * time.Second
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 2 * time.Minute
	DefaultShutdownTimeout = 15 * time.Second
	DefaultSiteTitle       = "Student Journal"
	DefaultLogMode         = "development"
)

// appDirName is the directory searched under os.UserConfigDir().
const appDirName = "go-journal"

// Duration is a time.Duration written as a Go duration string ("30s", "2m").
type Duration time.Duration

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(b)))
	if err != nil {
		return fmt.Errorf("%w: duration %q", ErrInvalidValue, string(b))
	}
	*d = Duration(v)
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config holds all configuration of the service.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Roster    RosterConfig    `yaml:"roster"`
	Converter ConverterConfig `yaml:"converter"`
	Export    ExportConfig    `yaml:"export"`
	Site      SiteConfig      `yaml:"site"`
	Assets    AssetsConfig    `yaml:"assets"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig defines the HTTP listener.
type ServerConfig struct {
	Addr            string   `yaml:"addr"`
	UploadDir       string   `yaml:"uploadDir"`
	MaxUploadBytes  int64    `yaml:"maxUploadBytes"` // multipart memory limit
	ReadTimeout     Duration `yaml:"readTimeout"`
	WriteTimeout    Duration `yaml:"writeTimeout"` // covers PDF conversion
	ShutdownTimeout Duration `yaml:"shutdownTimeout"`
	CORSOrigins     []string `yaml:"corsOrigins"` // empty = CORS middleware off
}

// RosterConfig points at the student CSV.
type RosterConfig struct {
	Path string `yaml:"path"`
}

// ConverterConfig defines the fixed-layout (PDF) converter.
type ConverterConfig struct {
	Backend string   `yaml:"backend"` // "soffice" or "chrome"
	Command string   `yaml:"command"` // soffice binary name or path
	Timeout Duration `yaml:"timeout"`
	Workers int      `yaml:"workers"` // 0 = from GOMAXPROCS
}

// ExportConfig defines where exports go and whether they are kept.
type ExportConfig struct {
	TempDir   string `yaml:"tempDir"`   // empty = os.TempDir()
	KeepFiles bool   `yaml:"keepFiles"` // skip removal after streaming
}

// SiteConfig holds index page content.
type SiteConfig struct {
	Title string `yaml:"title"`
	Intro string `yaml:"intro"` // Markdown
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // empty = embedded assets
}

// LogConfig selects the logger preset.
type LogConfig struct {
	Mode string `yaml:"mode"` // "development" or "production"
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            DefaultAddr,
			UploadDir:       DefaultUploadDir,
			MaxUploadBytes:  DefaultMaxUploadBytes,
			ReadTimeout:     Duration(DefaultReadTimeout),
			WriteTimeout:    Duration(DefaultWriteTimeout),
			ShutdownTimeout: Duration(DefaultShutdownTimeout),
		},
		Roster: RosterConfig{Path: DefaultRosterPath},
		Converter: ConverterConfig{
			Backend: DefaultBackend,
			Command: DefaultCommand,
			Timeout: Duration(DefaultConvertTimeout),
		},
		Site: SiteConfig{Title: DefaultSiteTitle},
		Log:  LogConfig{Mode: DefaultLogMode},
	}
}

// Validate checks values that would otherwise fail late at request time.
// Called by LoadConfig; also used after flag and env overrides are applied.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Server.Addr) == "" {
		errs = append(errs, invalid("server.addr", "cannot be empty"))
	}
	if strings.TrimSpace(c.Server.UploadDir) == "" {
		errs = append(errs, invalid("server.uploadDir", "cannot be empty"))
	}
	if c.Server.MaxUploadBytes <= 0 {
		errs = append(errs, invalid("server.maxUploadBytes", fmt.Sprintf("must be positive, got %d", c.Server.MaxUploadBytes)))
	}
	for _, origin := range c.Server.CORSOrigins {
		if origin != "*" && !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			errs = append(errs, invalid("server.corsOrigins", fmt.Sprintf("%q (must be * or start with http:// or https://)", origin)))
		}
	}
	for name, d := range map[string]Duration{
		"server.readTimeout":     c.Server.ReadTimeout,
		"server.writeTimeout":    c.Server.WriteTimeout,
		"server.shutdownTimeout": c.Server.ShutdownTimeout,
		"converter.timeout":      c.Converter.Timeout,
	} {
		if d <= 0 {
			errs = append(errs, invalid(name, fmt.Sprintf("must be positive, got %s", d.Std())))
		}
	}

	if strings.TrimSpace(c.Roster.Path) == "" {
		errs = append(errs, invalid("roster.path", "cannot be empty"))
	}

	switch c.Converter.Backend {
	case "soffice", "chrome":
	default:
		errs = append(errs, invalid("converter.backend", fmt.Sprintf("%q (must be soffice or chrome)", c.Converter.Backend)))
	}
	if c.Converter.Backend == "soffice" && strings.TrimSpace(c.Converter.Command) == "" {
		errs = append(errs, invalid("converter.command", "cannot be empty for the soffice backend"))
	}
	if c.Converter.Workers < 0 || c.Converter.Workers > MaxWorkers {
		errs = append(errs, invalid("converter.workers", fmt.Sprintf("must be between 0 and %d, got %d", MaxWorkers, c.Converter.Workers)))
	}

	switch c.Log.Mode {
	case "development", "production":
	default:
		errs = append(errs, invalid("log.mode", fmt.Sprintf("%q (must be development or production)", c.Log.Mode)))
	}

	if err := validateFieldLength("site.title", c.Site.Title, MaxTitleLength); err != nil {
		errs = append(errs, err)
	}
	if err := validateFieldLength("site.intro", c.Site.Intro, MaxIntroLength); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func invalid(field, msg string) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidValue, field, msg)
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name.
// A value containing a path separator is a file path; otherwise it is a
// name searched in standard locations. Keys missing from the file keep
// their defaults. Returns ErrConfigNotFound rather than falling back silently.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	cfg := DefaultConfig()
	if err := yamlutil.ReadFileStrict(configPath, cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, configPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SearchPaths lists where a config name is looked up, in order.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, appDirName, name+ext))
		}
	}
	return paths
}

// resolveConfigPath returns the first existing file from SearchPaths.
func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}
