package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-journal/internal/config"
)

const envPrefix = "JOURNAL_"

// envConfig holds configuration from environment variables.
// Provides container-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath       string        // JOURNAL_CONFIG: config file path
	Addr             string        // JOURNAL_ADDR: listen address
	RosterPath       string        // JOURNAL_ROSTER: roster CSV path
	UploadDir        string        // JOURNAL_UPLOAD_DIR: upload directory
	Converter        string        // JOURNAL_CONVERTER: soffice or chrome
	ConverterCommand string        // JOURNAL_CONVERTER_COMMAND: soffice binary
	Timeout          time.Duration // JOURNAL_TIMEOUT: PDF conversion timeout
	Workers          int           // JOURNAL_WORKERS: concurrent conversions
	TempDir          string        // JOURNAL_TEMP_DIR: export temp directory
	KeepFiles        *bool         // JOURNAL_KEEP_FILES: keep export files
	AssetPath        string        // JOURNAL_ASSET_PATH: custom assets
	LogMode          string        // JOURNAL_LOG_MODE: development or production
	SiteTitle        string        // JOURNAL_SITE_TITLE: index page title
}

// knownEnvVars lists valid JOURNAL_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"JOURNAL_CONFIG":            true,
	"JOURNAL_ADDR":              true,
	"JOURNAL_ROSTER":            true,
	"JOURNAL_UPLOAD_DIR":        true,
	"JOURNAL_CONVERTER":         true,
	"JOURNAL_CONVERTER_COMMAND": true,
	"JOURNAL_TIMEOUT":           true,
	"JOURNAL_WORKERS":           true,
	"JOURNAL_TEMP_DIR":          true,
	"JOURNAL_KEEP_FILES":        true,
	"JOURNAL_ASSET_PATH":        true,
	"JOURNAL_LOG_MODE":          true,
	"JOURNAL_SITE_TITLE":        true,
}

// loadEnvConfig reads configuration from environment variables.
// Malformed numbers, durations and booleans are reported to warn and ignored.
func loadEnvConfig(getenv func(string) string, warn io.Writer) *envConfig {
	cfg := &envConfig{
		ConfigPath:       getenv("JOURNAL_CONFIG"),
		Addr:             getenv("JOURNAL_ADDR"),
		RosterPath:       getenv("JOURNAL_ROSTER"),
		UploadDir:        getenv("JOURNAL_UPLOAD_DIR"),
		Converter:        getenv("JOURNAL_CONVERTER"),
		ConverterCommand: getenv("JOURNAL_CONVERTER_COMMAND"),
		TempDir:          getenv("JOURNAL_TEMP_DIR"),
		AssetPath:        getenv("JOURNAL_ASSET_PATH"),
		LogMode:          getenv("JOURNAL_LOG_MODE"),
		SiteTitle:        getenv("JOURNAL_SITE_TITLE"),
	}

	if v := getenv("JOURNAL_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Timeout = d
		} else {
			fmt.Fprintf(warn, "warning: ignoring JOURNAL_TIMEOUT=%q (want a positive duration like 90s)\n", v)
		}
	}
	if v := getenv("JOURNAL_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Workers = n
		} else {
			fmt.Fprintf(warn, "warning: ignoring JOURNAL_WORKERS=%q (want a positive integer)\n", v)
		}
	}
	if v := getenv("JOURNAL_KEEP_FILES"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.KeepFiles = &b
		} else {
			fmt.Fprintf(warn, "warning: ignoring JOURNAL_KEEP_FILES=%q (want true or false)\n", v)
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized JOURNAL_* variables.
// Helps catch typos like JOURNAL_UPLOADS_DIR instead of JOURNAL_UPLOAD_DIR.
func warnUnknownEnvVars(environ []string, w io.Writer) {
	for _, kv := range environ {
		if !strings.HasPrefix(kv, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(kv, "=")
		if !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// applyEnvConfig overlays set environment values onto cfg.
// Precedence: CLI flags > env vars > config file > defaults
// (CLI flags are applied afterwards by applyFlags).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	setString(&cfg.Server.Addr, env.Addr)
	setString(&cfg.Roster.Path, env.RosterPath)
	setString(&cfg.Server.UploadDir, env.UploadDir)
	setString(&cfg.Converter.Backend, env.Converter)
	setString(&cfg.Converter.Command, env.ConverterCommand)
	setString(&cfg.Export.TempDir, env.TempDir)
	setString(&cfg.Assets.BasePath, env.AssetPath)
	setString(&cfg.Log.Mode, env.LogMode)
	setString(&cfg.Site.Title, env.SiteTitle)

	if env.Timeout > 0 {
		cfg.Converter.Timeout = config.Duration(env.Timeout)
	}
	if env.Workers > 0 {
		cfg.Converter.Workers = env.Workers
	}
	if env.KeepFiles != nil {
		cfg.Export.KeepFiles = *env.KeepFiles
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
