package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	journal "github.com/alnah/go-journal"
	"github.com/alnah/go-journal/internal/config"
	"github.com/alnah/go-journal/internal/fileutil"
	"github.com/alnah/go-journal/internal/hints"
	"github.com/alnah/go-journal/internal/roster"
)

// versionProbeTimeout bounds `soffice --version`, which can take a few
// seconds on a cold profile.
const versionProbeTimeout = 20 * time.Second

// Doctor status values.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status    string        `json:"status"`
	Config    configInfo    `json:"config"`
	Roster    rosterInfo    `json:"roster"`
	Converter converterInfo `json:"converter"`
	Chrome    chromeInfo    `json:"chrome"`
	Env       envInfo       `json:"environment"`
	System    systemInfo    `json:"system"`
	Warnings  []string      `json:"warnings,omitempty"`
	Errors    []string      `json:"errors,omitempty"`
}

// configInfo describes where the configuration came from.
type configInfo struct {
	Source string `json:"source"`
	Valid  bool   `json:"valid"`
}

// rosterInfo holds roster loading results.
type rosterInfo struct {
	Path     string `json:"path"`
	Loaded   bool   `json:"loaded"`
	Students int    `json:"students"`
}

// converterInfo holds LibreOffice detection results.
type converterInfo struct {
	Backend string `json:"backend"`
	Command string `json:"command"`
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
}

// chromeInfo holds Chrome/Chromium detection results.
type chromeInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Sandbox bool   `json:"sandbox"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS         string `json:"os"`
	Arch       string `json:"arch"`
	Container  bool   `json:"container"`
	CI         bool   `json:"ci"`
	NoSandbox  string `json:"rod_no_sandbox"`
	BrowserBin string `json:"rod_browser_bin"`
}

// systemInfo holds filesystem check results.
type systemInfo struct {
	UploadDir      string `json:"upload_dir"`
	UploadWritable bool   `json:"upload_writable"`
	TempDir        string `json:"temp_dir"`
	TempWritable   bool   `json:"temp_writable"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found, 2 = bad flags.
func runDoctorCmd(ctx context.Context, args []string, env *Environment) int {
	flags, _, err := parseDoctorFlags(args, env.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintln(env.Stderr, "error:", err)
		return ExitUsage
	}

	result := runDoctor(ctx, flags, env)

	if flags.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == statusErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(ctx context.Context, flags *doctorFlags, env *Environment) *doctorResult {
	result := &doctorResult{
		Status: statusReady,
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NoSandbox:  env.Getenv("ROD_NO_SANDBOX"),
			BrowserBin: env.Getenv("ROD_BROWSER_BIN"),
		},
	}

	cfg := checkConfig(result, flags, env)
	checkRoster(result, cfg)
	checkConverter(ctx, result, cfg, env)
	checkChrome(result, cfg)
	checkEnvironment(result, cfg, env)
	checkSystem(result, cfg)

	if len(result.Errors) > 0 {
		result.Status = statusErrors
	} else if len(result.Warnings) > 0 {
		result.Status = statusWarnings
	}
	return result
}

// checkConfig resolves the configuration. On failure the error is recorded
// and the remaining checks run against defaults.
func checkConfig(result *doctorResult, flags *doctorFlags, env *Environment) *config.Config {
	result.Config.Source = "defaults"
	if name := flags.common.config; name != "" {
		result.Config.Source = name
	} else if name := env.Getenv("JOURNAL_CONFIG"); name != "" {
		result.Config.Source = name
	}

	cfg, err := resolveConfig(flags.common, flags.converter, env)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return config.DefaultConfig()
	}
	result.Config.Valid = true
	return cfg
}

// checkRoster loads the roster the way serve does.
func checkRoster(result *doctorResult, cfg *config.Config) {
	result.Roster.Path = cfg.Roster.Path

	ros, err := roster.Load(cfg.Roster.Path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Roster: %v%s", err, hints.ForRoster()))
		return
	}
	result.Roster.Loaded = true
	result.Roster.Students = ros.Len()
	if ros.Len() == 0 {
		result.Warnings = append(result.Warnings, "Roster has no students; the ID list will be empty")
	}
}

// checkConverter locates the soffice command and asks it for its version.
// A missing command is an error only when soffice is the selected backend.
func checkConverter(ctx context.Context, result *doctorResult, cfg *config.Config, env *Environment) {
	result.Converter.Backend = cfg.Converter.Backend
	result.Converter.Command = cfg.Converter.Command

	path, err := journal.LookupCommand(cfg.Converter.Command)
	if err != nil {
		if cfg.Converter.Backend == string(journal.BackendSoffice) {
			result.Errors = append(result.Errors,
				fmt.Sprintf("LibreOffice: %v%s", err, hints.ForConverterUnavailable(cfg.Converter.Command)))
		}
		return
	}
	result.Converter.Found = true
	result.Converter.Path = path

	probeCtx, cancel := context.WithTimeout(ctx, versionProbeTimeout)
	defer cancel()
	stdout, _, err := env.commandRunner().Run(probeCtx, path, "--version")
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Could not get LibreOffice version: %v", err))
		return
	}
	if line, _, _ := strings.Cut(strings.TrimSpace(stdout), "\n"); line != "" {
		result.Converter.Version = line
	}
}

// checkChrome detects Chrome/Chromium. Missing Chrome is an error only when
// chrome is the selected backend.
func checkChrome(result *doctorResult, cfg *config.Config) {
	path, found := journal.BrowserPath()
	if !found {
		if cfg.Converter.Backend == string(journal.BackendChrome) {
			result.Errors = append(result.Errors,
				"Chrome/Chromium not found. Install Chrome or set ROD_BROWSER_BIN")
		}
		return
	}
	result.Chrome.Found = true
	result.Chrome.Path = path
	result.Chrome.Sandbox = result.Env.NoSandbox != "1"
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult, cfg *config.Config, env *Environment) {
	result.Env.Container = hints.IsInContainer() ||
		env.Getenv("container") != "" ||
		env.Getenv("KUBERNETES_SERVICE_HOST") != ""

	result.Env.CI = hints.InCI(env.Getenv)

	if cfg.Converter.Backend == string(journal.BackendChrome) &&
		(result.Env.Container || result.Env.CI) && result.Env.NoSandbox != "1" {
		result.Warnings = append(result.Warnings,
			"Container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1")
	}
}

// checkSystem verifies the upload and export directories.
func checkSystem(result *doctorResult, cfg *config.Config) {
	result.System.UploadDir = cfg.Server.UploadDir
	switch info, err := os.Stat(cfg.Server.UploadDir); {
	case err == nil && !info.IsDir():
		result.Errors = append(result.Errors,
			fmt.Sprintf("Upload directory %s is not a directory%s", cfg.Server.UploadDir, hints.ForUploadDirectory()))
	case err == nil:
		result.System.UploadWritable = fileutil.DirWritable(cfg.Server.UploadDir)
		if !result.System.UploadWritable {
			result.Errors = append(result.Errors,
				fmt.Sprintf("Upload directory %s is not writable%s", cfg.Server.UploadDir, hints.ForUploadDirectory()))
		}
	case errors.Is(err, os.ErrNotExist):
		parent := filepath.Dir(filepath.Clean(cfg.Server.UploadDir))
		if fileutil.DirWritable(parent) {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Upload directory %s does not exist yet; serve will create it", cfg.Server.UploadDir))
		} else {
			result.Errors = append(result.Errors,
				fmt.Sprintf("Upload directory %s cannot be created%s", cfg.Server.UploadDir, hints.ForUploadDirectory()))
		}
	default:
		result.Errors = append(result.Errors, fmt.Sprintf("Upload directory: %v", err))
	}

	tmp := cfg.Export.TempDir
	if tmp == "" {
		tmp = os.TempDir()
	}
	result.System.TempDir = tmp
	result.System.TempWritable = fileutil.DirWritable(tmp)
	if !result.System.TempWritable {
		result.Errors = append(result.Errors, fmt.Sprintf("Temp directory not writable: %s", tmp))
	}
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "journal doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Configuration")
	if r.Config.Valid {
		fmt.Fprintf(w, "  [OK] Source: %s\n", r.Config.Source)
	} else {
		fmt.Fprintf(w, "  [ERROR] Source: %s\n", r.Config.Source)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Roster")
	if r.Roster.Loaded {
		fmt.Fprintf(w, "  [OK] %s (%d students)\n", r.Roster.Path, r.Roster.Students)
	} else {
		fmt.Fprintf(w, "  [ERROR] %s\n", r.Roster.Path)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "PDF converter (backend: %s)\n", r.Converter.Backend)
	if r.Converter.Found {
		fmt.Fprintf(w, "  [OK] LibreOffice: %s\n", r.Converter.Path)
		if r.Converter.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Converter.Version)
		}
	} else {
		fmt.Fprintf(w, "  [--] LibreOffice: %s not found\n", r.Converter.Command)
	}
	if r.Chrome.Found {
		fmt.Fprintf(w, "  [OK] Chrome: %s\n", r.Chrome.Path)
		if r.Chrome.Sandbox {
			fmt.Fprintln(w, "  [OK] Sandbox: enabled")
		} else {
			fmt.Fprintln(w, "  [OK] Sandbox: disabled (ROD_NO_SANDBOX=1)")
		}
	} else {
		fmt.Fprintln(w, "  [--] Chrome: not found")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintln(w, "  [OK] Container: detected")
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.UploadWritable {
		fmt.Fprintf(w, "  [OK] Upload directory: %s\n", r.System.UploadDir)
	} else {
		fmt.Fprintf(w, "  [--] Upload directory: %s\n", r.System.UploadDir)
	}
	if r.System.TempWritable {
		fmt.Fprintf(w, "  [OK] Temp directory: %s\n", r.System.TempDir)
	} else {
		fmt.Fprintf(w, "  [ERROR] Temp directory: %s\n", r.System.TempDir)
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready to serve")
	case statusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case statusErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
