// Package hints appends actionable advice to startup and conversion errors.
// Every hint renders as "\n  hint: <text>" so it can be concatenated to an
// error message.
package hints

import (
	"path/filepath"
	"strings"

	"github.com/alnah/go-journal/internal/fileutil"
)

// IsInContainer reports whether the process runs in Docker.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ciVars are set by the common CI providers.
var ciVars = []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}

// InCI reports whether any known CI variable is set.
func InCI(getenv func(string) string) bool {
	for _, v := range ciVars {
		if getenv(v) != "" {
			return true
		}
	}
	return false
}

// ForBrowserConnect advises on Chrome launch failures of the chrome backend.
// Returns "" when the sandbox and binary variables are already set.
func ForBrowserConnect(getenv func(string) string) string {
	var advice []string
	if (InCI(getenv) || IsInContainer()) && getenv("ROD_NO_SANDBOX") != "1" {
		advice = append(advice, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}
	if getenv("ROD_BROWSER_BIN") == "" {
		advice = append(advice, "set ROD_BROWSER_BIN to use a custom Chrome")
	}
	return join(advice)
}

// ForConverterUnavailable advises when the soffice command cannot run.
func ForConverterUnavailable(command string) string {
	first := "install LibreOffice so " + command + " is on PATH"
	if filepath.IsAbs(command) {
		first = "check that " + command + " exists and is executable"
	}
	return join([]string{
		first,
		"or set converter.command / JOURNAL_CONVERTER_COMMAND",
		"or use --converter chrome",
	})
}

// ForTimeout advises raising the conversion timeout.
func ForTimeout() string {
	return line("LibreOffice cold starts can be slow; raise --timeout or converter.timeout")
}

// ForConfigNotFound suggests --config, or creating the user-level file
// when one of searched lives under the user config directory.
func ForConfigNotFound(searched []string) string {
	advice := "use --config /path/to/file.yaml"
	for _, p := range searched {
		if strings.Contains(filepath.ToSlash(p), "go-journal/") {
			return line(advice + " or create " + p)
		}
	}
	return line(advice)
}

// ForRoster describes the expected roster layout.
func ForRoster() string {
	return line("the roster is a CSV whose header row has ID and NAME columns; set --roster or roster.path")
}

// ForUploadDirectory advises on an unusable upload directory.
func ForUploadDirectory() string {
	return line("check the directory exists and is writable, or set --upload-dir")
}

func line(text string) string {
	if text == "" {
		return ""
	}
	return "\n  hint: " + text
}

func join(advice []string) string {
	return line(strings.Join(advice, "; "))
}
