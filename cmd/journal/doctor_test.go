package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// healthyVars is a service layout where every doctor check passes.
func healthyVars(t *testing.T) map[string]string {
	t.Helper()

	dir := t.TempDir()
	vars := serviceVars(t, dir)
	if err := os.MkdirAll(vars["JOURNAL_UPLOAD_DIR"], 0o750); err != nil {
		t.Fatalf("MkdirAll() error: %v", err)
	}
	vars["JOURNAL_CONVERTER_COMMAND"] = fakeExecutable(t, t.TempDir())
	return vars
}

func TestRunDoctor_Ready(t *testing.T) {
	t.Parallel()

	vars := healthyVars(t)
	env := newTestEnv(t, vars)

	result := runDoctor(context.Background(), &doctorFlags{}, env.Environment)

	if result.Status != statusReady {
		t.Fatalf("Status = %q, errors: %v, warnings: %v", result.Status, result.Errors, result.Warnings)
	}
	if !result.Config.Valid || result.Config.Source != "defaults" {
		t.Errorf("Config = %+v", result.Config)
	}
	if !result.Roster.Loaded || result.Roster.Students != 2 {
		t.Errorf("Roster = %+v", result.Roster)
	}
	if !result.Converter.Found || result.Converter.Path != vars["JOURNAL_CONVERTER_COMMAND"] {
		t.Errorf("Converter = %+v", result.Converter)
	}
	if result.Converter.Version != "LibreOffice 24.2.7.2 420(Build:2)" {
		t.Errorf("Converter.Version = %q", result.Converter.Version)
	}
	if !result.System.UploadWritable || !result.System.TempWritable {
		t.Errorf("System = %+v", result.System)
	}
}

func TestRunDoctor_Problems(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		mutate    func(t *testing.T, vars map[string]string)
		wantError string
		wantWarn  string
	}{
		{
			name: "roster missing",
			mutate: func(t *testing.T, vars map[string]string) {
				vars["JOURNAL_ROSTER"] = filepath.Join(t.TempDir(), "absent.csv")
			},
			wantError: "Roster:",
		},
		{
			name: "roster empty",
			mutate: func(t *testing.T, vars map[string]string) {
				vars["JOURNAL_ROSTER"] = writeFile(t, t.TempDir(), "empty.csv", "ID,NAME\n")
			},
			wantWarn: "no students",
		},
		{
			name: "soffice missing",
			mutate: func(t *testing.T, vars map[string]string) {
				vars["JOURNAL_CONVERTER_COMMAND"] = filepath.Join(t.TempDir(), "soffice")
			},
			wantError: "LibreOffice:",
		},
		{
			name: "upload dir not created yet",
			mutate: func(t *testing.T, vars map[string]string) {
				vars["JOURNAL_UPLOAD_DIR"] = filepath.Join(t.TempDir(), "later")
			},
			wantWarn: "serve will create it",
		},
		{
			name: "upload dir is a file",
			mutate: func(t *testing.T, vars map[string]string) {
				vars["JOURNAL_UPLOAD_DIR"] = writeFile(t, t.TempDir(), "uploads", "")
			},
			wantError: "is not a directory",
		},
		{
			name: "invalid config",
			mutate: func(t *testing.T, vars map[string]string) {
				vars["JOURNAL_LOG_MODE"] = "loud"
			},
			wantError: "log.mode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			vars := healthyVars(t)
			tt.mutate(t, vars)
			env := newTestEnv(t, vars)

			result := runDoctor(context.Background(), &doctorFlags{}, env.Environment)

			if tt.wantError != "" {
				if result.Status != statusErrors {
					t.Errorf("Status = %q, want %q", result.Status, statusErrors)
				}
				if !containsAny(result.Errors, tt.wantError) {
					t.Errorf("Errors = %v, want one containing %q", result.Errors, tt.wantError)
				}
			}
			if tt.wantWarn != "" {
				if result.Status != statusWarnings {
					t.Errorf("Status = %q, want %q; errors: %v", result.Status, statusWarnings, result.Errors)
				}
				if !containsAny(result.Warnings, tt.wantWarn) {
					t.Errorf("Warnings = %v, want one containing %q", result.Warnings, tt.wantWarn)
				}
			}
		})
	}
}

func TestRunDoctor_ChromeBackendIgnoresSoffice(t *testing.T) {
	t.Parallel()

	vars := healthyVars(t)
	vars["JOURNAL_CONVERTER_COMMAND"] = filepath.Join(t.TempDir(), "soffice")
	vars["JOURNAL_CONVERTER"] = "chrome"
	env := newTestEnv(t, vars)

	result := runDoctor(context.Background(), &doctorFlags{}, env.Environment)

	if containsAny(result.Errors, "LibreOffice:") {
		t.Errorf("missing soffice should not be an error for the chrome backend: %v", result.Errors)
	}
	if result.Converter.Found {
		t.Error("Converter.Found should be false")
	}
}

func TestRunDoctorCmd_JSON(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, healthyVars(t))

	code := runDoctorCmd(context.Background(), []string{"--json"}, env.Environment)
	if code != ExitSuccess {
		t.Fatalf("runDoctorCmd() = %d; stdout: %s", code, env.stdout.String())
	}

	var got struct {
		Status string `json:"status"`
		Roster struct {
			Students int `json:"students"`
		} `json:"roster"`
		Converter struct {
			Backend string `json:"backend"`
			Found   bool   `json:"found"`
		} `json:"converter"`
	}
	if err := json.Unmarshal(env.stdout.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, env.stdout.String())
	}
	if got.Status != statusReady || got.Roster.Students != 2 || got.Converter.Backend != "soffice" || !got.Converter.Found {
		t.Errorf("decoded result = %+v", got)
	}
}

func TestRunDoctorCmd_Text(t *testing.T) {
	t.Parallel()

	vars := healthyVars(t)
	vars["JOURNAL_ROSTER"] = filepath.Join(t.TempDir(), "absent.csv")
	env := newTestEnv(t, vars)

	code := runDoctorCmd(context.Background(), nil, env.Environment)
	if code != ExitGeneral {
		t.Errorf("runDoctorCmd() = %d, want %d", code, ExitGeneral)
	}

	out := env.stdout.String()
	for _, want := range []string{
		"journal doctor",
		"PDF converter (backend: soffice)",
		"[OK] Version: LibreOffice 24.2.7.2",
		"Errors:",
		"Status: Not ready",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func containsAny(list []string, substr string) bool {
	for _, s := range list {
		if strings.Contains(s, substr) {
			return true
		}
	}
	return false
}
