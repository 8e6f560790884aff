package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
)

// loadForTest runs Load with a fresh flag set and the given args.
func loadForTest(t *testing.T, args ...string) *Config {
	t.Helper()
	fs := flag.NewFlagSet("taskman", flag.ContinueOnError)
	cfg, err := Load(fs, args)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return cfg
}

// isolate points HOME and the working directory at empty temp dirs so
// developer config files cannot leak into tests.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, ".config"))
	t.Chdir(dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg := loadForTest(t)

	if cfg.TaskFile != DefaultTaskFile {
		t.Errorf("TaskFile: got %q, want %q", cfg.TaskFile, DefaultTaskFile)
	}
	if cfg.SchemaFile != DefaultSchemaFile {
		t.Errorf("SchemaFile: got %q, want %q", cfg.SchemaFile, DefaultSchemaFile)
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("LogLevel: got %q, want %q", cfg.LogLevel, DefaultLogLevel)
	}
	if cfg.LogFormat != DefaultLogFormat {
		t.Errorf("LogFormat: got %q, want %q", cfg.LogFormat, DefaultLogFormat)
	}
	if cfg.TUI {
		t.Error("TUI should default to false")
	}
}

func TestLoadProjectConfigFile(t *testing.T) {
	isolate(t)

	content := `task_file = "work.json"
log_level = "debug"
`
	if err := os.WriteFile("taskman.toml", []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg := loadForTest(t)

	if cfg.TaskFile != "work.json" {
		t.Errorf("TaskFile: got %q, want %q", cfg.TaskFile, "work.json")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel: got %q, want %q", cfg.LogLevel, "debug")
	}
	// Untouched fields keep defaults
	if cfg.SchemaFile != DefaultSchemaFile {
		t.Errorf("SchemaFile: got %q, want default %q", cfg.SchemaFile, DefaultSchemaFile)
	}
}

func TestLoadHiddenProjectConfigFile(t *testing.T) {
	isolate(t)

	if err := os.WriteFile(".taskman.toml", []byte(`task_file = "hidden.json"`), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg := loadForTest(t)
	if cfg.TaskFile != "hidden.json" {
		t.Errorf("TaskFile: got %q, want %q", cfg.TaskFile, "hidden.json")
	}
}

func TestProjectConfigOverridesUserConfig(t *testing.T) {
	dir := isolate(t)

	userDir := filepath.Join(dir, ".config", "taskman")
	if err := os.MkdirAll(userDir, 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(userDir, "taskman.toml"), []byte(`task_file = "user.json"
log_level = "warn"
`), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if err := os.WriteFile("taskman.toml", []byte(`task_file = "project.json"`), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg := loadForTest(t)

	if cfg.TaskFile != "project.json" {
		t.Errorf("TaskFile: got %q, want project.json (project file wins)", cfg.TaskFile)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel: got %q, want warn (from user file)", cfg.LogLevel)
	}
}

func TestEnvOverridesConfigFile(t *testing.T) {
	isolate(t)

	if err := os.WriteFile("taskman.toml", []byte(`task_file = "project.json"`), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	t.Setenv("TASKMAN_FILE", "env.json")
	t.Setenv("TASKMAN_LOG_TIMESTAMPS", "true")

	cfg := loadForTest(t)

	if cfg.TaskFile != "env.json" {
		t.Errorf("TaskFile: got %q, want env.json", cfg.TaskFile)
	}
	if !cfg.LogTimestamps {
		t.Error("LogTimestamps should be set from env")
	}
}

func TestFlagsOverrideEverything(t *testing.T) {
	isolate(t)

	t.Setenv("TASKMAN_FILE", "env.json")

	cfg := loadForTest(t, "-file", "flag.json", "-tui", "-log-level", "error")

	if cfg.TaskFile != "flag.json" {
		t.Errorf("TaskFile: got %q, want flag.json", cfg.TaskFile)
	}
	if !cfg.TUI {
		t.Error("TUI flag should be set")
	}
	if cfg.LogLevel != "error" {
		t.Errorf("LogLevel: got %q, want error", cfg.LogLevel)
	}
}

func TestConfigFlagLoadsNamedFile(t *testing.T) {
	dir := isolate(t)

	// A project file exists but the explicit -config file must win.
	if err := os.WriteFile("taskman.toml", []byte(`task_file = "project.json"`), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	named := filepath.Join(dir, "custom.toml")
	if err := os.WriteFile(named, []byte(`task_file = "custom.json"
log_level = "debug"
`), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg := loadForTest(t, "-config", named)

	if cfg.TaskFile != "custom.json" {
		t.Errorf("TaskFile: got %q, want custom.json (explicit config file wins)", cfg.TaskFile)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel: got %q, want debug", cfg.LogLevel)
	}
	if cfg.ConfigFile != named {
		t.Errorf("ConfigFile: got %q, want %q", cfg.ConfigFile, named)
	}
}

func TestConfigFlagEqualsForm(t *testing.T) {
	dir := isolate(t)

	named := filepath.Join(dir, "custom.toml")
	if err := os.WriteFile(named, []byte(`task_file = "custom.json"`), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg := loadForTest(t, "-config="+named)
	if cfg.TaskFile != "custom.json" {
		t.Errorf("TaskFile: got %q, want custom.json", cfg.TaskFile)
	}
}

func TestConfigFlagMissingFile(t *testing.T) {
	dir := isolate(t)

	fs := flag.NewFlagSet("taskman", flag.ContinueOnError)
	_, err := Load(fs, []string{"-config", filepath.Join(dir, "nope.toml")})
	if err == nil {
		t.Fatal("Load should fail when the named config file does not exist")
	}
}

func TestLoadBadConfigFile(t *testing.T) {
	isolate(t)

	if err := os.WriteFile("taskman.toml", []byte(`task_file = [not toml`), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	fs := flag.NewFlagSet("taskman", flag.ContinueOnError)
	if _, err := Load(fs, nil); err == nil {
		t.Fatal("Load should fail on unparseable config file")
	}
}

func TestBoolFromString(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"1", true},
		{"true", true},
		{"yes", true},
		{"on", true},
		{"0", false},
		{"false", false},
		{"", false},
		{"maybe", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := boolFromString(tt.input); got != tt.want {
				t.Errorf("boolFromString(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
