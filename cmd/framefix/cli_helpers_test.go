package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"framefix/internal/config"
	"framefix/internal/testsupport"
)

const (
	partAShot     = "/baselightfilesystem1/dogman/reel1/partA/1920x1080"
	hydraulxShot  = "/baselightfilesystem1/dogman/reel1/VFX/Hydraulx"
	unmatchedShot = "/baselightfilesystem1/dogman/reel9/partZ/1920x1080"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	workOrder  string
	shotLog    string
	baseDir    string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	t.Setenv("HOME", t.TempDir())
	t.Setenv("FRAMEFIX_UPLOAD_TOKEN", "")
	t.Setenv("FRAMEFIX_UPLOAD_URL", "")
	cfg := testsupport.NewConfig(t, opts...)
	base := testsupport.BaseDir(cfg)
	workOrder, shotLog := testsupport.WriteSampleInputs(t, filepath.Join(base, "inputs"))

	env := &cliTestEnv{
		cfg:        cfg,
		configPath: filepath.Join(base, "config.toml"),
		workOrder:  workOrder,
		shotLog:    shotLog,
		baseDir:    base,
	}
	writeTestConfig(t, env.configPath, cfg)
	return env
}

// rewrite persists changes made to env.cfg after setup.
func (e *cliTestEnv) rewrite(t *testing.T) {
	t.Helper()
	writeTestConfig(t, e.configPath, e.cfg)
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func requireNotContains(t *testing.T, output, substr string) {
	t.Helper()
	if strings.Contains(output, substr) {
		t.Fatalf("expected %q not to contain %q", output, substr)
	}
}
