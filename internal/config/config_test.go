package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "strata.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Modules.TargetFloor != 3 || cfg.Modules.TargetCeil != 15 {
		t.Errorf("module target band = [%d, %d], want [3, 15]",
			cfg.Modules.TargetFloor, cfg.Modules.TargetCeil)
	}
	if cfg.Engine.Timeout != 2*time.Minute {
		t.Errorf("timeout = %v, want 2m", cfg.Engine.Timeout)
	}
	if len(cfg.Exclude.Paths) == 0 {
		t.Error("default excludes missing")
	}
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
[modules]
depth = 2

[output]
dot = "deps.dot"
phantoms = "phantoms.tsv"

[telemetry]
otlp_endpoint = "localhost:4317"
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Modules.Depth != 2 {
		t.Errorf("depth = %d, want 2", cfg.Modules.Depth)
	}
	if cfg.Output.DOT != "deps.dot" {
		t.Errorf("dot = %q", cfg.Output.DOT)
	}
	if cfg.Output.Phantoms != "phantoms.tsv" {
		t.Errorf("phantoms = %q", cfg.Output.Phantoms)
	}
	if cfg.Telemetry.OTLPEndpoint != "localhost:4317" {
		t.Errorf("endpoint = %q", cfg.Telemetry.OTLPEndpoint)
	}
}

func TestLoadRejectsNegativeDepth(t *testing.T) {
	if _, err := Load(writeConfig(t, "[modules]\ndepth = -1\n")); err == nil {
		t.Error("negative depth should be rejected")
	}
}
