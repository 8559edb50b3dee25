package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/eugenenazirov/boxpack/internal/packer"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PORT", "SCENARIO_FILE", "PACK_STRATEGY", "MAX_GRID_CELLS", "RENDER_SCALE", "LOG_LEVEL", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST"} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Port != defaultPort {
		t.Fatalf("expected default port %s, got %s", defaultPort, cfg.Port)
	}
	if cfg.Strategy != packer.StrategyFirstFit {
		t.Fatalf("expected default strategy, got %q", cfg.Strategy)
	}
	if cfg.ScenarioFile != "" {
		t.Fatalf("expected no scenario file, got %q", cfg.ScenarioFile)
	}
	if cfg.ShutdownGracePeriod != 10*time.Second {
		t.Fatalf("unexpected shutdown grace period: %s", cfg.ShutdownGracePeriod)
	}
	if cfg.MaxGridCells != packer.DefaultMaxGridCells || cfg.RenderScale != defaultRenderScale {
		t.Fatalf("unexpected limits: %d / %d", cfg.MaxGridCells, cfg.RenderScale)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("PACK_STRATEGY", packer.StrategyFirstFitRows)
	t.Setenv("MAX_GRID_CELLS", "1000")
	t.Setenv("RENDER_SCALE", "4")
	t.Setenv("RATE_LIMIT_RPS", "not-a-number")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Port != "9000" {
		t.Fatalf("expected overridden port, got %s", cfg.Port)
	}
	if cfg.Strategy != packer.StrategyFirstFitRows {
		t.Fatalf("expected overridden strategy, got %s", cfg.Strategy)
	}
	if cfg.MaxGridCells != 1000 || cfg.RenderScale != 4 {
		t.Fatalf("unexpected limits: %d / %d", cfg.MaxGridCells, cfg.RenderScale)
	}
	if cfg.RateLimitRPS != defaultRateLimitRPS {
		t.Fatalf("expected invalid env value to be ignored, got %v", cfg.RateLimitRPS)
	}
}

func TestLoadPrecedence(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "7000")
	t.Setenv("LOG_LEVEL", "warn")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
port: "7100"
log_level: debug
scenario_file: load.yaml
write_timeout: 3s
enable_request_logging: false
rate_limit:
  rps: 0
  burst: 0
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	port := "7200"
	cfg, err := Load(&CLIOverrides{ConfigFile: path, Port: &port})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Port != "7200" {
		t.Fatalf("expected CLI port to win, got %s", cfg.Port)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("expected YAML log level to beat env, got %s", cfg.LogLevel)
	}
	if cfg.ScenarioFile != "load.yaml" || cfg.WriteTimeout != 3*time.Second {
		t.Fatalf("expected YAML values to apply, got %+v", cfg)
	}
	if cfg.EnableRequestLogging {
		t.Fatalf("expected request logging disabled by YAML")
	}
	if cfg.RateLimitRPS != 0 || cfg.RateLimitBurst != 0 {
		t.Fatalf("expected rate limit disabled by YAML, got %v/%d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	clearEnv(t)

	strategy := "skyline"
	_, err := Load(&CLIOverrides{Strategy: &strategy})
	if !errors.Is(err, packer.ErrUnknownStrategy) {
		t.Fatalf("expected ErrUnknownStrategy, got %v", err)
	}

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("idle_timeout: soon\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(&CLIOverrides{ConfigFile: path}); err == nil {
		t.Fatalf("expected error for invalid duration")
	}

	if _, err := Load(&CLIOverrides{ConfigFile: filepath.Join(t.TempDir(), "missing.yaml")}); err == nil {
		t.Fatalf("expected error for missing config file")
	}

	t.Setenv("RENDER_SCALE", "64")
	if _, err := Load(nil); err == nil {
		t.Fatalf("expected error for render scale above limit")
	}
}
