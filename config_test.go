package main

import (
	"testing"
	"time"

	"github.com/Seednode/costars/game"
)

func testConfig() *Config {
	return &Config{
		format:      "auto",
		labelA:      game.DefaultLabels.A,
		labelB:      game.DefaultLabels.B,
		noWinner:    game.DefaultLabels.None,
		maxBodySize: 1 << 20,
		port:        8080,
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := testConfig()
	cfg.format = "yaml"
	if err := cfg.validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if cfg.inputFormat != game.FormatYAML {
		t.Fatalf("input format = %v, want yaml", cfg.inputFormat)
	}

	cases := map[string]func(c *Config){
		"unknown format": func(c *Config) { c.format = "json" },
		"empty label":    func(c *Config) { c.labelA = "" },
		"same labels":    func(c *Config) { c.labelB = c.labelA },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := testConfig()
			mutate(cfg)
			if err := cfg.validate(); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestConfigValidateServe(t *testing.T) {
	if err := testConfig().validateServe(); err != nil {
		t.Fatalf("validateServe: %v", err)
	}

	cases := map[string]func(c *Config){
		"port zero":      func(c *Config) { c.port = 0 },
		"port too large": func(c *Config) { c.port = 70000 },
		"cert only":      func(c *Config) { c.tlsCert = "cert.pem" },
		"zero body":      func(c *Config) { c.maxBodySize = 0 },
		"negative delay": func(c *Config) { c.replayDelay = -time.Second },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := testConfig()
			mutate(cfg)
			if err := cfg.validateServe(); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestConfigScheme(t *testing.T) {
	cfg := testConfig()
	if cfg.scheme() != "http" {
		t.Fatalf("scheme = %q, want http", cfg.scheme())
	}

	cfg.tlsCert, cfg.tlsKey = "cert.pem", "key.pem"
	if cfg.scheme() != "https" {
		t.Fatalf("scheme = %q, want https", cfg.scheme())
	}
}

func TestFlagsFromEnvironment(t *testing.T) {
	t.Setenv("COSTARS_PORT", "9090")
	t.Setenv("COSTARS_TRACE", "true")
	t.Setenv("COSTARS_LABEL_A", "Left")
	t.Setenv("COSTARS_REPLAY_DELAY", "2s")

	cfg := &Config{}
	newCmd(cfg)

	if cfg.port != 9090 {
		t.Fatalf("port = %d, want 9090", cfg.port)
	}
	if !cfg.trace {
		t.Fatal("trace not enabled from environment")
	}
	if cfg.labelA != "Left" {
		t.Fatalf("label-a = %q, want Left", cfg.labelA)
	}
	if cfg.replayDelay != 2*time.Second {
		t.Fatalf("replay-delay = %s, want 2s", cfg.replayDelay)
	}
	if cfg.labelB != game.DefaultLabels.B {
		t.Fatalf("label-b = %q, want default", cfg.labelB)
	}
}

func TestHumanReadableSize(t *testing.T) {
	for in, want := range map[int64]string{
		0:       "0 B",
		999:     "999 B",
		1000:    "1.0 kB",
		1500000: "1.5 MB",
	} {
		if got := humanReadableSize(in); got != want {
			t.Fatalf("humanReadableSize(%d) = %q, want %q", in, got, want)
		}
	}
}
