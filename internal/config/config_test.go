package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Schedule.ChangeoverMinutes != 2 || cfg.Schedule.DefaultStart != "19:30" || cfg.History.Limit != 50 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.TokenTTL() != 12*time.Hour {
		t.Fatalf("unexpected ttl %s", cfg.TokenTTL())
	}
}

func TestFromYAMLOverlaysDefaults(t *testing.T) {
	cfg, err := FromYAML([]byte("schedule:\n  default_start: \"20:00\"\nstorage:\n  driver: memory\n"))
	if err != nil {
		t.Fatalf("from yaml: %v", err)
	}
	if cfg.Schedule.DefaultStart != "20:00" || cfg.Storage.Driver != "memory" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.Schedule.ChangeoverMinutes != 2 || cfg.Storage.Key != "backstage" {
		t.Fatalf("defaults lost: %+v", cfg)
	}
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]string{
		"driver":     "storage:\n  driver: mongo\n",
		"postgres":   "storage:\n  driver: postgres\n",
		"clock":      "schedule:\n  default_start: \"25:00\"\n",
		"changeover": "schedule:\n  changeover_minutes: -1\n",
		"history":    "history:\n  limit: 0\n",
		"export":     "export:\n  driver: s3\n",
		"ttl":        "auth:\n  token_ttl: soon\n",
		"hash":       "auth:\n  password_hash: plain\n",
	}
	for name, doc := range cases {
		if _, err := FromYAML([]byte(doc)); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:8080" {
		t.Fatalf("unexpected addr %s", cfg.Server.Addr)
	}
	if err := os.WriteFile(filepath.Join(dir, "backstage.yml"), []byte("history:\n  limit: 5\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err = Load(dir)
	if err != nil || cfg.History.Limit != 5 {
		t.Fatalf("load file: %+v, %v", cfg, err)
	}
	if !strings.Contains(GenerateDefault(), "changeover_minutes: 2") {
		t.Fatalf("template missing changeover")
	}
}

func TestSharedPasswordPrefersHash(t *testing.T) {
	cfg, err := FromYAML([]byte("auth:\n  password: plain\n  password_hash: \"$2a$10$abcdefghijklmnopqrstuv\"\n"))
	if err != nil {
		t.Fatalf("from yaml: %v", err)
	}
	if !strings.HasPrefix(cfg.SharedPassword(), "$2a$") {
		t.Fatalf("expected hash, got %q", cfg.SharedPassword())
	}
	cfg.Auth.PasswordHash = ""
	if cfg.SharedPassword() != "plain" {
		t.Fatalf("expected plain password, got %q", cfg.SharedPassword())
	}
}
