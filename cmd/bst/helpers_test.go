package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"

	"backstage/internal/domain"
)

func TestSetEnvValueReplacesKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("A=1\nBACKSTAGE_SHOW=old\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := setEnvValue(path, "BACKSTAGE_SHOW", "new"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := setEnvValue(path, "BACKSTAGE_TOKEN", "tok"); err != nil {
		t.Fatalf("set: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got := string(data); got != "A=1\nBACKSTAGE_SHOW=new\nBACKSTAGE_TOKEN=tok\n" {
		t.Fatalf("unexpected .env:\n%s", got)
	}
}

func TestCurrentShowFallsBackToOnlyShow(t *testing.T) {
	viper.Set("show", "")
	defer viper.Set("show", "")
	st := domain.State{Shows: []domain.Show{{ID: "s1", Name: "Revue"}}}
	show, err := currentShow(st)
	if err != nil || show.ID != "s1" {
		t.Fatalf("expected fallback to s1, got %+v %v", show, err)
	}
	st.Shows = append(st.Shows, domain.Show{ID: "s2"})
	if _, err := currentShow(st); err == nil {
		t.Fatalf("expected an error with two shows and no selection")
	}
	viper.Set("show", "s2")
	if show, err := currentShow(st); err != nil || show.ID != "s2" {
		t.Fatalf("expected s2, got %+v %v", show, err)
	}
	viper.Set("show", "missing")
	if _, err := currentShow(st); err == nil {
		t.Fatalf("expected not found")
	}
}

func TestLoadConfigAppliesOverrides(t *testing.T) {
	viper.Set("workspace", t.TempDir())
	viper.Set("storage.driver", "memory")
	viper.Set("schedule.changeover_minutes", 3)
	defer viper.Reset()
	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Storage.Driver != "memory" || cfg.Schedule.ChangeoverMinutes != 3 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if opts := scheduleOptions(cfg); opts.GapMin != 3 || opts.DefaultStart != "19:30" {
		t.Fatalf("unexpected schedule options: %+v", opts)
	}
}
