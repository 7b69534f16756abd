package config

import (
	"os"
	"path/filepath"
	"testing"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(old) })
}

func mustWriteFile(t *testing.T, path string, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadLayering(t *testing.T) {
	home := t.TempDir()
	work := t.TempDir()
	t.Setenv("HOME", home)
	chdir(t, work)

	mustWriteFile(t, filepath.Join(home, ".config", "deepsweep", "config.yaml"), `
format: json
fail_on: high
workers: 2
`)
	mustWriteFile(t, filepath.Join(work, ".deepsweep.yaml"), `
fail_on: critical
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Format != "json" {
		t.Errorf("global value lost: format = %q", cfg.Format)
	}
	if cfg.FailOn != "critical" {
		t.Errorf("local value must win: fail_on = %q", cfg.FailOn)
	}
	if cfg.Workers == nil || *cfg.Workers != 2 {
		t.Errorf("workers = %v, want 2", cfg.Workers)
	}
}

func TestLoadMissingFiles(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	chdir(t, t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load with no config files failed: %v", err)
	}
	if cfg.Format != "" || cfg.FailOn != "" || cfg.Workers != nil || cfg.Telemetry != nil {
		t.Fatalf("expected zero config, got %+v", cfg)
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	chdir(t, t.TempDir())
	mustWriteFile(t, filepath.Join(home, ".config", "deepsweep", "config.yaml"), ":::")

	if _, err := Load(); err == nil {
		t.Fatal("expected malformed config to fail")
	}
}

func TestMergeBoolPointer(t *testing.T) {
	off := false
	on := true
	merged := merge(Config{Telemetry: &on}, Config{Telemetry: &off})
	if merged.Telemetry == nil || *merged.Telemetry {
		t.Fatal("explicit false in overlay must survive merging")
	}

	merged = merge(Config{Telemetry: &off}, Config{})
	if merged.Telemetry == nil || *merged.Telemetry {
		t.Fatal("absent overlay key must not clobber the base value")
	}
}

func TestSetAndGetRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	chdir(t, t.TempDir())

	if err := Set("fail_on", "high"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := Set("workers", "4"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := Set("telemetry", "false"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	for key, want := range map[string]string{
		"fail_on":   "high",
		"workers":   "4",
		"telemetry": "false",
	} {
		got, err := Get(cfg, key)
		if err != nil {
			t.Errorf("Get(%s) failed: %v", key, err)
			continue
		}
		if got != want {
			t.Errorf("Get(%s) = %q, want %q", key, got, want)
		}
	}
}

func TestSetRejectsBadValues(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if err := Set("workers", "zero"); err == nil {
		t.Error("non-numeric workers should fail")
	}
	if err := Set("workers", "-1"); err == nil {
		t.Error("negative workers should fail")
	}
	if err := Set("telemetry", "maybe"); err == nil {
		t.Error("non-bool telemetry should fail")
	}
	if err := Set("unknown_key", "x"); err == nil {
		t.Error("unknown key should fail")
	}
}

func TestGetUnknownKey(t *testing.T) {
	if _, err := Get(Config{}, "bogus"); err == nil {
		t.Fatal("unknown key should fail")
	}
}
