package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":8080" || cfg.AssetDir != "assets" {
		t.Errorf("defaults: %+v", cfg)
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.yaml")
	data := []byte("addr: \":9000\"\nmysql_dsn: user:pw@/dp\nadmin_token: hunter2\nfont_dir: fonts\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":9000" || cfg.MySQLDSN != "user:pw@/dp" || cfg.AdminToken != "hunter2" || cfg.FontDir != "fonts" {
		t.Errorf("loaded: %+v", cfg)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.yaml")
	if err := os.WriteFile(path, []byte("addr: \":9000\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("DPGEN_ADDR", ":7000")
	t.Setenv("ADMIN_TOKEN", "secret")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":7000" {
		t.Errorf("addr = %q, env must win", cfg.Addr)
	}
	if cfg.AdminToken != "secret" {
		t.Errorf("token = %q", cfg.AdminToken)
	}
}

func TestLoadBadFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file must fail")
	}

	path := filepath.Join(t.TempDir(), "broken.yaml")
	os.WriteFile(path, []byte("addr: [unclosed"), 0644)
	if _, err := Load(path); err == nil {
		t.Error("malformed YAML must fail")
	}
}
