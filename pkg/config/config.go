// Package config loads server configuration from an optional YAML file
// with environment variable overrides.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds everything the server needs to wire its collaborators.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `yaml:"addr"`
	// MySQLDSN selects the MySQL store; empty runs the in-memory store.
	MySQLDSN string `yaml:"mysql_dsn"`
	// CloudinaryURL selects Cloudinary uploads; empty runs the local dev
	// uploader.
	CloudinaryURL string `yaml:"cloudinary_url"`
	// AdminToken is the shared secret gating mutating routes.
	AdminToken string `yaml:"admin_token"`
	// AssetDir holds local dev uploads.
	AssetDir string `yaml:"asset_dir"`
	// FontDir holds campaign TTF fonts.
	FontDir string `yaml:"font_dir"`
}

// Default returns the dev-mode configuration.
func Default() Config {
	return Config{
		Addr:     ":8080",
		AssetDir: "assets",
	}
}

// Load reads path (may be empty for defaults) and applies env overrides:
// DPGEN_ADDR, MYSQL_DSN, CLOUDINARY_URL, ADMIN_TOKEN, DPGEN_ASSETS,
// DPGEN_FONTS.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}

	override(&cfg.Addr, "DPGEN_ADDR")
	override(&cfg.MySQLDSN, "MYSQL_DSN")
	override(&cfg.CloudinaryURL, "CLOUDINARY_URL")
	override(&cfg.AdminToken, "ADMIN_TOKEN")
	override(&cfg.AssetDir, "DPGEN_ASSETS")
	override(&cfg.FontDir, "DPGEN_FONTS")

	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.AssetDir == "" {
		cfg.AssetDir = "assets"
	}
	return cfg, nil
}

func override(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}
