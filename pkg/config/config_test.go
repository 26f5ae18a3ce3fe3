package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsWhenMissing(t *testing.T) {
	cfg, err := Load("non-existent-config.yaml")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	assertDefaultConfig(t, cfg)
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestLoadWithPartialConfigAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  address: ":9090"
database:
  driver: ""
  sqlite: {}
storage:
  local:
    base_path: "/srv/satimage"
migration:
  on_duplicate: skip_record
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Address != ":9090" {
		t.Fatalf("expected server address :9090, got %s", cfg.Server.Address)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Fatalf("expected database driver sqlite, got %s", cfg.Database.Driver)
	}
	if cfg.Database.SQLite.Path != "data/satimage.db" {
		t.Fatalf("expected sqlite path data/satimage.db, got %s", cfg.Database.SQLite.Path)
	}
	if cfg.Database.Mongo.Database != "satimage" || cfg.Database.Mongo.Collection != "metadata" {
		t.Fatalf("expected mongo defaults satimage/metadata, got %+v", cfg.Database.Mongo)
	}
	if cfg.Storage.Local.BasePath != "/srv/satimage" {
		t.Fatalf("expected output root /srv/satimage, got %s", cfg.Storage.Local.BasePath)
	}
	if cfg.Migration.OnDuplicate != OnDuplicateSkipRecord {
		t.Fatalf("expected on_duplicate skip_record, got %s", cfg.Migration.OnDuplicate)
	}
	if cfg.Migration.BoxSize != 800 {
		t.Fatalf("expected default box size 800, got %d", cfg.Migration.BoxSize)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("cassandra:\n  hosts: x\n"), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected unknown field to be rejected")
	}
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("SATIMAGE_OUTPUT_DIR", "/tmp/out")
	t.Setenv("SATIMAGE_REDIS_ENABLED", "true")
	t.Setenv("SATIMAGE_ON_DUPLICATE", OnDuplicateSkipRecord)

	cfg, err := Load("non-existent-config.yaml")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Storage.Local.BasePath != "/tmp/out" {
		t.Fatalf("expected env output dir, got %s", cfg.Storage.Local.BasePath)
	}
	if !cfg.Redis.Enabled {
		t.Fatal("expected redis enabled from env")
	}
	if cfg.Migration.OnDuplicate != OnDuplicateSkipRecord {
		t.Fatalf("expected env duplicate policy, got %s", cfg.Migration.OnDuplicate)
	}
}

func TestValidate(t *testing.T) {
	cfg := defaultConfig()
	cfg.Migration.OnDuplicate = "ignore"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected invalid duplicate policy to fail validation")
	}

	cfg = defaultConfig()
	cfg.Migration.BoxSize = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected negative box size to fail validation")
	}
}

func assertDefaultConfig(t *testing.T, cfg *Config) {
	t.Helper()
	if cfg == nil {
		t.Fatalf("config is nil")
	}
	if cfg.Server.Address != ":8080" {
		t.Fatalf("expected default address :8080, got %s", cfg.Server.Address)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Fatalf("expected default driver sqlite, got %s", cfg.Database.Driver)
	}
	if cfg.Storage.Type != "local" {
		t.Fatalf("expected default storage local, got %s", cfg.Storage.Type)
	}
	if len(cfg.Migration.Extensions) != 1 || cfg.Migration.Extensions[0] != "db" {
		t.Fatalf("expected default extensions [db], got %v", cfg.Migration.Extensions)
	}
	if cfg.Migration.OnDuplicate != OnDuplicateAbortArchive {
		t.Fatalf("expected default on_duplicate abort_archive, got %s", cfg.Migration.OnDuplicate)
	}
}
