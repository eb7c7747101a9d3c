package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != "8080" || cfg.Database.Driver != DriverPostgres || !cfg.Seed.Enabled {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	if cfg.Storage.MaxUploadSize != 5<<20 {
		t.Fatalf("max upload size = %d", cfg.Storage.MaxUploadSize)
	}
}

func TestLoadConfigFileAndEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9090"
  mode: test
database:
  driver: memory
storage:
  avatars_dir: /tmp/avatars
  max_upload_size: 1024
seed:
  enabled: false
`)
	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("AVATARS_MAX_UPLOAD_SIZE", "2048")
	t.Setenv("SEED_ENABLED", "true")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != "7070" || cfg.Server.Mode != "test" {
		t.Fatalf("server = %+v", cfg.Server)
	}
	if !cfg.UsesMemoryStore() {
		t.Fatal("driver from file not applied")
	}
	if cfg.Storage.AvatarsDir != "/tmp/avatars" || cfg.Storage.MaxUploadSize != 2048 {
		t.Fatalf("storage = %+v", cfg.Storage)
	}
	if !cfg.Seed.Enabled {
		t.Fatal("SEED_ENABLED override not applied")
	}
}

func TestLoadConfigValidation(t *testing.T) {
	cases := map[string]string{
		"unsupported database driver": "database:\n  driver: sqlite\n",
		"avatars directory":           "storage:\n  avatars_dir: \"  \"\n",
		"max upload size":             "storage:\n  max_upload_size: -1\n",
		"read timeout":                "server:\n  read_timeout: soon\n",
		"connection max lifetime":     "database:\n  conn_max_lifetime: forever\n",
	}
	for want, content := range cases {
		_, err := LoadConfig(writeConfig(t, content))
		if err == nil || !strings.Contains(err.Error(), want) {
			t.Errorf("config %q: error %v, want it to mention %q", content, err, want)
		}
	}
}

func TestLoadConfigBadEnvValue(t *testing.T) {
	t.Setenv("DB_MAX_OPEN_CONNS", "many")
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected an error for a non-numeric DB_MAX_OPEN_CONNS")
	}
}

func TestPostgresConnectionString(t *testing.T) {
	cfg := &Config{}
	cfg.Database.User = "u"
	cfg.Database.Password = "p"
	cfg.Database.Host = "db"
	cfg.Database.Port = "5432"
	cfg.Database.DBName = "school"

	if got := cfg.GetPostgresConnectionString(); got != "postgres://u:p@db:5432/school?sslmode=disable" {
		t.Fatalf("connection string = %q", got)
	}
}
