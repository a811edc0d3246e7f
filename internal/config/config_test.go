package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig(".")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Server.Address != ":8080" {
		t.Errorf("Server.Address = %q, want :8080", cfg.Server.Address)
	}
	if cfg.JWT.Expiration != time.Hour {
		t.Errorf("JWT.Expiration = %v, want 1h", cfg.JWT.Expiration)
	}
	if cfg.Builder.DraftTTL != 24*time.Hour {
		t.Errorf("Builder.DraftTTL = %v, want 24h", cfg.Builder.DraftTTL)
	}
	if cfg.Database.Driver != "mongo" {
		t.Errorf("Database.Driver = %q, want mongo", cfg.Database.Driver)
	}
	if !cfg.Server.IsDev() {
		t.Error("default env should be development")
	}
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	yaml := "server:\n  address: \":9090\"\njwt:\n  secret: from-file\n  expiration: 30m\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("DATABASE_DRIVER", "memory")

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Server.Address != ":9090" {
		t.Errorf("Server.Address = %q, want :9090", cfg.Server.Address)
	}
	if cfg.JWT.Secret != "from-env" {
		t.Errorf("JWT.Secret = %q, want env value to win", cfg.JWT.Secret)
	}
	if cfg.JWT.Expiration != 30*time.Minute {
		t.Errorf("JWT.Expiration = %v, want 30m", cfg.JWT.Expiration)
	}
	if cfg.Database.Driver != "memory" {
		t.Errorf("Database.Driver = %q, want memory", cfg.Database.Driver)
	}
}

func TestMissing(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want []string
	}{
		{"all missing", Config{}, []string{"database.uri", "jwt.secret"}},
		{"memory driver needs no uri", Config{Database: DatabaseConfig{Driver: "memory"}}, []string{"jwt.secret"}},
		{"complete", Config{Database: DatabaseConfig{URI: "mongodb://x"}, JWT: JWTConfig{Secret: "s"}}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.Missing(); !slices.Equal(got, tt.want) {
				t.Errorf("Missing() = %v, want %v", got, tt.want)
			}
		})
	}
}
