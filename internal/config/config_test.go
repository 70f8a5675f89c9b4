package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

const minimalConfig = `
mongo:
  uri: mongodb://localhost:27017
jwt:
  secret: test-secret
`

func TestLoad_AppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("server.host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != defaultServerPort {
		t.Errorf("server.port = %d, want %d", cfg.Server.Port, defaultServerPort)
	}
	if cfg.Mongo.Database != defaultMongoDatabase {
		t.Errorf("mongo.database = %q, want %q", cfg.Mongo.Database, defaultMongoDatabase)
	}
	if cfg.JWT.Expiry != defaultJWTExpiry {
		t.Errorf("jwt.expiry = %v, want %v", cfg.JWT.Expiry, defaultJWTExpiry)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("logging.level = %q, want %q", cfg.Logging.Level, "info")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ANZEN_MONGO_URI", "mongodb://db:27017")
	t.Setenv("WEB_API_PORT", "9999")
	t.Setenv("ANZEN_JWT_EXPIRY", "2h")
	t.Setenv("ANZEN_AUTH_USERS", "alice, bob")

	cfg, err := Load(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Mongo.URI != "mongodb://db:27017" {
		t.Errorf("mongo.uri = %q, want env override", cfg.Mongo.URI)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("server.port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.JWT.Expiry != 2*time.Hour {
		t.Errorf("jwt.expiry = %v, want 2h", cfg.JWT.Expiry)
	}
	if len(cfg.Auth.AllowedUsers) != 2 || cfg.Auth.AllowedUsers[1] != "bob" {
		t.Errorf("auth.allowed_users = %v, want [alice bob]", cfg.Auth.AllowedUsers)
	}
}

func TestLoad_MissingRequiredFields(t *testing.T) {
	testCases := []struct {
		name     string
		contents string
	}{
		{"no mongo uri", "jwt:\n  secret: test-secret\n"},
		{"no jwt secret", "mongo:\n  uri: mongodb://localhost:27017\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tc.contents)); err == nil {
				t.Error("Load() expected validation error")
			}
		})
	}
}

func TestLoad_FileMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yml")); err == nil {
		t.Error("Load() expected error for missing file")
	}
}

func TestAuthConfig_Allowed(t *testing.T) {
	auth := AuthConfig{AllowedUsers: []string{"admin", "alice"}}

	if !auth.Allowed("alice") {
		t.Error("Allowed(alice) = false, want true")
	}
	if auth.Allowed("mallory") {
		t.Error("Allowed(mallory) = true, want false")
	}
}
