package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("LOGIN_MAX_ATTEMPTS", "")
	t.Setenv("LOGIN_WINDOW", "")
	t.Setenv("AUTO_MIGRATE", "")

	cfg := Load()

	if cfg.Environment != "dev" || !cfg.IsDev() {
		t.Errorf("Environment = %q, want dev", cfg.Environment)
	}
	if cfg.LoginMaxAttempts != 5 {
		t.Errorf("LoginMaxAttempts = %d, want 5", cfg.LoginMaxAttempts)
	}
	if cfg.LoginWindow != 15*time.Minute {
		t.Errorf("LoginWindow = %v, want 15m", cfg.LoginWindow)
	}
	if !cfg.AutoMigrate {
		t.Error("AutoMigrate should default to true outside prod")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "prod")
	t.Setenv("DATABASE_DRIVER", "Postgres")
	t.Setenv("LOGIN_MAX_ATTEMPTS", "3")
	t.Setenv("LOGIN_WINDOW", "5m")
	t.Setenv("API_RPS", "2.5")
	t.Setenv("TOKEN_TTL", "not-a-duration")

	cfg := Load()

	if cfg.IsDev() {
		t.Error("prod should not be dev")
	}
	if cfg.AutoMigrate {
		t.Error("AutoMigrate should default to false in prod")
	}
	if cfg.DatabaseDriver != "postgres" {
		t.Errorf("DatabaseDriver = %q, want postgres", cfg.DatabaseDriver)
	}
	if cfg.LoginMaxAttempts != 3 || cfg.LoginWindow != 5*time.Minute {
		t.Errorf("login limits = %d/%v", cfg.LoginMaxAttempts, cfg.LoginWindow)
	}
	if cfg.APIRequestsPerSecond != 2.5 {
		t.Errorf("APIRequestsPerSecond = %v, want 2.5", cfg.APIRequestsPerSecond)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Errorf("malformed TOKEN_TTL should fall back to default, got %v", cfg.TokenTTL)
	}
}
