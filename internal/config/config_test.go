package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "JWT_EXPIRES_IN", "JWT_REFRESH_EXPIRES_IN", "DEFAULT_TIMEZONE", "BUDGET_INCLUDE_DELETED_TRANSACTIONS", "AMQP_URL"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("expected port 8080, got %s", cfg.Port)
	}
	if cfg.JWTExpirationDur != 15*time.Minute {
		t.Errorf("expected 15m access token lifetime, got %s", cfg.JWTExpirationDur)
	}
	if cfg.JWTRefreshExpirationDur != 7*24*time.Hour {
		t.Errorf("expected 168h refresh token lifetime, got %s", cfg.JWTRefreshExpirationDur)
	}
	if cfg.DefaultTimezone != "UTC" {
		t.Errorf("expected UTC default timezone, got %s", cfg.DefaultTimezone)
	}
	if !cfg.BudgetIncludeDeletedTransactions {
		t.Error("expected deleted transactions to count toward budgets by default")
	}
	if cfg.AMQPURL != "" {
		t.Errorf("expected publishing disabled by default, got %q", cfg.AMQPURL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_EXPIRES_IN", "1h")
	t.Setenv("DEFAULT_TIMEZONE", "Europe/Rome")
	t.Setenv("BUDGET_INCLUDE_DELETED_TRANSACTIONS", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Port)
	}
	if cfg.JWTExpirationDur != time.Hour {
		t.Errorf("expected 1h, got %s", cfg.JWTExpirationDur)
	}
	if cfg.DefaultTimezone != "Europe/Rome" {
		t.Errorf("expected Europe/Rome, got %s", cfg.DefaultTimezone)
	}
	if cfg.BudgetIncludeDeletedTransactions {
		t.Error("expected override to exclude deleted transactions")
	}
}

func TestLoadFallsBackOnInvalidValues(t *testing.T) {
	t.Setenv("JWT_EXPIRES_IN", "soon")
	t.Setenv("DEFAULT_TIMEZONE", "Nowhere/Special")
	t.Setenv("BUDGET_INCLUDE_DELETED_TRANSACTIONS", "maybe")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.JWTExpirationDur != 15*time.Minute {
		t.Errorf("expected fallback to 15m, got %s", cfg.JWTExpirationDur)
	}
	if cfg.DefaultTimezone != "UTC" {
		t.Errorf("expected fallback to UTC, got %s", cfg.DefaultTimezone)
	}
	if !cfg.BudgetIncludeDeletedTransactions {
		t.Error("expected fallback to true")
	}
}
