package config

import (
	"testing"
	"time"
)

const (
	testEnvAPIKey      = "LLM_API_KEY"
	testEnvConcurrency = "ASSESS_CONCURRENCY"
	testEnvSince       = "ISSUES_UPDATED_SINCE"
	testEnvRetention   = "STORAGE_RETENTION"
)

func TestLoad_KeylessIsAllowed(t *testing.T) {
	t.Setenv(testEnvAPIKey, "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// An empty key selects the offline mock client downstream.
	if cfg.LLM.APIKey != "" {
		t.Errorf("APIKey = %q, want empty", cfg.LLM.APIKey)
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Assess.Concurrency != 10 {
		t.Errorf("default concurrency = %d, want 10", cfg.Assess.Concurrency)
	}

	if cfg.Assess.MaxIssues != 100 {
		t.Errorf("default max issues = %d, want 100", cfg.Assess.MaxIssues)
	}

	if !cfg.Assess.CancelDrain {
		t.Error("default CancelDrain should be true")
	}

	if cfg.GitHub.Repo != "pytorch/pytorch" {
		t.Errorf("default repo = %q", cfg.GitHub.Repo)
	}

	if cfg.LLM.Model != "gpt-4o-mini" {
		t.Errorf("default model = %q", cfg.LLM.Model)
	}

	if cfg.Storage.Retention != 0 {
		t.Errorf("default retention = %v, want 0", cfg.Storage.Retention)
	}
}

func TestLoad_StorageRetention(t *testing.T) {
	t.Setenv(testEnvRetention, "720h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if want := 720 * time.Hour; cfg.Storage.Retention != want {
		t.Errorf("Retention = %v, want %v", cfg.Storage.Retention, want)
	}
}

func TestLoad_ConcurrencyValidation(t *testing.T) {
	t.Setenv(testEnvConcurrency, "0")

	if _, err := Load(); err == nil {
		t.Error("expected error for zero concurrency")
	}

	t.Setenv(testEnvConcurrency, "-3")

	if _, err := Load(); err == nil {
		t.Error("expected error for negative concurrency")
	}
}

func TestLoad_UpdatedSince(t *testing.T) {
	t.Setenv(testEnvSince, "2026-05-01")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	if !cfg.GitHub.UpdatedSince.Equal(want) {
		t.Errorf("UpdatedSince = %v, want %v", cfg.GitHub.UpdatedSince, want)
	}
}

func TestLoad_UpdatedSinceInvalid(t *testing.T) {
	t.Setenv(testEnvSince, "not a date")

	if _, err := Load(); err == nil {
		t.Error("expected error for unparseable timestamp")
	}
}
