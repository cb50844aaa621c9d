package cliparse

import "testing"

func TestParseFlagsDefaults(t *testing.T) {
	cfg, err := ParseFlags([]string{"-d", "polls.db"})
	if err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}

	if cfg.Port != 5000 {
		t.Errorf("expected default port 5000, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "sqlite" {
		t.Errorf("expected default database type sqlite, got %q", cfg.DatabaseType)
	}
	if cfg.BaseURL != "http://localhost:3000" {
		t.Errorf("expected default base URL, got %q", cfg.BaseURL)
	}
	if cfg.CooldownSeconds != 60 {
		t.Errorf("expected default cooldown 60, got %d", cfg.CooldownSeconds)
	}
}

func TestParseFlagsExplicit(t *testing.T) {
	cfg, err := ParseFlags([]string{
		"-p", "8080",
		"-d", "postgres://localhost/polls",
		"-t", "postgres",
		"-base-url", "https://polls.example.com",
		"-cooldown", "0",
	})
	if err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "postgres" {
		t.Errorf("expected database type postgres, got %q", cfg.DatabaseType)
	}
	if cfg.CooldownSeconds != 0 {
		t.Errorf("expected cooldown 0, got %d", cfg.CooldownSeconds)
	}
}

func TestParseFlagsRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	if _, err := ParseFlags(nil); err == nil {
		t.Error("expected error when database URL is missing")
	}
}

func TestParseFlagsRejectsUnknownDatabaseType(t *testing.T) {
	if _, err := ParseFlags([]string{"-d", "polls.db", "-t", "mysql"}); err == nil {
		t.Error("expected error for unsupported database type")
	}
}
