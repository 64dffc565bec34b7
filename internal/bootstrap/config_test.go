package bootstrap

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSetupDefaults(t *testing.T) {
	cfg, err := Setup(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	if cfg.ServerPort != ":8080" || cfg.MongoDatabase != "sgf" || cfg.PageLimitRecords != 20 {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if cfg.MaxDepth != 10000 || cfg.MaxBodyBytes != 1<<20 {
		t.Errorf("unexpected limits %+v", cfg)
	}
	if cfg.SourceTTL() != 0 {
		t.Errorf("Expected no TTL, got %v", cfg.SourceTTL())
	}
}

func TestSetupFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "SERVER_PORT=:9090\nMONGO_DATABASE=games\nLOCAL_CORS=true\nMAX_DEPTH=64\nSOURCE_TTL_HOURS=2\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Setup(path)
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	if cfg.ServerPort != ":9090" || cfg.MongoDatabase != "games" || !cfg.IsLocalCors || cfg.MaxDepth != 64 {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.SourceTTL() != 2*time.Hour {
		t.Errorf("Expected 2h TTL, got %v", cfg.SourceTTL())
	}
	if cfg.RedisUrl != "localhost:6379" {
		t.Errorf("Expected default redis url, got %q", cfg.RedisUrl)
	}
}

func TestSetupEnvOverride(t *testing.T) {
	t.Setenv("PAGE_LIMIT_RECORDS", "5")
	cfg, err := Setup("")
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	if cfg.PageLimitRecords != 5 {
		t.Errorf("Expected page limit 5, got %d", cfg.PageLimitRecords)
	}
}
