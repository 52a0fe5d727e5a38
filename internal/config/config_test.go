package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/erazemk/prft/internal/fees"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prft.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":8080" || cfg.DB != "prft.sqlite3" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.UndoWindow != 6*time.Second {
		t.Errorf("expected 6s undo window, got %v", cfg.UndoWindow)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	path := writeConfig(t, `
addr: ":9000"
db: /var/lib/prft.db
undo_window: 10s
cors_origins: ["https://a.example"]
redis:
  addr: localhost:6379
  channel: flips
fees:
  rates:
    Grailed: 9
  shipping_tiers:
    - {min: 300, cost: 25}
    - {min: 150, cost: 15}
    - {min: 80, cost: 10}
`)

	t.Setenv("PRFT_ADDR", ":7000")
	t.Setenv("PRFT_CORS_ORIGINS", "https://b.example, https://c.example")
	t.Setenv("PRFT_UNDO_WINDOW", "3s")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Addr != ":7000" {
		t.Errorf("expected env to override addr, got %q", cfg.Addr)
	}
	if cfg.DB != "/var/lib/prft.db" {
		t.Errorf("expected db from file, got %q", cfg.DB)
	}
	if cfg.UndoWindow != 3*time.Second {
		t.Errorf("expected env undo window, got %v", cfg.UndoWindow)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://c.example" {
		t.Errorf("unexpected CORS origins %v", cfg.CORSOrigins)
	}
	if cfg.Redis.Channel != "flips" {
		t.Errorf("expected redis channel 'flips', got %q", cfg.Redis.Channel)
	}

	feeCfg, err := cfg.FeeConfig()
	if err != nil {
		t.Fatalf("FeeConfig: %v", err)
	}
	est := fees.New(feeCfg)
	if !est.Rate("grailed").Equal(decimal.NewFromInt(9)) {
		t.Errorf("expected grailed rate 9, got %s", est.Rate("grailed"))
	}
	if !est.Rate("ebay").Equal(decimal.RequireFromString("13.25")) {
		t.Errorf("expected built-in ebay rate to survive, got %s", est.Rate("ebay"))
	}
	// The third step starts at 80 instead of 75.
	if !est.Shipping(decimal.NewFromInt(78)).Equal(decimal.NewFromInt(6)) {
		t.Errorf("expected base shipping at 78, got %s", est.Shipping(decimal.NewFromInt(78)))
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		env  map[string]string
	}{
		{name: "unknown key", body: "adress: x\n"},
		{name: "bad rate", body: "fees:\n  rates:\n    ebay: lots\n"},
		{name: "negative tier", body: "fees:\n  shipping_tiers:\n    - {min: 10, cost: -1}\n"},
		{name: "zero undo window", body: "undo_window: 0s\n"},
		{name: "bad env duration", body: "", env: map[string]string{"PRFT_UNDO_WINDOW": "soon"}},
		{name: "blank admin in file", body: "admin_user: \"  \"\n"},
		{name: "blank admin in env", body: "", env: map[string]string{"PRFT_ADMIN_USER": ""}},
		{name: "blank db in env", body: "", env: map[string]string{"PRFT_DB": " "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(writeConfig(t, tt.body)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}
