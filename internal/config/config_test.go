package config

import (
	"os"
	"testing"
	"time"
)

func clearConfigEnvVars() {
	vars := []string{
		"PORT", "ENV",
		"DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD",
		"DB_POOL_MIN", "DB_POOL_MAX",
		"CORS_ORIGINS",
		"ADMIN_USER", "ADMIN_PASSWORD",
		"TOUR_ENABLED", "TOUR_INVENTORY_URL", "TOUR_PAGE_URL", "TOUR_EMBED_URL",
		"TOUR_PRODUCTION_DOMAIN", "TOUR_SYNC_INTERVAL",
		"TOUR_DISCOVERY_INTERVAL", "TOUR_DISCOVERY_MAX_ATTEMPTS",
		"TOUR_OVERRIDES",
	}
	for _, v := range vars {
		os.Unsetenv(v)
	}
}

func TestLoad_WithDefaults(t *testing.T) {
	// Clear all environment variables
	clearConfigEnvVars()

	// Set only required env var (password has no default)
	os.Setenv("DB_PASSWORD", "testpass")
	defer os.Unsetenv("DB_PASSWORD")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	// Verify defaults
	if cfg.Server.Port != "8080" {
		t.Errorf("Expected port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Server.Env != "development" {
		t.Errorf("Expected env development, got %s", cfg.Server.Env)
	}
	if cfg.Database.Host != "localhost" {
		t.Errorf("Expected host localhost, got %s", cfg.Database.Host)
	}
	if cfg.Database.Name != "solterra" {
		t.Errorf("Expected db name solterra, got %s", cfg.Database.Name)
	}
	if cfg.Database.PoolMin != 2 {
		t.Errorf("Expected pool min 2, got %d", cfg.Database.PoolMin)
	}
	if cfg.Database.PoolMax != 10 {
		t.Errorf("Expected pool max 10, got %d", cfg.Database.PoolMax)
	}
	if len(cfg.CORS.Origins) != 2 {
		t.Errorf("Expected 2 CORS origins, got %d", len(cfg.CORS.Origins))
	}
	if cfg.Tour.Enabled {
		t.Error("Expected tour engine disabled by default")
	}
	if cfg.Tour.SyncInterval != 30*time.Second {
		t.Errorf("Expected 30s sync interval, got %s", cfg.Tour.SyncInterval)
	}
	if cfg.Tour.ProductionDomain != "solterra-lotes.vercel.app" {
		t.Errorf("Unexpected production domain %s", cfg.Tour.ProductionDomain)
	}
	if cfg.Tour.PageURL != "https://solterra-lotes.vercel.app/recorrido/" {
		t.Errorf("Unexpected tour page URL %s", cfg.Tour.PageURL)
	}
	if cfg.Tour.EmbedURL != "https://solterra-lotes.vercel.app/recorrido/" {
		t.Errorf("Unexpected tour embed URL %s", cfg.Tour.EmbedURL)
	}
}

func TestLoad_WithEnvironmentVariables(t *testing.T) {
	os.Setenv("PORT", "9090")
	os.Setenv("ENV", "production")
	os.Setenv("DB_HOST", "db.internal")
	os.Setenv("DB_PASSWORD", "testpass")
	os.Setenv("ADMIN_USER", "admin")
	os.Setenv("ADMIN_PASSWORD", "secret")
	os.Setenv("TOUR_ENABLED", "true")
	os.Setenv("TOUR_INVENTORY_URL", "https://solterra.example.com/api/v1/lots")
	os.Setenv("TOUR_PAGE_URL", "https://solterra.example.com/tour")
	os.Setenv("TOUR_EMBED_URL", "https://solterra.example.com/embed")
	os.Setenv("TOUR_SYNC_INTERVAL", "45s")
	os.Setenv("TOUR_OVERRIDES", "lote_7_zone=lote-7, old-slug=lote-2")
	defer clearConfigEnvVars()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("Expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.Database.Host != "db.internal" {
		t.Errorf("Expected host db.internal, got %s", cfg.Database.Host)
	}
	if cfg.Admin.User != "admin" || cfg.Admin.Password != "secret" {
		t.Error("Expected admin credentials to come from environment")
	}
	if !cfg.Tour.Enabled {
		t.Error("Expected tour engine enabled")
	}
	if cfg.Tour.EmbedURL != "https://solterra.example.com/embed" {
		t.Errorf("Unexpected tour embed URL %s", cfg.Tour.EmbedURL)
	}
	if cfg.Tour.SyncInterval != 45*time.Second {
		t.Errorf("Expected 45s sync interval, got %s", cfg.Tour.SyncInterval)
	}
	if len(cfg.Tour.Overrides) != 2 {
		t.Fatalf("Expected 2 overrides, got %d", len(cfg.Tour.Overrides))
	}
	if cfg.Tour.Overrides["lote_7_zone"] != "lote-7" {
		t.Errorf("Unexpected override %q", cfg.Tour.Overrides["lote_7_zone"])
	}
	if cfg.Tour.Overrides["old-slug"] != "lote-2" {
		t.Errorf("Unexpected override %q", cfg.Tour.Overrides["old-slug"])
	}
}

func TestLoad_MissingPassword(t *testing.T) {
	clearConfigEnvVars()

	_, err := Load()
	if err == nil {
		t.Fatal("Expected Load() to fail without DB_PASSWORD")
	}
}

func TestValidate_TourSettings(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: "8080", Env: "test"},
			Database: DatabaseConfig{Host: "h", Port: "5432", Name: "n", User: "u", Password: "p", PoolMin: 1, PoolMax: 2},
			CORS:     CORSConfig{Origins: []string{"http://localhost:3000"}},
			Tour: TourConfig{
				Enabled:              true,
				InventoryURL:         "http://localhost:8080/api/v1/lots",
				PageURL:              "https://solterra.example.com/recorrido/",
				EmbedURL:             "https://solterra.example.com/recorrido/",
				SyncInterval:         30 * time.Second,
				DiscoveryInterval:    2 * time.Second,
				DiscoveryMaxAttempts: 60,
			},
		}
	}

	if err := base().Validate(); err != nil {
		t.Fatalf("Expected valid config, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing inventory url", func(c *Config) { c.Tour.InventoryURL = "" }},
		{"missing page url", func(c *Config) { c.Tour.PageURL = "" }},
		{"missing embed url", func(c *Config) { c.Tour.EmbedURL = "" }},
		{"zero sync interval", func(c *Config) { c.Tour.SyncInterval = 0 }},
		{"zero discovery interval", func(c *Config) { c.Tour.DiscoveryInterval = 0 }},
		{"zero discovery attempts", func(c *Config) { c.Tour.DiscoveryMaxAttempts = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Expected validation to fail")
			}
		})
	}

	t.Run("engine checks skipped when disabled", func(t *testing.T) {
		// The embed URL is still required: the /tour page serves the
		// iframe whether or not the engine runs.
		cfg := base()
		cfg.Tour = TourConfig{Enabled: false, EmbedURL: "https://solterra.example.com/recorrido/"}
		if err := cfg.Validate(); err != nil {
			t.Errorf("Expected valid config with tour disabled, got %v", err)
		}
	})
}

func TestParsePairs(t *testing.T) {
	tests := []struct {
		input string
		want  map[string]string
	}{
		{"", map[string]string{}},
		{"a=1", map[string]string{"a": "1"}},
		{"a=1,b=2", map[string]string{"a": "1", "b": "2"}},
		{" a = 1 , b = 2 ", map[string]string{"a": "1", "b": "2"}},
		{"broken,a=1", map[string]string{"a": "1"}},
		{"=1,a=", map[string]string{}},
	}

	for _, tt := range tests {
		got := parsePairs(tt.input)
		if len(got) != len(tt.want) {
			t.Errorf("parsePairs(%q) = %v, want %v", tt.input, got, tt.want)
			continue
		}
		for k, v := range tt.want {
			if got[k] != v {
				t.Errorf("parsePairs(%q)[%q] = %q, want %q", tt.input, k, got[k], v)
			}
		}
	}
}

func TestParseList(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"", 0},
		{"http://localhost:3000", 1},
		{"a,b,c", 3},
		{"a, ,b", 2},
	}

	for _, tt := range tests {
		if got := parseList(tt.input); len(got) != tt.want {
			t.Errorf("parseList(%q) returned %d entries, want %d", tt.input, len(got), tt.want)
		}
	}
}
