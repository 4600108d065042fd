package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	CORS     CORSConfig
	Admin    AdminConfig
	Tour     TourConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	PoolMin  int
	PoolMax  int
}

// CORSConfig holds CORS configuration.
type CORSConfig struct {
	Origins []string
}

// AdminConfig holds credentials for the Basic-auth gated admin API.
type AdminConfig struct {
	User     string
	Password string
}

// TourConfig holds settings for the hotspot reconciliation engine that
// keeps the embedded 360° tour in sync with lot inventory.
type TourConfig struct {
	// Enabled controls whether the engine is started at all. The API can
	// run standalone (e.g. in CI) without a tour page to drive.
	Enabled bool

	// InventoryURL is the endpoint the engine polls for lot records.
	InventoryURL string

	// PageURL is the address of the hosted tour page the headless browser
	// bridge navigates to. This is the document the viewer lives in and
	// the one the engine's click bindings execute against.
	PageURL string

	// EmbedURL is the externally hosted 360° tour the site's /tour page
	// embeds for visitors. Kept separate from PageURL: the iframe source
	// and the bridge's navigation target are different concerns even when
	// they point at the same place.
	EmbedURL string

	// ProductionDomain is the domain the tour authoring tool bakes into
	// hotspot links. Links carrying it are rewritten to the serving origin
	// when running on a local development host.
	ProductionDomain string

	// SyncInterval is the period of the inventory re-fetch loop.
	SyncInterval time.Duration

	// DiscoveryInterval and DiscoveryMaxAttempts bound the polling for the
	// external viewer becoming ready.
	DiscoveryInterval    time.Duration
	DiscoveryMaxAttempts int

	// Overrides maps a misauthored hotspot name or slug to the correct lot
	// slug. Format in the environment: "name1=slug1,name2=slug2".
	Overrides map[string]string
}

// Load reads configuration from environment variables.
// It uses viper to read values and provides sensible defaults for development.
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults for development
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "solterra")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_POOL_MIN", 2)
	v.SetDefault("DB_POOL_MAX", 10)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:8080")
	v.SetDefault("TOUR_ENABLED", false)
	v.SetDefault("TOUR_INVENTORY_URL", "http://localhost:8080/api/v1/lots")
	v.SetDefault("TOUR_PAGE_URL", "https://solterra-lotes.vercel.app/recorrido/")
	v.SetDefault("TOUR_EMBED_URL", "https://solterra-lotes.vercel.app/recorrido/")
	// Must match the domain the tour authoring tool baked into the hotspot
	// links. A mismatch silently disables the local-origin rewrite and the
	// affected regions fall back to their native state.
	v.SetDefault("TOUR_PRODUCTION_DOMAIN", "solterra-lotes.vercel.app")
	v.SetDefault("TOUR_SYNC_INTERVAL", "30s")
	v.SetDefault("TOUR_DISCOVERY_INTERVAL", "2s")
	v.SetDefault("TOUR_DISCOVERY_MAX_ATTEMPTS", 60)
	v.SetDefault("TOUR_OVERRIDES", "")

	// Bind environment variables
	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Port: v.GetString("PORT"),
			Env:  v.GetString("ENV"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			PoolMin:  v.GetInt("DB_POOL_MIN"),
			PoolMax:  v.GetInt("DB_POOL_MAX"),
		},
		CORS: CORSConfig{
			Origins: parseList(v.GetString("CORS_ORIGINS")),
		},
		Admin: AdminConfig{
			User:     v.GetString("ADMIN_USER"),
			Password: v.GetString("ADMIN_PASSWORD"),
		},
		Tour: TourConfig{
			Enabled:              v.GetBool("TOUR_ENABLED"),
			InventoryURL:         v.GetString("TOUR_INVENTORY_URL"),
			PageURL:              v.GetString("TOUR_PAGE_URL"),
			EmbedURL:             v.GetString("TOUR_EMBED_URL"),
			ProductionDomain:     v.GetString("TOUR_PRODUCTION_DOMAIN"),
			SyncInterval:         v.GetDuration("TOUR_SYNC_INTERVAL"),
			DiscoveryInterval:    v.GetDuration("TOUR_DISCOVERY_INTERVAL"),
			DiscoveryMaxAttempts: v.GetInt("TOUR_DISCOVERY_MAX_ATTEMPTS"),
			Overrides:            parsePairs(v.GetString("TOUR_OVERRIDES")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if c.Database.Port == "" {
		return fmt.Errorf("DB_PORT is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("DB_USER is required")
	}
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.Database.PoolMin < 0 {
		return fmt.Errorf("DB_POOL_MIN must be non-negative")
	}
	if c.Database.PoolMax < 1 {
		return fmt.Errorf("DB_POOL_MAX must be at least 1")
	}
	if c.Database.PoolMin > c.Database.PoolMax {
		return fmt.Errorf("DB_POOL_MIN must be less than or equal to DB_POOL_MAX")
	}

	if len(c.CORS.Origins) == 0 {
		return fmt.Errorf("CORS_ORIGINS is required")
	}

	// The /tour page embeds this regardless of whether the engine runs.
	if c.Tour.EmbedURL == "" {
		return fmt.Errorf("TOUR_EMBED_URL is required")
	}

	if c.Tour.Enabled {
		if c.Tour.InventoryURL == "" {
			return fmt.Errorf("TOUR_INVENTORY_URL is required when the tour engine is enabled")
		}
		if c.Tour.PageURL == "" {
			return fmt.Errorf("TOUR_PAGE_URL is required when the tour engine is enabled")
		}
		if c.Tour.SyncInterval <= 0 {
			return fmt.Errorf("TOUR_SYNC_INTERVAL must be positive")
		}
		if c.Tour.DiscoveryInterval <= 0 {
			return fmt.Errorf("TOUR_DISCOVERY_INTERVAL must be positive")
		}
		if c.Tour.DiscoveryMaxAttempts < 1 {
			return fmt.Errorf("TOUR_DISCOVERY_MAX_ATTEMPTS must be at least 1")
		}
	}

	return nil
}

// parseList splits a comma-separated string into a slice, dropping blanks.
func parseList(value string) []string {
	if value == "" {
		return []string{}
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// parsePairs parses "key1=value1,key2=value2" into a map. Entries without
// an equals sign are ignored.
func parsePairs(value string) map[string]string {
	result := make(map[string]string)
	for _, part := range strings.Split(value, ",") {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		key, val, ok := strings.Cut(trimmed, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		val = strings.TrimSpace(val)
		if key != "" && val != "" {
			result[key] = val
		}
	}
	return result
}
