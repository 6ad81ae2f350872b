package config

import (
	"log"
	"os"
	"strings"
)

const (
	defaultDBPath   = "./dev.db"
	defaultPort     = "8080"
	defaultCurrency = "£"
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	DBPath         string
	Port           string
	AppEnv         string
	TariffFile     string
	CurrencySymbol string
	OTLPEndpoint   string
	WebDir         string
}

// IsDev reports whether the process runs in local development, where
// migrations and the tariff seed are applied at startup.
func (c Config) IsDev() bool {
	return strings.EqualFold(c.AppEnv, "dev") || strings.EqualFold(c.AppEnv, "development")
}

// Load reads environment variables and returns a populated Config.
func Load() Config {
	// Best-effort: production should use real env injection.
	n, err := loadDotEnv(".env")
	if err != nil {
		log.Printf("warning: .env: %v", err)
	} else if n > 0 {
		log.Printf("loaded %d variables from .env", n)
	}

	cfg := Config{
		DBPath:         os.Getenv("DB_PATH"),
		Port:           os.Getenv("PORT"),
		AppEnv:         os.Getenv("APP_ENV"),
		TariffFile:     os.Getenv("TARIFF_FILE"),
		CurrencySymbol: os.Getenv("CURRENCY_SYMBOL"),
		OTLPEndpoint:   os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		WebDir:         os.Getenv("WEB_DIR"),
	}

	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath
	}
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}
	if cfg.CurrencySymbol == "" {
		cfg.CurrencySymbol = defaultCurrency
	}

	if cfg.TariffFile != "" {
		if _, err := os.Stat(cfg.TariffFile); err != nil {
			log.Printf("warning: TARIFF_FILE %s: %v", cfg.TariffFile, err)
		}
	}

	return cfg
}
