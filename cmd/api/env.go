package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/text/language"

	"go-chi-calculator/internal/calculator"
)

// loadDotEnv loads environment variables from .env when present.
// Existing process environment variables are not overridden.
func loadDotEnv() error {
	err := godotenv.Load()
	if err == nil {
		return nil
	}

	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return fmt.Errorf("load .env: %w", err)
}

// config is read from the environment once at startup.
type config struct {
	Addr        string
	LogLevel    string
	IdleTimeout time.Duration
	Calculator  calculator.Config
}

func loadConfig() (config, error) {
	cfg := config{
		Addr:     envOr("CALC_ADDR", ":8080"),
		LogLevel: envOr("LOG_LEVEL", "info"),
	}

	var err error

	cfg.IdleTimeout, err = time.ParseDuration(envOr("CALC_SESSION_IDLE_TIMEOUT", "30m"))
	if err != nil {
		return config{}, fmt.Errorf("CALC_SESSION_IDLE_TIMEOUT: %w", err)
	}
	if cfg.IdleTimeout <= 0 {
		return config{}, fmt.Errorf("CALC_SESSION_IDLE_TIMEOUT: must be positive, got %s", cfg.IdleTimeout)
	}

	cfg.Calculator.ErrorClearDelay, err = time.ParseDuration(envOr("CALC_ERROR_CLEAR_DELAY", "1.5s"))
	if err != nil {
		return config{}, fmt.Errorf("CALC_ERROR_CLEAR_DELAY: %w", err)
	}

	cfg.Calculator.Locale, err = language.Parse(envOr("CALC_LOCALE", "en"))
	if err != nil {
		return config{}, fmt.Errorf("CALC_LOCALE: %w", err)
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
