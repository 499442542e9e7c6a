// Package config loads CLI defaults from environment variables.
// A .env file in the working directory is honored when present, so local
// runs can pin settings without exporting them.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds seller-report settings that flags default from.
type Config struct {
	// Debug enables debug-level logging (SELLER_REPORT_DEBUG).
	Debug bool

	// HumanLog switches to the console log writer (SELLER_REPORT_LOG_HUMAN).
	HumanLog bool

	// DownloadDir is where S3 inputs are staged
	// (SELLER_REPORT_DOWNLOAD_DIR, default: a per-run temp dir).
	DownloadDir string

	// DownloadConcurrency is the number of parallel S3 downloads
	// (SELLER_REPORT_DOWNLOAD_CONCURRENCY, default 4).
	DownloadConcurrency int
}

// Load reads configuration from the environment, first merging in a .env
// file if one exists. Unset values get defaults; malformed values are
// errors.
func Load() (*Config, error) {
	// Missing .env is fine; only surface real read errors.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		DownloadDir:         os.Getenv("SELLER_REPORT_DOWNLOAD_DIR"),
		DownloadConcurrency: 4,
	}

	var err error
	if cfg.Debug, err = boolEnv("SELLER_REPORT_DEBUG"); err != nil {
		return nil, err
	}
	if cfg.HumanLog, err = boolEnv("SELLER_REPORT_LOG_HUMAN"); err != nil {
		return nil, err
	}

	if v := os.Getenv("SELLER_REPORT_DOWNLOAD_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("SELLER_REPORT_DOWNLOAD_CONCURRENCY must be a positive integer, got %q", v)
		}
		cfg.DownloadConcurrency = n
	}

	return cfg, nil
}

func boolEnv(name string) (bool, error) {
	v := os.Getenv(name)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean, got %q", name, v)
	}
	return b, nil
}
