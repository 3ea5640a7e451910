package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/CChelak/dan-lab/internal/domain"
)

// MapConfig overlays the YAML values onto the defaults and validates the
// result. Fields left empty in the file keep their default.
func MapConfig(path string, yc YAMLConfig) (domain.Config, error) {
	cfg := domain.DefaultConfig()

	if v := strings.TrimSpace(yc.API.GeoMetBaseURL); v != "" {
		cfg.API.GeoMetBaseURL = strings.TrimRight(v, "/")
	}
	if v := strings.TrimSpace(yc.API.AlbertaBoundaryURL); v != "" {
		cfg.API.AlbertaBoundaryURL = strings.TrimRight(v, "/")
	}
	if v := strings.TrimSpace(yc.API.Timeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return domain.Config{}, invalidField(path, "api.timeout", err.Error())
		}
		cfg.API.Timeout = d
	}

	if v := strings.TrimSpace(yc.Paths.OutputDir); v != "" {
		cfg.Paths.OutputDir = v
	}
	if v := strings.TrimSpace(yc.Paths.ManifestsDir); v != "" {
		cfg.Paths.ManifestsDir = v
	}

	if v := strings.TrimSpace(yc.Store.Backend); v != "" {
		cfg.Store.Backend = v
	}
	cfg.Store.DSN = strings.TrimSpace(yc.Store.DSN)

	switch cfg.Store.Backend {
	case "memory":
	case "postgres":
		if cfg.Store.DSN == "" {
			return domain.Config{}, invalidField(path, "store.dsn", "dsn is required for the postgres backend")
		}
	default:
		return domain.Config{}, invalidField(path, "store.backend",
			fmt.Sprintf("unknown backend %q, expected memory or postgres", cfg.Store.Backend))
	}

	if yc.Download.PageLimit != nil {
		if *yc.Download.PageLimit <= 0 {
			return domain.Config{}, invalidField(path, "download.page_limit", "page limit must be positive")
		}
		cfg.Download.PageLimit = *yc.Download.PageLimit
	}
	if v := strings.TrimSpace(yc.Download.RetryWait); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return domain.Config{}, invalidField(path, "download.retry_wait", err.Error())
		}
		cfg.Download.RetryWait = d
	}

	return cfg, nil
}

func invalidField(path, field, msg string) error {
	return &domain.OpError{
		Op:   "config.map",
		Kind: domain.KindInvalidConfig,
		Path: path,
		Err:  fmt.Errorf("field %s: %s: %w", field, msg, domain.ErrInvalidConfig),
	}
}
