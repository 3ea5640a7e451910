package domain

import "time"

// Config represents the dan-lab configuration loaded from danlab.yaml.
type Config struct {
	API      APIConfig
	Paths    PathsConfig
	Store    StoreConfig
	Download DownloadConfig
}

type APIConfig struct {
	// GeoMetBaseURL is the root of the climate API.
	GeoMetBaseURL string

	// AlbertaBoundaryURL is the municipal boundary MapServer layer.
	AlbertaBoundaryURL string

	Timeout time.Duration
}

type PathsConfig struct {
	OutputDir    string
	ManifestsDir string
}

type StoreConfig struct {
	// Backend selects the station/observation cache: "memory" or "postgres".
	Backend string

	// DSN is required when Backend is "postgres".
	DSN string
}

type DownloadConfig struct {
	// PageLimit is the items-per-page the API is asked for.
	PageLimit int

	// RetryWait is how long to wait before re-issuing a failed page.
	RetryWait time.Duration
}

// DefaultConfig provides sane defaults if danlab.yaml is partially missing.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			GeoMetBaseURL:      "https://api.weather.gc.ca",
			AlbertaBoundaryURL: "https://geospatial.alberta.ca/titan/rest/services/boundary/urban_and_rural_municipality/MapServer/114",
			Timeout:            100 * time.Second,
		},
		Paths: PathsConfig{
			OutputDir:    "data",
			ManifestsDir: "manifests",
		},
		Store: StoreConfig{
			Backend: "memory",
		},
		Download: DownloadConfig{
			PageLimit: 10000,
			RetryWait: 60 * time.Second,
		},
	}
}
