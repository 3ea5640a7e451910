// Package config loads the danlab.yaml configuration file.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/CChelak/dan-lab/internal/domain"
)

// DefaultFileName is the config file looked for in the working directory.
const DefaultFileName = "danlab.yaml"

// Load reads and validates the config at path.
func Load(path string) (domain.Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return domain.Config{}, &domain.OpError{
			Op:   "config.load",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var dto YAMLConfig
	if err := yaml.Unmarshal(b, &dto); err != nil {
		return domain.Config{}, &domain.OpError{
			Op:   "config.load",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	return MapConfig(path, dto)
}

// LoadOrDefault loads the config at path, falling back to the defaults when
// the file does not exist. Other failures still surface.
func LoadOrDefault(path string) (domain.Config, error) {
	cfg, err := Load(path)
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			return domain.DefaultConfig(), nil
		}
		return domain.Config{}, err
	}
	return cfg, nil
}
