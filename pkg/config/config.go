// Package config loads the settings shared by the command line tools.
//
// Settings live in a YAML file whose keys match the mapstructure tags of Config. Keys left out of
// the file keep their Default value.
package config

import (
	"os"

	"github.com/duck-darkIRK/notepad-advise/pkg/model"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type Config struct {
	MinWeight       uint64 `mapstructure:"min_weight" yaml:"min_weight"`
	MaxWeight       uint64 `mapstructure:"max_weight" yaml:"max_weight"`
	IncludeOptional bool   `mapstructure:"include_optional" yaml:"include_optional"`
	Policy          string `mapstructure:"policy" yaml:"policy"`
	Fallback        string `mapstructure:"fallback" yaml:"fallback"`
	RoundCeiling    uint64 `mapstructure:"round_ceiling" yaml:"round_ceiling"`
	MaxPaths        uint64 `mapstructure:"max_paths" yaml:"max_paths"`
	Seed            uint64 `mapstructure:"seed" yaml:"seed"` // 0 draws a new seed on every run
	Concurrency     int    `mapstructure:"concurrency" yaml:"concurrency"`
}

func Default() Config {
	return Config{
		MinWeight:       14,
		MaxWeight:       20,
		IncludeOptional: true,
		Policy:          model.Random.String(),
		Fallback:        model.TakeRemaining.String(),
		RoundCeiling:    model.DefaultRoundCeiling,
		MaxPaths:        model.DefaultMaxPaths,
		Concurrency:     4,
	}
}

// Load reads the file at path over the defaults. An empty path returns the defaults
func Load(path string) (Config, error) {
	config := Default()
	if path == "" {
		return config, nil
	}

	bytes, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "cannot read config file")
	}

	var configMap map[string]any
	if err := yaml.Unmarshal(bytes, &configMap); err != nil {
		return Config{}, errors.Wrapf(err, "cannot parse %v", path)
	}

	if err := Decode(configMap, &config); err != nil {
		return Config{}, err
	}
	return config, config.Validate()
}

// Decode writes the keys of configMap over config. Unknown keys are an error
func Decode(configMap map[string]any, config *Config) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      config,
		ErrorUnused: true,
	})
	if err != nil {
		return err
	}
	return errors.Wrap(decoder.Decode(configMap), "cannot decode config")
}

func (config Config) Validate() error {
	if config.MinWeight > config.MaxWeight || config.MaxWeight == 0 {
		return model.InvalidRangeError{Min: config.MinWeight, Max: config.MaxWeight}
	} else if config.RoundCeiling == 0 {
		return errors.New("round_ceiling must be positive")
	} else if config.MaxPaths == 0 {
		return errors.New("max_paths must be positive")
	} else if config.Concurrency < 0 {
		return errors.Errorf("concurrency cannot be negative: %v", config.Concurrency)
	}

	if _, err := model.ParseSelectionPolicy(config.Policy); err != nil {
		return err
	}
	if _, err := model.ParseFallbackPolicy(config.Fallback); err != nil {
		return err
	}
	return nil
}

func (config Config) SelectionPolicy() (model.SelectionPolicy, error) {
	return model.ParseSelectionPolicy(config.Policy)
}

// Options translates the search settings into pathfinder options
func (config Config) Options(logger *zap.Logger) ([]model.Option, error) {
	fallback, err := model.ParseFallbackPolicy(config.Fallback)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return []model.Option{
		model.WithFallback(fallback),
		model.WithRoundCeiling(config.RoundCeiling),
		model.WithMaxPaths(config.MaxPaths),
		model.WithSeed(config.Seed),
		model.WithLogger(logger),
	}, nil
}
