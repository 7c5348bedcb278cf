package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Load reads and validates the application configuration. When no explicit
// path is given it searches the usual locations relative to the working
// directory. Missing values fall back to the production defaults.
func Load(path string) (*AppConfig, error) {
	paths := []string{"config.yml", "./config/config.yml"}
	if path != "" {
		paths = []string{path}
	}
	var data []byte
	var err error
	for _, p := range paths {
		data, err = os.ReadFile(p)
		if err == nil {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the built-in configuration, used when no config file is
// present.
func Default() *AppConfig {
	cfg := &AppConfig{}
	cfg.applyDefaults()
	return cfg
}

func (c *AppConfig) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 17090
	}
	if c.Feed.PollIntervalMS == 0 {
		c.Feed.PollIntervalMS = 5000
	}
	if c.Feed.TimeoutMS == 0 {
		c.Feed.TimeoutMS = 10000
	}
	if c.Animation.DurationMS == 0 {
		c.Animation.DurationMS = 3000
	}
	if c.Animation.JitterThresholdMeters == 0 {
		c.Animation.JitterThresholdMeters = 12
	}
	if c.Animation.SnapSearchRadius == 0 {
		c.Animation.SnapSearchRadius = 80
	}
	if c.Animation.BackwardEpsilon == 0 {
		c.Animation.BackwardEpsilon = 1e-3
	}
	if c.Animation.FrameIntervalMS == 0 {
		c.Animation.FrameIntervalMS = 33
	}
	if c.Cache.MaxEntries == 0 {
		c.Cache.MaxEntries = 64
	}
}
