package config

import (
	"errors"
	"time"
)

var _ Defaults = (*APIConfig)(nil)
var _ Validator = (*APIConfig)(nil)

type APIConfig struct {
	Listen         string        `config:"listen"`
	AllowedOrigins []string      `config:"allowed_origins"`
	ReadTimeout    time.Duration `config:"read_timeout"`
	WriteTimeout   time.Duration `config:"write_timeout"`
}

func (c APIConfig) Defaults() map[string]any {
	return map[string]any{
		"listen":          ":8080",
		"allowed_origins": []string{"*"},
		"read_timeout":    15 * time.Second,
		"write_timeout":   30 * time.Second,
	}
}

func (c APIConfig) Validate() error {
	if c.Listen == "" {
		return errors.New("api.listen is required")
	}

	return nil
}

type LogConfig struct {
	Level       string `config:"level"`
	Development bool   `config:"development"`
}

func (c LogConfig) Defaults() map[string]any {
	return map[string]any{
		"level":       "info",
		"development": false,
	}
}
