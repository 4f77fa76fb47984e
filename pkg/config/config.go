// Package config loads and validates the astromcp service configuration.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// FromViper unmarshals the full configuration out of a viper instance
// prepared by InitViper.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, nil
}

// Validate fails fast when required fields are absent or inconsistent.
// Called once at startup before any component is constructed.
func (c *Config) Validate() error {
	if c.Auth.Token == "" {
		return errors.New("auth token is required (set AUTH_TOKEN)")
	}
	if c.Auth.PhoneNumber == "" {
		return errors.New("owner phone number is required (set MY_NUMBER)")
	}

	switch c.Storage.FallbackPolicy {
	case FallbackDegrade, FallbackStrict:
	default:
		return fmt.Errorf("unknown storage.fallback_policy %q (expected %q or %q)",
			c.Storage.FallbackPolicy, FallbackDegrade, FallbackStrict)
	}

	if c.OpenAI.TimeoutSeconds <= 0 {
		return errors.New("openai.timeout_seconds must be positive")
	}
	if c.Webhook.TimeoutSeconds <= 0 {
		return errors.New("webhook.timeout_seconds must be positive")
	}

	return nil
}
