package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// InitViper creates and returns a configured *viper.Viper.
// It sets defaults from NewDefaultConfig(), reads config.toml from configDir
// (if given), and binds environment variables.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound by the command)
//  2. Environment variables (AUTH_TOKEN, MY_NUMBER, OPENAI_API_KEY, ...)
//  3. config.toml file values
//  4. Defaults from NewDefaultConfig()
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	setViperDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("toml")

	if configDir != "" {
		v.AddConfigPath(configDir)

		if err := v.ReadInConfig(); err != nil {
			// A missing config file is fine, defaults will apply.
			if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	// Generic env binding: ASTROMCP_SERVER_LISTEN, ASTROMCP_LOG_FILE, etc.
	v.SetEnvPrefix("ASTROMCP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The deployment contract uses a handful of well-known unprefixed
	// variables; bind those explicitly on top of the generic scheme.
	bindWellKnownEnv(v)

	return v, nil
}

// bindWellKnownEnv binds the unprefixed environment variables this service
// has always been deployed with.
func bindWellKnownEnv(v *viper.Viper) {
	_ = v.BindEnv("auth.token", "ASTROMCP_AUTH_TOKEN", "AUTH_TOKEN")
	_ = v.BindEnv("auth.phone_number", "ASTROMCP_AUTH_PHONE_NUMBER", "MY_NUMBER")
	_ = v.BindEnv("openai.api_key", "ASTROMCP_OPENAI_API_KEY", "OPENAI_API_KEY")
	_ = v.BindEnv("webhook.url", "ASTROMCP_WEBHOOK_URL", "N8N_WEBHOOK_URL")
	_ = v.BindEnv("webhook.secret", "ASTROMCP_WEBHOOK_SECRET", "N8N_WEBHOOK_SECRET")
	_ = v.BindEnv("qdrant.host", "ASTROMCP_QDRANT_HOST", "QDRANT_HOST")
	_ = v.BindEnv("qdrant.api_key", "ASTROMCP_QDRANT_API_KEY", "QDRANT_API_KEY")
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. This keeps defaults.go as the single source of truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("auth.token", d.Auth.Token)
	v.SetDefault("auth.phone_number", d.Auth.PhoneNumber)

	v.SetDefault("server.listen", d.Server.Listen)

	v.SetDefault("openai.api_key", d.OpenAI.APIKey)
	v.SetDefault("openai.model", d.OpenAI.Model)
	v.SetDefault("openai.base_url", d.OpenAI.BaseURL)
	v.SetDefault("openai.timeout_seconds", d.OpenAI.TimeoutSeconds)

	v.SetDefault("webhook.url", d.Webhook.URL)
	v.SetDefault("webhook.secret", d.Webhook.Secret)
	v.SetDefault("webhook.timeout_seconds", d.Webhook.TimeoutSeconds)

	v.SetDefault("qdrant.host", d.Qdrant.Host)
	v.SetDefault("qdrant.port", d.Qdrant.Port)
	v.SetDefault("qdrant.api_key", d.Qdrant.APIKey)
	v.SetDefault("qdrant.use_tls", d.Qdrant.UseTLS)

	v.SetDefault("storage.fallback_policy", d.Storage.FallbackPolicy)

	v.SetDefault("log.file", d.Log.File)
}
