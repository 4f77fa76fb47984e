package config

// Config is the full astromcp service configuration, populated once at
// startup and passed by reference to components.
type Config struct {
	Auth    AuthConfig    `mapstructure:"auth"`
	Server  ServerConfig  `mapstructure:"server"`
	OpenAI  OpenAIConfig  `mapstructure:"openai"`
	Webhook WebhookConfig `mapstructure:"webhook"`
	Qdrant  QdrantConfig  `mapstructure:"qdrant"`
	Storage StorageConfig `mapstructure:"storage"`
	Log     LogConfig     `mapstructure:"log"`
}

// AuthConfig holds the bearer token required on MCP tool calls and the
// owner phone number returned by the validate tool.
type AuthConfig struct {
	Token       string `mapstructure:"token"`
	PhoneNumber string `mapstructure:"phone_number"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Listen string `mapstructure:"listen"`
}

// OpenAIConfig holds settings for the insight generator.
type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`

	// TimeoutSeconds bounds each completion request.
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// WebhookConfig holds settings for the n8n profile webhook.
type WebhookConfig struct {
	URL    string `mapstructure:"url"`
	Secret string `mapstructure:"secret"`

	// TimeoutSeconds bounds each webhook call.
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// QdrantConfig holds settings for the direct Qdrant profile driver.
// When Host is empty the driver is not constructed.
type QdrantConfig struct {
	Host   string `mapstructure:"host"`
	Port   int    `mapstructure:"port"`
	APIKey string `mapstructure:"api_key"`
	UseTLS bool   `mapstructure:"use_tls"`
}

// StorageConfig holds profile store behavior settings.
type StorageConfig struct {
	// FallbackPolicy controls what happens when the primary (remote) store
	// fails a write: "degrade" logs and falls back to the volatile in-memory
	// store, "strict" fails the request.
	FallbackPolicy string `mapstructure:"fallback_policy"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// File is an optional path; when set, JSON logs are mirrored there in
	// addition to pretty stdout output.
	File string `mapstructure:"file"`
}
