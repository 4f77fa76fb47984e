package config

const (
	defaultListen = ":8086"

	defaultOpenAIModel   = "gpt-4o-mini"
	defaultOpenAIBaseURL = "https://api.openai.com"
	defaultOpenAITimeout = 60

	defaultWebhookTimeout = 30

	defaultQdrantPort = 6334

	// FallbackDegrade logs primary store failures and falls back to the
	// in-memory store. FallbackStrict fails the request instead.
	FallbackDegrade = "degrade"
	FallbackStrict  = "strict"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Listen: defaultListen,
		},
		OpenAI: OpenAIConfig{
			Model:          defaultOpenAIModel,
			BaseURL:        defaultOpenAIBaseURL,
			TimeoutSeconds: defaultOpenAITimeout,
		},
		Webhook: WebhookConfig{
			TimeoutSeconds: defaultWebhookTimeout,
		},
		Qdrant: QdrantConfig{
			Port: defaultQdrantPort,
		},
		Storage: StorageConfig{
			FallbackPolicy: FallbackDegrade,
		},
	}
}
