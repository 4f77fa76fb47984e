// Package api provides the HTTP server fronting the astrologer MCP endpoint
// and its status pages.
package api

// Config is the API server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8086")
	ListenAddr string

	// StorageBackend names the active profile store for the status page
	// (e.g., "webhook", "qdrant", "memory")
	StorageBackend string

	// OpenAIConfigured reports whether an OpenAI API key is set
	OpenAIConfigured bool
}
