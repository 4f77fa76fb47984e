// Package servecmder provides the serve command running the MCP server.
package servecmder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/celestio/astromcp/api"
	"github.com/celestio/astromcp/api/mcp"
	"github.com/celestio/astromcp/pkg/config"
	"github.com/celestio/astromcp/pkg/insight"
	openaiinsight "github.com/celestio/astromcp/pkg/insight/openai"
	"github.com/celestio/astromcp/pkg/logger"
	"github.com/celestio/astromcp/pkg/profile"
	"github.com/celestio/astromcp/pkg/profile/fallback"
	"github.com/celestio/astromcp/pkg/profile/inmemory"
	"github.com/celestio/astromcp/pkg/profile/qdrant"
	"github.com/celestio/astromcp/pkg/profile/webhook"
)

type ServeCommander struct {
	listen    string
	configDir string
	debug     bool
	logger    *slog.Logger
}

const serveLongDesc string = `Run the astrologer MCP server.

Serves the MCP tool endpoint on /mcp (bearer auth required) plus the
status page on / and the health check on /health.`

const serveShortDesc string = "Run the MCP server"

const keyCheckTimeout = 10 * time.Second

func NewServeCmd() *cobra.Command {
	cmder := &ServeCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}
			cmder.configDir, err = cmd.Flags().GetString("config-dir")
			if err != nil {
				return fmt.Errorf("could not get config-dir flag: %w", err)
			}
			return cmder.run(cmd)
		},
	}

	cmd.Flags().StringVarP(&cmder.listen, "listen", "l", "", "Address to listen on (overrides config)")

	return cmd
}

func (c *ServeCommander) run(cmd *cobra.Command) error {
	v, err := config.InitViper(c.configDir)
	if err != nil {
		return err
	}

	if f := cmd.Flags().Lookup("listen"); f != nil && f.Changed {
		if err := v.BindPFlag("server.listen", f); err != nil {
			return fmt.Errorf("binding listen flag: %w", err)
		}
	}

	cfg, err := config.FromViper(v)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.OpenAI.APIKey == "" {
		return errors.New("openai API key is required (set OPENAI_API_KEY)")
	}

	closeLogs, err := c.setupLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLogs()

	store, backend, err := c.createStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	generator, err := openaiinsight.NewClient(openaiinsight.Config{
		APIKey:  cfg.OpenAI.APIKey,
		Model:   cfg.OpenAI.Model,
		BaseURL: cfg.OpenAI.BaseURL,
		Timeout: time.Duration(cfg.OpenAI.TimeoutSeconds) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("creating insight generator: %w", err)
	}

	c.checkOpenAIKey(cmd.Context(), generator)

	mcpServer, err := mcp.NewServer(mcp.Config{
		Store:       store,
		Generator:   generator,
		AuthToken:   cfg.Auth.Token,
		PhoneNumber: cfg.Auth.PhoneNumber,
		Logger:      c.logger,
	})
	if err != nil {
		return fmt.Errorf("creating MCP server: %w", err)
	}

	apiServer, err := api.NewServer(api.Config{
		ListenAddr:       cfg.Server.Listen,
		StorageBackend:   backend,
		OpenAIConfigured: true,
	}, mcpServer.Handler(), c.logger)
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}

	c.logger.Info("starting astromcp",
		"listen", cfg.Server.Listen,
		"storage", backend,
		"model", cfg.OpenAI.Model,
	)

	errChan := make(chan error, 1)
	go func() {
		if err := apiServer.Run(); err != nil {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", "signal", sig.String())
		return apiServer.Shutdown()
	}
}

// setupLogger builds the process logger: pretty output on stdout, plus a
// JSON mirror when log.file is configured. Returns a cleanup closing the
// log file.
func (c *ServeCommander) setupLogger(cfg *config.Config) (func(), error) {
	base := logger.New(
		logger.WithDebug(c.debug),
		logger.WithPretty(true),
	)

	if cfg.Log.File == "" {
		c.logger = base
		return func() {}, nil
	}

	logFile, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}

	fileLogger := logger.New(
		logger.WithDebug(c.debug),
		logger.WithJSON(true),
		logger.WithWriter(logFile),
	)

	c.logger = logger.Multi(base, fileLogger)
	return func() { _ = logFile.Close() }, nil
}

// createStore picks the primary profile store from config and wraps it with
// the in-memory fallback. With neither Qdrant nor the webhook configured,
// profiles live in memory only.
func (c *ServeCommander) createStore(cfg *config.Config) (profile.Store, string, error) {
	var (
		primary profile.Store
		backend string
	)

	switch {
	case cfg.Qdrant.Host != "":
		driver, err := qdrant.NewDriver(qdrant.Config{
			Host:   cfg.Qdrant.Host,
			Port:   cfg.Qdrant.Port,
			APIKey: cfg.Qdrant.APIKey,
			UseTLS: cfg.Qdrant.UseTLS,
		})
		if err != nil {
			return nil, "", fmt.Errorf("creating qdrant store: %w", err)
		}
		primary, backend = driver, "qdrant"

	case cfg.Webhook.URL != "":
		driver, err := webhook.NewDriver(webhook.Config{
			URL:     cfg.Webhook.URL,
			Secret:  cfg.Webhook.Secret,
			Timeout: time.Duration(cfg.Webhook.TimeoutSeconds) * time.Second,
		})
		if err != nil {
			return nil, "", fmt.Errorf("creating webhook store: %w", err)
		}
		primary, backend = driver, "webhook"

	default:
		c.logger.Warn("no remote profile store configured, profiles are volatile")
		return inmemory.NewDriver(), "memory", nil
	}

	store, err := fallback.New(
		primary,
		inmemory.NewDriver(),
		fallback.Policy(cfg.Storage.FallbackPolicy),
		c.logger,
	)
	if err != nil {
		return nil, "", fmt.Errorf("creating fallback store: %w", err)
	}

	c.logger.Info("using remote profile store",
		"backend", backend,
		"fallback_policy", cfg.Storage.FallbackPolicy,
	)
	return store, backend, nil
}

// checkOpenAIKey verifies the API key with a minimal request. Advisory
// only: a failure is logged and the server still starts.
func (c *ServeCommander) checkOpenAIKey(ctx context.Context, client *openaiinsight.Client) {
	ctx, cancel := context.WithTimeout(ctx, keyCheckTimeout)
	defer cancel()

	if err := client.CheckKey(ctx); err != nil {
		if errors.Is(err, insight.ErrUpstream) {
			c.logger.Warn("openai key check failed, insights may not work", "error", err)
			return
		}
		c.logger.Warn("openai key check inconclusive", "error", err)
		return
	}

	c.logger.Info("openai key check passed")
}
