// Package collectionscmder provides the collections command for
// provisioning the Qdrant collections the profile store writes to.
package collectionscmder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/celestio/astromcp/pkg/config"
	"github.com/celestio/astromcp/pkg/logger"
	"github.com/celestio/astromcp/pkg/profile/qdrant"
)

type CollectionsCommander struct {
	configDir string
	debug     bool
}

const collectionsLongDesc string = `Create the Qdrant collections used for profile storage.

Safe to run repeatedly: collections that already exist are left alone.`

const collectionsShortDesc string = "Provision Qdrant collections"

const ensureTimeout = 30 * time.Second

func NewCollectionsCmd() *cobra.Command {
	cmder := &CollectionsCommander{}

	cmd := &cobra.Command{
		Use:   "collections",
		Short: collectionsShortDesc,
		Long:  collectionsLongDesc,
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
			return cmder.run(cmd.Context())
		},
	}

	return cmd
}

func (c *CollectionsCommander) run(ctx context.Context) error {
	log := logger.New(
		logger.WithDebug(c.debug),
		logger.WithPretty(true),
	)

	v, err := config.InitViper(c.configDir)
	if err != nil {
		return err
	}
	cfg, err := config.FromViper(v)
	if err != nil {
		return err
	}

	if cfg.Qdrant.Host == "" {
		return errors.New("qdrant host is required (set QDRANT_HOST)")
	}

	driver, err := qdrant.NewDriver(qdrant.Config{
		Host:   cfg.Qdrant.Host,
		Port:   cfg.Qdrant.Port,
		APIKey: cfg.Qdrant.APIKey,
		UseTLS: cfg.Qdrant.UseTLS,
	})
	if err != nil {
		return fmt.Errorf("creating qdrant client: %w", err)
	}
	defer driver.Close()

	ctx, cancel := context.WithTimeout(ctx, ensureTimeout)
	defer cancel()

	if err := driver.EnsureCollections(ctx); err != nil {
		return fmt.Errorf("ensuring collections: %w", err)
	}

	log.Info("qdrant collections ready",
		"profiles", qdrant.ProfilesCollection,
		"sessions", qdrant.SessionsCollection,
	)
	return nil
}
