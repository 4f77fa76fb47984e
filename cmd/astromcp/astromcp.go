// Package astromcpcmder
package astromcpcmder

import (
	"github.com/spf13/cobra"

	collectionscmder "github.com/celestio/astromcp/cmd/astromcp/collections"
	servecmder "github.com/celestio/astromcp/cmd/astromcp/serve"
	versioncmder "github.com/celestio/astromcp/cmd/version"
)

const astromcpLongDesc string = `Astromcp is an astrologer MCP server.

Run services using:
  astromcp serve          Run the MCP server
  astromcp collections    Provision the Qdrant collections`

const astromcpShortDesc string = "Astromcp - Astrologer MCP Server"

func NewAstromcpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "astromcp",
		Short: astromcpShortDesc,
		Long:  astromcpLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Directory containing config.toml")

	// Add subcommands
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(collectionscmder.NewCollectionsCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
