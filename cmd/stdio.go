package cmd

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/melkeydev/mcp-odata/mcp"
	"github.com/spf13/cobra"
)

var stdioCmd = &cobra.Command{
	Use:   "stdio",
	Short: "Serve the OData tools over MCP stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		defer a.store.Close()

		// Create a new MCP server
		s := server.NewMCPServer(
			"mcp-odata",
			Version,
			server.WithToolCapabilities(false),
			server.WithLogging(),
		)

		mcp.RegisterTools(s, a.service)
		a.logger.Info("connected", "database", a.cfg.Database.DBType)

		// Start the stdio server
		return server.ServeStdio(s)
	},
}
