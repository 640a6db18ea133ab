package cli

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"KisanGPT/app/server"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Expose the ask tool over the Model Context Protocol.

By default the server speaks JSON-RPC over stdio. Use --addr to serve
streamable HTTP instead.

  kisangpt mcp
  kisangpt mcp --addr :8090`,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().String("addr", "", "HTTP listen address (empty = stdio)")
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, _ []string) error {
	app, err := loadApp()
	if err != nil {
		return err
	}
	defer app.Close() //nolint:errcheck

	s := server.NewMCPServer(app.Config.Server.Name, app.Chat)
	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		return s.Run(cmd.Context())
	}

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-cmd.Context().Done()
		httpServer.Shutdown(context.Background()) //nolint:errcheck
	}()

	log.Printf("🚀 MCP server listening on %s", addr)
	if err = httpServer.ListenAndServe(); err == http.ErrServerClosed {
		return nil
	}
	return err
}
