package cli

import (
	"log"

	"github.com/spf13/cobra"

	"KisanGPT/app/clients"
	"KisanGPT/app/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API:

  POST /api/v1/chat/ask   {"query": "...", "language": "hi"}
  GET  /                  banner
  GET  /metrics           Prometheus metrics
  /mcp                    MCP over streamable HTTP (server.mcp_path)

Enabled chat clients (Discord) are started alongside.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (overrides server.addr)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	app, err := loadApp()
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Printf("⚠️ Error closing app: %v", err)
		}
	}()

	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		app.Config.Server.Addr = addr
	}

	ctx := cmd.Context()
	registry := clients.NewRegistry()
	defer registry.CloseAll()

	chatClients, err := clients.CreateClients(app.Config)
	if err != nil {
		return err
	}
	for _, c := range chatClients {
		if err := registry.Register(ctx, c, app.Chat); err != nil {
			log.Printf("⚠️ Error starting chat client: %v", err)
		}
	}
	if n := len(registry.GetAll()); n > 0 {
		log.Printf("🔌 %d chat client(s) listening", n)
	}

	return server.NewHTTPServer(app.Config.Server, app.Chat).Run(ctx)
}
