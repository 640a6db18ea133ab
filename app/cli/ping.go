package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check the vector store collection is reachable",
	Long:  `Fetch the collection status and point count. Exits non-zero when the store cannot be reached.`,
	RunE:  runPing,
}

func init() {
	pingCmd.Flags().Duration("timeout", 10*time.Second, "request timeout")
	rootCmd.AddCommand(pingCmd)
}

func runPing(cmd *cobra.Command, _ []string) error {
	app, err := loadApp()
	if err != nil {
		return err
	}
	defer app.Close() //nolint:errcheck

	timeout, _ := cmd.Flags().GetDuration("timeout")
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	info, err := app.Ping(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✅ Collection %s: status=%s points=%d\n", info.Name, info.Status, info.Points)
	return nil
}
