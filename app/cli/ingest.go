package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"KisanGPT/app/utils"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Rebuild the vector index from a document folder",
	Long: `Drop and recreate the vector collection, then chunk, tag, embed and
upload every .pdf, .txt, .md and .html file under the folder.
Unreadable documents are skipped and listed at the end.`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().String("folder", "", "document folder (overrides ingest.folder)")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, _ []string) error {
	app, err := loadApp()
	if err != nil {
		return err
	}
	defer app.Close() //nolint:errcheck

	folder := app.Config.Ingest.Folder
	if f, _ := cmd.Flags().GetString("folder"); f != "" {
		folder = f
	}

	logger, err := utils.NewJobLogger("logs", "ingest", utils.ColorCyan)
	if err != nil {
		return err
	}
	defer logger.Close() //nolint:errcheck

	summary, err := app.Ingestion(logger).Run(cmd.Context(), folder)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, summary.Tree())
	if skipped := summary.Skipped(); len(skipped) > 0 {
		fmt.Fprintf(out, "⚠️ %d document(s) skipped:\n", len(skipped))
		for _, e := range skipped {
			fmt.Fprintf(out, "  - %v\n", e)
		}
	}
	fmt.Fprintf(out, "✅ Ingestion complete: %d points\n", summary.Points)
	return nil
}
