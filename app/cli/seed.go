package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"KisanGPT/app/storage"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the fertilizer table and load the reference dosages",
	Long:  `Insert the reference N-P-K dosages for every crop not yet in the table. Safe to re-run.`,
	RunE:  runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := storage.NewSQLiteStore(cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck

	added, err := db.Seed(cmd.Context(), storage.ReferenceDosages)
	if err != nil {
		return err
	}
	all, err := db.All(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✅ Seeded %d new crop(s), %d crop(s) in table\n", added, len(all))
	return nil
}
