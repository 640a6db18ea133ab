package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"KisanGPT/app/eval"
	"KisanGPT/app/utils"
)

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Score the pipeline on the benchmark questions with an LLM judge",
	Long: `Run every benchmark question through retrieval, re-ranking and
generation, grade each answer for faithfulness and relevance, print the
report card and write it as CSV.`,
	RunE: runEval,
}

func init() {
	evalCmd.Flags().String("out", "", "CSV report path (overrides eval.report_path)")
	rootCmd.AddCommand(evalCmd)
}

func runEval(cmd *cobra.Command, _ []string) error {
	app, err := loadApp()
	if err != nil {
		return err
	}
	defer app.Close() //nolint:errcheck

	path := app.Config.Eval.ReportPath
	if p, _ := cmd.Flags().GetString("out"); p != "" {
		path = p
	}

	logger, err := utils.NewJobLogger("logs", "eval", utils.ColorYellow)
	if err != nil {
		return err
	}
	defer logger.Close() //nolint:errcheck

	report, err := app.Evaluation(logger).Run(cmd.Context(), eval.DefaultDataset)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "📊 FINAL REPORT CARD")
	if err = report.PrintTable(out); err != nil {
		return err
	}
	if err = report.SaveCSV(path); err != nil {
		return err
	}
	fmt.Fprintf(out, "✅ Report saved to %s (run %s)\n", path, report.RunID)
	return nil
}
