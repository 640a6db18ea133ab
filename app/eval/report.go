package eval

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"
)

type Row struct {
	Query        string
	Type         string
	Faithfulness int
	Relevance    int
	Reason       string
}

type Report struct {
	RunID string
	Rows  []Row
}

var csvHeader = []string{"Query", "Type", "Faithfulness", "Relevance", "Reason"}

func (r *Report) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, row := range r.Rows {
		if err := cw.Write([]string{
			row.Query,
			row.Type,
			strconv.Itoa(row.Faithfulness),
			strconv.Itoa(row.Relevance),
			row.Reason,
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (r *Report) SaveCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err = r.WriteCSV(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write report: %w", err)
	}
	return f.Close()
}

// Averages returns mean faithfulness (0..1) and relevance (1..5).
func (r *Report) Averages() (faithfulness, relevance float64) {
	if len(r.Rows) == 0 {
		return 0, 0
	}
	for _, row := range r.Rows {
		faithfulness += float64(row.Faithfulness)
		relevance += float64(row.Relevance)
	}
	n := float64(len(r.Rows))
	return faithfulness / n, relevance / n
}

// PrintTable writes the report card shown at the end of an eval run.
func (r *Report) PrintTable(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tQuery\tFaithfulness\tRelevance")
	for i, row := range r.Rows {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\n", i, row.Query, row.Faithfulness, row.Relevance)
	}
	f, rel := r.Averages()
	fmt.Fprintf(tw, "\tmean\t%.2f\t%.2f\n", f, rel)
	return tw.Flush()
}
