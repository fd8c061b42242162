package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/concilia-dev/concilia/internal/chart"
	"github.com/concilia-dev/concilia/internal/config"
	"github.com/concilia-dev/concilia/internal/model"
	"github.com/concilia-dev/concilia/internal/payments"
	"github.com/concilia-dev/concilia/internal/recon"
	"github.com/concilia-dev/concilia/internal/statement"
)

func newReconcileCommand() *cobra.Command {
	var (
		configPath   string
		paymentsPath string
		chartPairs   []string
		extractPairs []string
		format       string
		outputPath   string
	)

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Reconcile the payment ledger against bank statements",
		Long: `Reconcile matches payment records to bank statement movements, classifies
each movement against the chart of accounts and writes the standardized
ledger CSV. Emission is refused while unclassified items remain.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReconcile(configPath, paymentsPath, chartPairs, extractPairs, format, outputPath)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "concilia.yaml", "ruleset file")
	cmd.Flags().StringVar(&paymentsPath, "payments", "", "payment ledger CSV (required)")
	cmd.Flags().StringArrayVar(&chartPairs, "chart", nil, "chart table as scope=path; scope 'suppliers' is the counterparty table (repeatable)")
	cmd.Flags().StringArrayVar(&extractPairs, "statement", nil, "bank extract as channel=path (repeatable)")
	cmd.Flags().StringVar(&format, "format", "cdsuffix", "statement format: signed or cdsuffix")
	cmd.Flags().StringVar(&outputPath, "output", "lancamentos.csv", "output ledger CSV")
	_ = cmd.MarkFlagRequired("payments")
	_ = cmd.MarkFlagRequired("chart")

	return cmd
}

func runReconcile(configPath, paymentsPath string, chartPairs, extractPairs []string, format, outputPath string) error {
	rules, err := config.Load(configPath)
	if err != nil {
		return err
	}

	parser := statement.DefaultRegistry().Get(format)
	if parser == nil {
		return fmt.Errorf("unknown statement format %q", format)
	}

	var in recon.Inputs

	index := chart.NewIndex()
	for _, pair := range chartPairs {
		scope, path, err := splitPair(pair)
		if err != nil {
			return fmt.Errorf("--chart %q: %w", pair, err)
		}
		warnings, err := loadChartFile(index, model.Scope(scope), path)
		if err != nil {
			return fmt.Errorf("chart %s: %w", path, err)
		}
		in.Warnings = append(in.Warnings, warnings...)
	}

	in.Payments, in.ParseIssues, err = loadPaymentsFile(paymentsPath)
	if err != nil {
		return fmt.Errorf("payments %s: %w", paymentsPath, err)
	}

	for _, pair := range extractPairs {
		channel, path, err := splitPair(pair)
		if err != nil {
			return fmt.Errorf("--statement %q: %w", pair, err)
		}
		entries, issues, err := loadStatementFile(parser, channel, path)
		if err != nil {
			return fmt.Errorf("statement %s: %w", path, err)
		}
		in.Entries = append(in.Entries, entries...)
		in.ParseIssues = append(in.ParseIssues, issues...)
	}

	report := recon.Run(rules, index, in)
	printSummary(report)

	if !report.OK() {
		for _, item := range report.Unclassified {
			fmt.Fprintf(os.Stderr, "unclassified: %s\n", item.Reason)
		}
		return fmt.Errorf("%d unclassified items; fix the chart and re-run", len(report.Unclassified))
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	defer f.Close()

	if err := report.WriteCSV(f); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	fmt.Printf("Wrote %d rows to %s\n", len(report.Rows), outputPath)
	return nil
}

func printSummary(r *recon.Report) {
	fmt.Printf("Run %s (%s)\n", r.RunID, r.Company)
	fmt.Printf("  payments: %d  matched: %d (%.1f%%)  unmatched: %d\n",
		r.TotalPayments, r.MatchedCount, r.MatchRate*100, r.UnmatchedPayments)
	fmt.Printf("  statement entries: %d  direct: %d  informational: %d\n",
		r.TotalEntries, r.UnmatchedEntries, r.InformationalRows)
	fmt.Printf("  reconciled value: %s  parse issues: %d  warnings: %d\n",
		r.TotalReconciled.StringFixed(2), len(r.ParseIssues), len(r.Warnings))
}

// splitPair parses a "name=path" flag value.
func splitPair(pair string) (name, path string, err error) {
	name, path, ok := strings.Cut(pair, "=")
	if !ok || name == "" || path == "" {
		return "", "", fmt.Errorf("expected name=path")
	}
	return name, path, nil
}

func loadChartFile(index *chart.Index, scope model.Scope, path string) ([]model.RowIssue, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return chart.Load(index, scope, f)
}

func loadPaymentsFile(path string) ([]model.PaymentRecord, []model.RowIssue, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	return payments.Load(f)
}

func loadStatementFile(parser statement.Parser, channel, path string) ([]model.StatementEntry, []model.RowIssue, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	return parser.Parse(channel, f)
}
