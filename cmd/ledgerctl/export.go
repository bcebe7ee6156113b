package main

import (
	"fmt"
	"os"

	"github.com/irazshakir/ArazitCRM-Production/common"
	"github.com/irazshakir/ArazitCRM-Production/lib/service"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:       "export accounts|invoices",
	Short:     "Export transactions or invoices as csv or xlsx",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"accounts", "invoices"},
	Example: `  ledgerctl export accounts --time-range currMonth
  ledgerctl export invoices --start 2024-01-01 --end 2024-03-31 --format xlsx --out q1.xlsx`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().String("time-range", "", "Named window: 7days, 30days, 90days, currMonth or prevMonth")
	exportCmd.Flags().String("start", "", "Start of an explicit window (YYYY-MM-DD or RFC3339)")
	exportCmd.Flags().String("end", "", "End of an explicit window, inclusive")
	exportCmd.Flags().String("search", "", "Case insensitive search term")
	exportCmd.Flags().String("format", common.ExportFormatCSV, "Output format: csv or xlsx")
	exportCmd.Flags().String("out", "", "Output file, defaults to <accounts|invoices>_<timeRange|all>.<format>")
}

func runExport(cmd *cobra.Command, args []string) error {
	timeRange, _ := cmd.Flags().GetString("time-range")
	start, _ := cmd.Flags().GetString("start")
	end, _ := cmd.Flags().GetString("end")
	search, _ := cmd.Flags().GetString("search")
	format, _ := cmd.Flags().GetString("format")
	out, _ := cmd.Flags().GetString("out")

	env, err := setupLedger(cmd, "export")
	if err != nil {
		return err
	}
	defer env.Close()

	tf := service.TimeFilter{TimeRange: timeRange, StartDate: start, EndDate: end}

	var data []byte
	switch args[0] {
	case "accounts":
		data, err = env.svc.ExportTransactions(cmd.Context(), service.TransactionFilter{Search: search, TimeFilter: tf}, format)
	case "invoices":
		data, err = env.svc.ExportInvoices(cmd.Context(), service.InvoiceFilter{Search: search, TimeFilter: tf}, format)
	}
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	if out == "" {
		label := timeRange
		if label == "" {
			label = "all"
		}
		out = fmt.Sprintf("%s_%s.%s", args[0], label, format)
	}
	if err := os.WriteFile(out, data, 0644); err != nil {
		return err
	}

	env.log.Info().
		Str("file", out).
		Int("bytes", len(data)).
		Msg("Export written")
	return nil
}
