package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Check every invoice against its payment history",
	Long: `Reconcile recomputes the balance of every invoice from its total and
its payment history and reports each invoice whose stored amount_received,
remaining_amount or status disagree.

Nothing is modified. The command exits with status 1 when drift was found.`,
	Example: `  ledgerctl reconcile
  ledgerctl reconcile --json > drift.json`,
	RunE: runReconcile,
}

func init() {
	rootCmd.AddCommand(reconcileCmd)

	reconcileCmd.Flags().Bool("json", false, "Print the findings as JSON")
}

func runReconcile(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")

	env, err := setupLedger(cmd, "reconcile")
	if err != nil {
		return err
	}
	defer env.Close()

	env.log.Info().Msg("Starting invoice reconciliation")

	drifts, err := env.svc.ReconcileInvoices(cmd.Context())
	if err != nil {
		return fmt.Errorf("reconciliation failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if asJSON {
		if err := json.NewEncoder(out).Encode(drifts); err != nil {
			return err
		}
	} else {
		for _, d := range drifts {
			fmt.Fprintln(out, d)
		}
	}

	if len(drifts) > 0 {
		env.log.Warn().Int("problems", len(drifts)).Msg("Ledger drift found")
		return fmt.Errorf("found %d ledger problem(s)", len(drifts))
	}
	env.log.Info().Msg("All invoices are consistent")
	return nil
}
