package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cableerp/models"
	"cableerp/services"
)

var resyncCmd = &cobra.Command{
	Use:   "resync-balances",
	Short: "Recompute party balances from their orders",
	Long: `Set every customer and vendor outstanding balance to the sum of the
outstanding amounts of its orders. Use after a partial failure left balances
out of step with the orders.`,
	Example: `  erpctl resync-balances
  erpctl resync-balances --kind Vendor`,
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, _ := cmd.Flags().GetString("kind")

		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		var reports []services.ResyncReport
		if kind == "" {
			reports, err = a.Services.Ledger.ResyncAll(cmd.Context())
		} else {
			pk := models.PartyKind(kind)
			if !pk.Valid() {
				return fmt.Errorf("kind must be Customer or Vendor, got %q", kind)
			}
			var r services.ResyncReport
			r, err = a.Services.Ledger.ResyncKind(cmd.Context(), pk)
			reports = append(reports, r)
		}
		if err != nil {
			return err
		}

		for _, r := range reports {
			fmt.Fprintf(cmd.OutOrStdout(), "%-8s parties=%d drifted=%d\n", r.Kind, r.Parties, r.Drifted)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resyncCmd)
	resyncCmd.Flags().String("kind", "", "Only resync Customer or Vendor")
}
