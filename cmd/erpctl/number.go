package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var nextNumberCmd = &cobra.Command{
	Use:   "next-number SERIES",
	Short: "Consume and print the next document number of a series",
	Long: `Consume the next number of SERIES (SO, PO or INV) and print it. The
counter is shared with the server, so the printed number is never reissued.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		series := strings.ToUpper(args[0])
		switch series {
		case "SO", "PO", "INV":
		default:
			return fmt.Errorf("unknown series %q", args[0])
		}

		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		n, err := a.Services.Numberer.Next(cmd.Context(), series)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(nextNumberCmd)
}
