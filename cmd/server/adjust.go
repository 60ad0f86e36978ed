package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chelseasymphony/donations/internal/service"
)

func newAdjustCommand() *cobra.Command {
	var waived bool

	cmd := &cobra.Command{
		Use:   "adjust AMOUNT...",
		Short: "Print donations net of the donor incentive",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, raw := range args {
				net, err := service.AdjustString(raw, waived)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", raw, net)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&waived, "waived", false, "donor waived the incentive")
	return cmd
}
