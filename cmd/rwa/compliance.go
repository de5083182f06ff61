package main

import (
	"context"

	"github.com/alfredjeanlab/rwa/internal/rpc"
	"github.com/spf13/cobra"
)

var complianceCmd = &cobra.Command{
	Use:     "compliance",
	Short:   "Show the compliance snapshot for the connected address",
	GroupID: "wallet",
	RunE: func(cmd *cobra.Command, args []string) error {
		refresh, _ := cmd.Flags().GetBool("refresh")

		var (
			resp *rpc.ComplianceResponse
			err  error
		)
		if refresh {
			resp, err = walletClient.RefreshCompliance(context.Background())
		} else {
			resp, err = walletClient.Compliance(context.Background())
		}
		if err != nil {
			return err
		}

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), resp)
		}
		printCompliance(cmd.OutOrStdout(), resp)
		return nil
	},
}

func init() {
	complianceCmd.Flags().Bool("refresh", false, "fetch a fresh snapshot from the compliance service")
}
