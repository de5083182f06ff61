package main

import (
	"context"
	"fmt"

	"github.com/alfredjeanlab/rwa/internal/model"
	"github.com/alfredjeanlab/rwa/internal/rpc"
	"github.com/alfredjeanlab/rwa/internal/ui"
	"github.com/spf13/cobra"
)

var authorizeCmd = &cobra.Command{
	Use:     "authorize <recipient> <amount>",
	Short:   "Preview whether a transfer would be allowed",
	GroupID: "transfers",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		checkRecipient, _ := cmd.Flags().GetBool("check-recipient")

		p, err := walletClient.Authorize(context.Background(), &rpc.TransferInput{
			Recipient:      args[0],
			Amount:         args[1],
			CheckRecipient: checkRecipient,
		})
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), p)
		}
		printPreview(cmd.OutOrStdout(), p)
		return nil
	},
}

var transferCmd = &cobra.Command{
	Use:     "transfer <recipient> <amount>",
	Short:   "Authorize and submit a transfer",
	GroupID: "transfers",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := walletClient.Transfer(context.Background(), &rpc.TransferInput{
			Recipient: args[0],
			Amount:    args[1],
		})
		if err != nil {
			return err
		}
		if jsonOutput {
			if err := printJSON(cmd.OutOrStdout(), resp); err != nil {
				return err
			}
		} else {
			printTransferResult(cmd.OutOrStdout(), resp)
		}
		if resp.Transfer.Status != model.TransferSubmitted {
			return fmt.Errorf("transfer %s: %s", resp.Transfer.Status, resp.Message)
		}
		return nil
	},
}

var maxCmd = &cobra.Command{
	Use:     "max",
	Short:   "Show the largest amount the gate would allow",
	GroupID: "transfers",
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := walletClient.MaxAmount(context.Background())
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), resp)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Max transfer: %s %s\n",
			ui.RenderAccent(resp.Amount), ui.RenderMuted(fmt.Sprintf("(%d stroops)", resp.Stroops)))
		return nil
	},
}

func init() {
	authorizeCmd.Flags().Bool("check-recipient", false, "also look up the recipient's whitelist status")
}
