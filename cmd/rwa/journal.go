package main

import (
	"context"
	"fmt"

	"github.com/alfredjeanlab/rwa/internal/rpc"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:     "history",
	Short:   "List journaled transfers",
	GroupID: "journal",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		address, _ := cmd.Flags().GetString("address")
		status, _ := cmd.Flags().GetString("status")
		limit, _ := cmd.Flags().GetInt("limit")
		all, _ := cmd.Flags().GetBool("all")

		// Default to the connected account's history.
		if address == "" && !all {
			sess, err := walletClient.Session(ctx)
			if err != nil {
				return err
			}
			address = sess.Address
		}

		ts, err := walletClient.ListTransfers(ctx, &rpc.ListTransfersRequest{
			Address: address,
			Status:  status,
			Limit:   limit,
		})
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), ts)
		}
		if len(ts) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No transfers found.")
			return nil
		}
		return printTransfers(cmd.OutOrStdout(), ts)
	},
}

var eventsCmd = &cobra.Command{
	Use:     "events",
	Short:   "List journaled events",
	GroupID: "journal",
	RunE: func(cmd *cobra.Command, args []string) error {
		topic, _ := cmd.Flags().GetString("topic")
		limit, _ := cmd.Flags().GetInt("limit")

		evts, err := walletClient.ListEvents(context.Background(), &rpc.ListEventsRequest{
			Topic: topic,
			Limit: limit,
		})
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), evts)
		}
		if len(evts) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No events found.")
			return nil
		}
		return printEvents(cmd.OutOrStdout(), evts)
	},
}

func init() {
	historyCmd.Flags().String("address", "", "address on either side of the transfer (default: connected address)")
	historyCmd.Flags().String("status", "", "filter by status (rejected, submitted, failed)")
	historyCmd.Flags().Int("limit", 20, "maximum number of transfers")
	historyCmd.Flags().Bool("all", false, "list transfers for every address")

	eventsCmd.Flags().String("topic", "", "filter by topic (e.g. rwa.transfer.failed)")
	eventsCmd.Flags().Int("limit", 50, "maximum number of events")
}
