package main

import (
	"context"
	"fmt"

	"github.com/alfredjeanlab/rwa/internal/model"
	"github.com/spf13/cobra"
)

// sessionCommand builds a command that performs one session operation and
// prints the resulting session.
func sessionCommand(use, short string, call func(ctx context.Context, args []string) (*model.Session, error)) *cobra.Command {
	return &cobra.Command{
		Use:     use,
		Short:   short,
		GroupID: "wallet",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := call(context.Background(), args)
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), sess)
			}
			printSession(cmd.OutOrStdout(), sess)
			return nil
		},
	}
}

var sessionCmd = sessionCommand("session", "Show the wallet session",
	func(ctx context.Context, _ []string) (*model.Session, error) {
		return walletClient.Session(ctx)
	})

var connectCmd = sessionCommand("connect", "Request wallet access and connect",
	func(ctx context.Context, _ []string) (*model.Session, error) {
		sess, err := walletClient.Connect(ctx)
		if err != nil {
			return nil, fmt.Errorf("connecting wallet: %w", err)
		}
		return sess, nil
	})

var disconnectCmd = sessionCommand("disconnect", "Disconnect the wallet",
	func(ctx context.Context, _ []string) (*model.Session, error) {
		return walletClient.Disconnect(ctx)
	})

var checkCmd = sessionCommand("check", "Re-check an existing wallet authorization",
	func(ctx context.Context, _ []string) (*model.Session, error) {
		return walletClient.CheckConnection(ctx)
	})

var clearErrorCmd = sessionCommand("clear-error", "Clear the last session error",
	func(ctx context.Context, _ []string) (*model.Session, error) {
		return walletClient.ClearError(ctx)
	})

var networkCmd = sessionCommand("network <testnet|mainnet>", "Switch the wallet network",
	func(ctx context.Context, args []string) (*model.Session, error) {
		if _, ok := model.ParseNetwork(args[0]); !ok {
			return nil, fmt.Errorf("invalid network %q (must be testnet or mainnet)", args[0])
		}
		return walletClient.SwitchNetwork(ctx, args[0])
	})

func init() {
	networkCmd.Args = cobra.ExactArgs(1)
}
