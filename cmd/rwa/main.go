// Command rwa runs the wallet daemon (rwa serve) and talks to it.
package main

import (
	"fmt"
	"os"

	"github.com/alfredjeanlab/rwa/internal/client"
	"github.com/alfredjeanlab/rwa/internal/ui"
	"github.com/spf13/cobra"
)

var (
	serverAddr string
	httpURL    string
	transport  string
	authToken  string
	jsonOutput bool

	walletClient client.WalletClient
)

func defaultHTTPURL() string {
	if s := os.Getenv("RWA_URL"); s != "" {
		return s
	}
	if u := activeRemoteURL(); u != "" {
		return u
	}
	return "http://localhost:8080"
}

func defaultServer() string {
	if s := os.Getenv("RWA_SERVER"); s != "" {
		return s
	}
	if a := activeRemoteGRPCAddr(); a != "" {
		return a
	}
	return "localhost:9090"
}

func defaultToken() string {
	if s := os.Getenv("RWA_TOKEN"); s != "" {
		return s
	}
	return activeRemoteToken()
}

var rootCmd = &cobra.Command{
	Use:           "rwa <command>",
	Short:         "Wallet session and compliance-gated transfers for tokenized assets",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !ui.ShouldUseColor() {
			ui.ForceNoColor()
		}
		switch transport {
		case "http":
			walletClient = client.NewHTTPClient(httpURL, authToken)
		case "grpc":
			c, err := client.NewGRPCClient(serverAddr, authToken)
			if err != nil {
				return fmt.Errorf("failed to connect to server: %w", err)
			}
			walletClient = c
		default:
			return fmt.Errorf("unknown transport %q (must be http or grpc)", transport)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if walletClient != nil {
			walletClient.Close()
		}
	},
}

// skipClient replaces the root PersistentPreRunE for commands that never
// talk to the daemon.
func skipClient(cmd *cobra.Command, args []string) error { return nil }

func init() {
	rootCmd.PersistentFlags().StringVar(&httpURL, "http-url", defaultHTTPURL(), "daemon HTTP URL")
	rootCmd.PersistentFlags().StringVar(&serverAddr, "server", defaultServer(), "daemon gRPC address")
	rootCmd.PersistentFlags().StringVar(&transport, "transport", "http", "transport protocol (http or grpc)")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", defaultToken(), "bearer token")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	rootCmd.AddGroup(
		&cobra.Group{ID: "wallet", Title: "Wallet:"},
		&cobra.Group{ID: "transfers", Title: "Transfers:"},
		&cobra.Group{ID: "journal", Title: "Journal:"},
		&cobra.Group{ID: "system", Title: "System:"},
	)
	cobra.EnableCommandSorting = false

	// Wallet
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(connectCmd)
	rootCmd.AddCommand(disconnectCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(networkCmd)
	rootCmd.AddCommand(clearErrorCmd)
	rootCmd.AddCommand(complianceCmd)

	// Transfers
	rootCmd.AddCommand(authorizeCmd)
	rootCmd.AddCommand(transferCmd)
	rootCmd.AddCommand(maxCmd)

	// Journal
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(watchCmd)

	// System
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(remoteCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
