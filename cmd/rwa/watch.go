package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/alfredjeanlab/rwa/internal/events"
	"github.com/alfredjeanlab/rwa/internal/model"
	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:     "watch",
	Short:   "Follow session and transfer activity",
	GroupID: "journal",
	RunE: func(cmd *cobra.Command, args []string) error {
		interval, _ := cmd.Flags().GetDuration("interval")
		poll, _ := cmd.Flags().GetBool("poll")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		natsURL := os.Getenv("RWA_NATS_URL")
		if natsURL == "" {
			natsURL = activeRemoteNATSURL()
		}
		if natsURL != "" && !poll {
			sub, err := events.NewNATSSubscriber(natsURL,
				nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
					log.Printf("nats: disconnected: %v", err)
				}),
				nats.ReconnectHandler(func(_ *nats.Conn) {
					log.Printf("nats: reconnected")
				}),
			)
			if err != nil {
				return fmt.Errorf("connecting to NATS: %w", err)
			}
			defer sub.Close()
			return watchEvents(ctx, cmd.OutOrStdout(), sub)
		}
		return watchPoll(ctx, cmd, interval)
	},
}

// watchEvents prints every event published on the bus until ctx is done or
// the subscription closes.
func watchEvents(ctx context.Context, w io.Writer, sub events.Subscriber) error {
	ch, cancel, err := sub.Subscribe(events.AllTopics)
	if err != nil {
		return fmt.Errorf("subscribing to events: %w", err)
	}
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return nil
		case data, ok := <-ch:
			if !ok {
				return nil
			}
			if jsonOutput {
				fmt.Fprintln(w, string(data))
				continue
			}
			printEventLine(w, time.Now(), data)
		}
	}
}

// watchPoll polls the daemon's session and prints it whenever it changes.
func watchPoll(ctx context.Context, cmd *cobra.Command, interval time.Duration) error {
	var last *model.Session
	for {
		sess, err := walletClient.Session(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		if sessionChanged(last, sess) {
			if jsonOutput {
				if err := printJSON(cmd.OutOrStdout(), sess); err != nil {
					return err
				}
			} else {
				printSessionChange(cmd.OutOrStdout(), sess)
			}
		}
		last = sess

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(interval):
		}
	}
}

// sessionChanged reports whether next differs from prev in anything a user
// would notice. The first observation always counts as a change.
func sessionChanged(prev, next *model.Session) bool {
	if prev == nil {
		return true
	}
	return prev.ID != next.ID ||
		prev.State != next.State ||
		prev.Address != next.Address ||
		prev.Network != next.Network ||
		prev.LastError != next.LastError
}

func init() {
	watchCmd.Flags().Duration("interval", 2*time.Second, "polling interval when NATS is not configured")
	watchCmd.Flags().Bool("poll", false, "poll the daemon even when a NATS URL is configured")
}
