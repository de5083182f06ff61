package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/alfredjeanlab/rwa/internal/model"
	"github.com/alfredjeanlab/rwa/internal/store"
)

// header is the first JSONL record written by ExportJSONL.
type header struct {
	Version       string    `json:"version"`
	Type          string    `json:"type"`
	Timestamp     time.Time `json:"timestamp"`
	EventCount    int       `json:"event_count"`
	TransferCount int       `json:"transfer_count"`
}

// record wraps a single JSONL line with a type discriminator.
type record struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// ExportJSONL writes the whole journal to w as JSONL: a header, then events
// in ID order, then transfers in creation order. Both listings are read in
// one transaction so the counts agree with the body.
func ExportJSONL(ctx context.Context, s store.Store, w io.Writer) error {
	var (
		evs       []*model.Event
		transfers []*model.Transfer
	)
	err := s.RunInTransaction(ctx, func(tx store.Store) error {
		var err error
		if evs, err = tx.ListEvents(ctx, model.EventFilter{}); err != nil {
			return fmt.Errorf("list events: %w", err)
		}
		if transfers, err = tx.ListTransfers(ctx, model.TransferFilter{}); err != nil {
			return fmt.Errorf("list transfers: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	sort.Slice(evs, func(i, j int) bool { return evs[i].ID < evs[j].ID })
	sort.Slice(transfers, func(i, j int) bool {
		if !transfers[i].CreatedAt.Equal(transfers[j].CreatedAt) {
			return transfers[i].CreatedAt.Before(transfers[j].CreatedAt)
		}
		return transfers[i].ID < transfers[j].ID
	})

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(header{
		Version:       "1",
		Type:          "header",
		Timestamp:     time.Now().UTC(),
		EventCount:    len(evs),
		TransferCount: len(transfers),
	}); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}
	for _, e := range evs {
		if err := enc.Encode(record{Type: "event", Data: e}); err != nil {
			return fmt.Errorf("encode event %d: %w", e.ID, err)
		}
	}
	for _, t := range transfers {
		if err := enc.Encode(record{Type: "transfer", Data: t}); err != nil {
			return fmt.Errorf("encode transfer %s: %w", t.ID, err)
		}
	}
	return nil
}
