package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/alfredjeanlab/rwa/internal/model"
)

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const eventColumns = `id, topic, session_id, address, payload, created_at`

const transferColumns = `id, session_id, sender, recipient, amount, reason, status, tx_hash, error, created_at`

// where accumulates numbered predicates.
type where struct {
	clauses []string
	args    []any
}

func (w *where) add(expr string, arg any) {
	w.args = append(w.args, arg)
	w.clauses = append(w.clauses, strings.ReplaceAll(expr, "?", fmt.Sprintf("$%d", len(w.args))))
}

func (w *where) sql() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

func (w *where) limit(n int) string {
	if n <= 0 {
		return ""
	}
	w.args = append(w.args, n)
	return fmt.Sprintf(" LIMIT $%d", len(w.args))
}

func queryRecordEvent(ctx context.Context, db executor, e *model.Event) error {
	return db.QueryRowContext(ctx, `
		INSERT INTO events (topic, session_id, address, payload)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		e.Topic, e.SessionID, nullString(e.Address), jsonbBytes(e.Payload),
	).Scan(&e.ID, &e.CreatedAt)
}

func queryListEvents(ctx context.Context, db executor, filter model.EventFilter) ([]*model.Event, error) {
	var w where
	if filter.Topic != "" {
		w.add("topic = ?", filter.Topic)
	}
	if filter.SessionID != "" {
		w.add("session_id = ?", filter.SessionID)
	}
	if filter.Address != "" {
		w.add("address = ?", filter.Address)
	}
	q := "SELECT " + eventColumns + " FROM events" + w.sql() + " ORDER BY id DESC"
	q += w.limit(filter.Limit)

	rows, err := db.QueryContext(ctx, q, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

func queryRecordTransfer(ctx context.Context, db executor, t *model.Transfer) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO transfers (id, session_id, sender, recipient, amount, reason, status, tx_hash, error, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		t.ID, t.SessionID, t.Sender, t.Recipient, t.Amount, string(t.Reason), string(t.Status),
		nullString(t.TxHash), nullString(t.Error), t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("record transfer %s: %w", t.ID, err)
	}
	return nil
}

func queryListTransfers(ctx context.Context, db executor, filter model.TransferFilter) ([]*model.Transfer, error) {
	var w where
	if filter.Address != "" {
		w.add("(sender = ? OR recipient = ?)", filter.Address)
	}
	if filter.SessionID != "" {
		w.add("session_id = ?", filter.SessionID)
	}
	if filter.Status != "" {
		w.add("status = ?", string(filter.Status))
	}
	q := "SELECT " + transferColumns + " FROM transfers" + w.sql() + " ORDER BY created_at DESC, id DESC"
	q += w.limit(filter.Limit)

	rows, err := db.QueryContext(ctx, q, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	defer rows.Close()
	return scanTransfers(rows)
}
