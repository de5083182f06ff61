package postgres

import (
	"database/sql"
	"encoding/json"

	"github.com/alfredjeanlab/rwa/internal/model"
)

// scannable is the interface satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// scanEvent scans one row in eventColumns order.
func scanEvent(row scannable) (*model.Event, error) {
	var (
		e       model.Event
		address sql.NullString
		payload []byte
	)
	if err := row.Scan(&e.ID, &e.Topic, &e.SessionID, &address, &payload, &e.CreatedAt); err != nil {
		return nil, err
	}
	e.Address = address.String
	if len(payload) > 0 {
		e.Payload = json.RawMessage(payload)
	}
	return &e, nil
}

func scanEvents(rows *sql.Rows) ([]*model.Event, error) {
	var out []*model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// scanTransfer scans one row in transferColumns order.
func scanTransfer(row scannable) (*model.Transfer, error) {
	var (
		t      model.Transfer
		reason string
		status string
		txHash sql.NullString
		errMsg sql.NullString
	)
	err := row.Scan(&t.ID, &t.SessionID, &t.Sender, &t.Recipient, &t.Amount,
		&reason, &status, &txHash, &errMsg, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	t.Reason = model.Reason(reason)
	t.Status = model.TransferStatus(status)
	t.TxHash = txHash.String
	t.Error = errMsg.String
	return &t, nil
}

func scanTransfers(rows *sql.Rows) ([]*model.Transfer, error) {
	var out []*model.Transfer
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// jsonbBytes substitutes an empty object for an absent payload.
func jsonbBytes(raw json.RawMessage) []byte {
	if len(raw) == 0 {
		return []byte("{}")
	}
	return []byte(raw)
}
