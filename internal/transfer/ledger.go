package transfer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/alfredjeanlab/rwa/internal/model"
	"github.com/alfredjeanlab/rwa/internal/stellar"
)

// LedgerSubmitter posts transfers to a ledger relay at
// POST {baseURL}/v1/transfers.
type LedgerSubmitter struct {
	baseURL    string
	httpClient *http.Client
}

// NewLedgerSubmitter creates a submitter for the relay at baseURL.
func NewLedgerSubmitter(baseURL string, timeout time.Duration) *LedgerSubmitter {
	return &LedgerSubmitter{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

var _ Submitter = (*LedgerSubmitter)(nil)

type submitRequest struct {
	Network   model.Network `json:"network"`
	Sender    string        `json:"sender"`
	Recipient string        `json:"recipient"`
	Amount    string        `json:"amount"`
	Stroops   int64         `json:"stroops"`
}

type submitResponse struct {
	Hash    string `json:"hash"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func (s *LedgerSubmitter) Submit(ctx context.Context, network model.Network, req model.TransferRequest) (string, error) {
	data, err := json.Marshal(submitRequest{
		Network:   network,
		Sender:    req.Sender,
		Recipient: req.Recipient,
		Amount:    stellar.FormatAmount(req.Amount),
		Stroops:   req.Amount,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v1/transfers", bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("calling ledger relay: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	var out submitResponse
	decodeErr := json.Unmarshal(body, &out)
	if resp.StatusCode >= 400 {
		if decodeErr == nil && out.Error != "" {
			return "", fmt.Errorf("ledger relay HTTP %d: %s", resp.StatusCode, out.Error)
		}
		return "", fmt.Errorf("ledger relay HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if decodeErr != nil {
		return "", fmt.Errorf("decoding response: %w", decodeErr)
	}
	if !out.Success {
		if out.Error == "" {
			out.Error = "transaction not accepted"
		}
		return "", fmt.Errorf("ledger relay: %s", out.Error)
	}
	if out.Hash == "" {
		return "", fmt.Errorf("ledger relay returned no transaction hash")
	}
	return out.Hash, nil
}
