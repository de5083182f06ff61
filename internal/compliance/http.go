package compliance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/alfredjeanlab/rwa/internal/model"
	"github.com/alfredjeanlab/rwa/internal/stellar"
	"github.com/cenkalti/backoff/v4"
)

// HTTPFetcher reads compliance records from
// GET {baseURL}/v1/compliance/{address}. Transport errors, 429 and 5xx
// responses are retried with exponential backoff; anything else fails at
// once.
type HTTPFetcher struct {
	baseURL    string
	httpClient *http.Client
	retries    int
	backoff    time.Duration
}

// NewHTTPFetcher creates a fetcher for the compliance service at baseURL.
func NewHTTPFetcher(baseURL string, timeout time.Duration, retries int) *HTTPFetcher {
	if retries < 0 {
		retries = 0
	}
	return &HTTPFetcher{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		retries:    retries,
		backoff:    250 * time.Millisecond,
	}
}

var _ Fetcher = (*HTTPFetcher)(nil)

// record is the compliance service's response body. Balance is a decimal
// string in whole tokens.
type record struct {
	Address       string `json:"address"`
	IsWhitelisted bool   `json:"is_whitelisted"`
	KYCVerified   bool   `json:"kyc_verified"`
	Balance       string `json:"balance"`
	Error         string `json:"error,omitempty"`
}

// retryPolicy allows f.retries further attempts after the first, starting
// at f.backoff and giving up early when ctx is done.
func (f *HTTPFetcher) retryPolicy(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = f.backoff
	b.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(f.retries)), ctx)
}

func (f *HTTPFetcher) Fetch(ctx context.Context, address string) (model.ComplianceSnapshot, error) {
	var snap model.ComplianceSnapshot
	err := backoff.Retry(func() error {
		s, err := f.fetchOnce(ctx, address)
		if err != nil {
			return err
		}
		snap = s
		return nil
	}, f.retryPolicy(ctx))
	if err != nil {
		return model.ComplianceSnapshot{}, fmt.Errorf("%w: %w", model.ErrComplianceFetchFailed, err)
	}
	return snap, nil
}

// fetchOnce makes a single request. Errors not worth retrying are wrapped
// with backoff.Permanent.
func (f *HTTPFetcher) fetchOnce(ctx context.Context, address string) (model.ComplianceSnapshot, error) {
	endpoint := f.baseURL + "/v1/compliance/" + url.PathEscape(address)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return model.ComplianceSnapshot{}, backoff.Permanent(fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return model.ComplianceSnapshot{}, backoff.Permanent(err)
		}
		return model.ComplianceSnapshot{}, fmt.Errorf("calling compliance service: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.ComplianceSnapshot{}, fmt.Errorf("reading response: %w", err)
	}

	var rec record
	decodeErr := json.Unmarshal(body, &rec)

	if resp.StatusCode >= 400 {
		msg := strings.TrimSpace(string(body))
		if decodeErr == nil && rec.Error != "" {
			msg = rec.Error
		}
		err := fmt.Errorf("compliance service HTTP %d: %s", resp.StatusCode, msg)
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return model.ComplianceSnapshot{}, err
		}
		return model.ComplianceSnapshot{}, backoff.Permanent(err)
	}
	if decodeErr != nil {
		return model.ComplianceSnapshot{}, backoff.Permanent(fmt.Errorf("decoding response: %w", decodeErr))
	}
	if rec.Address != "" && rec.Address != address {
		return model.ComplianceSnapshot{}, backoff.Permanent(fmt.Errorf("compliance service answered for %s, asked for %s", rec.Address, address))
	}

	balance, err := stellar.ParseAmount(rec.Balance)
	if err != nil {
		return model.ComplianceSnapshot{}, backoff.Permanent(fmt.Errorf("parsing balance %q: %w", rec.Balance, err))
	}
	if balance < 0 {
		return model.ComplianceSnapshot{}, backoff.Permanent(fmt.Errorf("negative balance %q", rec.Balance))
	}

	return model.ComplianceSnapshot{
		Address:       address,
		IsWhitelisted: rec.IsWhitelisted,
		KYCVerified:   rec.KYCVerified,
		Balance:       balance,
		FetchedAt:     time.Now().UTC(),
	}, nil
}
