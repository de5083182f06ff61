package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPProvider implements Provider against a wallet bridge that exposes the
// browser wallet's API over HTTP/JSON.
type HTTPProvider struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPProvider creates a provider for the bridge at baseURL. timeout
// bounds each bridge call; RequestAccess waits on the user, so it should be
// generous.
func NewHTTPProvider(baseURL string, timeout time.Duration) *HTTPProvider {
	return &HTTPProvider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

var _ Provider = (*HTTPProvider)(nil)

// bridgeError is the error envelope every bridge response may carry.
type bridgeError struct {
	Error string `json:"error,omitempty"`
}

func (p *HTTPProvider) IsConnected(ctx context.Context) (bool, error) {
	var resp struct {
		bridgeError
		IsConnected bool `json:"is_connected"`
	}
	if err := p.doJSON(ctx, http.MethodGet, "/connected", &resp); err != nil {
		return false, err
	}
	if resp.Error != "" {
		return false, fmt.Errorf("wallet: %s", resp.Error)
	}
	return resp.IsConnected, nil
}

func (p *HTTPProvider) RequestAccess(ctx context.Context) (bool, error) {
	var resp struct {
		bridgeError
		Granted bool `json:"granted"`
	}
	if err := p.doJSON(ctx, http.MethodPost, "/access", &resp); err != nil {
		return false, err
	}
	if resp.Error != "" {
		return false, fmt.Errorf("wallet: %s", resp.Error)
	}
	return resp.Granted, nil
}

func (p *HTTPProvider) GetAddress(ctx context.Context) (string, error) {
	var resp struct {
		bridgeError
		Address string `json:"address"`
	}
	if err := p.doJSON(ctx, http.MethodGet, "/address", &resp); err != nil {
		return "", err
	}
	if resp.Error != "" {
		return "", fmt.Errorf("wallet: %s", resp.Error)
	}
	return resp.Address, nil
}

func (p *HTTPProvider) GetNetwork(ctx context.Context) (string, error) {
	var resp struct {
		bridgeError
		Network string `json:"network"`
	}
	if err := p.doJSON(ctx, http.MethodGet, "/network", &resp); err != nil {
		return "", err
	}
	if resp.Error != "" {
		return "", fmt.Errorf("wallet: %s", resp.Error)
	}
	if resp.Network == "" {
		return "", fmt.Errorf("wallet: empty network")
	}
	return resp.Network, nil
}

func (p *HTTPProvider) doJSON(ctx context.Context, method, path string, result any) error {
	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("calling wallet bridge: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode >= 400 {
		var e bridgeError
		if json.Unmarshal(body, &e) == nil && e.Error != "" {
			return fmt.Errorf("wallet bridge HTTP %d: %s", resp.StatusCode, e.Error)
		}
		return fmt.Errorf("wallet bridge HTTP %d: %s", resp.StatusCode, string(bytes.TrimSpace(body)))
	}
	if err := json.NewDecoder(bytes.NewReader(body)).Decode(result); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
