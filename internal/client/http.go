package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/alfredjeanlab/rwa/internal/model"
	"github.com/alfredjeanlab/rwa/internal/rpc"
)

// HTTPClient implements WalletClient using the daemon's HTTP/JSON API.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewHTTPClient creates a new HTTP client targeting the given base URL
// (e.g. "http://localhost:8080"). When token is non-empty, an Authorization
// header is set on every request.
func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{},
	}
}

// Close is a no-op for the HTTP client.
func (c *HTTPClient) Close() error { return nil }

func (c *HTTPClient) Health(ctx context.Context) (string, error) {
	var resp rpc.HealthResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/health", nil, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

// --- Session ---

func (c *HTTPClient) session(ctx context.Context, method, path string, body any) (*model.Session, error) {
	var resp rpc.SessionResponse
	if err := c.doJSON(ctx, method, path, body, &resp); err != nil {
		return nil, err
	}
	return &resp.Session, nil
}

func (c *HTTPClient) Session(ctx context.Context) (*model.Session, error) {
	return c.session(ctx, http.MethodGet, "/v1/session", nil)
}

func (c *HTTPClient) Connect(ctx context.Context) (*model.Session, error) {
	return c.session(ctx, http.MethodPost, "/v1/session/connect", nil)
}

func (c *HTTPClient) Disconnect(ctx context.Context) (*model.Session, error) {
	return c.session(ctx, http.MethodPost, "/v1/session/disconnect", nil)
}

func (c *HTTPClient) CheckConnection(ctx context.Context) (*model.Session, error) {
	return c.session(ctx, http.MethodPost, "/v1/session/check", nil)
}

func (c *HTTPClient) SwitchNetwork(ctx context.Context, network string) (*model.Session, error) {
	return c.session(ctx, http.MethodPost, "/v1/session/network", &rpc.SwitchNetworkRequest{Network: network})
}

func (c *HTTPClient) ClearError(ctx context.Context) (*model.Session, error) {
	return c.session(ctx, http.MethodPost, "/v1/session/clear-error", nil)
}

// --- Compliance ---

func (c *HTTPClient) Compliance(ctx context.Context) (*rpc.ComplianceResponse, error) {
	var resp rpc.ComplianceResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/compliance", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) RefreshCompliance(ctx context.Context) (*rpc.ComplianceResponse, error) {
	var resp rpc.ComplianceResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/compliance/refresh", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// --- Transfers ---

func (c *HTTPClient) Authorize(ctx context.Context, in *rpc.TransferInput) (*rpc.Preview, error) {
	var resp rpc.Preview
	if err := c.doJSON(ctx, http.MethodPost, "/v1/transfers/authorize", in, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) Transfer(ctx context.Context, in *rpc.TransferInput) (*rpc.TransferResponse, error) {
	var resp rpc.TransferResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/transfers", in, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) MaxAmount(ctx context.Context) (*rpc.MaxAmountResponse, error) {
	var resp rpc.MaxAmountResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/transfers/max", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// --- Journal ---

func (c *HTTPClient) ListTransfers(ctx context.Context, req *rpc.ListTransfersRequest) ([]*model.Transfer, error) {
	q := url.Values{}
	if req.Address != "" {
		q.Set("address", req.Address)
	}
	if req.Status != "" {
		q.Set("status", req.Status)
	}
	if req.Limit > 0 {
		q.Set("limit", strconv.Itoa(req.Limit))
	}
	var resp rpc.ListTransfersResponse
	if err := c.doJSON(ctx, http.MethodGet, withQuery("/v1/transfers", q), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Transfers, nil
}

func (c *HTTPClient) ListEvents(ctx context.Context, req *rpc.ListEventsRequest) ([]*model.Event, error) {
	q := url.Values{}
	if req.Topic != "" {
		q.Set("topic", req.Topic)
	}
	if req.Limit > 0 {
		q.Set("limit", strconv.Itoa(req.Limit))
	}
	var resp rpc.ListEventsResponse
	if err := c.doJSON(ctx, http.MethodGet, withQuery("/v1/events", q), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Events, nil
}

// --- internal helpers ---

func withQuery(path string, q url.Values) string {
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

// APIError represents an error response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// doJSON performs an HTTP request with optional JSON body and decodes the JSON response.
// If result is nil, the response body is discarded.
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: errResp.Error}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}
