package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/alfredjeanlab/rwa/internal/metrics"
	"github.com/alfredjeanlab/rwa/internal/rpc"
)

// NewHTTPHandler returns an http.Handler with all routes registered.
// When authToken is non-empty, requests (except GET /v1/health and
// GET /metrics) must include a valid Authorization: Bearer <token> header.
func (s *WalletServer) NewHTTPHandler(authToken string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/health", handle(s.Health))
	mux.HandleFunc("GET /v1/session", handle(s.GetSession))
	mux.HandleFunc("POST /v1/session/connect", handle(s.Connect))
	mux.HandleFunc("POST /v1/session/disconnect", handle(s.Disconnect))
	mux.HandleFunc("POST /v1/session/check", handle(s.CheckConnection))
	mux.HandleFunc("POST /v1/session/network", handleBody(s.SwitchNetwork))
	mux.HandleFunc("POST /v1/session/clear-error", handle(s.ClearError))
	mux.HandleFunc("POST /v1/compliance/refresh", handle(s.RefreshCompliance))
	mux.HandleFunc("GET /v1/compliance", handle(s.GetCompliance))
	mux.HandleFunc("POST /v1/transfers/authorize", handleBody(s.Authorize))
	mux.HandleFunc("POST /v1/transfers", handleBody(s.Transfer))
	mux.HandleFunc("GET /v1/transfers/max", handle(s.MaxAmount))
	mux.HandleFunc("GET /v1/transfers", s.handleListTransfers)
	mux.HandleFunc("GET /v1/events", s.handleListEvents)
	mux.HandleFunc("GET /v1/events/stream", s.handleEventStream)
	mux.Handle("GET /metrics", metrics.Handler())
	return AuthMiddleware(authToken, mux)
}

// handle adapts a service method that takes no request body.
func handle[Resp any](call func(context.Context, *rpc.Empty) (*Resp, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := call(r.Context(), &rpc.Empty{})
		respond(w, resp, err)
	}
}

// handleBody adapts a service method whose request is the JSON body.
func handleBody[Req, Resp any](call func(context.Context, *Req) (*Resp, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := new(Req)
		if err := decodeJSON(r, req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		resp, err := call(r.Context(), req)
		respond(w, resp, err)
	}
}

// handleListTransfers handles GET /v1/transfers?address=&status=&limit=.
func (s *WalletServer) handleListTransfers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, err := queryInt(q.Get("limit"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid limit")
		return
	}
	resp, err := s.ListTransfers(r.Context(), &rpc.ListTransfersRequest{
		Address: q.Get("address"),
		Status:  q.Get("status"),
		Limit:   limit,
	})
	respond(w, resp, err)
}

// handleListEvents handles GET /v1/events?topic=&limit=.
func (s *WalletServer) handleListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, err := queryInt(q.Get("limit"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid limit")
		return
	}
	resp, err := s.ListEvents(r.Context(), &rpc.ListEventsRequest{Topic: q.Get("topic"), Limit: limit})
	respond(w, resp, err)
}

func respond[Resp any](w http.ResponseWriter, resp *Resp, err error) {
	if err != nil {
		writeError(w, httpStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func queryInt(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}

// decodeJSON decodes the request body. An empty body leaves v untouched.
func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	return json.NewDecoder(r.Body).Decode(v)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
