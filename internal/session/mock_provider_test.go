package session

import (
	"context"
	"sync"
)

// mockProvider is a scriptable provider. If gate is non-nil RequestAccess
// blocks until it is closed or the context ends.
type mockProvider struct {
	mu          sync.Mutex
	connected   bool
	connErr     error
	granted     bool
	accessErr   error
	address     string
	addressErr  error
	network     string
	networkErr  error
	gate        chan struct{}
	accessCalls int
}

func newMockProvider(address, network string) *mockProvider {
	return &mockProvider{connected: true, granted: true, address: address, network: network}
}

func (p *mockProvider) IsConnected(context.Context) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.connected, p.connErr
}

func (p *mockProvider) RequestAccess(ctx context.Context) (bool, error) {
	p.mu.Lock()
	p.accessCalls++
	gate := p.gate
	p.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.granted, p.accessErr
}

func (p *mockProvider) GetAddress(context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.address, p.addressErr
}

func (p *mockProvider) GetNetwork(context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.network, p.networkErr
}

func (p *mockProvider) setAccount(address, network string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.address, p.network = address, network
}

func (p *mockProvider) update(fn func(p *mockProvider)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn(p)
}

func (p *mockProvider) calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.accessCalls
}

// recordingPublisher captures published topics.
type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
}

func (r *recordingPublisher) Publish(_ context.Context, topic string, _ any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.topics = append(r.topics, topic)
	return nil
}

func (r *recordingPublisher) Close() error { return nil }

func (r *recordingPublisher) published() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.topics...)
}
