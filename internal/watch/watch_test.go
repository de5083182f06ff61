package watch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"
)

type fakeSource struct {
	mu      sync.Mutex
	address string
	network string
	addrErr error
	calls   int
}

func (f *fakeSource) GetAddress(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.address, f.addrErr
}

func (f *fakeSource) GetNetwork(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.network, nil
}

func (f *fakeSource) set(address, network string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.address, f.network, f.addrErr = address, network, err
}

func (f *fakeSource) pollCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestWatcher_ReportsAddressChange(t *testing.T) {
	src := &fakeSource{address: "GA", network: "TESTNET"}
	changes := make(chan Change, 4)

	h := Start(src, "GA", "TESTNET", 5*time.Millisecond, func(c Change) { changes <- c }, discardLogger())
	defer h.Stop()

	src.set("GB", "TESTNET", nil)

	select {
	case c := <-changes:
		if !c.AddressChanged || c.Address != "GB" {
			t.Errorf("change = %+v, want address GB", c)
		}
		if c.NetworkChanged {
			t.Errorf("unexpected network change: %+v", c)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no change observed")
	}
}

func TestWatcher_ReportsNetworkChange(t *testing.T) {
	src := &fakeSource{address: "GA", network: "TESTNET"}
	changes := make(chan Change, 4)

	h := Start(src, "GA", "TESTNET", 5*time.Millisecond, func(c Change) { changes <- c }, discardLogger())
	defer h.Stop()

	src.set("GA", "PUBLIC", nil)

	select {
	case c := <-changes:
		if !c.NetworkChanged || c.Network != "PUBLIC" || c.AddressChanged {
			t.Errorf("change = %+v, want network PUBLIC only", c)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no change observed")
	}
}

func TestWatcher_LockedWalletReportsEmptyAddress(t *testing.T) {
	src := &fakeSource{address: "GA", network: "TESTNET"}
	changes := make(chan Change, 4)

	h := Start(src, "GA", "TESTNET", 5*time.Millisecond, func(c Change) { changes <- c }, discardLogger())
	defer h.Stop()

	src.set("", "", nil)

	select {
	case c := <-changes:
		if !c.AddressChanged || c.Address != "" || c.NetworkChanged {
			t.Errorf("change = %+v, want empty address only", c)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no change observed")
	}
}

func TestWatcher_ErrorsSkipTick(t *testing.T) {
	src := &fakeSource{address: "GA", network: "TESTNET", addrErr: errors.New("bridge down")}
	changes := make(chan Change, 4)

	h := Start(src, "GA", "TESTNET", 5*time.Millisecond, func(c Change) { changes <- c }, discardLogger())
	defer h.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for src.pollCount() < 3 {
		if time.Now().After(deadline) {
			t.Fatal("watcher did not poll")
		}
		time.Sleep(time.Millisecond)
	}
	select {
	case c := <-changes:
		t.Fatalf("unexpected change on error ticks: %+v", c)
	default:
	}
}

func TestHandle_StopPreventsFurtherCallbacks(t *testing.T) {
	src := &fakeSource{address: "GA", network: "TESTNET"}
	var mu sync.Mutex
	calls := 0

	h := Start(src, "GA", "TESTNET", time.Millisecond, func(Change) {
		mu.Lock()
		calls++
		mu.Unlock()
	}, discardLogger())
	h.Stop()

	mu.Lock()
	before := calls
	mu.Unlock()

	src.set("GB", "PUBLIC", nil)
	time.Sleep(20 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if calls != before {
		t.Errorf("callbacks after Stop: got %d, want %d", calls, before)
	}
}

func TestHandle_NilSafe(t *testing.T) {
	var h *Handle
	h.Halt()
	h.Stop()
}

func TestHandle_HaltFromCallback(t *testing.T) {
	src := &fakeSource{address: "GA", network: "TESTNET"}
	var h *Handle
	ready := make(chan struct{})
	h = Start(src, "GA", "TESTNET", time.Millisecond, func(Change) {
		<-ready
		h.Halt()
	}, discardLogger())
	close(ready)
	src.set("GB", "TESTNET", nil)

	select {
	case <-h.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not exit after Halt from callback")
	}
}
