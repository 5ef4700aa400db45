package connection

import (
	"sort"
	"sync"
	"testing"
)

// testClient returns a Client without an underlying socket, enough for
// registry bookkeeping tests.
func testClient(t *testing.T) *Client {
	t.Helper()
	c := NewClient(nil, DefaultClientConfig(), nil)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestRegistry_SetSemantics(t *testing.T) {
	r := NewRegistry(nil)
	c := testClient(t)
	r.Register(c)

	// Subscribe twice, unsubscribe once: not subscribed.
	r.Subscribe(c, "aapl")
	r.Subscribe(c, "AAPL")
	r.Unsubscribe(c, "Aapl")

	if subs := r.Subscribers("AAPL"); len(subs) != 0 {
		t.Errorf("Subscribers(AAPL) = %d, want 0", len(subs))
	}

	// Unsubscribe of a non-member symbol is a no-op.
	r.Unsubscribe(c, "MSFT")

	r.Subscribe(c, "msft")
	subs := r.Subscribers("MSFT")
	if len(subs) != 1 || subs[0] != c {
		t.Errorf("Subscribers(MSFT) = %v, want [c]", subs)
	}
}

func TestRegistry_Normalization(t *testing.T) {
	r := NewRegistry(nil)
	c := testClient(t)
	r.Register(c)

	if got := r.Subscribe(c, " aapl "); got != "AAPL" {
		t.Errorf("Subscribe returned %q, want %q", got, "AAPL")
	}

	symbols := r.Symbols()
	if len(symbols) != 1 || symbols[0] != "AAPL" {
		t.Errorf("Symbols() = %v, want [AAPL]", symbols)
	}
}

func TestRegistry_Idempotence(t *testing.T) {
	r := NewRegistry(nil)
	c := testClient(t)

	// Unregistering a connection that was never registered is safe.
	r.Unregister(c)

	r.Register(c)
	r.Subscribe(c, "AAPL")

	// Registering twice must not wipe the subscription set.
	r.Register(c)
	if subs := r.Subscribers("AAPL"); len(subs) != 1 {
		t.Errorf("Subscribers(AAPL) = %d after double register, want 1", len(subs))
	}

	// Unregistering twice is safe.
	r.Unregister(c)
	r.Unregister(c)

	if stats := r.Stats(); stats.Connections != 0 || stats.Subscriptions != 0 {
		t.Errorf("Stats after unregister = %+v, want empty", stats)
	}
}

func TestRegistry_SubscribeUnregistered(t *testing.T) {
	r := NewRegistry(nil)
	c := testClient(t)

	// Subscribe on an unknown connection must not create a registry entry.
	if got := r.Subscribe(c, "AAPL"); got != "" {
		t.Errorf("Subscribe on unregistered conn returned %q, want empty", got)
	}
	if stats := r.Stats(); stats.Connections != 0 {
		t.Errorf("Connections = %d, want 0", stats.Connections)
	}
}

func TestRegistry_SymbolsUnion(t *testing.T) {
	r := NewRegistry(nil)
	c1 := testClient(t)
	c2 := testClient(t)
	r.Register(c1)
	r.Register(c2)

	r.Subscribe(c1, "AAPL")
	r.Subscribe(c1, "MSFT")
	r.Subscribe(c2, "MSFT")
	r.Subscribe(c2, "GOOG")

	symbols := r.Symbols()
	sort.Strings(symbols)

	want := []string{"AAPL", "GOOG", "MSFT"}
	if len(symbols) != len(want) {
		t.Fatalf("Symbols() = %v, want %v", symbols, want)
	}
	for i := range want {
		if symbols[i] != want[i] {
			t.Errorf("Symbols()[%d] = %q, want %q", i, symbols[i], want[i])
		}
	}

	if subs := r.Subscribers("MSFT"); len(subs) != 2 {
		t.Errorf("Subscribers(MSFT) = %d, want 2", len(subs))
	}
}

func TestRegistry_Stats(t *testing.T) {
	r := NewRegistry(nil)
	c1 := testClient(t)
	c2 := testClient(t)
	r.Register(c1)
	r.Register(c2)

	r.Subscribe(c1, "AAPL")
	r.Subscribe(c2, "AAPL")
	r.Subscribe(c2, "MSFT")

	stats := r.Stats()
	if stats.Connections != 2 {
		t.Errorf("Connections = %d, want 2", stats.Connections)
	}
	if stats.Subscriptions != 3 {
		t.Errorf("Subscriptions = %d, want 3", stats.Subscriptions)
	}
	if stats.Symbols != 2 {
		t.Errorf("Symbols = %d, want 2", stats.Symbols)
	}
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	r := NewRegistry(nil)

	symbols := []string{"AAPL", "MSFT", "GOOG", "AMZN"}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := NewClient(nil, DefaultClientConfig(), nil)
			defer c.Close()

			r.Register(c)
			for j := 0; j < 100; j++ {
				sym := symbols[j%len(symbols)]
				r.Subscribe(c, sym)
				r.Subscribers(sym)
				r.Symbols()
				r.Unsubscribe(c, sym)
			}
			r.Unregister(c)
		}()
	}

	// Concurrent reader playing the scheduler's role.
	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < 200; j++ {
			for _, sym := range r.Symbols() {
				r.Subscribers(sym)
			}
			r.Stats()
		}
	}()

	wg.Wait()

	if stats := r.Stats(); stats.Connections != 0 {
		t.Errorf("Connections = %d after all unregistered, want 0", stats.Connections)
	}
}
