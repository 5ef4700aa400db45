package cache

import (
	"sync"
	"testing"

	"github.com/rickgao/stock-stream/internal/model"
)

func TestStore_GetPut(t *testing.T) {
	s := New()

	if _, ok := s.Get("AAPL"); ok {
		t.Fatal("expected no snapshot before Put")
	}

	s.Put(model.Snapshot{Symbol: "AAPL", Price: 150.25})

	snap, ok := s.Get("AAPL")
	if !ok {
		t.Fatal("snapshot not found")
	}
	if snap.Price != 150.25 {
		t.Errorf("Price = %v, want 150.25", snap.Price)
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
}

func TestStore_ReplaceWholesale(t *testing.T) {
	s := New()

	s.Put(model.Snapshot{Symbol: "MSFT", Price: 400.10, Size: 50, Conditions: []int{1}})
	s.Put(model.Snapshot{Symbol: "MSFT", Price: 401.00})

	snap, _ := s.Get("MSFT")
	if snap.Price != 401.00 {
		t.Errorf("Price = %v, want 401.00", snap.Price)
	}
	// Fields from the earlier snapshot must not survive the replacement.
	if snap.Size != 0 || snap.Conditions != nil {
		t.Errorf("stale fields survived replacement: %+v", snap)
	}
}

func TestStore_Concurrent(t *testing.T) {
	s := New()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(price float64) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.Put(model.Snapshot{Symbol: "AAPL", Price: price})
				s.Get("AAPL")
			}
		}(float64(i))
	}
	wg.Wait()

	if _, ok := s.Get("AAPL"); !ok {
		t.Error("snapshot missing after concurrent writes")
	}
}
