package sales

import (
	"sync"
	"testing"
	"time"
)

func TestStoreStartsEmpty(t *testing.T) {
	store := NewStore()
	if store.Current() != nil {
		t.Fatalf("expected nil snapshot before first install")
	}
}

func TestStoreInstallReplacesWholesale(t *testing.T) {
	store := NewStore()
	first := &Snapshot{Records: []OrderLineRecord{{OrderNumber: "1"}}, LastUpdated: time.Now()}
	second := &Snapshot{Records: []OrderLineRecord{{OrderNumber: "2"}, {OrderNumber: "3"}}, LastUpdated: time.Now()}

	store.Install(first)
	if got := store.Current(); got != first {
		t.Fatalf("expected first snapshot, got %+v", got)
	}

	store.Install(second)
	if got := store.Current(); got != second {
		t.Fatalf("expected second snapshot after swap, got %+v", got)
	}
	if len(first.Records) != 1 {
		t.Fatalf("prior snapshot must not be mutated by a swap")
	}
}

func TestStoreSwapIsAtomicUnderConcurrentReads(t *testing.T) {
	store := NewStore()
	store.Install(&Snapshot{Records: make([]OrderLineRecord, 10)})

	done := make(chan struct{})
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			store.Install(&Snapshot{Records: make([]OrderLineRecord, 20)})
			store.Install(&Snapshot{Records: make([]OrderLineRecord, 10)})
		}
		close(done)
	}()

	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				snap := store.Current()
				if snap == nil {
					continue
				}
				// A reader must observe a complete snapshot: its record
				// slice is either entirely the old one or the new one.
				if n := len(snap.Records); n != 10 && n != 20 {
					t.Errorf("observed partially built snapshot of %d records", n)
					return
				}
			}
		}()
	}

	wg.Wait()
}
