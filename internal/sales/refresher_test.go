package sales

import (
	"context"
	"errors"
	"testing"
	"time"

	pkgerrors "github.com/scottsberry/commerce-backend/pkg/errors"
	"github.com/scottsberry/commerce-backend/pkg/logger"
)

type fakeFetcher struct {
	records []OrderLineRecord
	err     error
	calls   int
}

func (f *fakeFetcher) FetchAll(context.Context) ([]OrderLineRecord, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

func newTestRefresher(t *testing.T, fetcher Fetcher) (*Refresher, *Store) {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Stockholm")
	if err != nil {
		t.Fatalf("load reporting zone: %v", err)
	}
	store := NewStore()
	refresher, err := NewRefresher(fetcher, store, loc, logger.New(logger.Options{ServiceName: "test"}))
	if err != nil {
		t.Fatalf("construct refresher: %v", err)
	}
	return refresher, store
}

func TestRefreshInstallsSnapshot(t *testing.T) {
	fetcher := &fakeFetcher{records: []OrderLineRecord{{OrderNumber: "1001", ProductNumber: "X"}}}
	refresher, store := newTestRefresher(t, fetcher)
	refresher.now = func() time.Time { return time.Date(2024, 1, 15, 6, 0, 0, 0, time.UTC) }

	if err := refresher.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	snap := store.Current()
	if snap == nil || len(snap.Records) != 1 {
		t.Fatalf("expected installed snapshot, got %+v", snap)
	}
	// 06:00 UTC is 07:00 in Stockholm during winter.
	if got := snap.LastUpdated.Format(TimestampLayout); got != "2024-01-15 07:00:00" {
		t.Fatalf("last updated must be localized to the reporting zone, got %s", got)
	}
}

func TestRefreshFailureLeavesPreviousSnapshot(t *testing.T) {
	fetcher := &fakeFetcher{records: []OrderLineRecord{{OrderNumber: "1001"}}}
	refresher, store := newTestRefresher(t, fetcher)

	if err := refresher.Refresh(context.Background()); err != nil {
		t.Fatalf("initial refresh: %v", err)
	}
	previous := store.Current()

	fetcher.err = pkgerrors.Wrap(pkgerrors.CodeDependency, errors.New("warehouse down"), "querying warehouse")
	err := refresher.Refresh(context.Background())
	if err == nil {
		t.Fatal("expected fetch error to propagate")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if store.Current() != previous {
		t.Fatalf("failed refresh must not replace the existing snapshot")
	}
}

func TestRefreshLastWriterWins(t *testing.T) {
	fetcher := &fakeFetcher{records: []OrderLineRecord{{OrderNumber: "1"}}}
	refresher, store := newTestRefresher(t, fetcher)

	if err := refresher.Refresh(context.Background()); err != nil {
		t.Fatalf("first refresh: %v", err)
	}
	fetcher.records = []OrderLineRecord{{OrderNumber: "2"}, {OrderNumber: "3"}}
	if err := refresher.Refresh(context.Background()); err != nil {
		t.Fatalf("second refresh: %v", err)
	}

	snap := store.Current()
	if len(snap.Records) != 2 {
		t.Fatalf("expected the later snapshot to win, got %d records", len(snap.Records))
	}
	if fetcher.calls != 2 {
		t.Fatalf("expected 2 fetches, got %d", fetcher.calls)
	}
}
