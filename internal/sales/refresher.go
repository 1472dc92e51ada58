package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/scottsberry/commerce-backend/pkg/logger"
)

// Refresher replaces the store's snapshot with a fresh warehouse pull.
type Refresher struct {
	fetcher Fetcher
	store   *Store
	loc     *time.Location
	logg    *logger.Logger

	now func() time.Time
}

func NewRefresher(fetcher Fetcher, store *Store, loc *time.Location, logg *logger.Logger) (*Refresher, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("fetcher required")
	}
	if store == nil {
		return nil, fmt.Errorf("store required")
	}
	if loc == nil {
		return nil, fmt.Errorf("reporting location required")
	}
	return &Refresher{
		fetcher: fetcher,
		store:   store,
		loc:     loc,
		logg:    logg,
		now:     time.Now,
	}, nil
}

// Refresh pulls all warehouse rows and installs them as the new snapshot in
// one swap. On fetch failure the previous snapshot stays in place and the
// error propagates to the caller. Concurrent invocations are safe; the last
// writer's snapshot wins.
func (r *Refresher) Refresh(ctx context.Context) error {
	records, err := r.fetcher.FetchAll(ctx)
	if err != nil {
		return err
	}

	snap := &Snapshot{
		Records:     records,
		LastUpdated: r.now().In(r.loc),
	}
	r.store.Install(snap)

	if r.logg != nil {
		ctx = r.logg.WithFields(ctx, map[string]any{
			"rows":         len(records),
			"last_updated": snap.LastUpdated.Format(TimestampLayout),
		})
		r.logg.Info(ctx, "warehouse snapshot installed")
	}
	return nil
}

// Store exposes the snapshot store the refresher writes into.
func (r *Refresher) Store() *Store {
	return r.store
}
