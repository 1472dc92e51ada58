package sales

import "context"

// RefreshJob adapts the refresher to the scheduled-job interface.
type RefreshJob struct {
	refresher *Refresher
}

func NewRefreshJob(refresher *Refresher) *RefreshJob {
	return &RefreshJob{refresher: refresher}
}

func (j *RefreshJob) Name() string { return "warehouse_refresh" }

func (j *RefreshJob) Run(ctx context.Context) error {
	return j.refresher.Refresh(ctx)
}
