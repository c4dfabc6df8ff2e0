package jobs

import (
	"context"
	"log"

	view "anoa.com/vxrank/internal/modules/view/service"
)

// ClipViewSyncJob folds buffered clip views into profile snapshots.
type ClipViewSyncJob struct {
	views    view.ViewService
	schedule string
}

func NewClipViewSyncJob(views view.ViewService, schedule string) *ClipViewSyncJob {
	return &ClipViewSyncJob{views: views, schedule: schedule}
}

func (j *ClipViewSyncJob) Name() string     { return "clip-view-sync" }
func (j *ClipViewSyncJob) Schedule() string { return j.schedule }

func (j *ClipViewSyncJob) Execute(ctx context.Context) error {
	n, err := j.views.SyncViews(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		log.Printf("👀 Synced views for %d clips", n)
	}
	return nil
}
