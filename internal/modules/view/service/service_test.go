package view_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"anoa.com/vxrank/internal/entity"
	view "anoa.com/vxrank/internal/modules/view/service"
	"anoa.com/vxrank/internal/testutil"
	"anoa.com/vxrank/pkg/apperror"
)

// =============================================================================
// CLIP VIEW TESTS (write-through mode, no redis)
// =============================================================================
//
// - only posted clips can be viewed
// - the owner's own views are not counted
// - every other view is stored immediately
//
// =============================================================================

func riderWithClips() entity.Profile {
	p := testutil.Rider("sk8")
	p.Clips = []entity.Clip{
		{ID: "posted", TrickName: "Ollie", IsPosted: true, Rank: entity.RankBronze, Sport: entity.SportSkateboard, Date: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "draft", TrickName: "Wheelie", Rank: entity.RankBronze, Sport: entity.SportSkateboard, Date: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)},
	}
	return p
}

func TestRecordView_WriteThrough(t *testing.T) {
	ctx := context.Background()
	repo := testutil.NewRepo(t)
	testutil.Seed(t, repo, riderWithClips(), testutil.Rider("fan"))
	svc := view.NewViewService(nil, repo)

	for _, viewer := range []string{"fan", "fan", "sk8"} {
		if err := svc.RecordView(ctx, "sk8", "posted", viewer); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	p, _ := repo.FindByUsername(ctx, "sk8")
	if p.Clips[0].Views != 2 {
		t.Errorf("expected 2 views (owner excluded), got %d", p.Clips[0].Views)
	}

	if n, err := svc.SyncViews(ctx); err != nil || n != 0 {
		t.Errorf("expected nothing to sync without redis, got %d, %v", n, err)
	}
}

func TestRecordView_OnlyPostedClips(t *testing.T) {
	ctx := context.Background()
	repo := testutil.NewRepo(t)
	testutil.Seed(t, repo, riderWithClips())
	svc := view.NewViewService(nil, repo)

	for _, id := range []string{"draft", "missing"} {
		if err := svc.RecordView(ctx, "sk8", id, "fan"); !errors.Is(err, apperror.ErrNotFound) {
			t.Errorf("%s: expected ErrNotFound, got %v", id, err)
		}
	}
	if err := svc.RecordView(ctx, "ghost", "posted", "fan"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown owner, got %v", err)
	}
}
