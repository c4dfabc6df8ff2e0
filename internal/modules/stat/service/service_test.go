package service_test

import (
	"context"
	"testing"
	"time"

	"anoa.com/vxrank/internal/entity"
	stat "anoa.com/vxrank/internal/modules/stat/service"
	"anoa.com/vxrank/internal/testutil"
)

func clipAt(id string, views, likes, day int, posted bool) entity.Clip {
	return entity.Clip{
		ID:       id,
		Views:    views,
		Likes:    likes,
		IsPosted: posted,
		Date:     time.Date(2026, 5, day, 0, 0, 0, 0, time.UTC),
		Rank:     entity.RankBronze,
		Sport:    entity.SportSkateboard,
	}
}

func TestTrending(t *testing.T) {
	a := testutil.Rider("a")
	a.Clips = []entity.Clip{clipAt("a1", 5, 0, 1, true), clipAt("a2", 100, 0, 1, false)}
	b := testutil.Rider("b")
	b.Clips = []entity.Clip{clipAt("b1", 5, 9, 1, true), clipAt("b2", 5, 9, 3, true), clipAt("b3", 1, 0, 1, true)}

	got := stat.Trending([]entity.Profile{a, b}, 3)

	want := []string{"b2", "b1", "a1"}
	if len(got) != len(want) {
		t.Fatalf("expected %d clips, got %d", len(want), len(got))
	}
	for i, id := range want {
		if got[i].Clip.ID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, got[i].Clip.ID)
		}
	}
	if got[2].Username != "a" {
		t.Errorf("expected owner a, got %s", got[2].Username)
	}
}

func TestGetRiderStats(t *testing.T) {
	repo := testutil.NewRepo(t)
	testutil.Seed(t, repo,
		testutil.Rider("a", entity.SportSkateboard, entity.SportBMX),
		testutil.Rider("b", entity.SportBMX),
	)

	stats, err := stat.NewStatService(repo).GetRiderStats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.TotalRiders != 2 || stats.BySport[entity.SportBMX] != 2 || stats.BySport[entity.SportSkateboard] != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}
