package service

import (
	"context"
	"sort"

	"anoa.com/vxrank/internal/entity"
	profileRepo "anoa.com/vxrank/internal/modules/profile/repository"
)

type TrendingClip struct {
	Username string      `json:"username"`
	Clip     entity.Clip `json:"clip"`
}

type RiderStats struct {
	TotalRiders int                  `json:"total_riders"`
	BySport     map[entity.Sport]int `json:"by_sport"`
}

type StatService interface {
	GetRiderStats(ctx context.Context) (*RiderStats, error)
	GetTrendingClips(ctx context.Context, limit int) ([]TrendingClip, error)
}

type statService struct {
	repo profileRepo.ProfileRepository
}

func NewStatService(repo profileRepo.ProfileRepository) StatService {
	return &statService{
		repo: repo,
	}
}

func (s *statService) GetRiderStats(ctx context.Context) (*RiderStats, error) {
	profiles, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	stats := &RiderStats{TotalRiders: len(profiles), BySport: map[entity.Sport]int{}}
	for _, p := range profiles {
		for _, sport := range p.AvailableSports {
			stats.BySport[sport]++
		}
	}
	return stats, nil
}

func (s *statService) GetTrendingClips(ctx context.Context, limit int) ([]TrendingClip, error) {
	profiles, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return Trending(profiles, limit), nil
}

// Trending ranks posted clips by views, then likes, then recency.
func Trending(profiles []entity.Profile, limit int) []TrendingClip {
	clips := make([]TrendingClip, 0)
	for _, p := range profiles {
		for _, c := range p.Clips {
			if c.IsPosted {
				clips = append(clips, TrendingClip{Username: p.Username, Clip: c})
			}
		}
	}

	sort.SliceStable(clips, func(i, j int) bool {
		a, b := clips[i].Clip, clips[j].Clip
		if a.Views != b.Views {
			return a.Views > b.Views
		}
		if a.Likes != b.Likes {
			return a.Likes > b.Likes
		}
		return a.Date.After(b.Date)
	})

	if limit > 0 && len(clips) > limit {
		clips = clips[:limit]
	}
	return clips
}
