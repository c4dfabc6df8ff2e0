package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"anoa.com/vxrank/internal/entity"
	leaderboardDto "anoa.com/vxrank/internal/modules/leaderboard/dto"
	profileRepo "anoa.com/vxrank/internal/modules/profile/repository"
	"anoa.com/vxrank/pkg/apperror"
)

const DefaultLimit = 10

type LeaderboardService interface {
	// GetLeaderboard ranks the riders of one sport by trick points (the
	// challenge board) or by xp.
	GetLeaderboard(ctx context.Context, query leaderboardDto.LeaderboardQuery) ([]leaderboardDto.LeaderboardEntry, error)
}

type leaderboardService struct {
	repo profileRepo.ProfileRepository
}

func NewLeaderboardService(repo profileRepo.ProfileRepository) LeaderboardService {
	return &leaderboardService{repo: repo}
}

func (s *leaderboardService) GetLeaderboard(ctx context.Context, query leaderboardDto.LeaderboardQuery) ([]leaderboardDto.LeaderboardEntry, error) {
	sport := entity.Sport(query.Sport)
	if !sport.Valid() {
		return nil, apperror.Invalid(fmt.Sprintf("unknown sport %q", query.Sport))
	}
	limit := query.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	profiles, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return Rank(profiles, sport, query.Metric, limit), nil
}

// Rank keeps riders who ride sport and orders them by metric, highest
// first. Ties go to the username in ascending order.
func Rank(profiles []entity.Profile, sport entity.Sport, metric string, limit int) []leaderboardDto.LeaderboardEntry {
	score := func(st entity.SportStats) int { return st.TrickPoints }
	if metric == leaderboardDto.MetricXP {
		score = func(st entity.SportStats) int { return st.XP }
	}

	riders := make([]entity.Profile, 0, len(profiles))
	for _, p := range profiles {
		if slices.Contains(p.AvailableSports, sport) {
			riders = append(riders, p)
		}
	}
	slices.SortStableFunc(riders, func(a, b entity.Profile) int {
		if c := cmp.Compare(score(b.SportProfiles[sport]), score(a.SportProfiles[sport])); c != 0 {
			return c
		}
		return cmp.Compare(a.Username, b.Username)
	})
	if len(riders) > limit {
		riders = riders[:limit]
	}

	entries := make([]leaderboardDto.LeaderboardEntry, 0, len(riders))
	for i, p := range riders {
		st := p.SportProfiles[sport]
		entries = append(entries, leaderboardDto.LeaderboardEntry{
			Position:    i + 1,
			Username:    p.Username,
			AvatarURL:   p.AvatarURL,
			CurrentRank: string(st.CurrentRank),
			TrickPoints: st.TrickPoints,
			XP:          st.XP,
		})
	}
	return entries
}
