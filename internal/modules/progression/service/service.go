package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"

	"anoa.com/vxrank/internal/entity"
	catalogService "anoa.com/vxrank/internal/modules/catalog/service"
	clipService "anoa.com/vxrank/internal/modules/clip/service"
	profileRepo "anoa.com/vxrank/internal/modules/profile/repository"
	"anoa.com/vxrank/internal/modules/progression/dto"
	"anoa.com/vxrank/pkg/apperror"
)

// ProgressionService loads a profile, folds one event into it with the
// Engine and stores the result. Each call is one locked read-modify-write.
type ProgressionService interface {
	GetProgress(ctx context.Context, username string, sport string) (*dto.ProgressResponse, error)
	LogManualTrick(ctx context.Context, username string, input dto.LogTrickInput) (*dto.TrickLogResponse, error)
	// LogVerifiedTrick records an AI-verified trick and stores its clip in
	// the same write. trickName must already be resolved against the
	// current rank.
	LogVerifiedTrick(ctx context.Context, username string, sport entity.Sport, trickName string, clip entity.Clip) (*dto.TrickLogResponse, error)
	PromoteRank(ctx context.Context, username string, input dto.PromoteRankInput) (*entity.Profile, error)
	CompleteSession(ctx context.Context, username string, input dto.SessionInput) (*entity.Profile, error)
	CompleteChallenge(ctx context.Context, username string, sport entity.Sport, challenge entity.Challenge) (*entity.Profile, error)
	ResetProgress(ctx context.Context, username string, sport string) (*entity.Profile, error)
	DailyChallengeStatus(ctx context.Context, username string) (*dto.DailyChallengeStatus, error)
}

type progressionService struct {
	repo    profileRepo.ProfileRepository
	catalog *catalogService.Catalog
	engine  *Engine
}

func NewProgressionService(repo profileRepo.ProfileRepository, catalog *catalogService.Catalog, engine *Engine) ProgressionService {
	return &progressionService{
		repo:    repo,
		catalog: catalog,
		engine:  engine,
	}
}

// ResolveSport picks the sport an event applies to. Empty means the active
// sport; anything else must be one of the rider's sports.
func ResolveSport(p entity.Profile, requested string) (entity.Sport, error) {
	if p.NeedsOnboarding() {
		return "", apperror.ErrOnboardingRequired
	}
	if requested == "" {
		return p.ActiveSport, nil
	}

	sport := entity.Sport(requested)
	if !sport.Valid() {
		return "", apperror.Invalid(fmt.Sprintf("unknown sport %q", requested))
	}
	if !slices.Contains(p.AvailableSports, sport) {
		return "", apperror.Invalid(fmt.Sprintf("%s is not one of your sports", sport))
	}
	return sport, nil
}

func (s *progressionService) GetProgress(ctx context.Context, username string, sport string) (*dto.ProgressResponse, error) {
	p, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	target, err := ResolveSport(p, sport)
	if err != nil {
		return nil, err
	}

	stats := p.SportProfiles[target]
	tricks := s.catalog.Tricks(target)

	res := &dto.ProgressResponse{
		Sport:       target,
		CurrentRank: stats.CurrentRank,
		Progress:    ComputeRankProgress(stats, tricks),
		Tricks:      []dto.TrickStatus{},
		Stats:       stats,
	}
	// The cached percentage is never shown as-is.
	res.Stats.RankProgress = res.Progress.Percent
	if next, ok := entity.NextRank(stats.CurrentRank); ok {
		res.NextRank = next
	}
	for _, t := range s.catalog.RankTricks(target, stats.CurrentRank) {
		res.Tricks = append(res.Tricks, dto.TrickStatus{
			Trick:     t,
			Completed: stats.HasCompleted(t.Name),
			XP:        TrickXP(t.Rank),
		})
	}
	return res, nil
}

func (s *progressionService) LogManualTrick(ctx context.Context, username string, input dto.LogTrickInput) (*dto.TrickLogResponse, error) {
	return s.logTrick(ctx, username, input.Sport, input.TrickName, entity.MethodManualEntry, nil)
}

func (s *progressionService) LogVerifiedTrick(ctx context.Context, username string, sport entity.Sport, trickName string, clip entity.Clip) (*dto.TrickLogResponse, error) {
	return s.logTrick(ctx, username, string(sport), trickName, entity.MethodAIVerified, &clip)
}

func (s *progressionService) logTrick(ctx context.Context, username, sport, trickName, method string, clip *entity.Clip) (*dto.TrickLogResponse, error) {
	res := &dto.TrickLogResponse{}

	p, err := s.repo.Mutate(ctx, username, func(p entity.Profile) (entity.Profile, error) {
		target, err := ResolveSport(p, sport)
		if err != nil {
			return p, err
		}

		stats := p.SportProfiles[target]
		trick, ok := s.catalog.MatchInRank(target, stats.CurrentRank, trickName)
		if !ok {
			return p, apperror.Invalid(fmt.Sprintf("%q is not a %s trick for %s", trickName, stats.CurrentRank, target))
		}

		if clip != nil {
			p = clipService.SaveClip(p, *clip)
		}

		xp := TrickXP(trick.Rank)
		result := s.engine.ApplyTrickCompletion(p, target, trick.Name, xp, method)
		next := result.Profile
		if result.PromotionPending {
			next = s.engine.ApplyRankPromotion(next, target, result.NextRank)
			res.Promoted = true
			res.NewRank = result.NextRank
		}

		res.Trick = trick
		res.XPEarned = xp
		res.Progress = ComputeRankProgress(next.SportProfiles[target], s.catalog.Tricks(target))
		return next, nil
	})
	if err != nil {
		return nil, err
	}

	if res.Promoted {
		log.Printf("🏆 %s promoted to %s after landing %s", username, res.NewRank, res.Trick.Name)
	}
	res.Profile = p
	return res, nil
}

// PromoteRank applies a promotion the rider has earned but that was never
// recorded. It refuses unless the current rank is complete and newRank is
// the next step.
func (s *progressionService) PromoteRank(ctx context.Context, username string, input dto.PromoteRankInput) (*entity.Profile, error) {
	p, err := s.repo.Mutate(ctx, username, func(p entity.Profile) (entity.Profile, error) {
		target, err := ResolveSport(p, input.Sport)
		if err != nil {
			return p, err
		}

		stats := p.SportProfiles[target]
		next, ok := entity.NextRank(stats.CurrentRank)
		if !ok || entity.Rank(input.NewRank) != next {
			return p, apperror.Invalid(fmt.Sprintf("cannot promote from %s to %s", stats.CurrentRank, input.NewRank))
		}
		if !RankComplete(stats, s.catalog.Tricks(target)) {
			return p, apperror.Invalid(fmt.Sprintf("%s is not complete yet", stats.CurrentRank))
		}

		return s.engine.ApplyRankPromotion(p, target, next), nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *progressionService) CompleteSession(ctx context.Context, username string, input dto.SessionInput) (*entity.Profile, error) {
	p, err := s.repo.Mutate(ctx, username, func(p entity.Profile) (entity.Profile, error) {
		target, err := ResolveSport(p, input.Sport)
		if err != nil {
			return p, err
		}
		return s.engine.ApplySessionCompletion(p, target, entity.SessionSummary{
			Duration:  input.Duration,
			MaxSpeed:  input.MaxSpeed,
			MaxHeight: input.MaxHeight,
		}), nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *progressionService) CompleteChallenge(ctx context.Context, username string, sport entity.Sport, challenge entity.Challenge) (*entity.Profile, error) {
	p, err := s.repo.Mutate(ctx, username, func(p entity.Profile) (entity.Profile, error) {
		target, err := ResolveSport(p, string(sport))
		if err != nil {
			return p, err
		}

		result := s.engine.ApplyChallengeCompletion(p, target, challenge)
		switch {
		case result.Accepted:
			return result.Profile, nil
		case result.Reason == ReasonDailyLimitReached:
			return p, apperror.ErrDailyLimitReached
		default:
			return p, apperror.Invalid("challenge cannot be applied")
		}
	})
	if err != nil {
		if errors.Is(err, apperror.ErrDailyLimitReached) {
			log.Printf("🚫 %s hit the daily challenge limit", username)
		}
		return nil, err
	}
	return &p, nil
}

func (s *progressionService) ResetProgress(ctx context.Context, username string, sport string) (*entity.Profile, error) {
	p, err := s.repo.Mutate(ctx, username, func(p entity.Profile) (entity.Profile, error) {
		target, err := ResolveSport(p, sport)
		if err != nil {
			return p, err
		}
		return s.engine.ApplyProgressReset(p, target), nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *progressionService) DailyChallengeStatus(ctx context.Context, username string) (*dto.DailyChallengeStatus, error) {
	p, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	done := EffectiveDailyCount(p, s.engine.Now(), s.engine.Location())
	return &dto.DailyChallengeStatus{
		Completed: done,
		Limit:     DailyChallengeLimit,
		Remaining: max(DailyChallengeLimit-done, 0),
	}, nil
}
