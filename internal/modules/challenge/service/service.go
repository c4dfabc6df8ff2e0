package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"anoa.com/vxrank/internal/entity"
	challengeDto "anoa.com/vxrank/internal/modules/challenge/dto"
	profileRepo "anoa.com/vxrank/internal/modules/profile/repository"
	progression "anoa.com/vxrank/internal/modules/progression/service"
	"anoa.com/vxrank/internal/modules/verification/provider"
	verification "anoa.com/vxrank/internal/modules/verification/service"
	"anoa.com/vxrank/pkg/apperror"
	commonDto "anoa.com/vxrank/pkg/dto"
	"github.com/microcosm-cc/bluemonday"
)

const actionGenerate = "generate_challenges"

type ChallengeService interface {
	// GenerateChallenges asks the AI for challenges near the rider. Premium
	// and Pro riders only. AI failures fall back to the built-in list.
	GenerateChallenges(ctx context.Context, username string, input challengeDto.GenerateChallengesInput) (*challengeDto.GenerateChallengesResponse, error)
	// CompleteChallenge verifies the clip and, when the AI confirms it,
	// applies the challenge under the daily quota.
	CompleteChallenge(ctx context.Context, username string, input challengeDto.CompleteChallengeInput, video commonDto.UploadFile) (*challengeDto.CompleteChallengeResponse, error)
}

type challengeService struct {
	repo         profileRepo.ProfileRepository
	progression  progression.ProgressionService
	verification verification.VerificationService
	llm          provider.LLMProvider
	limiter      verification.RateLimiter
	sanitizer    *bluemonday.Policy
	now          func() time.Time
}

func NewChallengeService(
	repo profileRepo.ProfileRepository,
	progressionService progression.ProgressionService,
	verificationService verification.VerificationService,
	llm provider.LLMProvider,
	limiter verification.RateLimiter,
) ChallengeService {
	return &challengeService{
		repo:         repo,
		progression:  progressionService,
		verification: verificationService,
		llm:          llm,
		limiter:      limiter,
		sanitizer:    bluemonday.StrictPolicy(),
		now:          time.Now,
	}
}

func (s *challengeService) GenerateChallenges(ctx context.Context, username string, input challengeDto.GenerateChallengesInput) (*challengeDto.GenerateChallengesResponse, error) {
	p, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if p.Subscription == entity.TierFree {
		return nil, apperror.New(http.StatusForbidden, "local challenges are a Premium feature", apperror.ErrForbidden)
	}
	sport, err := progression.ResolveSport(p, input.Sport)
	if err != nil {
		return nil, err
	}

	offline := func(notice string) *challengeDto.GenerateChallengesResponse {
		return &challengeDto.GenerateChallengesResponse{
			Challenges: fallbackChallenges(sport),
			Offline:    true,
			Notice:     notice,
		}
	}

	if s.llm == nil {
		return offline("Challenge generation is offline. Showing global challenges."), nil
	}
	allowed, wait, err := s.limiter.Allow(ctx, username, actionGenerate)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, apperror.New(http.StatusTooManyRequests,
			fmt.Sprintf("please wait %.0f seconds before generating again", wait.Seconds()),
			apperror.ErrRateLimitExceeded)
	}

	text, err := s.llm.GenerateText(ctx, generatePrompt(sport, input.Latitude, input.Longitude))
	if err != nil {
		if errors.Is(provider.ClassifyError(err), apperror.ErrAIQuotaExceeded) {
			return offline("Daily AI limit reached. Switched to offline mode."), nil
		}
		return offline("Failed to generate local challenges. Showing global challenges."), nil
	}

	challenges := ParseChallenges(text, sport, s.now(), s.sanitizer)
	if len(challenges) == 0 {
		return offline("No spots found nearby. Showing global challenges."), nil
	}
	return &challengeDto.GenerateChallengesResponse{Challenges: challenges}, nil
}

func (s *challengeService) CompleteChallenge(ctx context.Context, username string, input challengeDto.CompleteChallengeInput, video commonDto.UploadFile) (*challengeDto.CompleteChallengeResponse, error) {
	p, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	sport, err := progression.ResolveSport(p, input.Sport)
	if err != nil {
		return nil, err
	}

	// Spare the AI call when the quota is already spent.
	status, err := s.progression.DailyChallengeStatus(ctx, username)
	if err != nil {
		return nil, err
	}
	if status.Remaining == 0 {
		return nil, apperror.ErrDailyLimitReached
	}

	challenge := entity.Challenge{
		ID:           input.ID,
		Title:        s.sanitizer.Sanitize(input.Title),
		LocationName: s.sanitizer.Sanitize(input.LocationName),
		Description:  s.sanitizer.Sanitize(input.Description),
		Difficulty:   ParseDifficulty(input.Difficulty),
		Points:       input.Points,
		Sport:        sport,
	}
	if challenge.Points <= 0 {
		challenge.Points = DefaultChallengePoints
	}

	verdict, err := s.verification.VerifyChallenge(ctx, username, challenge, video)
	if err != nil {
		return nil, err
	}
	if !verdict.Completed {
		log.Printf("🙅 %s: challenge %q not completed", username, challenge.Title)
		return nil, apperror.New(http.StatusUnprocessableEntity, verdict.Reasoning, apperror.ErrVerificationRejected)
	}

	updated, err := s.progression.CompleteChallenge(ctx, username, sport, challenge)
	if err != nil {
		return nil, err
	}

	log.Printf("🎯 %s completed %q for %d trick points", username, challenge.Title, challenge.Points)
	return &challengeDto.CompleteChallengeResponse{
		Completed: true,
		Reasoning: verdict.Reasoning,
		Points:    challenge.Points,
		Profile:   *updated,
	}, nil
}
