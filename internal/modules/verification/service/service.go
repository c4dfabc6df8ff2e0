package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"anoa.com/vxrank/internal/entity"
	catalogService "anoa.com/vxrank/internal/modules/catalog/service"
	profileRepo "anoa.com/vxrank/internal/modules/profile/repository"
	progressionDto "anoa.com/vxrank/internal/modules/progression/dto"
	progression "anoa.com/vxrank/internal/modules/progression/service"
	"anoa.com/vxrank/internal/modules/verification/dto"
	"anoa.com/vxrank/internal/modules/verification/provider"
	"anoa.com/vxrank/pkg/apperror"
	commonDto "anoa.com/vxrank/pkg/dto"
	"anoa.com/vxrank/pkg/storage"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

const (
	actionVerifyTrick     = "verify_trick"
	actionVerifyChallenge = "verify_challenge"

	DefaultMaxVideoBytes = 50 << 20
)

// VerificationService is the boundary between the AI collaborator and the
// progression engine. Only accepted, checklist-matching verdicts get past it.
type VerificationService interface {
	// VerifyTrick judges a clip of a current-rank trick. An accepted verdict
	// is parked until ConfirmTrick; a rejected one changes nothing.
	VerifyTrick(ctx context.Context, username string, input dto.VerifyTrickInput, video commonDto.UploadFile) (*dto.VerifyTrickResponse, error)
	// ConfirmTrick applies a parked verdict, optionally under a corrected
	// trick name from the same rank.
	ConfirmTrick(ctx context.Context, username string, input dto.ConfirmTrickInput) (*progressionDto.TrickLogResponse, error)
	VerifyChallenge(ctx context.Context, username string, challenge entity.Challenge, video commonDto.UploadFile) (*dto.ChallengeVerdict, error)
}

type Config struct {
	PendingTTL    time.Duration
	MaxVideoBytes int64
}

type verificationService struct {
	repo        profileRepo.ProfileRepository
	catalog     *catalogService.Catalog
	progression progression.ProgressionService
	llm         provider.LLMProvider
	media       storage.MediaStorage
	limiter     RateLimiter
	pending     PendingStore
	cfg         Config
	sanitizer   *bluemonday.Policy
}

func NewVerificationService(
	repo profileRepo.ProfileRepository,
	catalog *catalogService.Catalog,
	progressionService progression.ProgressionService,
	llm provider.LLMProvider,
	media storage.MediaStorage,
	limiter RateLimiter,
	pending PendingStore,
	cfg Config,
) VerificationService {
	if cfg.PendingTTL <= 0 {
		cfg.PendingTTL = 15 * time.Minute
	}
	if cfg.MaxVideoBytes <= 0 {
		cfg.MaxVideoBytes = DefaultMaxVideoBytes
	}
	return &verificationService{
		repo:        repo,
		catalog:     catalog,
		progression: progressionService,
		llm:         llm,
		media:       media,
		limiter:     limiter,
		pending:     pending,
		cfg:         cfg,
		sanitizer:   bluemonday.StrictPolicy(),
	}
}

func (s *verificationService) VerifyTrick(ctx context.Context, username string, input dto.VerifyTrickInput, video commonDto.UploadFile) (*dto.VerifyTrickResponse, error) {
	p, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	sport, err := progression.ResolveSport(p, input.Sport)
	if err != nil {
		return nil, err
	}
	rank := p.SportProfiles[sport].CurrentRank
	target, ok := s.catalog.MatchInRank(sport, rank, input.TrickName)
	if !ok {
		return nil, apperror.Invalid(fmt.Sprintf("%q is not a %s trick for %s", input.TrickName, rank, sport))
	}

	data, mimeType, err := s.readVideo(video)
	if err != nil {
		return nil, err
	}
	text, err := s.ask(ctx, username, actionVerifyTrick, trickPrompt(string(sport), target.Name), data, mimeType)
	if err != nil {
		return nil, err
	}

	verdict := ParseTrickVerdict(text)
	verdict.Feedback = s.sanitizer.Sanitize(verdict.Feedback)
	verdict.TrickDetected = s.sanitizer.Sanitize(verdict.TrickDetected)

	res := &dto.VerifyTrickResponse{
		Accepted: verdict.Accepted(),
		Trick:    target,
		Verdict:  dto.Verdict(verdict),
	}
	if !res.Accepted {
		log.Printf("🙅 %s: %s not accepted (landed=%v rating=%.1f)", username, target.Name, verdict.Landed, verdict.Rating)
		return res, nil
	}

	if s.media == nil {
		return nil, apperror.New(http.StatusServiceUnavailable, "clip uploads are not configured", nil)
	}
	url, err := s.media.UploadVideo(ctx, bytes.NewReader(data), "clips", video.FileName)
	if err != nil {
		return nil, fmt.Errorf("upload clip: %w", err)
	}

	now := time.Now()
	pending := PendingVerification{
		ID:        uuid.NewString(),
		Username:  username,
		Sport:     sport,
		Rank:      rank,
		TrickName: target.Name,
		Verdict:   verdict,
		Clip: entity.Clip{
			ID:        uuid.NewString(),
			VideoURL:  url,
			TrickName: target.Name,
			Date:      now,
			Rank:      target.Rank,
			Sport:     sport,
		},
		CreatedAt: now,
	}
	if err := s.pending.Save(ctx, pending, s.cfg.PendingTTL); err != nil {
		return nil, err
	}

	res.PendingID = pending.ID
	for _, t := range s.catalog.RankTricks(sport, rank) {
		res.Choices = append(res.Choices, t.Name)
	}
	return res, nil
}

func (s *verificationService) ConfirmTrick(ctx context.Context, username string, input dto.ConfirmTrickInput) (*progressionDto.TrickLogResponse, error) {
	pending, err := s.pending.Get(ctx, username, input.PendingID)
	if err != nil {
		return nil, err
	}

	name := pending.TrickName
	if input.TrickName != "" {
		t, ok := s.catalog.MatchInRank(pending.Sport, pending.Rank, input.TrickName)
		if !ok {
			return nil, apperror.Invalid(fmt.Sprintf("%q is not a %s trick for %s", input.TrickName, pending.Rank, pending.Sport))
		}
		name = t.Name
	}

	// A verdict is only valid for the rank it was judged against. It stays
	// parked so the rider can still confirm it after a reset.
	p, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if current := p.SportProfiles[pending.Sport].CurrentRank; current != pending.Rank {
		return nil, apperror.New(http.StatusConflict,
			fmt.Sprintf("this clip was verified at %s but your %s rank is now %s", pending.Rank, pending.Sport, current),
			apperror.ErrInvalidInput)
	}

	// Take is the commit point: a second confirm of the same verdict fails.
	pending, err = s.pending.Take(ctx, username, input.PendingID)
	if err != nil {
		return nil, err
	}

	clip := pending.Clip
	clip.TrickName = name
	res, err := s.progression.LogVerifiedTrick(ctx, username, pending.Sport, name, clip)
	if err != nil {
		if saveErr := s.pending.Save(ctx, pending, s.cfg.PendingTTL); saveErr != nil {
			log.Printf("❌ Failed to restore pending verification %s for %s: %v", pending.ID, username, saveErr)
		}
		return nil, err
	}
	return res, nil
}

func (s *verificationService) VerifyChallenge(ctx context.Context, username string, challenge entity.Challenge, video commonDto.UploadFile) (*dto.ChallengeVerdict, error) {
	data, mimeType, err := s.readVideo(video)
	if err != nil {
		return nil, err
	}
	text, err := s.ask(ctx, username, actionVerifyChallenge, challengePrompt(challenge.Title, challenge.Description), data, mimeType)
	if err != nil {
		return nil, err
	}

	verdict := ParseChallengeVerdict(text)
	return &dto.ChallengeVerdict{
		Completed: verdict.Completed,
		Reasoning: s.sanitizer.Sanitize(verdict.Reasoning),
	}, nil
}

// ask runs one rate-limited AI call about a clip.
func (s *verificationService) ask(ctx context.Context, username, action, prompt string, data []byte, mimeType string) (string, error) {
	if s.llm == nil {
		return "", apperror.ErrAIUnavailable
	}

	allowed, wait, err := s.limiter.Allow(ctx, username, action)
	if err != nil {
		return "", err
	}
	if !allowed {
		return "", apperror.New(http.StatusTooManyRequests,
			fmt.Sprintf("please wait %.0f seconds before the next verification", wait.Seconds()),
			apperror.ErrRateLimitExceeded)
	}

	text, err := s.llm.GenerateWithMedia(ctx, prompt, provider.Media{Data: data, MIMEType: mimeType})
	if err != nil {
		return "", provider.ClassifyError(err)
	}
	return text, nil
}

func (s *verificationService) readVideo(video commonDto.UploadFile) ([]byte, string, error) {
	if video.Reader == nil {
		return nil, "", apperror.Invalid("video is required")
	}
	data, err := io.ReadAll(io.LimitReader(video.Reader, s.cfg.MaxVideoBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("read video: %w", err)
	}
	if int64(len(data)) > s.cfg.MaxVideoBytes {
		return nil, "", apperror.Invalid(fmt.Sprintf("video must be at most %d MB", s.cfg.MaxVideoBytes>>20))
	}
	if len(data) == 0 {
		return nil, "", apperror.Invalid("video is empty")
	}

	mimeType := video.ContentType
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(data)
	}
	return data, mimeType, nil
}
