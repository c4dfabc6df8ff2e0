package service_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"anoa.com/vxrank/internal/entity"
	catalog "anoa.com/vxrank/internal/modules/catalog/service"
	profileRepo "anoa.com/vxrank/internal/modules/profile/repository"
	progressionDto "anoa.com/vxrank/internal/modules/progression/dto"
	progression "anoa.com/vxrank/internal/modules/progression/service"
	"anoa.com/vxrank/internal/modules/verification/dto"
	"anoa.com/vxrank/internal/modules/verification/provider"
	verification "anoa.com/vxrank/internal/modules/verification/service"
	"anoa.com/vxrank/internal/testutil"
	"anoa.com/vxrank/pkg/apperror"
	commonDto "anoa.com/vxrank/pkg/dto"
)

// =============================================================================
// FAKES
// =============================================================================

type fakeLLM struct {
	answer string
	err    error
	calls  int
}

func (f *fakeLLM) GenerateText(ctx context.Context, prompt string) (string, error) {
	f.calls++
	return f.answer, f.err
}

func (f *fakeLLM) GenerateWithMedia(ctx context.Context, prompt string, media provider.Media) (string, error) {
	f.calls++
	return f.answer, f.err
}

func (f *fakeLLM) Close() {}

type fakeMedia struct {
	videos int
}

func (f *fakeMedia) UploadVideo(ctx context.Context, r io.Reader, folder, fileName string) (string, error) {
	f.videos++
	return "https://cdn.test/" + folder + "/" + fileName, nil
}

func (f *fakeMedia) UploadImage(ctx context.Context, r io.Reader, folder, fileName string) (string, error) {
	return "", errors.New("not used")
}

func (f *fakeMedia) Delete(ctx context.Context, fileURL string) error { return nil }

type fakeLimiter struct {
	blocked bool
}

func (f *fakeLimiter) Allow(ctx context.Context, username, action string) (bool, time.Duration, error) {
	if f.blocked {
		return false, 7 * time.Second, nil
	}
	return true, 0, nil
}

type fixture struct {
	svc         verification.VerificationService
	progression progression.ProgressionService
	repo        profileRepo.ProfileRepository
	llm         *fakeLLM
	media       *fakeMedia
	limiter     *fakeLimiter
}

func newFixture(t *testing.T, answer string) fixture {
	t.Helper()
	repo := testutil.NewRepo(t)
	testutil.Seed(t, repo, testutil.Rider("sk8"))

	cat := catalog.MustLoad()
	progressionService := progression.NewProgressionService(repo, cat, progression.NewEngine(cat))

	f := fixture{progression: progressionService, repo: repo, llm: &fakeLLM{answer: answer}, media: &fakeMedia{}, limiter: &fakeLimiter{}}
	f.svc = verification.NewVerificationService(repo, cat, progressionService, f.llm, f.media, f.limiter,
		verification.NewMemoryPendingStore(nil), verification.Config{PendingTTL: time.Minute})
	return f
}

func clip() commonDto.UploadFile {
	return commonDto.UploadFile{Reader: strings.NewReader("fake-mp4-bytes"), FileName: "ollie.mp4", ContentType: "video/mp4"}
}

// =============================================================================
// VERIFY → CONFIRM
// =============================================================================
//
// Only landed clips rated 5 or more for a trick of the current rank reach
// the engine, and only after the rider confirms.
//
// =============================================================================

func TestVerifyThenConfirm(t *testing.T) {
	f := newFixture(t, "```json\n{\"landed\": true, \"rating\": 7, \"trickDetected\": \"Ollie\"}\n```")
	ctx := context.Background()

	res, err := f.svc.VerifyTrick(ctx, "sk8", dto.VerifyTrickInput{TrickName: "ollie"}, clip())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Accepted || res.PendingID == "" || res.Trick.Name != "Ollie" {
		t.Fatalf("expected an accepted pending verdict, got %+v", res)
	}
	if len(res.Choices) != 4 {
		t.Errorf("expected the 4 Bronze tricks as choices, got %v", res.Choices)
	}

	stored, _ := f.repo.FindByUsername(ctx, "sk8")
	if stored.SportProfiles[entity.SportSkateboard].TricksLogged != 0 {
		t.Fatal("verify alone must not change progress")
	}

	logged, err := f.svc.ConfirmTrick(ctx, "sk8", dto.ConfirmTrickInput{PendingID: res.PendingID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if logged.XPEarned != 10 || len(logged.Profile.Clips) != 1 {
		t.Errorf("unexpected log result: xp %d, clips %d", logged.XPEarned, len(logged.Profile.Clips))
	}
	if logged.Profile.Clips[0].VideoURL != "https://cdn.test/clips/ollie.mp4" {
		t.Errorf("unexpected clip: %+v", logged.Profile.Clips[0])
	}
	if got := logged.Profile.RecentActivity[0].Subtitle; got != "Skateboard • Bronze • AI Verified" {
		t.Errorf("unexpected subtitle %q", got)
	}

	if _, err := f.svc.ConfirmTrick(ctx, "sk8", dto.ConfirmTrickInput{PendingID: res.PendingID}); !errors.Is(err, apperror.ErrNoPendingVerification) {
		t.Errorf("expected second confirm to fail, got %v", err)
	}
}

func TestConfirm_CorrectedName(t *testing.T) {
	f := newFixture(t, `{"landed": true, "rating": 6, "trickDetected": "Tic Tac"}`)
	ctx := context.Background()

	res, _ := f.svc.VerifyTrick(ctx, "sk8", dto.VerifyTrickInput{TrickName: "Ollie"}, clip())

	if _, err := f.svc.ConfirmTrick(ctx, "sk8", dto.ConfirmTrickInput{PendingID: res.PendingID, TrickName: "Kickflip"}); !errors.Is(err, apperror.ErrInvalidInput) {
		t.Fatalf("expected a correction outside the rank to fail, got %v", err)
	}

	logged, err := f.svc.ConfirmTrick(ctx, "sk8", dto.ConfirmTrickInput{PendingID: res.PendingID, TrickName: "tic-tac"})
	if err != nil {
		t.Fatalf("pending verdict should survive a bad correction: %v", err)
	}
	stats := logged.Profile.SportProfiles[entity.SportSkateboard]
	if !stats.HasCompleted("Tic-Tac") || stats.HasCompleted("Ollie") {
		t.Errorf("expected corrected trick to be logged, got %v", stats.CompletedTricks)
	}
	if logged.Profile.Clips[0].TrickName != "Tic-Tac" {
		t.Errorf("clip should carry the corrected name, got %q", logged.Profile.Clips[0].TrickName)
	}
}

func TestConfirm_RankChangedSinceVerify(t *testing.T) {
	f := newFixture(t, `{"landed": true, "rating": 8, "trickDetected": "Ollie"}`)
	ctx := context.Background()

	res, err := f.svc.VerifyTrick(ctx, "sk8", dto.VerifyTrickInput{TrickName: "Ollie"}, clip())
	if err != nil || !res.Accepted {
		t.Fatalf("expected an accepted verdict, got %+v, %v", res, err)
	}

	for _, name := range []string{"Tic-Tac", "Wheelie", "Ollie", "Fakie Kickturn"} {
		if _, err := f.progression.LogManualTrick(ctx, "sk8", progressionDto.LogTrickInput{TrickName: name}); err != nil {
			t.Fatalf("log %s: %v", name, err)
		}
	}
	stored, _ := f.repo.FindByUsername(ctx, "sk8")
	if stored.SportProfiles[entity.SportSkateboard].CurrentRank != entity.RankSilver {
		t.Fatalf("expected promotion to Silver, got %s", stored.SportProfiles[entity.SportSkateboard].CurrentRank)
	}

	for i := 0; i < 2; i++ {
		if _, err := f.svc.ConfirmTrick(ctx, "sk8", dto.ConfirmTrickInput{PendingID: res.PendingID}); !errors.Is(err, apperror.ErrInvalidInput) {
			t.Fatalf("confirm %d: expected a rank mismatch, got %v", i+1, err)
		}
	}

	// The verdict is still parked and applies again once the rider is back at Bronze.
	if _, err := f.progression.ResetProgress(ctx, "sk8", ""); err != nil {
		t.Fatalf("reset: %v", err)
	}
	logged, err := f.svc.ConfirmTrick(ctx, "sk8", dto.ConfirmTrickInput{PendingID: res.PendingID})
	if err != nil {
		t.Fatalf("expected the parked verdict to survive the mismatch: %v", err)
	}
	if !logged.Profile.SportProfiles[entity.SportSkateboard].HasCompleted("Ollie") || len(logged.Profile.Clips) != 1 {
		t.Errorf("expected Ollie and its clip to be recorded, got %+v", logged.Profile.SportProfiles[entity.SportSkateboard])
	}
}

func TestVerify_RejectedVerdictChangesNothing(t *testing.T) {
	f := newFixture(t, `{"landed": false, "rating": 3, "feedback": "Hand down on landing"}`)
	ctx := context.Background()

	res, err := f.svc.VerifyTrick(ctx, "sk8", dto.VerifyTrickInput{TrickName: "Ollie"}, clip())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Accepted || res.PendingID != "" {
		t.Errorf("expected rejection, got %+v", res)
	}
	if res.Verdict.Feedback != "Hand down on landing" {
		t.Errorf("unexpected feedback %q", res.Verdict.Feedback)
	}
	if f.media.videos != 0 {
		t.Error("rejected clip was uploaded")
	}
}

func TestVerify_Failures(t *testing.T) {
	t.Run("trick outside current rank", func(t *testing.T) {
		f := newFixture(t, `{"landed": true, "rating": 9}`)
		_, err := f.svc.VerifyTrick(context.Background(), "sk8", dto.VerifyTrickInput{TrickName: "Kickflip"}, clip())
		if !errors.Is(err, apperror.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
		if f.llm.calls != 0 {
			t.Error("AI was asked about a trick outside the checklist")
		}
	})

	t.Run("rate limited", func(t *testing.T) {
		f := newFixture(t, `{"landed": true, "rating": 9}`)
		f.limiter.blocked = true
		_, err := f.svc.VerifyTrick(context.Background(), "sk8", dto.VerifyTrickInput{TrickName: "Ollie"}, clip())
		if !errors.Is(err, apperror.ErrRateLimitExceeded) {
			t.Errorf("expected ErrRateLimitExceeded, got %v", err)
		}
		if apperror.MapErrorToStatus(err) != 429 {
			t.Errorf("expected 429, got %d", apperror.MapErrorToStatus(err))
		}
	})

	t.Run("quota exceeded", func(t *testing.T) {
		f := newFixture(t, "")
		f.llm.err = errors.New("googleapi: Error 429: RESOURCE_EXHAUSTED")
		_, err := f.svc.VerifyTrick(context.Background(), "sk8", dto.VerifyTrickInput{TrickName: "Ollie"}, clip())
		if !errors.Is(err, apperror.ErrAIQuotaExceeded) {
			t.Errorf("expected ErrAIQuotaExceeded, got %v", err)
		}
		stored, _ := f.repo.FindByUsername(context.Background(), "sk8")
		if stored.SportProfiles[entity.SportSkateboard].TricksLogged != 0 {
			t.Error("quota failure changed progress")
		}
	})

	t.Run("missing video", func(t *testing.T) {
		f := newFixture(t, "")
		_, err := f.svc.VerifyTrick(context.Background(), "sk8", dto.VerifyTrickInput{TrickName: "Ollie"}, commonDto.UploadFile{})
		if !errors.Is(err, apperror.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestVerifyChallenge(t *testing.T) {
	f := newFixture(t, `{"completed": true, "reasoning": "Cleared the gap"}`)
	ch := entity.Challenge{Title: "Gap It", Description: "Ollie the euro gap"}

	v, err := f.svc.VerifyChallenge(context.Background(), "sk8", ch, clip())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.Completed || v.Reasoning != "Cleared the gap" {
		t.Errorf("unexpected verdict: %+v", v)
	}
}

// =============================================================================
// PENDING STORE
// =============================================================================

func TestMemoryPendingStore_Expiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store := verification.NewMemoryPendingStore(func() time.Time { return now })
	ctx := context.Background()

	store.Save(ctx, verification.PendingVerification{ID: "p1", Username: "sk8"}, time.Minute)
	if _, err := store.Get(ctx, "other", "p1"); !errors.Is(err, apperror.ErrNoPendingVerification) {
		t.Error("entries must be scoped to their rider")
	}

	now = now.Add(2 * time.Minute)
	if _, err := store.Take(ctx, "sk8", "p1"); !errors.Is(err, apperror.ErrNoPendingVerification) {
		t.Errorf("expected expired entry to be gone, got %v", err)
	}
}
