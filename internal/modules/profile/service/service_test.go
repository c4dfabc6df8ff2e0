package service_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"os"
	"strings"
	"testing"
	"time"

	"anoa.com/vxrank/internal/entity"
	profileDto "anoa.com/vxrank/internal/modules/profile/dto"
	profile "anoa.com/vxrank/internal/modules/profile/service"
	"anoa.com/vxrank/internal/testutil"
	"anoa.com/vxrank/pkg/apperror"
	commonDto "anoa.com/vxrank/pkg/dto"
	"github.com/golang-jwt/jwt/v5"
)

type fakeMedia struct {
	uploads   []string
	deleted   []string
	deleteErr error
}

func (f *fakeMedia) UploadVideo(ctx context.Context, r io.Reader, folder, fileName string) (string, error) {
	return "", errors.New("not used")
}

func (f *fakeMedia) UploadImage(ctx context.Context, r io.Reader, folder, fileName string) (string, error) {
	f.uploads = append(f.uploads, folder+"/"+fileName)
	return "https://cdn.test/" + folder + "/" + fileName, nil
}

func (f *fakeMedia) Delete(ctx context.Context, fileURL string) error {
	f.deleted = append(f.deleted, fileURL)
	return f.deleteErr
}

func ptr(s string) *string { return &s }

const secret = "test-secret"

func newService(t *testing.T, profiles ...entity.Profile) (profile.ProfileService, *fakeMedia) {
	t.Helper()
	repo := testutil.NewRepo(t)
	testutil.Seed(t, repo, profiles...)
	media := &fakeMedia{}
	return profile.NewProfileService(repo, media, profile.TokenConfig{Secret: secret, TTL: time.Hour}), media
}

// =============================================================================
// LOGIN
// =============================================================================

func TestLogin_CreatesThenReuses(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	first, err := svc.Login(ctx, profileDto.LoginInput{Username: "rider1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !first.Created || !first.Profile.NeedsOnboarding() {
		t.Errorf("expected a fresh profile awaiting onboarding, got %+v", first.Profile)
	}

	claims := &jwt.RegisteredClaims{}
	if _, err := jwt.ParseWithClaims(first.AccessToken, claims, func(*jwt.Token) (any, error) { return []byte(secret), nil }); err != nil {
		t.Fatalf("token does not verify: %v", err)
	}
	if claims.Subject != "rider1" {
		t.Errorf("expected subject rider1, got %q", claims.Subject)
	}

	second, err := svc.Login(ctx, profileDto.LoginInput{Username: "rider1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Created {
		t.Error("second login created a new profile")
	}
}

func TestLogin_RejectsBadUsername(t *testing.T) {
	svc, _ := newService(t)
	if _, err := svc.Login(context.Background(), profileDto.LoginInput{Username: "two words"}); !errors.Is(err, apperror.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

// =============================================================================
// ONBOARDING & SETTINGS
// =============================================================================

func TestParseSports(t *testing.T) {
	sports, err := profile.ParseSports([]string{"BMX", "Scooter", "BMX"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sports) != 2 || sports[0] != entity.SportBMX {
		t.Errorf("unexpected sports: %v", sports)
	}

	if _, err := profile.ParseSports(nil); err == nil {
		t.Error("expected empty selection to fail")
	}
	if _, err := profile.ParseSports([]string{"Luge"}); err == nil {
		t.Error("expected unknown sport to fail")
	}
}

func TestOnboard(t *testing.T) {
	svc, _ := newService(t, entity.NewProfile("newbie", time.Now()))

	p, err := svc.Onboard(context.Background(), "newbie", profileDto.OnboardingInput{
		Sports:          []string{"Scooter", "Skateboard"},
		Subscription:    "Pro",
		ExperienceLevel: "Advanced",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ActiveSport != entity.SportScooter || len(p.AvailableSports) != 2 {
		t.Errorf("unexpected sports: %s %v", p.ActiveSport, p.AvailableSports)
	}
	if p.Subscription != entity.TierPro || p.ExperienceLevel != entity.ExperienceAdvanced {
		t.Errorf("unexpected tier/experience: %s %s", p.Subscription, p.ExperienceLevel)
	}
	if p.NeedsOnboarding() {
		t.Error("profile still needs onboarding")
	}
}

func TestUpdateProfile(t *testing.T) {
	svc, media := newService(t, testutil.Rider("ana", entity.SportBMX, entity.SportScooter))

	p, err := svc.UpdateProfile(context.Background(), "ana", profileDto.UpdateProfileInput{
		Bio:         ptr(`<script>alert(1)</script>Street rider`),
		Theme:       ptr("magma"),
		ActiveSport: ptr("Scooter"),
	}, profileDto.ProfileUploads{
		Avatar: &commonDto.UploadFile{Reader: strings.NewReader("img"), FileName: "me.png"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Bio != "Street rider" {
		t.Errorf("expected sanitized bio, got %q", p.Bio)
	}
	if p.Theme != "magma" || p.ActiveSport != entity.SportScooter {
		t.Errorf("unexpected settings: %s %s", p.Theme, p.ActiveSport)
	}
	if p.AvatarURL != "https://cdn.test/avatars/me.png" || len(media.uploads) != 1 {
		t.Errorf("unexpected avatar %q, uploads %v", p.AvatarURL, media.uploads)
	}
	if p.Font != "inter" {
		t.Errorf("untouched field changed: font %q", p.Font)
	}
}

func TestUpdateProfile_ReplacedAvatarIsDeleted(t *testing.T) {
	svc, media := newService(t, testutil.Rider("ana"))
	ctx := context.Background()

	for _, name := range []string{"one.png", "two.png"} {
		if _, err := svc.UpdateProfile(ctx, "ana", profileDto.UpdateProfileInput{}, profileDto.ProfileUploads{
			Avatar: &commonDto.UploadFile{Reader: strings.NewReader("img"), FileName: name},
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if len(media.deleted) != 1 || media.deleted[0] != "https://cdn.test/avatars/one.png" {
		t.Errorf("expected the first avatar to be deleted, got %v", media.deleted)
	}
}

func TestUpdateProfile_FailedDeleteIsLoggedNotReturned(t *testing.T) {
	svc, media := newService(t, testutil.Rider("ana"))
	media.deleteErr = errors.New("cloudinary: 503")
	ctx := context.Background()

	var logs bytes.Buffer
	log.SetOutput(&logs)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	var updated *entity.Profile
	for _, name := range []string{"one.png", "two.png"} {
		p, err := svc.UpdateProfile(ctx, "ana", profileDto.UpdateProfileInput{}, profileDto.ProfileUploads{
			Avatar: &commonDto.UploadFile{Reader: strings.NewReader("img"), FileName: name},
		})
		if err != nil {
			t.Fatalf("a failed cleanup must not fail the update: %v", err)
		}
		updated = p
	}

	if updated.AvatarURL != "https://cdn.test/avatars/two.png" {
		t.Errorf("expected the new avatar to be stored, got %q", updated.AvatarURL)
	}
	if !strings.Contains(logs.String(), "https://cdn.test/avatars/one.png") || !strings.Contains(logs.String(), "cloudinary: 503") {
		t.Errorf("expected the failed delete to be logged, got %q", logs.String())
	}
}

func TestUpdateProfile_ActiveSportMustBeSelected(t *testing.T) {
	svc, _ := newService(t, testutil.Rider("ana", entity.SportBMX))

	_, err := svc.UpdateProfile(context.Background(), "ana", profileDto.UpdateProfileInput{ActiveSport: ptr("Scooter")}, profileDto.ProfileUploads{})
	if !errors.Is(err, apperror.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

// =============================================================================
// ROSTER & RESET
// =============================================================================

func TestListProfilesAndPublicView(t *testing.T) {
	svc, _ := newService(t, testutil.Rider("ben", entity.SportBMX), testutil.Rider("ana"))
	ctx := context.Background()

	roster, err := svc.ListProfiles(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(roster) != 2 || roster[0].Username != "ana" || roster[1].ActiveSport != entity.SportBMX {
		t.Errorf("unexpected roster: %+v", roster)
	}

	public, err := svc.GetProfileByUsername(ctx, "ben")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if public.Email != "" {
		t.Error("public view leaked the email")
	}
}

func TestDeleteProfile(t *testing.T) {
	svc, _ := newService(t, testutil.Rider("ana"))
	ctx := context.Background()

	if err := svc.DeleteProfile(ctx, "ana"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.GetCurrentProfile(ctx, "ana"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("expected ErrNotFound after reset, got %v", err)
	}
	if err := svc.DeleteProfile(ctx, "ana"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("expected ErrNotFound for second delete, got %v", err)
	}
}
