package service

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"slices"
	"strings"
	"time"

	"anoa.com/vxrank/internal/entity"
	profileDto "anoa.com/vxrank/internal/modules/profile/dto"
	profileRepo "anoa.com/vxrank/internal/modules/profile/repository"
	"anoa.com/vxrank/pkg/apperror"
	commonDto "anoa.com/vxrank/pkg/dto"
	"anoa.com/vxrank/pkg/storage"
	"github.com/golang-jwt/jwt/v5"
	"github.com/microcosm-cc/bluemonday"
)

type ProfileService interface {
	Login(ctx context.Context, input profileDto.LoginInput) (*profileDto.AuthResponse, error)
	GetCurrentProfile(ctx context.Context, username string) (*entity.Profile, error)
	GetProfileByUsername(ctx context.Context, username string) (*entity.Profile, error)
	ListProfiles(ctx context.Context) ([]profileDto.RiderSummary, error)
	Onboard(ctx context.Context, username string, input profileDto.OnboardingInput) (*entity.Profile, error)
	UpdateProfile(ctx context.Context, username string, input profileDto.UpdateProfileInput, uploads profileDto.ProfileUploads) (*entity.Profile, error)
	// DeleteProfile is the factory reset: the snapshot is gone and the next
	// login starts from scratch.
	DeleteProfile(ctx context.Context, username string) error
}

// TokenConfig controls the bearer tokens issued on login.
type TokenConfig struct {
	Secret string
	TTL    time.Duration
}

type profileService struct {
	repo      profileRepo.ProfileRepository
	media     storage.MediaStorage
	token     TokenConfig
	sanitizer *bluemonday.Policy
	now       func() time.Time
}

// NewProfileService builds the service. media may be nil; picture uploads
// are then refused.
func NewProfileService(repo profileRepo.ProfileRepository, media storage.MediaStorage, token TokenConfig) ProfileService {
	if token.TTL <= 0 {
		token.TTL = 24 * time.Hour
	}
	return &profileService{
		repo:      repo,
		media:     media,
		token:     token,
		sanitizer: bluemonday.StrictPolicy(),
		now:       time.Now,
	}
}

func (s *profileService) Login(ctx context.Context, input profileDto.LoginInput) (*profileDto.AuthResponse, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" || strings.ContainsAny(username, " /?#") {
		return nil, apperror.Invalid("username may not contain spaces or slashes")
	}

	p, created, err := s.repo.FindOrCreate(ctx, entity.NewProfile(username, s.now()))
	if err != nil {
		return nil, err
	}
	if created {
		log.Printf("👋 new rider %s", username)
	}

	token, expiresAt, err := s.generateToken(username)
	if err != nil {
		return nil, err
	}

	return &profileDto.AuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresAt,
		Created:     created,
		Profile:     p,
	}, nil
}

func (s *profileService) GetCurrentProfile(ctx context.Context, username string) (*entity.Profile, error) {
	p, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *profileService) GetProfileByUsername(ctx context.Context, username string) (*entity.Profile, error) {
	p, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	// Email stays private.
	p.Email = ""
	return &p, nil
}

func (s *profileService) ListProfiles(ctx context.Context) ([]profileDto.RiderSummary, error) {
	profiles, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	roster := make([]profileDto.RiderSummary, 0, len(profiles))
	for _, p := range profiles {
		stats := p.SportProfiles[p.ActiveSport]
		roster = append(roster, profileDto.RiderSummary{
			Username:    p.Username,
			ActiveSport: p.ActiveSport,
			CurrentRank: stats.CurrentRank,
			XP:          stats.XP,
			Followers:   p.Followers,
			AvatarURL:   p.AvatarURL,
		})
	}
	return roster, nil
}

func (s *profileService) Onboard(ctx context.Context, username string, input profileDto.OnboardingInput) (*entity.Profile, error) {
	sports, err := ParseSports(input.Sports)
	if err != nil {
		return nil, err
	}

	p, err := s.repo.Mutate(ctx, username, func(p entity.Profile) (entity.Profile, error) {
		return ApplyOnboarding(p, sports, entity.SubscriptionTier(input.Subscription), input.ExperienceLevel), nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *profileService) UpdateProfile(ctx context.Context, username string, input profileDto.UpdateProfileInput, uploads profileDto.ProfileUploads) (*entity.Profile, error) {
	// Uploads happen before the row is locked.
	avatarURL, err := s.upload(ctx, uploads.Avatar, "avatars")
	if err != nil {
		return nil, err
	}
	bannerURL, err := s.upload(ctx, uploads.Banner, "banners")
	if err != nil {
		return nil, err
	}
	backgroundURL, err := s.upload(ctx, uploads.Background, "backgrounds")
	if err != nil {
		return nil, err
	}

	var replaced []string
	p, err := s.repo.Mutate(ctx, username, func(p entity.Profile) (entity.Profile, error) {
		replaced = replaced[:0]
		if input.ActiveSport != nil {
			sport := entity.Sport(*input.ActiveSport)
			if !slices.Contains(p.AvailableSports, sport) {
				return p, apperror.Invalid(fmt.Sprintf("%s is not one of your sports", *input.ActiveSport))
			}
			p.ActiveSport = sport
		}
		if input.Email != nil {
			p.Email = strings.TrimSpace(*input.Email)
		}
		if input.Bio != nil {
			p.Bio = strings.TrimSpace(s.sanitizer.Sanitize(*input.Bio))
		}
		if input.Theme != nil {
			p.Theme = *input.Theme
		}
		if input.Font != nil {
			p.Font = *input.Font
		}
		if input.Subscription != nil {
			p.Subscription = entity.SubscriptionTier(*input.Subscription)
		}
		if input.ExperienceLevel != nil {
			p.ExperienceLevel = *input.ExperienceLevel
		}
		replaced = swapURL(&p.AvatarURL, avatarURL, replaced)
		replaced = swapURL(&p.BannerURL, bannerURL, replaced)
		replaced = swapURL(&p.BackgroundURL, backgroundURL, replaced)
		return p, nil
	})
	if err != nil {
		return nil, err
	}

	// The profile already points at the new image; a stale upload is only logged.
	for _, old := range replaced {
		if err := s.media.Delete(ctx, old); err != nil {
			log.Printf("❌ Failed to delete replaced image %s: %v", old, err)
		}
	}
	return &p, nil
}

// swapURL stores next in *field when set and records the URL it replaced.
func swapURL(field *string, next string, replaced []string) []string {
	if next == "" {
		return replaced
	}
	if *field != "" && *field != next {
		replaced = append(replaced, *field)
	}
	*field = next
	return replaced
}

func (s *profileService) DeleteProfile(ctx context.Context, username string) error {
	if err := s.repo.Delete(ctx, username); err != nil {
		return err
	}
	log.Printf("🧹 factory reset for %s", username)
	return nil
}

func (s *profileService) upload(ctx context.Context, file *commonDto.UploadFile, folder string) (string, error) {
	if file == nil || file.Reader == nil {
		return "", nil
	}
	if s.media == nil {
		return "", apperror.New(http.StatusServiceUnavailable, "media uploads are not configured", nil)
	}
	url, err := s.media.UploadImage(ctx, file.Reader, folder, file.FileName)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", folder, err)
	}
	return url, nil
}

func (s *profileService) generateToken(username string) (string, int64, error) {
	now := s.now()
	expiresAt := now.Add(s.token.TTL)

	claims := jwt.RegisteredClaims{
		Subject:   username,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.token.Secret))
	if err != nil {
		return "", 0, err
	}

	return signed, expiresAt.Unix(), nil
}
