package service

import (
	"context"
	"log"
	"math/rand/v2"

	"anoa.com/vxrank/internal/entity"
	profileRepo "anoa.com/vxrank/internal/modules/profile/repository"
	"anoa.com/vxrank/pkg/apperror"
)

const maxInitialLikes = 50

type ClipService interface {
	ListClips(ctx context.Context, username string, postedOnly bool) ([]entity.Clip, error)
	PostClip(ctx context.Context, username, clipID string) (*entity.Clip, error)
}

type clipService struct {
	repo  profileRepo.ProfileRepository
	likes func() int
}

func NewClipService(repo profileRepo.ProfileRepository) ClipService {
	return &clipService{
		repo:  repo,
		likes: func() int { return rand.IntN(maxInitialLikes) },
	}
}

// NewClipServiceWithLikes fixes the like generator, for tests.
func NewClipServiceWithLikes(repo profileRepo.ProfileRepository, likes func() int) ClipService {
	return &clipService{repo: repo, likes: likes}
}

func (s *clipService) ListClips(ctx context.Context, username string, postedOnly bool) ([]entity.Clip, error) {
	p, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if !postedOnly {
		return p.Clips, nil
	}

	posted := make([]entity.Clip, 0, len(p.Clips))
	for _, c := range p.Clips {
		if c.IsPosted {
			posted = append(posted, c)
		}
	}
	return posted, nil
}

func (s *clipService) PostClip(ctx context.Context, username, clipID string) (*entity.Clip, error) {
	var posted entity.Clip
	_, err := s.repo.Mutate(ctx, username, func(p entity.Profile) (entity.Profile, error) {
		out, found := PostClip(p, clipID, s.likes())
		if !found {
			return p, apperror.ErrNotFound
		}
		for _, c := range out.Clips {
			if c.ID == clipID {
				posted = c
			}
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("🎬 %s posted clip %s (%s)", username, clipID, posted.TrickName)
	return &posted, nil
}
