package service

import (
	"context"
	"log"

	"anoa.com/vxrank/internal/entity"
	profileRepo "anoa.com/vxrank/internal/modules/profile/repository"
	socialDto "anoa.com/vxrank/internal/modules/social/dto"
	"anoa.com/vxrank/pkg/apperror"
)

type SocialService interface {
	ToggleFollow(ctx context.Context, viewer, target string) (*socialDto.FollowResponse, error)
}

type socialService struct {
	repo profileRepo.ProfileRepository
}

func NewSocialService(repo profileRepo.ProfileRepository) SocialService {
	return &socialService{repo: repo}
}

// ToggleFollow updates both profiles in one transaction so the viewer's
// friends list and the target's follower count never disagree.
func (s *socialService) ToggleFollow(ctx context.Context, viewer, target string) (*socialDto.FollowResponse, error) {
	if viewer == target {
		return nil, apperror.Invalid("you cannot follow yourself")
	}

	var delta int
	v, t, err := s.repo.MutatePair(ctx, viewer, target, func(v, t entity.Profile) (entity.Profile, entity.Profile, error) {
		var next entity.Profile
		next, delta = ToggleFollow(v, t.Username)
		return next, ApplyFollowerDelta(t, delta), nil
	})
	if err != nil {
		return nil, err
	}

	if delta > 0 {
		log.Printf("🤝 %s followed %s", viewer, target)
	}
	return &socialDto.FollowResponse{
		Following:       delta > 0,
		TargetFollowers: t.Followers,
		Profile:         v,
	}, nil
}
