package view

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"anoa.com/vxrank/internal/entity"
	clip "anoa.com/vxrank/internal/modules/clip/service"
	profileRepo "anoa.com/vxrank/internal/modules/profile/repository"
	"anoa.com/vxrank/pkg/apperror"
	"github.com/redis/go-redis/v9"
)

const pendingKey = "pending:clip_views"

// ViewService counts clip views. With redis, views are buffered and a viewer
// counts once per hour per clip; SyncViews folds the buffer into profiles.
// Without redis every view is written through.
type ViewService interface {
	RecordView(ctx context.Context, owner, clipID, viewer string) error
	SyncViews(ctx context.Context) (int, error)
}

type viewService struct {
	redisClient *redis.Client
	repo        profileRepo.ProfileRepository
}

func NewViewService(redisClient *redis.Client, repo profileRepo.ProfileRepository) ViewService {
	return &viewService{
		redisClient: redisClient,
		repo:        repo,
	}
}

func (s *viewService) RecordView(ctx context.Context, owner, clipID, viewer string) error {
	p, err := s.repo.FindByUsername(ctx, owner)
	if err != nil {
		return err
	}
	if !hasPostedClip(p, clipID) {
		return apperror.ErrNotFound
	}

	// Owners watching their own clips don't count.
	if viewer == owner {
		return nil
	}

	if s.redisClient == nil {
		_, err := s.repo.Mutate(ctx, owner, func(p entity.Profile) (entity.Profile, error) {
			out, _ := clip.AddViews(p, clipID, 1)
			return out, nil
		})
		return err
	}

	// 1. Count each viewer once per hour
	viewerKey := fmt.Sprintf("clip:viewer:%s:%s:%s", owner, clipID, viewer)
	fresh, err := s.redisClient.SetNX(ctx, viewerKey, "viewed", time.Hour).Result()
	if err != nil {
		return fmt.Errorf("failed to mark viewer: %w", err)
	}
	if !fresh {
		return nil
	}

	// 2. Increment view count in Redis
	if err := s.redisClient.Incr(ctx, viewsKey(owner, clipID)).Err(); err != nil {
		return fmt.Errorf("failed to increment view: %w", err)
	}

	// 3. Add to pending sync set
	if err := s.redisClient.SAdd(ctx, pendingKey, owner+"|"+clipID).Err(); err != nil {
		return fmt.Errorf("failed to add to pending: %w", err)
	}
	return nil
}

// SyncViews moves buffered counts into the owners' snapshots and returns how
// many clips were updated.
func (s *viewService) SyncViews(ctx context.Context) (int, error) {
	if s.redisClient == nil {
		return 0, nil
	}

	members, err := s.redisClient.SMembers(ctx, pendingKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get pending clip views: %w", err)
	}

	synced := 0
	for _, member := range members {
		owner, clipID, ok := splitMember(member)
		if !ok {
			log.Printf("❌ Invalid pending clip view entry: %q", member)
			s.redisClient.SRem(ctx, pendingKey, member)
			continue
		}

		// Leave the set before draining so a concurrent view re-adds it.
		if err := s.redisClient.SRem(ctx, pendingKey, member).Err(); err != nil {
			log.Printf("❌ Failed to remove %s from pending set: %v", member, err)
			continue
		}
		countStr, err := s.redisClient.GetDel(ctx, viewsKey(owner, clipID)).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			log.Printf("❌ Error getting view count for clip %s: %v", clipID, err)
			continue
		}
		count, err := strconv.Atoi(countStr)
		if err != nil || count <= 0 {
			continue
		}

		_, err = s.repo.Mutate(ctx, owner, func(p entity.Profile) (entity.Profile, error) {
			out, _ := clip.AddViews(p, clipID, count)
			return out, nil
		})
		if err != nil {
			log.Printf("❌ Failed to store %d views for clip %s of %s: %v", count, clipID, owner, err)
			continue
		}
		synced++
	}

	return synced, nil
}

func viewsKey(owner, clipID string) string {
	return fmt.Sprintf("clip:views:%s:%s", owner, clipID)
}

// splitMember reverses owner+"|"+clipID. Clip ids never contain "|".
func splitMember(member string) (owner, clipID string, ok bool) {
	i := strings.LastIndex(member, "|")
	if i <= 0 || i == len(member)-1 {
		return "", "", false
	}
	return member[:i], member[i+1:], true
}

func hasPostedClip(p entity.Profile, clipID string) bool {
	for _, c := range p.Clips {
		if c.ID == clipID {
			return c.IsPosted
		}
	}
	return false
}
