package bootstrap

import (
	"context"
	"log"
	"time"

	"anoa.com/vxrank/internal/entity"
	profileRepo "anoa.com/vxrank/internal/modules/profile/repository"
	"anoa.com/vxrank/pkg/database"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return database.Migrate(db)
}

// DemoRiders are the riders every fresh development database starts with, so
// the roster and leaderboards are not empty.
func DemoRiders(now time.Time) []entity.Profile {
	thrash := entity.NewProfile("ThrashMaster", now)
	thrash.Email = "tm@ex.com"
	thrash.AvailableSports = []entity.Sport{entity.SportSkateboard, entity.SportBMX}
	thrash.ActiveSport = entity.SportSkateboard
	thrash.Subscription = entity.TierPro
	thrash.ExperienceLevel = entity.ExperiencePro
	thrash.Followers = 150
	thrash.Following = 45
	thrash.SessionsCount = 12
	thrash.Bio = "Skate or die. Diamond rank street skater."

	skate := thrash.SportProfiles[entity.SportSkateboard]
	skate.CurrentRank = entity.RankDiamond
	skate.XP = 5000
	thrash.SportProfiles[entity.SportSkateboard] = skate

	bmx := thrash.SportProfiles[entity.SportBMX]
	bmx.CurrentRank = entity.RankSilver
	bmx.XP = 800
	thrash.SportProfiles[entity.SportBMX] = bmx

	return []entity.Profile{thrash}
}

// SeedDemoRiders creates the demo riders that are missing and leaves existing
// ones untouched.
func SeedDemoRiders(ctx context.Context, repo profileRepo.ProfileRepository) error {
	for _, p := range DemoRiders(time.Now()) {
		_, created, err := repo.FindOrCreate(ctx, p)
		if err != nil {
			return err
		}
		if created {
			log.Printf("✅ Demo rider %s seeded", p.Username)
		} else {
			log.Printf("Demo rider %s already exists, skipping seed", p.Username)
		}
	}
	return nil
}
