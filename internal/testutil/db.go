// Package testutil holds fixtures shared by service and handler tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"anoa.com/vxrank/internal/entity"
	"anoa.com/vxrank/internal/modules/profile/repository"
	"anoa.com/vxrank/pkg/database"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewSQLiteDB opens a migrated in-memory database that lives for the test.
func NewSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

// NewRepo returns a profile repository over a fresh database.
func NewRepo(t *testing.T) repository.ProfileRepository {
	t.Helper()
	return repository.NewProfileRepository(NewSQLiteDB(t))
}

// Rider builds an onboarded profile for the given sports; the first one is
// active.
func Rider(username string, sports ...entity.Sport) entity.Profile {
	p := entity.NewProfile(username, time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC))
	if len(sports) == 0 {
		sports = []entity.Sport{entity.SportSkateboard}
	}
	p.AvailableSports = sports
	p.ActiveSport = sports[0]
	return p
}

// Seed stores profiles and fails the test on error.
func Seed(t *testing.T, repo repository.ProfileRepository, profiles ...entity.Profile) {
	t.Helper()
	for _, p := range profiles {
		if _, _, err := repo.FindOrCreate(context.Background(), p); err != nil {
			t.Fatalf("seed %s: %v", p.Username, err)
		}
	}
}
