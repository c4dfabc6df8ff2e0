package repository

import (
	"context"
	"errors"
	"fmt"

	"anoa.com/vxrank/internal/entity"
	"anoa.com/vxrank/internal/modules/profile/snapshot"
	"anoa.com/vxrank/pkg/apperror"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MutateFunc receives the current profile and returns the one to store.
// Returning an error aborts the write.
type MutateFunc func(p entity.Profile) (entity.Profile, error)

// PairMutateFunc is MutateFunc for two profiles changed together.
type PairMutateFunc func(a, b entity.Profile) (entity.Profile, entity.Profile, error)

type ProfileRepository interface {
	// FindOrCreate returns the stored profile for p.Username, inserting p if
	// there is none. The bool reports whether p was inserted.
	FindOrCreate(ctx context.Context, p entity.Profile) (entity.Profile, bool, error)
	FindByUsername(ctx context.Context, username string) (entity.Profile, error)
	FindAll(ctx context.Context) ([]entity.Profile, error)
	// Mutate loads, transforms and saves one profile while holding its row
	// lock, so writes for a user are applied one after another.
	Mutate(ctx context.Context, username string, fn MutateFunc) (entity.Profile, error)
	MutatePair(ctx context.Context, a, b string, fn PairMutateFunc) (entity.Profile, entity.Profile, error)
	Delete(ctx context.Context, username string) error
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) FindOrCreate(ctx context.Context, p entity.Profile) (entity.Profile, bool, error) {
	data, err := snapshot.Encode(p)
	if err != nil {
		return entity.Profile{}, false, err
	}

	row := entity.ProfileSnapshot{
		Username:    p.Username,
		ActiveSport: string(p.ActiveSport),
		Data:        datatypes.JSON(data),
	}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
	if res.Error != nil {
		return entity.Profile{}, false, fmt.Errorf("create profile %s: %w", p.Username, res.Error)
	}
	if res.RowsAffected == 1 {
		return p, true, nil
	}

	existing, err := r.FindByUsername(ctx, p.Username)
	return existing, false, err
}

func (r *profileRepository) FindByUsername(ctx context.Context, username string) (entity.Profile, error) {
	var rows []entity.ProfileSnapshot
	if err := r.db.WithContext(ctx).Where("username = ?", username).Limit(1).Find(&rows).Error; err != nil {
		return entity.Profile{}, err
	}
	if len(rows) == 0 {
		return entity.Profile{}, apperror.ErrNotFound
	}
	return snapshot.Decode(rows[0].Data)
}

func (r *profileRepository) FindAll(ctx context.Context) ([]entity.Profile, error) {
	var rows []entity.ProfileSnapshot
	if err := r.db.WithContext(ctx).Order("username ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	profiles := make([]entity.Profile, 0, len(rows))
	for _, row := range rows {
		p, err := snapshot.Decode(row.Data)
		if err != nil {
			return nil, fmt.Errorf("profile %s: %w", row.Username, err)
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

func (r *profileRepository) Mutate(ctx context.Context, username string, fn MutateFunc) (entity.Profile, error) {
	var result entity.Profile
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, current, err := lockRow(tx, username)
		if err != nil {
			return err
		}

		next, err := fn(current)
		if err != nil {
			return err
		}
		if err := saveRow(tx, row, next); err != nil {
			return err
		}
		result = next
		return nil
	})
	return result, err
}

func (r *profileRepository) MutatePair(ctx context.Context, a, b string, fn PairMutateFunc) (entity.Profile, entity.Profile, error) {
	if a == b {
		return entity.Profile{}, entity.Profile{}, apperror.ErrInvalidInput
	}

	var resA, resB entity.Profile
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock in a fixed order so two opposite follows cannot deadlock.
		first, second := a, b
		if second < first {
			first, second = second, first
		}
		rowFirst, pFirst, err := lockRow(tx, first)
		if err != nil {
			return err
		}
		rowSecond, pSecond, err := lockRow(tx, second)
		if err != nil {
			return err
		}

		rowA, pA, rowB, pB := rowFirst, pFirst, rowSecond, pSecond
		if first != a {
			rowA, pA, rowB, pB = rowSecond, pSecond, rowFirst, pFirst
		}

		nextA, nextB, err := fn(pA, pB)
		if err != nil {
			return err
		}
		if err := saveRow(tx, rowA, nextA); err != nil {
			return err
		}
		if err := saveRow(tx, rowB, nextB); err != nil {
			return err
		}
		resA, resB = nextA, nextB
		return nil
	})
	return resA, resB, err
}

func (r *profileRepository) Delete(ctx context.Context, username string) error {
	res := r.db.WithContext(ctx).Where("username = ?", username).Delete(&entity.ProfileSnapshot{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.ErrNotFound
	}
	return nil
}

func lockRow(tx *gorm.DB, username string) (entity.ProfileSnapshot, entity.Profile, error) {
	var row entity.ProfileSnapshot
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("username = ?", username).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return row, entity.Profile{}, apperror.ErrNotFound
		}
		return row, entity.Profile{}, err
	}

	p, err := snapshot.Decode(row.Data)
	if err != nil {
		return row, entity.Profile{}, err
	}
	return row, p, nil
}

func saveRow(tx *gorm.DB, row entity.ProfileSnapshot, p entity.Profile) error {
	// The row key is the identity; a mutation cannot rename a profile.
	p.Username = row.Username

	data, err := snapshot.Encode(p)
	if err != nil {
		return err
	}
	return tx.Model(&entity.ProfileSnapshot{}).
		Where("username = ?", row.Username).
		Updates(map[string]any{
			"data":         datatypes.JSON(data),
			"active_sport": string(p.ActiveSport),
			"version":      gorm.Expr("version + 1"),
		}).Error
}
