package entity

import (
	"time"

	"gorm.io/datatypes"
)

// ProfileSnapshot is the persisted row: the encoded Profile plus a few
// columns lifted out of it for listing and leaderboards.
type ProfileSnapshot struct {
	Username    string         `gorm:"primaryKey;size:64" json:"username"`
	ActiveSport string         `gorm:"size:32;index" json:"active_sport"`
	Data        datatypes.JSON `gorm:"type:jsonb;not null" json:"data"`
	Version     int            `gorm:"not null;default:0" json:"version"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ProfileSnapshot) TableName() string { return "profile_snapshots" }
