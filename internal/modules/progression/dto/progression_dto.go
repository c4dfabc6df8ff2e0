package dto

import (
	"anoa.com/vxrank/internal/entity"
)

// SportQuery selects a sport; empty means the active sport.
type SportQuery struct {
	Sport string `form:"sport" json:"sport"`
}

type LogTrickInput struct {
	Sport     string `json:"sport"`
	TrickName string `json:"trick_name" binding:"required,max=80"`
}

type PromoteRankInput struct {
	Sport   string `json:"sport"`
	NewRank string `json:"new_rank" binding:"required"`
}

type SessionInput struct {
	Sport     string  `json:"sport"`
	Duration  string  `json:"duration" binding:"required,max=16"`
	MaxSpeed  float64 `json:"max_speed" binding:"min=0"`
	MaxHeight float64 `json:"max_height" binding:"min=0"`
}

type TrickStatus struct {
	entity.Trick
	Completed bool `json:"completed"`
	XP        int  `json:"xp"`
}

type ProgressResponse struct {
	Sport       entity.Sport        `json:"sport"`
	CurrentRank entity.Rank         `json:"current_rank"`
	NextRank    entity.Rank         `json:"next_rank,omitempty"`
	Progress    entity.RankProgress `json:"progress"`
	Tricks      []TrickStatus       `json:"tricks"`
	Stats       entity.SportStats   `json:"stats"`
}

type TrickLogResponse struct {
	Trick    entity.Trick        `json:"trick"`
	XPEarned int                 `json:"xp_earned"`
	Promoted bool                `json:"promoted"`
	NewRank  entity.Rank         `json:"new_rank,omitempty"`
	Progress entity.RankProgress `json:"progress"`
	Profile  entity.Profile      `json:"profile"`
}

type DailyChallengeStatus struct {
	Completed int `json:"completed"`
	Limit     int `json:"limit"`
	Remaining int `json:"remaining"`
}
