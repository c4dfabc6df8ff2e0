package dto

import (
	"anoa.com/vxrank/internal/entity"
	commonDto "anoa.com/vxrank/pkg/dto"
)

type LoginInput struct {
	Username string `json:"username" binding:"required,min=2,max=32"`
}

type AuthResponse struct {
	AccessToken string         `json:"access_token"`
	TokenType   string         `json:"token_type"`
	ExpiresIn   int64          `json:"expires_in"`
	Created     bool           `json:"created"`
	Profile     entity.Profile `json:"profile"`
}

type OnboardingInput struct {
	Sports          []string `json:"sports" binding:"required,min=1,max=6"`
	Subscription    string   `json:"subscription" binding:"omitempty,oneof=Free Premium Pro"`
	ExperienceLevel string   `json:"experience_level" binding:"omitempty,oneof=Beginner Novice Intermediate Advanced Pro"`
}

// UpdateProfileInput is bound from multipart form or JSON. Nil fields are
// left unchanged.
type UpdateProfileInput struct {
	Email           *string `json:"email" form:"email" binding:"omitempty,email"`
	Bio             *string `json:"bio" form:"bio" binding:"omitempty,max=280"`
	Theme           *string `json:"theme" form:"theme" binding:"omitempty,oneof=default magma venom royal"`
	Font            *string `json:"font" form:"font" binding:"omitempty,oneof=inter roboto poppins montserrat"`
	ActiveSport     *string `json:"active_sport" form:"active_sport"`
	Subscription    *string `json:"subscription" form:"subscription" binding:"omitempty,oneof=Free Premium Pro"`
	ExperienceLevel *string `json:"experience_level" form:"experience_level" binding:"omitempty,oneof=Beginner Novice Intermediate Advanced Pro"`
}

// ProfileUploads carries the optional pictures sent with an update.
type ProfileUploads struct {
	Avatar     *commonDto.UploadFile
	Banner     *commonDto.UploadFile
	Background *commonDto.UploadFile
}

// RiderSummary is one roster entry.
type RiderSummary struct {
	Username    string       `json:"username"`
	ActiveSport entity.Sport `json:"active_sport"`
	CurrentRank entity.Rank  `json:"current_rank"`
	XP          int          `json:"xp"`
	Followers   int          `json:"followers"`
	AvatarURL   string       `json:"avatar_url,omitempty"`
}
