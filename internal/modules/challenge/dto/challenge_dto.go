package dto

import "anoa.com/vxrank/internal/entity"

type GenerateChallengesInput struct {
	Sport     string  `json:"sport"`
	Latitude  float64 `json:"latitude" binding:"min=-90,max=90"`
	Longitude float64 `json:"longitude" binding:"min=-180,max=180"`
}

type GenerateChallengesResponse struct {
	Challenges []entity.Challenge `json:"challenges"`
	// Offline is set when the list is the built-in fallback rather than
	// spots found near the rider.
	Offline bool   `json:"offline"`
	Notice  string `json:"notice,omitempty"`
}

// CompleteChallengeInput arrives as multipart form fields next to the video.
type CompleteChallengeInput struct {
	ID           string `form:"id" binding:"required,max=64"`
	Title        string `form:"title" binding:"required,max=120"`
	LocationName string `form:"location_name" binding:"max=120"`
	Description  string `form:"description" binding:"max=500"`
	Difficulty   string `form:"difficulty"`
	Points       int    `form:"points" binding:"min=0,max=5000"`
	Sport        string `form:"sport"`
}

type CompleteChallengeResponse struct {
	Completed bool           `json:"completed"`
	Reasoning string         `json:"reasoning"`
	Points    int            `json:"points"`
	Profile   entity.Profile `json:"profile"`
}
