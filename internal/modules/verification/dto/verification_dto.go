package dto

import "anoa.com/vxrank/internal/entity"

// VerifyTrickInput arrives as multipart form fields next to the video.
type VerifyTrickInput struct {
	Sport     string `form:"sport"`
	TrickName string `form:"trick_name" binding:"required,max=80"`
}

type Verdict struct {
	Landed        bool    `json:"landed"`
	Rating        float64 `json:"rating"`
	TrickDetected string  `json:"trick_detected"`
	Feedback      string  `json:"feedback"`
	Confidence    int     `json:"confidence"`
}

type VerifyTrickResponse struct {
	Accepted  bool         `json:"accepted"`
	PendingID string       `json:"pending_id,omitempty"`
	Trick     entity.Trick `json:"trick"`
	Verdict   Verdict      `json:"verdict"`
	// Choices lists the current-rank tricks the rider may pick from when
	// correcting the detected name on confirm.
	Choices []string `json:"choices,omitempty"`
}

type ConfirmTrickInput struct {
	PendingID string `json:"pending_id" binding:"required"`
	TrickName string `json:"trick_name" binding:"omitempty,max=80"`
}

type ChallengeVerdict struct {
	Completed bool   `json:"completed"`
	Reasoning string `json:"reasoning"`
}
