package entity

// Trick is immutable catalog data.
type Trick struct {
	Name            string `json:"name"`
	Rank            Rank   `json:"rank"`
	DifficultyScore int    `json:"difficultyScore"`
}

const (
	MethodAIVerified  = "AI Verified"
	MethodManualEntry = "Manual Entry"
)

type SessionSummary struct {
	Duration  string  `json:"duration"`
	MaxSpeed  float64 `json:"maxSpeed"`
	MaxHeight float64 `json:"maxHeight"`
}

// RankProgress is the completion of one rank's catalog subset.
type RankProgress struct {
	Percent        int `json:"percent"`
	CompletedCount int `json:"completed_count"`
	TotalCount     int `json:"total_count"`
}
