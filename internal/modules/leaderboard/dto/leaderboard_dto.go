package dto

const (
	MetricTrickPoints = "trick_points"
	MetricXP          = "xp"
)

type LeaderboardQuery struct {
	Sport  string `form:"sport" binding:"required"`
	Metric string `form:"metric" binding:"omitempty,oneof=trick_points xp"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

// LeaderboardEntry is one rider on a per-sport board. Position is 1-based.
type LeaderboardEntry struct {
	Position    int    `json:"position"`
	Username    string `json:"username"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	CurrentRank string `json:"current_rank"`
	TrickPoints int    `json:"trick_points"`
	XP          int    `json:"xp"`
}
