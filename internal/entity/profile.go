package entity

import (
	"slices"
	"time"
)

type ActivityType string

const (
	ActivityTrick     ActivityType = "trick"
	ActivitySession   ActivityType = "session"
	ActivityRankUp    ActivityType = "rankup"
	ActivityChallenge ActivityType = "challenge"
)

type Activity struct {
	ID        string       `json:"id"`
	Type      ActivityType `json:"type"`
	Title     string       `json:"title"`
	Subtitle  string       `json:"subtitle"`
	XP        int          `json:"xp"`
	Timestamp time.Time    `json:"timestamp"`
}

type Clip struct {
	ID           string    `json:"id"`
	VideoURL     string    `json:"videoUrl"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
	TrickName    string    `json:"trickName"`
	Date         time.Time `json:"date"`
	Rank         Rank      `json:"rank"`
	Likes        int       `json:"likes"`
	Views        int       `json:"views"`
	IsPosted     bool      `json:"isPosted"`
	Sport        Sport     `json:"sport"`
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
	DifficultyInsane Difficulty = "Insane"
)

type Challenge struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	LocationName string     `json:"locationName"`
	Description  string     `json:"description"`
	Points       int        `json:"points"`
	Difficulty   Difficulty `json:"difficulty"`
	Sport        Sport      `json:"sport"`
}

type SubscriptionTier string

const (
	TierFree    SubscriptionTier = "Free"
	TierPremium SubscriptionTier = "Premium"
	TierPro     SubscriptionTier = "Pro"
)

const (
	ExperienceBeginner     = "Beginner"
	ExperienceNovice       = "Novice"
	ExperienceIntermediate = "Intermediate"
	ExperienceAdvanced     = "Advanced"
	ExperiencePro          = "Pro"
)

// SportStats is the per-sport progress store.
type SportStats struct {
	CurrentRank     Rank     `json:"currentRank"`
	RankProgress    int      `json:"rankProgress"`
	XP              int      `json:"xp"`
	TrickPoints     int      `json:"trickPoints"`
	TricksLogged    int      `json:"tricksLogged"`
	CompletedTricks []string `json:"completedTricks"`
}

func NewSportStats() SportStats {
	return SportStats{
		CurrentRank:     FirstRank(),
		CompletedTricks: []string{},
	}
}

// HasCompleted reports whether name is in the completion set.
func (s SportStats) HasCompleted(name string) bool {
	return slices.Contains(s.CompletedTricks, name)
}

func (s SportStats) Clone() SportStats {
	out := s
	out.CompletedTricks = append([]string{}, s.CompletedTricks...)
	return out
}

// SportProfiles holds one SportStats per known sport. Construct it with
// NewSportProfiles or Fill so that every key in AllSports is present.
type SportProfiles map[Sport]SportStats

func NewSportProfiles() SportProfiles {
	sp := make(SportProfiles, len(knownSports))
	for _, s := range knownSports {
		sp[s] = NewSportStats()
	}
	return sp
}

// Fill seeds zeroed stats for every known sport that is missing.
func (sp SportProfiles) Fill() SportProfiles {
	if sp == nil {
		return NewSportProfiles()
	}
	for _, s := range knownSports {
		if _, ok := sp[s]; !ok {
			sp[s] = NewSportStats()
		}
	}
	return sp
}

func (sp SportProfiles) Clone() SportProfiles {
	out := make(SportProfiles, len(sp))
	for k, v := range sp {
		out[k] = v.Clone()
	}
	return out
}

type PersonalBests struct {
	Speed   float64 `json:"speed"`
	AirTime float64 `json:"airTime"`
}

// Profile is the aggregate root persisted as a single snapshot.
type Profile struct {
	Username        string           `json:"username"`
	Email           string           `json:"email"`
	ActiveSport     Sport            `json:"activeSport"`
	AvailableSports []Sport          `json:"availableSports"`
	Subscription    SubscriptionTier `json:"subscription"`
	ExperienceLevel string           `json:"experienceLevel"`
	SportProfiles   SportProfiles    `json:"sportProfiles"`
	SessionsCount   int              `json:"sessionsCount"`
	RecentActivity  []Activity       `json:"recentActivity"`
	Clips           []Clip           `json:"clips"`
	Followers       int              `json:"followers"`
	Following       int              `json:"following"`
	Friends         []string         `json:"friends"`
	Bio             string           `json:"bio"`
	PersonalBests   PersonalBests    `json:"personalBests"`

	DailyChallengesCompleted int       `json:"dailyChallengesCompleted"`
	DailyChallengeDate       time.Time `json:"dailyChallengeDate"`

	Theme         string `json:"theme"`
	Font          string `json:"font"`
	AvatarURL     string `json:"avatarUrl,omitempty"`
	BannerURL     string `json:"bannerUrl,omitempty"`
	BackgroundURL string `json:"backgroundUrl,omitempty"`
}

// NewProfile builds the first-login profile. AvailableSports is left empty
// so the client runs onboarding.
func NewProfile(username string, now time.Time) Profile {
	return Profile{
		Username:           username,
		Email:              username + "@example.com",
		ActiveSport:        SportSkateboard,
		AvailableSports:    []Sport{},
		Subscription:       TierFree,
		ExperienceLevel:    ExperienceBeginner,
		SportProfiles:      NewSportProfiles(),
		RecentActivity:     []Activity{},
		Clips:              []Clip{},
		Friends:            []string{},
		DailyChallengeDate: now,
		Theme:              "default",
		Font:               "inter",
	}
}

func (p Profile) NeedsOnboarding() bool {
	return len(p.AvailableSports) == 0
}

func (p Profile) IsFollowing(username string) bool {
	return slices.Contains(p.Friends, username)
}

// Clone returns a deep copy; reducers work on the copy only.
func (p Profile) Clone() Profile {
	out := p
	out.AvailableSports = append([]Sport{}, p.AvailableSports...)
	out.SportProfiles = p.SportProfiles.Clone()
	out.RecentActivity = append([]Activity{}, p.RecentActivity...)
	out.Clips = append([]Clip{}, p.Clips...)
	out.Friends = append([]string{}, p.Friends...)
	return out
}
