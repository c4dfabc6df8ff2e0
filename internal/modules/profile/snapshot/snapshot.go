// Package snapshot converts between the stored JSON document and
// entity.Profile. Decode also migrates older documents, so everything past
// this point can assume a fully populated profile.
package snapshot

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"anoa.com/vxrank/internal/entity"
)

func Encode(p entity.Profile) ([]byte, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode profile snapshot: %w", err)
	}
	return data, nil
}

// storedStats accepts the number shapes older clients wrote, for example a
// fractional rankProgress.
type storedStats struct {
	CurrentRank     entity.Rank `json:"currentRank"`
	RankProgress    float64     `json:"rankProgress"`
	XP              float64     `json:"xp"`
	TrickPoints     float64     `json:"trickPoints"`
	TricksLogged    float64     `json:"tricksLogged"`
	CompletedTricks []string    `json:"completedTricks"`
}

func (s storedStats) toEntity() entity.SportStats {
	out := entity.SportStats{
		CurrentRank:     s.CurrentRank,
		RankProgress:    int(math.Round(s.RankProgress)),
		XP:              int(s.XP),
		TrickPoints:     int(s.TrickPoints),
		TricksLogged:    int(s.TricksLogged),
		CompletedTricks: dedupe(s.CompletedTricks),
	}
	if !out.CurrentRank.Valid() {
		out.CurrentRank = entity.FirstRank()
	}
	return out
}

// legacyFields is the single-sport layout that predates sportProfiles.
type legacyFields struct {
	storedStats
	SelectedSports []entity.Sport `json:"selectedSports"`
}

// Decode reads a stored document and normalizes it.
func Decode(data []byte) (entity.Profile, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return entity.Profile{}, fmt.Errorf("decode profile snapshot: %w", err)
	}

	sports, legacy, err := decodeSportProfiles(data, fields)
	if err != nil {
		return entity.Profile{}, err
	}
	challengeDate := decodeTime(fields["dailyChallengeDate"])

	delete(fields, "sportProfiles")
	delete(fields, "dailyChallengeDate")
	rest, err := json.Marshal(fields)
	if err != nil {
		return entity.Profile{}, fmt.Errorf("decode profile snapshot: %w", err)
	}

	var p entity.Profile
	if err := json.Unmarshal(rest, &p); err != nil {
		return entity.Profile{}, fmt.Errorf("decode profile snapshot: %w", err)
	}
	p.SportProfiles = sports
	p.DailyChallengeDate = challengeDate

	if legacy != nil {
		// Unknown sports are dropped so the legacy stats land on the first
		// sport that still exists.
		var selected []entity.Sport
		for _, sport := range legacy.SelectedSports {
			if sport.Valid() {
				selected = append(selected, sport)
			}
		}
		if len(selected) == 0 {
			selected = []entity.Sport{entity.SportSkateboard}
		}
		p.ActiveSport = selected[0]
		p.AvailableSports = selected
		p.SportProfiles[p.ActiveSport] = legacy.toEntity()
	}

	return Normalize(p), nil
}

func decodeSportProfiles(data []byte, fields map[string]json.RawMessage) (entity.SportProfiles, *legacyFields, error) {
	raw, ok := fields["sportProfiles"]
	if !ok || string(raw) == "null" {
		var legacy legacyFields
		if err := json.Unmarshal(data, &legacy); err != nil {
			return nil, nil, fmt.Errorf("decode legacy profile: %w", err)
		}
		return entity.NewSportProfiles(), &legacy, nil
	}

	var stored map[entity.Sport]storedStats
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, nil, fmt.Errorf("decode sport profiles: %w", err)
	}
	sports := entity.NewSportProfiles()
	for sport, s := range stored {
		if sport.Valid() {
			sports[sport] = s.toEntity()
		}
	}
	return sports, nil, nil
}

func decodeTime(raw json.RawMessage) time.Time {
	if len(raw) == 0 {
		return time.Time{}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil || s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Normalize fills defaults for anything missing or out of range.
func Normalize(p entity.Profile) entity.Profile {
	p.SportProfiles = p.SportProfiles.Fill()
	for sport, stats := range p.SportProfiles {
		if !stats.CurrentRank.Valid() {
			stats.CurrentRank = entity.FirstRank()
		}
		if stats.CompletedTricks == nil {
			stats.CompletedTricks = []string{}
		}
		stats.RankProgress = min(max(stats.RankProgress, 0), 100)
		p.SportProfiles[sport] = stats
	}

	available := make([]entity.Sport, 0, len(p.AvailableSports))
	for _, s := range p.AvailableSports {
		if s.Valid() && !contains(available, s) {
			available = append(available, s)
		}
	}
	p.AvailableSports = available
	if !p.ActiveSport.Valid() || (len(available) > 0 && !contains(available, p.ActiveSport)) {
		p.ActiveSport = entity.SportSkateboard
		if len(available) > 0 {
			p.ActiveSport = available[0]
		}
	}

	if p.ExperienceLevel == "" {
		p.ExperienceLevel = entity.ExperienceNovice
	}
	if p.Subscription == "" {
		p.Subscription = entity.TierFree
	}
	if p.Theme == "" {
		p.Theme = "default"
	}
	if p.Font == "" {
		p.Font = "inter"
	}

	p.Friends = dedupe(p.Friends)
	if p.RecentActivity == nil {
		p.RecentActivity = []entity.Activity{}
	}
	if len(p.RecentActivity) > 10 {
		p.RecentActivity = p.RecentActivity[:10]
	}
	if p.Clips == nil {
		p.Clips = []entity.Clip{}
	}
	if p.Following < 0 {
		p.Following = 0
	}
	if p.Followers < 0 {
		p.Followers = 0
	}
	return p
}

func dedupe(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}

func contains[T comparable](list []T, v T) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
