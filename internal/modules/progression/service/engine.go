package service

import (
	"fmt"
	"math"
	"slices"
	"time"

	"anoa.com/vxrank/internal/entity"
	"github.com/google/uuid"
)

const (
	RankUpBonusXP    = 500
	SessionBonusXP   = 50
	ChallengeBonusXP = 100
)

// TrickCatalog is the static lookup the engine reads from.
type TrickCatalog interface {
	Tricks(sport entity.Sport) []entity.Trick
}

// Engine folds events into a Profile. Every Apply method returns a new
// Profile and leaves its input untouched.
type Engine struct {
	catalog TrickCatalog
	now     func() time.Time
	newID   func() string
	loc     *time.Location
}

type EngineOption func(*Engine)

func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) { e.now = now }
}

func WithIDGenerator(newID func() string) EngineOption {
	return func(e *Engine) { e.newID = newID }
}

// WithLocation sets the zone used to decide what "today" is for the daily
// challenge quota.
func WithLocation(loc *time.Location) EngineOption {
	return func(e *Engine) {
		if loc != nil {
			e.loc = loc
		}
	}
}

func NewEngine(catalog TrickCatalog, opts ...EngineOption) *Engine {
	e := &Engine{
		catalog: catalog,
		now:     time.Now,
		newID:   uuid.NewString,
		loc:     time.Local,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// TrickXP is the xp a trick is worth: ten per ladder step, starting at 10.
func TrickXP(rank entity.Rank) int {
	return 10 * (entity.RankIndex(rank) + 1)
}

type RankProgress = entity.RankProgress

// ComputeRankProgress measures how much of the current rank's catalog subset
// is in the completion set. A rank without tricks is 0%.
func ComputeRankProgress(stats entity.SportStats, catalog []entity.Trick) RankProgress {
	var p RankProgress
	for _, t := range catalog {
		if t.Rank != stats.CurrentRank {
			continue
		}
		p.TotalCount++
		if stats.HasCompleted(t.Name) {
			p.CompletedCount++
		}
	}
	if p.TotalCount == 0 {
		return p
	}
	p.Percent = int(math.Round(100 * float64(p.CompletedCount) / float64(p.TotalCount)))
	return p
}

// RankComplete is true only for a rank with at least one trick, all done.
func RankComplete(stats entity.SportStats, catalog []entity.Trick) bool {
	p := ComputeRankProgress(stats, catalog)
	return p.TotalCount > 0 && p.CompletedCount == p.TotalCount
}

type TrickResult struct {
	Profile entity.Profile
	// PromotionPending is set when this event completed the current rank.
	// The caller applies NextRank with ApplyRankPromotion.
	PromotionPending bool
	NextRank         entity.Rank
}

func (e *Engine) ApplyTrickCompletion(p entity.Profile, sport entity.Sport, trickName string, xpEarned int, method string) TrickResult {
	tricks := e.catalog.Tricks(sport)
	if !sport.Valid() || !slices.ContainsFunc(tricks, func(t entity.Trick) bool { return t.Name == trickName }) {
		return TrickResult{Profile: p}
	}

	out := p.Clone()
	stats := out.SportProfiles[sport]
	wasComplete := RankComplete(stats, tricks)

	if !stats.HasCompleted(trickName) {
		stats.CompletedTricks = append(stats.CompletedTricks, trickName)
	}
	stats.XP += xpEarned
	// Counts submissions, so re-logging a completed trick still increments.
	stats.TricksLogged++
	stats.RankProgress = ComputeRankProgress(stats, tricks).Percent
	out.SportProfiles[sport] = stats

	out.RecentActivity = AppendActivity(out.RecentActivity, e.activity(
		entity.ActivityTrick,
		trickName,
		fmt.Sprintf("%s • %s • %s", sport, stats.CurrentRank, method),
		xpEarned,
	))

	res := TrickResult{Profile: out}
	if !wasComplete && RankComplete(stats, tricks) {
		if next, ok := entity.NextRank(stats.CurrentRank); ok {
			res.PromotionPending = true
			res.NextRank = next
		}
	}
	return res
}

// ApplyRankPromotion moves sport one step up the ladder. newRank must be the
// rank directly above the current one; anything else is ignored.
func (e *Engine) ApplyRankPromotion(p entity.Profile, sport entity.Sport, newRank entity.Rank) entity.Profile {
	if !sport.Valid() {
		return p
	}
	stats, ok := p.SportProfiles[sport]
	if !ok {
		return p
	}
	if next, ok := entity.NextRank(stats.CurrentRank); !ok || next != newRank {
		return p
	}

	out := p.Clone()
	stats = out.SportProfiles[sport]
	stats.CurrentRank = newRank
	stats.RankProgress = 0
	stats.XP += RankUpBonusXP
	out.SportProfiles[sport] = stats

	out.RecentActivity = AppendActivity(out.RecentActivity, e.activity(
		entity.ActivityRankUp,
		"Rank Up!",
		fmt.Sprintf("Promoted to %s in %s", newRank, sport),
		RankUpBonusXP,
	))
	return out
}

func (e *Engine) ApplySessionCompletion(p entity.Profile, sport entity.Sport, session entity.SessionSummary) entity.Profile {
	if !sport.Valid() {
		return p
	}

	out := p.Clone()
	stats := out.SportProfiles[sport]
	stats.XP += SessionBonusXP
	out.SportProfiles[sport] = stats
	out.SessionsCount++
	if session.MaxSpeed > out.PersonalBests.Speed {
		out.PersonalBests.Speed = session.MaxSpeed
	}

	out.RecentActivity = AppendActivity(out.RecentActivity, e.activity(
		entity.ActivitySession,
		"Freestyle Session",
		fmt.Sprintf("%s • Max Speed: %.1fkm/h", session.Duration, session.MaxSpeed),
		SessionBonusXP,
	))
	return out
}

type RejectReason string

const (
	ReasonDailyLimitReached RejectReason = "daily_limit_reached"
	ReasonInvalidEvent      RejectReason = "invalid_event"
)

type ChallengeResult struct {
	Profile  entity.Profile
	Accepted bool
	Reason   RejectReason
}

func (e *Engine) ApplyChallengeCompletion(p entity.Profile, sport entity.Sport, challenge entity.Challenge) ChallengeResult {
	if !sport.Valid() || challenge.Points <= 0 {
		return ChallengeResult{Profile: p, Reason: ReasonInvalidEvent}
	}

	now := e.now()
	count := EffectiveDailyCount(p, now, e.loc)
	if count >= DailyChallengeLimit {
		return ChallengeResult{Profile: p, Reason: ReasonDailyLimitReached}
	}

	out := p.Clone()
	stats := out.SportProfiles[sport]
	stats.TrickPoints += challenge.Points
	stats.XP += ChallengeBonusXP
	out.SportProfiles[sport] = stats
	out.DailyChallengesCompleted = count + 1
	out.DailyChallengeDate = now

	out.RecentActivity = AppendActivity(out.RecentActivity, e.activity(
		entity.ActivityChallenge,
		"Challenge Crushed!",
		fmt.Sprintf("%s @ %s", challenge.Title, challenge.LocationName),
		ChallengeBonusXP,
	))
	return ChallengeResult{Profile: out, Accepted: true}
}

// ApplyProgressReset sends one sport back to the first rank and clears its
// completion set. xp, trickPoints and tricksLogged survive.
func (e *Engine) ApplyProgressReset(p entity.Profile, sport entity.Sport) entity.Profile {
	if !sport.Valid() {
		return p
	}

	out := p.Clone()
	stats := out.SportProfiles[sport]
	stats.CurrentRank = entity.FirstRank()
	stats.RankProgress = 0
	stats.CompletedTricks = []string{}
	out.SportProfiles[sport] = stats

	out.RecentActivity = AppendActivity(out.RecentActivity, e.activity(
		entity.ActivityRankUp,
		"Progress Reset",
		fmt.Sprintf("%s stats reset by user", sport),
		0,
	))
	return out
}

// Now exposes the engine clock so callers stamp records consistently.
func (e *Engine) Now() time.Time {
	return e.now()
}

// Location is the zone the daily quota is evaluated in.
func (e *Engine) Location() *time.Location {
	return e.loc
}

func (e *Engine) activity(kind entity.ActivityType, title, subtitle string, xp int) entity.Activity {
	return entity.Activity{
		ID:        e.newID(),
		Type:      kind,
		Title:     title,
		Subtitle:  subtitle,
		XP:        xp,
		Timestamp: e.now(),
	}
}
