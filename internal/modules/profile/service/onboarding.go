package service

import (
	"fmt"

	"anoa.com/vxrank/internal/entity"
	"anoa.com/vxrank/pkg/apperror"
)

// ParseSports validates a sport selection and drops repeats, keeping the
// first occurrence first.
func ParseSports(names []string) ([]entity.Sport, error) {
	if len(names) == 0 {
		return nil, apperror.Invalid("pick at least one sport")
	}

	sports := make([]entity.Sport, 0, len(names))
	seen := make(map[entity.Sport]bool, len(names))
	for _, name := range names {
		s := entity.Sport(name)
		if !s.Valid() {
			return nil, apperror.Invalid(fmt.Sprintf("unknown sport %q", name))
		}
		if seen[s] {
			continue
		}
		seen[s] = true
		sports = append(sports, s)
	}
	return sports, nil
}

// ApplyOnboarding records the rider's sports. The first one becomes active.
// Progress already stored for any sport is kept.
func ApplyOnboarding(p entity.Profile, sports []entity.Sport, tier entity.SubscriptionTier, experience string) entity.Profile {
	out := p.Clone()
	out.AvailableSports = append([]entity.Sport{}, sports...)
	out.ActiveSport = sports[0]
	if tier != "" {
		out.Subscription = tier
	}
	if experience != "" {
		out.ExperienceLevel = experience
	}
	out.SportProfiles = out.SportProfiles.Fill()
	return out
}
