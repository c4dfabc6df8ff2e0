package service

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"anoa.com/vxrank/internal/entity"
	"github.com/microcosm-cc/bluemonday"
)

// DefaultChallengePoints is used when the points field cannot be read.
const DefaultChallengePoints = 500

var leadingNumber = regexp.MustCompile(`^[+-]?\d+(\.\d+)?`)

// ParseChallenges reads the pipe-delimited answer
// "Location|Title|Description|Difficulty|Points", one challenge per line.
// Lines with fewer than five fields are skipped.
func ParseChallenges(text string, sport entity.Sport, now time.Time, sanitizer *bluemonday.Policy) []entity.Challenge {
	challenges := []entity.Challenge{}
	for _, line := range strings.Split(text, "\n") {
		if !strings.Contains(line, "|") {
			continue
		}
		parts := strings.Split(line, "|")
		if len(parts) < 5 {
			continue
		}
		for i := range parts {
			parts[i] = strings.TrimSpace(sanitizer.Sanitize(parts[i]))
		}
		location := strings.TrimLeft(parts[0], "-*• ")
		if parts[1] == "" {
			continue
		}

		challenges = append(challenges, entity.Challenge{
			ID:           fmt.Sprintf("loc-%d-%d", now.UnixMilli(), len(challenges)),
			LocationName: location,
			Title:        parts[1],
			Description:  parts[2],
			Difficulty:   ParseDifficulty(parts[3]),
			Points:       ParsePoints(parts[4]),
			Sport:        sport,
		})
	}
	return challenges
}

// ParsePoints reads the leading number and rounds it up. Anything that is
// not a positive number becomes DefaultChallengePoints.
func ParsePoints(s string) int {
	m := leadingNumber.FindString(strings.TrimSpace(s))
	if m == "" {
		return DefaultChallengePoints
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil || f <= 0 {
		return DefaultChallengePoints
	}
	return int(math.Ceil(f))
}

// ParseDifficulty matches case-insensitively and falls back to Medium.
func ParseDifficulty(s string) entity.Difficulty {
	for _, d := range []entity.Difficulty{entity.DifficultyEasy, entity.DifficultyMedium, entity.DifficultyHard, entity.DifficultyInsane} {
		if strings.EqualFold(strings.TrimSpace(s), string(d)) {
			return d
		}
	}
	return entity.DifficultyMedium
}

func generatePrompt(sport entity.Sport, lat, lng float64) string {
	return fmt.Sprintf(`
The rider is at latitude %.5f, longitude %.5f and rides %[3]s.
Find the closest skatepark or action sports spot. If the rider is at a park,
make all five challenges for that park; otherwise use spots nearby.

For each challenge pick a specific obstacle (stair set, bowl, rail, gap,
rhythm section) and write a task for %[3]s on it. Vary the obstacles.
On pump tracks use technical tasks, never laps or time trials.
Points are whole numbers between 300 and 2000.

Write five lines, nothing else, in this format:
Location Name|Challenge Title|Description|Difficulty|Points
Difficulty is one of Easy, Medium, Hard, Insane.
`, lat, lng, sport)
}

// fallbackChallenges are offered when no nearby spots can be generated.
func fallbackChallenges(sport entity.Sport) []entity.Challenge {
	return []entity.Challenge{
		{ID: "global-1", LocationName: "Any Skatepark", Title: "Line Starter", Description: "Link three different tricks in one run without stopping.", Difficulty: entity.DifficultyEasy, Points: 300, Sport: sport},
		{ID: "global-2", LocationName: "Any Skatepark", Title: "Stair Master", Description: "Clear a set of at least five stairs and ride away clean.", Difficulty: entity.DifficultyMedium, Points: 800, Sport: sport},
		{ID: "global-3", LocationName: "Any Skatepark", Title: "Bowl Boss", Description: "Carve the full bowl and finish with an air above coping.", Difficulty: entity.DifficultyHard, Points: 1200, Sport: sport},
	}
}
