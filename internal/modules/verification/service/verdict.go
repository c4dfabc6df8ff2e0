package service

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// AcceptRating is the lowest rating that counts as a landed trick.
const AcceptRating = 5

// TrickVerdict is the AI judgement of one trick clip, after normalization.
type TrickVerdict struct {
	Landed        bool    `json:"landed"`
	Rating        float64 `json:"rating"`
	TrickDetected string  `json:"trick_detected"`
	Feedback      string  `json:"feedback"`
	Confidence    int     `json:"confidence"`
}

// Accepted reports whether the verdict may be applied to progress.
func (v TrickVerdict) Accepted() bool {
	return v.Landed && v.Rating >= AcceptRating
}

// ChallengeVerdict is the AI judgement of a challenge clip.
type ChallengeVerdict struct {
	Completed bool   `json:"completed"`
	Reasoning string `json:"reasoning"`
}

var (
	fencedJSON = regexp.MustCompile("(?s)```json\\s*\\n(.*?)\\n\\s*```")
	fencedAny  = regexp.MustCompile("(?s)```\\s*\\n(.*?)\\n\\s*```")
	bareObject = regexp.MustCompile(`(?s)\{.*\}`)
)

// ExtractJSON pulls the JSON object out of a model answer that may wrap it
// in a markdown fence or surrounding prose.
func ExtractJSON(text string) string {
	if m := fencedJSON.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := fencedAny.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := bareObject.FindString(text); m != "" {
		return m
	}
	return strings.TrimSpace(text)
}

// fallbackVerdict is returned when the answer cannot be read at all.
func fallbackVerdict() TrickVerdict {
	return TrickVerdict{
		TrickDetected: "Unknown",
		Feedback:      "Could not analyze video. Please try again.",
	}
}

// ParseTrickVerdict never fails: unreadable answers become a rejected
// verdict. Ratings arrive as numbers or strings and are clamped to 0..10.
func ParseTrickVerdict(text string) TrickVerdict {
	var raw struct {
		Landed        any    `json:"landed"`
		Rating        any    `json:"rating"`
		TrickDetected string `json:"trickDetected"`
		TrickName     string `json:"trickName"`
		Feedback      string `json:"feedback"`
		Confidence    any    `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(ExtractJSON(text)), &raw); err != nil {
		return fallbackVerdict()
	}

	v := TrickVerdict{
		Landed:        asBool(raw.Landed),
		Rating:        math.Min(math.Max(asFloat(raw.Rating), 0), 10),
		TrickDetected: strings.TrimSpace(raw.TrickDetected),
		Feedback:      strings.TrimSpace(raw.Feedback),
		Confidence:    int(math.Round(math.Min(math.Max(asFloat(raw.Confidence), 0), 100))),
	}
	if v.TrickDetected == "" {
		v.TrickDetected = strings.TrimSpace(raw.TrickName)
	}
	if v.TrickDetected == "" {
		v.TrickDetected = "Unknown"
	}
	return v
}

// ParseChallengeVerdict only trusts an explicit completed=true.
func ParseChallengeVerdict(text string) ChallengeVerdict {
	var raw struct {
		Completed any    `json:"completed"`
		Reasoning string `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(ExtractJSON(text)), &raw); err != nil {
		return ChallengeVerdict{Reasoning: "Could not analyze video. Please try again."}
	}
	completed, _ := raw.Completed.(bool)
	return ChallengeVerdict{Completed: completed, Reasoning: strings.TrimSpace(raw.Reasoning)}
}

func asBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		ok, _ := strconv.ParseBool(strings.TrimSpace(b))
		return ok
	}
	return false
}

func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) {
			return 0
		}
		return n
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil || math.IsNaN(f) {
			return 0
		}
		return f
	}
	return 0
}
