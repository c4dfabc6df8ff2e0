package service_test

import (
	"testing"
	"time"

	"anoa.com/vxrank/internal/entity"
	challenge "anoa.com/vxrank/internal/modules/challenge/service"
	"github.com/microcosm-cc/bluemonday"
)

// =============================================================================
// CHALLENGE LINES
// =============================================================================
//
// Format: Location|Title|Description|Difficulty|Points. Points round up and
// default to 500; difficulty falls back to Medium.
//
// =============================================================================

func TestParseChallenges(t *testing.T) {
	text := `Here are your challenges:
Kinetic Park|Bowl Blazer|Air out of the deep end.|Hard|1000
- Downtown Plaza | The Big 3 | 360 down the 3-block. | insane | 1999.2
Local Pump Track|Roller Manual|Manual the rhythm section.|Chill|lots
Too|Short|Line
|   |No title|Easy|300`

	got := challenge.ParseChallenges(text, entity.SportBMX, time.UnixMilli(1000), bluemonday.StrictPolicy())
	if len(got) != 3 {
		t.Fatalf("expected 3 challenges, got %d: %+v", len(got), got)
	}

	if got[0].LocationName != "Kinetic Park" || got[0].Difficulty != entity.DifficultyHard || got[0].Points != 1000 {
		t.Errorf("unexpected first challenge: %+v", got[0])
	}
	if got[1].LocationName != "Downtown Plaza" || got[1].Difficulty != entity.DifficultyInsane || got[1].Points != 2000 {
		t.Errorf("unexpected second challenge: %+v", got[1])
	}
	if got[2].Difficulty != entity.DifficultyMedium || got[2].Points != challenge.DefaultChallengePoints {
		t.Errorf("expected fallbacks on the third challenge, got %+v", got[2])
	}
	for i, c := range got {
		if c.Sport != entity.SportBMX {
			t.Errorf("challenge %d: sport %s", i, c.Sport)
		}
	}
	if got[0].ID == got[1].ID {
		t.Error("challenge ids must differ")
	}
}

func TestParseChallenges_StripsMarkup(t *testing.T) {
	got := challenge.ParseChallenges(`<b>Park</b>|<script>x()</script>Gap|Jump it|Easy|300`, entity.SportScooter, time.Now(), bluemonday.StrictPolicy())
	if len(got) != 1 || got[0].LocationName != "Park" || got[0].Title != "Gap" {
		t.Errorf("unexpected result: %+v", got)
	}
}

func TestParsePoints(t *testing.T) {
	tests := map[string]int{
		"800":      800,
		"750.1":    751,
		"1200 pts": 1200,
		"0":        challenge.DefaultChallengePoints,
		"-50":      challenge.DefaultChallengePoints,
		"":         challenge.DefaultChallengePoints,
		"many":     challenge.DefaultChallengePoints,
	}
	for in, want := range tests {
		if got := challenge.ParsePoints(in); got != want {
			t.Errorf("ParsePoints(%q) = %d, want %d", in, got, want)
		}
	}
}
