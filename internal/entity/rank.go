package entity

// Rank is one step of the ladder shared by every sport.
type Rank string

const (
	RankBronze   Rank = "Bronze"
	RankSilver   Rank = "Silver"
	RankGold     Rank = "Gold"
	RankPlatinum Rank = "Platinum"
	RankDiamond  Rank = "Diamond"
	RankChampion Rank = "Champion"
	RankInsanity Rank = "Insanity"
)

var rankLadder = []Rank{
	RankBronze,
	RankSilver,
	RankGold,
	RankPlatinum,
	RankDiamond,
	RankChampion,
	RankInsanity,
}

// Ranks returns the ladder from first to terminal rank.
func Ranks() []Rank {
	out := make([]Rank, len(rankLadder))
	copy(out, rankLadder)
	return out
}

// FirstRank is where every sport starts and where a reset sends it back to.
func FirstRank() Rank {
	return rankLadder[0]
}

// RankIndex returns the position of r on the ladder, or -1 if r is unknown.
func RankIndex(r Rank) int {
	for i, v := range rankLadder {
		if v == r {
			return i
		}
	}
	return -1
}

// NextRank returns the rank one step above r. The second value is false for
// the terminal rank and for unknown ranks.
func NextRank(r Rank) (Rank, bool) {
	i := RankIndex(r)
	if i < 0 || i+1 >= len(rankLadder) {
		return "", false
	}
	return rankLadder[i+1], true
}

func (r Rank) Valid() bool {
	return RankIndex(r) >= 0
}
