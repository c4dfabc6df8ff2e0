package service

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"anoa.com/vxrank/internal/entity"
)

var (
	//go:embed tricks.json
	tricksRawJSON []byte
)

type catalogFile struct {
	Scooter []entity.Trick `json:"scooter"`
	Bike    []entity.Trick `json:"bike"`
	Skate   []entity.Trick `json:"skate"`
}

// Catalog is the static per-sport trick list. Scooter and Skateboard have
// their own lists; every bike discipline shares the bike list.
type Catalog struct {
	scooter []entity.Trick
	bike    []entity.Trick
	skate   []entity.Trick
}

// Load parses the embedded catalog.
func Load() (*Catalog, error) {
	var f catalogFile
	if err := json.Unmarshal(tricksRawJSON, &f); err != nil {
		return nil, fmt.Errorf("parse trick catalog: %w", err)
	}
	for _, list := range [][]entity.Trick{f.Scooter, f.Bike, f.Skate} {
		for _, t := range list {
			if !t.Rank.Valid() {
				return nil, fmt.Errorf("trick %q has unknown rank %q", t.Name, t.Rank)
			}
		}
	}
	return &Catalog{scooter: f.Scooter, bike: f.Bike, skate: f.Skate}, nil
}

// MustLoad is Load for process start-up and tests.
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

// New builds a catalog from explicit lists, mostly for tests.
func New(scooter, bike, skate []entity.Trick) *Catalog {
	return &Catalog{scooter: scooter, bike: bike, skate: skate}
}

// Tricks returns a copy of the catalog for sport in ladder order.
// Unknown sports get nil.
func (c *Catalog) Tricks(sport entity.Sport) []entity.Trick {
	var list []entity.Trick
	switch {
	case !sport.Valid():
		return nil
	case sport == entity.SportScooter:
		list = c.scooter
	case sport == entity.SportSkateboard:
		list = c.skate
	default:
		list = c.bike
	}
	out := make([]entity.Trick, len(list))
	copy(out, list)
	return out
}

// RankTricks filters the sport's catalog to one rank.
func (c *Catalog) RankTricks(sport entity.Sport, rank entity.Rank) []entity.Trick {
	var out []entity.Trick
	for _, t := range c.Tricks(sport) {
		if t.Rank == rank {
			out = append(out, t)
		}
	}
	return out
}

// Find looks a trick up by exact name.
func (c *Catalog) Find(sport entity.Sport, name string) (entity.Trick, bool) {
	for _, t := range c.Tricks(sport) {
		if t.Name == name {
			return t, true
		}
	}
	return entity.Trick{}, false
}

// MatchInRank resolves a loosely spelled name (AI output, user input) to a
// trick of the given rank. Matching ignores case and surrounding spaces.
func (c *Catalog) MatchInRank(sport entity.Sport, rank entity.Rank, name string) (entity.Trick, bool) {
	want := strings.TrimSpace(name)
	for _, t := range c.RankTricks(sport, rank) {
		if strings.EqualFold(t.Name, want) {
			return t, true
		}
	}
	return entity.Trick{}, false
}
