package service_test

import (
	"testing"

	"anoa.com/vxrank/internal/entity"
	catalog "anoa.com/vxrank/internal/modules/catalog/service"
)

// ==========================================
// Embedded catalog
// ==========================================

func TestLoad_EmbeddedCatalog(t *testing.T) {
	c, err := catalog.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := len(c.Tricks(entity.SportScooter)); got != 35 {
		t.Errorf("expected 35 scooter tricks, got %d", got)
	}
	if got := len(c.Tricks(entity.SportSkateboard)); got != 22 {
		t.Errorf("expected 22 skate tricks, got %d", got)
	}
	if got := len(c.Tricks(entity.SportBMX)); got != 28 {
		t.Errorf("expected 28 bike tricks, got %d", got)
	}
}

func TestTricks_BikeDisciplinesShareList(t *testing.T) {
	c := catalog.MustLoad()
	bmx := c.Tricks(entity.SportBMX)

	for _, s := range []entity.Sport{entity.SportDirtJumper, entity.SportDirtBike, entity.SportMountainBike} {
		got := c.Tricks(s)
		if len(got) != len(bmx) {
			t.Fatalf("%s: expected %d tricks, got %d", s, len(bmx), len(got))
		}
		if got[0].Name != bmx[0].Name {
			t.Errorf("%s: expected first trick %q, got %q", s, bmx[0].Name, got[0].Name)
		}
	}
}

func TestTricks_UnknownSport(t *testing.T) {
	c := catalog.MustLoad()
	if got := c.Tricks(entity.Sport("Rollerblade")); got != nil {
		t.Errorf("expected nil for unknown sport, got %v", got)
	}
}

func TestTricks_ReturnsCopy(t *testing.T) {
	c := catalog.MustLoad()
	list := c.Tricks(entity.SportScooter)
	list[0].Name = "mutated"

	if c.Tricks(entity.SportScooter)[0].Name == "mutated" {
		t.Error("caller mutation leaked into catalog")
	}
}

// ==========================================
// Rank filtering and lookup
// ==========================================

func TestRankTricks_SkatePlatinumIsEmpty(t *testing.T) {
	c := catalog.MustLoad()
	if got := c.RankTricks(entity.SportSkateboard, entity.RankPlatinum); len(got) != 0 {
		t.Errorf("expected no skate platinum tricks, got %d", len(got))
	}
	if got := c.RankTricks(entity.SportSkateboard, entity.RankBronze); len(got) != 4 {
		t.Errorf("expected 4 skate bronze tricks, got %d", len(got))
	}
}

func TestFind(t *testing.T) {
	c := catalog.MustLoad()

	trick, ok := c.Find(entity.SportSkateboard, "Kickflip")
	if !ok {
		t.Fatal("expected Kickflip to be found")
	}
	if trick.Rank != entity.RankGold {
		t.Errorf("expected Gold, got %s", trick.Rank)
	}

	if _, ok := c.Find(entity.SportSkateboard, "kickflip"); ok {
		t.Error("Find must be exact")
	}
}

func TestMatchInRank(t *testing.T) {
	c := catalog.MustLoad()

	trick, ok := c.MatchInRank(entity.SportScooter, entity.RankSilver, "  tailwhip ")
	if !ok {
		t.Fatal("expected match")
	}
	if trick.Name != "Tailwhip" {
		t.Errorf("expected canonical name Tailwhip, got %q", trick.Name)
	}

	if _, ok := c.MatchInRank(entity.SportScooter, entity.RankBronze, "Tailwhip"); ok {
		t.Error("trick from another rank must not match")
	}
}
