package game

import (
	"math/rand"
	"testing"

	"github.com/jswaro/coup/internal/models"
)

func TestBuildDeckScalesWithTableSize(t *testing.T) {
	tests := []struct {
		players  int
		wantSize int
	}{
		{2, 15},
		{6, 15},
		{7, 20},
		{8, 20},
		{9, 25},
		{10, 25},
	}
	for _, tt := range tests {
		d := BuildDeck(true, tt.players)
		if d.Size() != tt.wantSize {
			t.Errorf("BuildDeck(true, %d) size = %d, want %d", tt.players, d.Size(), tt.wantSize)
		}
	}
}

func TestBuildDeckVariantPicksFifthInfluence(t *testing.T) {
	count := func(d *Deck, id models.InfluenceID) int {
		n := 0
		for _, c := range d.cards {
			if c == id {
				n++
			}
		}
		return n
	}

	inq := BuildDeck(true, 4)
	if count(inq, models.Inquisitor) != 3 || count(inq, models.Ambassador) != 0 {
		t.Errorf("inquisitor deck has %d inquisitors, %d ambassadors",
			count(inq, models.Inquisitor), count(inq, models.Ambassador))
	}

	amb := BuildDeck(false, 4)
	if count(amb, models.Ambassador) != 3 || count(amb, models.Inquisitor) != 0 {
		t.Errorf("ambassador deck has %d ambassadors, %d inquisitors",
			count(amb, models.Ambassador), count(amb, models.Inquisitor))
	}
}

func TestDealConservesCards(t *testing.T) {
	d := BuildDeck(true, 4)
	d.Shuffle(rand.New(rand.NewSource(1)))

	players := []*models.Player{
		models.NewPlayer("a"), models.NewPlayer("b"),
		models.NewPlayer("c"), models.NewPlayer("d"),
	}
	if err := d.Deal(players, CardsPerPlayer); err != nil {
		t.Fatalf("Deal: %v", err)
	}

	total := d.Size()
	for _, p := range players {
		if len(p.Hidden) != CardsPerPlayer {
			t.Errorf("%s got %d cards, want %d", p.Name, len(p.Hidden), CardsPerPlayer)
		}
		total += len(p.Hidden)
	}
	if total != 15 {
		t.Errorf("cards in play = %d, want 15", total)
	}
}

func TestDrawUnderflow(t *testing.T) {
	d := &Deck{}
	if _, err := d.Draw(); err == nil {
		t.Fatal("Draw on an empty pile succeeded")
	}
}
