package game

import (
	"math/rand"

	"github.com/jswaro/coup/internal/models"
)

// Deck is the shared draw pile. After the deal the remainder doubles as the
// court deck used for exchanges and challenge re-deals.
type Deck struct {
	cards []models.InfluenceID
}

// copiesPerType scales the deck with the table size: 3 copies of each
// influence up to 6 players, 4 for 7-8, 5 for 9-10.
func copiesPerType(playerCount int) int {
	switch {
	case playerCount > 8:
		return 5
	case playerCount > 6:
		return 4
	default:
		return 3
	}
}

// BuildDeck assembles the draw pile for the ruleset: Contessa, Duke,
// Captain, Assassin, plus the Inquisitor or the Ambassador.
func BuildDeck(useInquisitor bool, playerCount int) *Deck {
	types := []models.InfluenceID{models.Contessa, models.Duke, models.Captain, models.Assassin}
	if useInquisitor {
		types = append(types, models.Inquisitor)
	} else {
		types = append(types, models.Ambassador)
	}

	n := copiesPerType(playerCount)
	d := &Deck{cards: make([]models.InfluenceID, 0, n*len(types))}
	for _, t := range types {
		for i := 0; i < n; i++ {
			d.cards = append(d.cards, t)
		}
	}
	return d
}

// Shuffle permutes the pile uniformly.
func (d *Deck) Shuffle(r *rand.Rand) {
	r.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Draw pops the top card. Underflow means the count formula was violated
// somewhere; it is an engine bug, not a player error.
func (d *Deck) Draw() (models.InfluenceID, error) {
	if len(d.cards) == 0 {
		return "", models.Internalf("draw pile underflow")
	}
	card := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return card, nil
}

// Return places a card back into the pile. Callers reshuffle when secrecy
// matters (challenge proofs, exchange returns).
func (d *Deck) Return(card models.InfluenceID) {
	d.cards = append(d.cards, card)
}

// Deal gives each player cardsEach cards, in turn order.
func (d *Deck) Deal(players []*models.Player, cardsEach int) error {
	for i := 0; i < cardsEach; i++ {
		for _, p := range players {
			card, err := d.Draw()
			if err != nil {
				return err
			}
			p.GiveCard(card)
		}
	}
	return nil
}

// Size reports the number of undrawn cards.
func (d *Deck) Size() int { return len(d.cards) }
