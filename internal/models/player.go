package models

// Player holds one seat's mutable state. A Player belongs to exactly one game
// and is only touched while that game's lock is held.
type Player struct {
	Name     string
	Coins    int
	Hidden   []InfluenceID
	Revealed []InfluenceID
	Team     Team
}

// NewPlayer seats a player with the starting stake of two coins.
func NewPlayer(name string) *Player {
	return &Player{Name: name, Coins: 2}
}

// ModifyCoins applies a voluntary spend or gain. A spend the player cannot
// afford fails before any mutation.
func (p *Player) ModifyCoins(delta int) error {
	if p.Coins+delta < 0 {
		return Invalidf("You do not have enough coins to perform that action")
	}
	p.Coins += delta
	return nil
}

// ModifyCoinsByAction applies the effect of an already-resolved action.
// A resolved action cannot be rejected for insufficient funds, so the
// balance floors at zero instead of failing.
func (p *Player) ModifyCoinsByAction(delta int) {
	p.Coins += delta
	if p.Coins < 0 {
		p.Coins = 0
	}
}

// GiveCard adds a hidden influence card to the player's hand.
func (p *Player) GiveCard(card InfluenceID) {
	p.Hidden = append(p.Hidden, card)
}

// TakeCard removes and returns the hidden card at idx (0-based).
func (p *Player) TakeCard(idx int) (InfluenceID, error) {
	if idx < 0 || idx >= len(p.Hidden) {
		return "", Invalidf("You do not have a card in position %d", idx+1)
	}
	card := p.Hidden[idx]
	p.Hidden = append(p.Hidden[:idx], p.Hidden[idx+1:]...)
	return card, nil
}

// Reveal moves the hidden card at idx face up. Revealed influence is lost
// for the rest of the game.
func (p *Player) Reveal(idx int) (InfluenceID, error) {
	card, err := p.TakeCard(idx)
	if err != nil {
		return "", err
	}
	p.Revealed = append(p.Revealed, card)
	return card, nil
}

// RevealAll flips every remaining hidden card face up (forfeit, final loss).
func (p *Player) RevealAll() {
	p.Revealed = append(p.Revealed, p.Hidden...)
	p.Hidden = nil
}

// IndexOf returns the position of the first hidden copy of card, or -1.
func (p *Player) IndexOf(card InfluenceID) int {
	for i, c := range p.Hidden {
		if c == card {
			return i
		}
	}
	return -1
}

// Holds reports whether the player hides at least one copy of card.
func (p *Player) Holds(card InfluenceID) bool {
	return p.IndexOf(card) >= 0
}

// Alive reports whether the player still has influence.
func (p *Player) Alive() bool {
	return len(p.Hidden) > 0
}

// FlipTeam switches allegiance. Players without an allegiance cannot flip.
func (p *Player) FlipTeam() error {
	if p.Team == TeamUnassigned {
		return Invalidf("Player %s has no allegiance to change", p.Name)
	}
	p.Team = p.Team.Other()
	return nil
}
