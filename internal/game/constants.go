package game

import "time"

const (
	// MinPlayers is the minimum number of players required to start a game
	MinPlayers = 2

	// MaxPlayers is the hard seat limit per game
	MaxPlayers = 10

	// CardsPerPlayer is the number of influence cards dealt to each player
	CardsPerPlayer = 2

	// AssassinateCost is paid at declaration and never refunded
	AssassinateCost = 3

	// CoupCost is paid at declaration and never refunded
	CoupCost = 7

	// ConvertSelfCost and ConvertOtherCost go to the Treasury Reserve
	ConvertSelfCost  = 1
	ConvertOtherCost = 2

	// StealAmount caps a steal; the actual transfer is min(target coins, StealAmount)
	StealAmount = 2

	// MustCoupAt forces a coup for any player opening their turn with this
	// many coins or more
	MustCoupAt = 10

	// DefaultResponseWindow is how long a pending event stays open before it
	// auto-resolves as accepted
	DefaultResponseWindow = 30 * time.Second
)
