package models

// GameParams are the creation parameters for a game.
type GameParams struct {
	Name     string
	Password string // empty means public

	// UseInquisitor swaps the Ambassador for the Inquisitor (the default,
	// matching the bot's original behavior).
	UseInquisitor bool
	// UseTeams enables allegiances and the Treasury Reserve.
	UseTeams bool
	// UseGuessing requires naming the target's card on coup and assassinate.
	UseGuessing bool
}
