package models

import "strings"

// ActionID identifies a turn action. The value doubles as the command token
// players type after "do".
type ActionID string

const (
	ActIncome      ActionID = "income"
	ActForeignAid  ActionID = "foreign_aid"
	ActTax         ActionID = "tax"
	ActSteal       ActionID = "steal"
	ActAssassinate ActionID = "assassinate"
	ActExchange    ActionID = "exchange"
	ActExamine     ActionID = "examine"
	ActCoup        ActionID = "coup"
	ActConvert     ActionID = "convert"
	ActEmbezzle    ActionID = "embezzle"
)

// ResponseKind identifies a reaction to a declared action.
type ResponseKind string

const (
	RespChallenge ResponseKind = "challenge"
	RespCounter   ResponseKind = "counter"
	RespAccept    ResponseKind = "accept"
	RespSelect    ResponseKind = "select"
)

// Category separates primary turn actions from reactions.
type Category int

const (
	TurnAction Category = iota
	ResponseAction
	MetaAction
)

// Action is the immutable descriptor for one turn action. The success and
// failure effects live in the game package, keyed by ID; this struct carries
// everything that is pure data.
type Action struct {
	ID          ActionID
	Name        string
	Description string
	Category    Category
	Cost        int
	NeedsTarget bool
	// Claimed actions assert possession of an influence and can be
	// challenged. Income, foreign aid, coup and convert are open to everyone.
	Claimed bool
	// TeamsOnly actions exist only in the teams/treasury variant.
	TeamsOnly bool
}

// Actions is the fixed turn-action table, built once and never mutated.
var Actions = map[ActionID]Action{
	ActIncome:      {ID: ActIncome, Name: "Income", Description: "Take 1 coin"},
	ActForeignAid:  {ID: ActForeignAid, Name: "Foreign Aid", Description: "Take 2 coins"},
	ActTax:         {ID: ActTax, Name: "Tax", Description: "Take 3 coins", Claimed: true},
	ActSteal:       {ID: ActSteal, Name: "Steal", Description: "Take 2 coins from another player", NeedsTarget: true, Claimed: true},
	ActAssassinate: {ID: ActAssassinate, Name: "Assassinate", Description: "Pay 3 coins, choose player to lose influence", Cost: 3, NeedsTarget: true, Claimed: true},
	ActExchange:    {ID: ActExchange, Name: "Exchange", Description: "Take cards from the court deck, return the same number", Claimed: true},
	ActExamine:     {ID: ActExamine, Name: "Examine", Description: "Choose player; look at one card, may force Exchange", NeedsTarget: true, Claimed: true},
	ActCoup:        {ID: ActCoup, Name: "Coup", Description: "Pay 7 coins, choose player to lose influence", Cost: 7, NeedsTarget: true},
	ActConvert:     {ID: ActConvert, Name: "Convert", Description: "Change allegiance. Pay 1 coin for yourself or 2 for another player to the Treasury", TeamsOnly: true},
	ActEmbezzle:    {ID: ActEmbezzle, Name: "Embezzle", Description: "Take all coins from the Treasury", Claimed: true, TeamsOnly: true},
}

// LookupAction resolves a command token to its descriptor. Tokens are
// matched case-insensitively; players type these by hand.
func LookupAction(token string) (Action, bool) {
	act, ok := Actions[ActionID(strings.ToLower(token))]
	return act, ok
}
