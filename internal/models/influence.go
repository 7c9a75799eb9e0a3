package models

import "strings"

// InfluenceID names a character card. Card identity is purely its type;
// three to five copies of each circulate depending on player count.
type InfluenceID string

const (
	Contessa   InfluenceID = "Contessa"
	Duke       InfluenceID = "Duke"
	Captain    InfluenceID = "Captain"
	Ambassador InfluenceID = "Ambassador"
	Assassin   InfluenceID = "Assassin"
	Inquisitor InfluenceID = "Inquisitor"
)

// Influence describes a character role: the actions it grants and the
// actions it can counter.
type Influence struct {
	ID       InfluenceID
	Actions  []ActionID
	Counters []ActionID
}

// LookupInfluence resolves a card name, case-insensitively.
func LookupInfluence(name string) (InfluenceID, bool) {
	for _, id := range []InfluenceID{Contessa, Duke, Captain, Ambassador, Assassin, Inquisitor} {
		if strings.EqualFold(string(id), name) {
			return id, true
		}
	}
	return "", false
}
