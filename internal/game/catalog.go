package game

import "github.com/jswaro/coup/internal/models"

// catalog is the fixed influence table: which actions each character grants
// and which it can block. Built once; nothing mutates it.
var catalog = map[models.InfluenceID]models.Influence{
	models.Contessa: {
		ID:       models.Contessa,
		Counters: []models.ActionID{models.ActAssassinate},
	},
	models.Duke: {
		ID:       models.Duke,
		Actions:  []models.ActionID{models.ActTax},
		Counters: []models.ActionID{models.ActForeignAid},
	},
	models.Captain: {
		ID:       models.Captain,
		Actions:  []models.ActionID{models.ActSteal},
		Counters: []models.ActionID{models.ActSteal},
	},
	models.Ambassador: {
		ID:       models.Ambassador,
		Actions:  []models.ActionID{models.ActExchange},
		Counters: []models.ActionID{models.ActSteal},
	},
	models.Assassin: {
		ID:      models.Assassin,
		Actions: []models.ActionID{models.ActAssassinate},
	},
	models.Inquisitor: {
		ID:       models.Inquisitor,
		Actions:  []models.ActionID{models.ActExchange, models.ActExamine},
		Counters: []models.ActionID{models.ActSteal},
	},
}

// ActionsFor returns the actions an influence grants.
func ActionsFor(id models.InfluenceID) []models.ActionID {
	return catalog[id].Actions
}

// CountersFor returns the actions an influence can block.
func CountersFor(id models.InfluenceID) []models.ActionID {
	return catalog[id].Counters
}

// Grants reports whether holding inf entitles a player to act.
func Grants(inf models.InfluenceID, act models.ActionID) bool {
	for _, a := range catalog[inf].Actions {
		if a == act {
			return true
		}
	}
	return false
}

// CanCounter reports whether holding inf entitles a player to block act.
func CanCounter(inf models.InfluenceID, act models.ActionID) bool {
	for _, a := range catalog[inf].Counters {
		if a == act {
			return true
		}
	}
	return false
}

// CounterInfluences lists every influence that can block act.
func CounterInfluences(act models.ActionID) []models.InfluenceID {
	var out []models.InfluenceID
	for _, id := range deckOrder {
		if CanCounter(id, act) {
			out = append(out, id)
		}
	}
	return out
}

// grantingIndex finds a hidden card of p that grants act, or -1. For
// embezzle the claim is inverted: the claimant asserts they hold NO Duke,
// so possession is checked by holdsClaim instead.
func grantingIndex(p *models.Player, act models.ActionID) int {
	for i, c := range p.Hidden {
		if Grants(c, act) {
			return i
		}
	}
	return -1
}

// holdsClaim adjudicates a challenge against a declared action: does the
// claimant actually have what they claimed?
func holdsClaim(p *models.Player, act models.ActionID) bool {
	if act == models.ActEmbezzle {
		return !p.Holds(models.Duke)
	}
	return grantingIndex(p, act) >= 0
}

// deckOrder fixes iteration order over influence types for deterministic
// deck building and listings.
var deckOrder = []models.InfluenceID{
	models.Contessa,
	models.Duke,
	models.Captain,
	models.Assassin,
	models.Ambassador,
	models.Inquisitor,
}
