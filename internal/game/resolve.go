package game

import (
	"fmt"
	"time"

	"github.com/jswaro/coup/internal/models"
)

// resolveSuccess applies an action's success effect and queues the narration.
// It never advances the turn; afterResolution owns that.
func (g *Game) resolveSuccess(ev *PendingEvent) {
	source := g.players[ev.source]
	var target *models.Player
	if ev.target != "" {
		target = g.players[ev.target]
	}

	switch ev.action {
	case models.ActIncome:
		source.ModifyCoinsByAction(1)
		g.broadcast(fmt.Sprintf("%s took income. %s has %d coins.", ev.source, ev.source, source.Coins))

	case models.ActForeignAid:
		source.ModifyCoinsByAction(2)
		g.broadcast(fmt.Sprintf("%s took foreign aid. %s has %d coins.", ev.source, ev.source, source.Coins))

	case models.ActTax:
		source.ModifyCoinsByAction(3)
		g.broadcast(fmt.Sprintf("%s collected tax. %s has %d coins.", ev.source, ev.source, source.Coins))

	case models.ActSteal:
		// You cannot steal more than the target has.
		amount := target.Coins
		if amount > StealAmount {
			amount = StealAmount
		}
		target.ModifyCoinsByAction(-amount)
		source.ModifyCoinsByAction(amount)
		g.broadcast(fmt.Sprintf("%s stole %d coin(s) from %s.", ev.source, amount, ev.target))

	case models.ActAssassinate, models.ActCoup:
		g.resolveInfluenceHit(ev, target)

	case models.ActExchange:
		g.beginExchange(ev, source)

	case models.ActExamine:
		if target == nil || !target.Alive() {
			return
		}
		if len(target.Hidden) > 1 {
			// The window closed without the target picking a card (timeout
			// or a survived challenge); the prompt is composed when the
			// follow-up is promoted, after owed losses settle.
			g.followup = &PendingEvent{
				kind:      eventExamineShow,
				action:    ev.action,
				source:    ev.source,
				target:    ev.target,
				sel:       -1,
				responses: responseSet(models.RespSelect),
			}
			return
		}
		g.openExamineDecide(ev, 0)

	case models.ActConvert:
		who := source
		if target != nil {
			who = target
		}
		if err := who.FlipTeam(); err != nil {
			g.broadcast(fmt.Sprintf("%s has no allegiance to change; the coins stay in the Treasury.", who.Name))
			return
		}
		g.broadcast(fmt.Sprintf("%s converted %s to allegiance %s. The Treasury holds %d coins.",
			ev.source, who.Name, who.Team, g.treasury))

	case models.ActEmbezzle:
		taken := g.treasury
		g.treasury = 0
		source.ModifyCoinsByAction(taken)
		g.broadcast(fmt.Sprintf("%s embezzled %d coin(s) from the Treasury. %s has %d coins.",
			ev.source, taken, ev.source, source.Coins))
	}
}

// resolveFailure applies an action's failure effect. Coins already paid are
// forfeit; for most actions failing simply means nothing happens.
func (g *Game) resolveFailure(ev *PendingEvent) {
	g.broadcast(fmt.Sprintf("%s's %s does not take place.", ev.source, actionName(ev.action)))
}

// resolveInfluenceHit works out which card the target of an assassinate or
// coup gives up. In the guessing variant a wrong guess whiffs entirely.
func (g *Game) resolveInfluenceHit(ev *PendingEvent, target *models.Player) {
	if target == nil || !target.Alive() {
		// The target can already be out, e.g. after losing a challenge over
		// this very action. Nothing left to take.
		return
	}

	if g.params.UseGuessing && ev.guess != "" {
		idx := target.IndexOf(ev.guess)
		if idx < 0 {
			g.broadcast(fmt.Sprintf("%s guessed the %s, but %s does not hold it. The blow misses.",
				ev.source, ev.guess, ev.target))
			return
		}
		card, _ := target.Reveal(idx)
		g.broadcast(fmt.Sprintf("%s guessed the %s correctly! %s loses it.", ev.source, card, ev.target))
		g.deathCheck(target)
		g.broadcast(fmt.Sprintf("The list of current face-up cards are '%s'.", g.faceUpCards()))
		return
	}

	switch {
	case ev.sel >= 0:
		card, err := target.Reveal(ev.sel)
		if err != nil {
			// Bounds were checked when the selection arrived.
			g.broadcast("The selected card is in an impossible state; please report this.")
			return
		}
		g.broadcast(fmt.Sprintf("%s loses the %s.", ev.target, card))
		g.deathCheck(target)
	case len(target.Hidden) == 1:
		card, _ := target.Reveal(0)
		g.broadcast(fmt.Sprintf("%s loses the %s.", ev.target, card))
		g.deathCheck(target)
	default:
		// Window closed without a selection but the target still holds
		// several cards; they owe a choice.
		g.queueLoss(ev.target)
	}
	g.broadcast(fmt.Sprintf("The list of current face-up cards are '%s'.", g.faceUpCards()))
}

// beginExchange draws from the court deck into the hand (two cards with the
// Ambassador, one with the Inquisitor) and defers a keep-selection event.
func (g *Game) beginExchange(ev *PendingEvent, source *models.Player) {
	draw := 2
	if g.params.UseInquisitor {
		draw = 1
	}
	prior := len(source.Hidden)
	for i := 0; i < draw; i++ {
		card, err := g.deck.Draw()
		if err != nil {
			g.broadcast("The court deck is in an impossible state; please report this.")
			return
		}
		source.GiveCard(card)
	}
	g.broadcast(fmt.Sprintf("%s draws %d card(s) from the court deck.", ev.source, draw))
	g.whisper(ev.source, fmt.Sprintf("Your hand is now: %s. Keep %d with 'select <positions>'.",
		joinCards(source.Hidden), prior))
	g.followup = &PendingEvent{
		kind:      eventExchange,
		action:    ev.action,
		source:    ev.source,
		sel:       -1,
		keep:      prior,
		responses: responseSet(models.RespSelect),
	}
}

// finishExchange keeps the selected cards and shuffles the rest back.
func (g *Game) finishExchange(ev *PendingEvent, indices []int) error {
	source := g.players[ev.source]
	if len(indices) != ev.keep {
		return models.Malformedf("Select exactly %d card(s) to keep", ev.keep)
	}
	for _, idx := range indices {
		if idx >= len(source.Hidden) {
			return models.Invalidf("You do not have a card in position %d", idx+1)
		}
	}

	kept := make([]models.InfluenceID, 0, ev.keep)
	for _, idx := range indices {
		kept = append(kept, source.Hidden[idx])
	}
	returned := 0
	for i, card := range source.Hidden {
		if !containsIndex(indices, i) {
			g.deck.Return(card)
			returned++
		}
	}
	source.Hidden = kept
	g.deck.Shuffle(g.rng)

	g.broadcast(fmt.Sprintf("%s returns %d card(s) to the court deck.", ev.source, returned))
	g.whisper(ev.source, fmt.Sprintf("Your influences are now: %s.", joinCards(source.Hidden)))
	g.afterResolution()
	return nil
}

func containsIndex(indices []int, i int) bool {
	for _, idx := range indices {
		if idx == i {
			return true
		}
	}
	return false
}

// openExamineDecide shows the card at idx of the examined player's hand to
// the examiner and defers the keep-or-redraw decision to them. The event
// goes through the followup slot so owed influence losses settle first.
func (g *Game) openExamineDecide(ev *PendingEvent, idx int) {
	target := g.players[ev.target]
	if target == nil || idx < 0 || idx >= len(target.Hidden) {
		return
	}
	g.whisper(ev.source, fmt.Sprintf("%s shows you the %s.", ev.target, target.Hidden[idx]))
	g.whisper(ev.source, "Respond 'accept' to let them keep it, or 'select 1' to force a redraw.")
	g.broadcast(fmt.Sprintf("%s shows a card to %s.", ev.target, ev.source))
	g.followup = &PendingEvent{
		kind:      eventExamineDecide,
		action:    ev.action,
		source:    ev.source,
		target:    ev.target,
		sel:       -1,
		shown:     idx,
		responses: responseSet(models.RespAccept, models.RespSelect),
	}
}

// forceRedraw shuffles the shown card into the court deck and deals the
// examined player a replacement.
func (g *Game) forceRedraw(ev *PendingEvent) {
	target := g.players[ev.target]
	card, err := target.TakeCard(ev.shown)
	if err != nil {
		g.broadcast("The shown card is in an impossible state; please report this.")
		return
	}
	g.deck.Return(card)
	g.deck.Shuffle(g.rng)
	replacement, err := g.deck.Draw()
	if err != nil {
		g.broadcast("The court deck is in an impossible state; please report this.")
		return
	}
	target.GiveCard(replacement)
	g.broadcast(fmt.Sprintf("%s forces %s to exchange the shown card.", ev.source, ev.target))
	g.whisper(ev.target, fmt.Sprintf("Your influences are now: %s.", joinCards(target.Hidden)))
}

// queueLoss records that a player owes an influence. Forced single-card
// losses resolve inside afterResolution; multi-card hands open a Select.
func (g *Game) queueLoss(name string) {
	g.pendingLosses = append(g.pendingLosses, name)
}

func (g *Game) deathCheck(p *models.Player) {
	if !p.Alive() {
		g.broadcast(fmt.Sprintf("%s has lost all their influence. They are out of the game.", p.Name))
	}
}

// afterResolution drives the machine back to idle: settle owed influence
// losses (opening at most one Select at a time), then any deferred
// exchange/examine step, and finally advance the turn.
func (g *Game) afterResolution() {
	g.pending = nil

	for len(g.pendingLosses) > 0 {
		name := g.pendingLosses[0]
		g.pendingLosses = g.pendingLosses[1:]
		p := g.players[name]
		if p == nil || !p.Alive() {
			continue
		}
		if len(p.Hidden) == 1 {
			card, _ := p.Reveal(0)
			g.broadcast(fmt.Sprintf("%s loses the %s.", name, card))
			g.deathCheck(p)
			continue
		}
		g.pending = &PendingEvent{
			kind:      eventLoss,
			source:    name,
			sel:       -1,
			responses: responseSet(models.RespSelect),
			deadline:  g.newDeadline(),
		}
		g.whisper(name, fmt.Sprintf("You must lose an influence. Your cards: %s. Choose with 'select <position>'.",
			joinCards(p.Hidden)))
		return
	}

	for g.followup != nil {
		ev := g.followup
		g.followup = nil
		if ev.kind == eventExamineShow {
			target := g.players[ev.target]
			if target == nil || !target.Alive() {
				continue
			}
			if len(target.Hidden) == 1 {
				g.openExamineDecide(ev, 0)
				continue
			}
			// Composed here so the listed positions reflect any influence
			// losses settled above.
			g.whisper(ev.target, fmt.Sprintf("Show %s one card. Your cards: %s. Choose with 'select <position>'.",
				ev.source, joinCards(target.Hidden)))
		}
		ev.deadline = g.newDeadline()
		g.pending = ev
		return
	}

	g.advanceTurn()
}

// CheckTimeout resolves an expired pending event the way an Accept would.
// The surrounding scheduler calls this on a periodic tick while holding the
// game lock; nothing in the engine blocks waiting for a deadline.
func (g *Game) CheckTimeout(now time.Time) {
	if g.Status != StatusStarted || g.pending == nil || now.Before(g.pending.deadline) {
		return
	}
	g.resolveTimeout(g.pending)
}

func (g *Game) resolveTimeout(ev *PendingEvent) {
	switch ev.kind {
	case eventAction:
		g.broadcast(fmt.Sprintf("No response to %s's %s; it stands.", ev.source, actionName(ev.action)))
		g.resolveSuccess(ev)

	case eventCounter:
		g.broadcast(fmt.Sprintf("No challenge; %s's %s is blocked by %s.",
			ev.source, actionName(ev.action), ev.counterer))
		g.resolveFailure(ev)

	case eventLoss:
		loser := g.players[ev.source]
		// The owed card can already be face up, e.g. after a forfeit.
		if loser == nil || !loser.Alive() {
			break
		}
		card, err := loser.Reveal(0)
		if err != nil {
			break
		}
		g.broadcast(fmt.Sprintf("%s took too long and loses the %s.", ev.source, card))
		g.deathCheck(loser)

	case eventExchange:
		source := g.players[ev.source]
		for len(source.Hidden) > ev.keep {
			card, _ := source.TakeCard(len(source.Hidden) - 1)
			g.deck.Return(card)
		}
		g.deck.Shuffle(g.rng)
		g.broadcast(fmt.Sprintf("%s took too long; the drawn card(s) return to the court deck.", ev.source))

	case eventExamineShow:
		g.openExamineDecide(ev, 0)

	case eventExamineDecide:
		g.broadcast(fmt.Sprintf("%s lets %s keep the shown card.", ev.source, ev.target))
	}
	g.afterResolution()
}

// treasuryDeposit moves a convert fee into the Treasury Reserve.
func (g *Game) treasuryDeposit(id models.ActionID, cost int) {
	if id == models.ActConvert {
		g.treasury += cost
	}
}
