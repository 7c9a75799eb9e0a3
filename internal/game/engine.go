package game

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jswaro/coup/internal/models"
)

// eventKind tags the single in-flight pending event. The machine is a flat
// dispatch over this closed set; resolution never recurses.
type eventKind int

const (
	// eventAction: a declared turn action awaiting challenge/counter/accept.
	eventAction eventKind = iota
	// eventCounter: a counter-claim one level deeper; only challengeable.
	eventCounter
	// eventLoss: a player with more than one hidden card owes an influence.
	eventLoss
	// eventExchange: the exchanging player chooses which cards to keep.
	eventExchange
	// eventExamineShow: the examined player chooses which card to show.
	eventExamineShow
	// eventExamineDecide: the examiner keeps or forces a redraw of the shown card.
	eventExamineDecide
)

// PendingEvent is the one open question per game. A new turn action may not
// be declared while one exists; responses are only legal against one.
type PendingEvent struct {
	kind   eventKind
	action models.ActionID
	source string
	target string
	guess  models.InfluenceID
	sel    int // card chosen by a Select response, -1 until then

	counterer    string
	counterClaim models.InfluenceID

	keep  int // eventExchange: number of cards the hand returns to
	shown int // eventExamineDecide: index of the card on display

	responses map[models.ResponseKind]bool
	deadline  time.Time
}

func (g *Game) newDeadline() time.Time {
	return g.now().Add(g.responseWindow)
}

func responseSet(kinds ...models.ResponseKind) map[models.ResponseKind]bool {
	set := make(map[models.ResponseKind]bool, len(kinds))
	for _, k := range kinds {
		set[k] = true
	}
	return set
}

// Declare opens a turn action. Only legal with no event pending; actions
// with an empty admissible response set resolve on the spot.
func (g *Game) Declare(user, actionToken, targetName, guessName string) error {
	if g.Status == StatusLobby {
		return models.Invalidf("The game has not started yet")
	}
	if g.Status == StatusFinished {
		return models.Invalidf("The game is over")
	}
	if !g.IsTurnOf(user) {
		return models.Invalidf("It is not your turn yet.")
	}
	if g.pending != nil || g.followup != nil || len(g.pendingLosses) > 0 {
		return models.Invalidf("Another action is still being resolved")
	}

	act, ok := models.LookupAction(actionToken)
	if !ok {
		return models.Invalidf("You have picked an invalid option. Please choose from %s.", g.validActionList())
	}
	if act.TeamsOnly && !g.params.UseTeams {
		return models.Invalidf("That action is not available in this game")
	}
	if act.ID == models.ActExamine && !g.params.UseInquisitor {
		return models.Invalidf("That action is not available in this game")
	}

	source := g.players[user]
	if source.Coins >= MustCoupAt && act.ID != models.ActCoup {
		return models.Invalidf("You have 10 or more coins, you must coup!")
	}

	var target *models.Player
	needsTarget := act.NeedsTarget || (act.ID == models.ActConvert && targetName != "")
	if act.NeedsTarget && targetName == "" {
		return models.Malformedf("You need to specify a target for the %s.", strings.ToLower(act.Name))
	}
	if needsTarget {
		target = g.players[targetName]
		if target == nil {
			return models.Invalidf("Player %s is not in this game", targetName)
		}
		if act.ID != models.ActConvert {
			if target == source {
				return models.Invalidf("You may not target yourself")
			}
			if !target.Alive() {
				return models.Invalidf("Your target is already dead. Shame on you. Pick another action.")
			}
			if g.params.UseTeams && models.SameTeam(source, target) {
				return models.Invalidf("You may not target a member of your own allegiance")
			}
		}
	}

	var guess models.InfluenceID
	if act.ID == models.ActCoup || act.ID == models.ActAssassinate {
		if g.params.UseGuessing {
			if guessName == "" {
				return models.Malformedf("You must guess your target's influence, e.g. 'do %s %s duke'", act.ID, targetName)
			}
			id, ok := models.LookupInfluence(guessName)
			if !ok {
				return models.Malformedf("Unknown influence '%s'", guessName)
			}
			if !g.inRuleset(id) {
				return models.Invalidf("The %s is not in this game's deck", id)
			}
			guess = id
		} else if guessName != "" {
			return models.Malformedf("Guessing is not enabled in this game")
		}
	}

	cost := act.Cost
	if act.ID == models.ActConvert {
		cost = ConvertSelfCost
		if target != nil && target != source {
			cost = ConvertOtherCost
		}
	}
	// Pay first, resolve second. A later reversal does not refund.
	if err := source.ModifyCoins(-cost); err != nil {
		return err
	}
	g.treasuryDeposit(act.ID, cost)

	ev := &PendingEvent{
		kind:   eventAction,
		action: act.ID,
		source: user,
		guess:  guess,
		sel:    -1,
	}
	if target != nil {
		ev.target = target.Name
	}

	ev.responses = g.responsesFor(act.ID, target)
	g.announceDeclaration(ev, act)

	if len(ev.responses) == 0 {
		g.resolveSuccess(ev)
		g.afterResolution()
		return nil
	}
	ev.deadline = g.newDeadline()
	g.pending = ev
	return nil
}

// responsesFor computes the admissible response set for a declared action.
// Accept closes any open window early; Select replaces Accept when the
// target must pick which influence they stand to lose or show.
func (g *Game) responsesFor(id models.ActionID, target *models.Player) map[models.ResponseKind]bool {
	switch id {
	case models.ActForeignAid:
		return responseSet(models.RespCounter, models.RespAccept)
	case models.ActTax, models.ActEmbezzle, models.ActExchange:
		return responseSet(models.RespChallenge, models.RespAccept)
	case models.ActSteal:
		return responseSet(models.RespChallenge, models.RespCounter, models.RespAccept)
	case models.ActAssassinate:
		// In the guessing variant the declared guess decides which card is
		// hit, so the target never picks one.
		if !g.params.UseGuessing && len(target.Hidden) > 1 {
			return responseSet(models.RespChallenge, models.RespCounter, models.RespSelect)
		}
		return responseSet(models.RespChallenge, models.RespCounter, models.RespAccept)
	case models.ActExamine:
		if len(target.Hidden) > 1 {
			return responseSet(models.RespChallenge, models.RespSelect)
		}
		return responseSet(models.RespChallenge, models.RespAccept)
	case models.ActCoup:
		// No influence grants or blocks a coup; the only question left is
		// which card the target gives up.
		if !g.params.UseGuessing && len(target.Hidden) > 1 {
			return responseSet(models.RespSelect)
		}
		return nil
	default: // income, convert
		return nil
	}
}

func (g *Game) announceDeclaration(ev *PendingEvent, act models.Action) {
	var text string
	switch {
	case ev.action == models.ActIncome, ev.action == models.ActConvert:
		return // the resolution message is enough
	case ev.target != "":
		text = fmt.Sprintf("%s declares %s against %s.", ev.source, act.Name, ev.target)
	default:
		text = fmt.Sprintf("%s declares %s.", ev.source, act.Name)
	}
	g.broadcast(text)
	if len(ev.responses) > 0 {
		g.broadcast(fmt.Sprintf("Legal responses: %s.", joinResponses(ev.responses)))
	}
}

// Respond routes a response action against the open pending event.
func (g *Game) Respond(user string, kind models.ResponseKind, args []string) error {
	if g.Status != StatusStarted {
		return models.Invalidf("The game is not in progress")
	}
	ev := g.pending
	if ev == nil {
		return models.Invalidf("Primary action not yet done this turn")
	}
	if !ev.responses[kind] {
		return models.Invalidf("That is not a legal response right now")
	}
	p, ok := g.players[user]
	if !ok {
		return models.NotFoundf("You are not part of this game.")
	}
	if !p.Alive() {
		return models.Invalidf("You are out of the game")
	}

	switch kind {
	case models.RespAccept:
		return g.respondAccept(user, ev)
	case models.RespChallenge:
		return g.respondChallenge(user, ev)
	case models.RespCounter:
		return g.respondCounter(user, ev, args)
	case models.RespSelect:
		return g.respondSelect(user, ev, args)
	default:
		return models.Invalidf("That is not a legal response right now")
	}
}

func (g *Game) respondAccept(user string, ev *PendingEvent) error {
	switch ev.kind {
	case eventAction:
		if user == ev.source {
			return models.Invalidf("You cannot accept your own action")
		}
		g.resolveSuccess(ev)
	case eventCounter:
		if user == ev.counterer {
			return models.Invalidf("You cannot accept your own counter")
		}
		g.broadcast(fmt.Sprintf("%s's %s is blocked by %s.", ev.source, actionName(ev.action), ev.counterer))
		g.resolveFailure(ev)
	case eventExamineDecide:
		if user != ev.source {
			return models.Invalidf("Only %s may decide on the shown card", ev.source)
		}
		g.broadcast(fmt.Sprintf("%s lets %s keep the shown card.", ev.source, ev.target))
	default:
		return models.Invalidf("That is not a legal response right now")
	}
	g.afterResolution()
	return nil
}

func (g *Game) respondChallenge(user string, ev *PendingEvent) error {
	claimant := ev.source
	if ev.kind == eventCounter {
		claimant = ev.counterer
	}
	if user == claimant {
		return models.Invalidf("You cannot challenge your own claim")
	}

	honest := false
	claimantPlayer := g.players[claimant]
	if ev.kind == eventCounter {
		honest = claimantPlayer.Holds(ev.counterClaim)
	} else {
		honest = holdsClaim(claimantPlayer, ev.action)
	}

	g.broadcast(fmt.Sprintf("%s challenges %s!", user, claimant))

	if honest {
		g.proveClaim(claimantPlayer, ev)
		g.queueLoss(user)
		if ev.kind == eventCounter {
			g.broadcast(fmt.Sprintf("%s's %s is blocked by %s.", ev.source, actionName(ev.action), ev.counterer))
			g.resolveFailure(ev)
		} else {
			g.resolveSuccess(ev)
		}
	} else {
		g.broadcast(fmt.Sprintf("%s was bluffing and loses an influence.", claimant))
		g.queueLoss(claimant)
		if ev.kind == eventCounter {
			g.resolveSuccess(ev)
		} else {
			g.resolveFailure(ev)
		}
	}
	g.afterResolution()
	return nil
}

// proveClaim reveals the claimed card, shuffles it into the court deck and
// deals a replacement, so a proven claimant never shows the same card twice
// for free. Embezzle proves a negative: the whole hand is shown and redealt.
func (g *Game) proveClaim(p *models.Player, ev *PendingEvent) {
	if ev.kind == eventAction && ev.action == models.ActEmbezzle {
		shown := joinCards(p.Hidden)
		n := len(p.Hidden)
		for len(p.Hidden) > 0 {
			card, _ := p.TakeCard(0)
			g.deck.Return(card)
		}
		g.deck.Shuffle(g.rng)
		for i := 0; i < n; i++ {
			card, err := g.deck.Draw()
			if err != nil {
				g.broadcast("The court deck is in an impossible state; please report this.")
				return
			}
			p.GiveCard(card)
		}
		g.broadcast(fmt.Sprintf("%s reveals a hand without the Duke (%s) and draws a fresh hand.", p.Name, shown))
		g.whisper(p.Name, fmt.Sprintf("Your influences are now: %s.", joinCards(p.Hidden)))
		return
	}

	idx := p.IndexOf(ev.counterClaim)
	if ev.kind == eventAction {
		idx = grantingIndex(p, ev.action)
	}
	card, _ := p.TakeCard(idx)
	g.deck.Return(card)
	g.deck.Shuffle(g.rng)
	replacement, err := g.deck.Draw()
	if err != nil {
		g.broadcast("The court deck is in an impossible state; please report this.")
		return
	}
	p.GiveCard(replacement)
	g.broadcast(fmt.Sprintf("%s reveals the %s, shuffles it into the court deck and draws a new card.", p.Name, card))
	g.whisper(p.Name, fmt.Sprintf("You drew the %s.", replacement))
}

func (g *Game) respondCounter(user string, ev *PendingEvent, args []string) error {
	if ev.kind != eventAction {
		return models.Invalidf("That is not a legal response right now")
	}
	if user == ev.source {
		return models.Invalidf("You cannot counter your own action")
	}
	if ev.target != "" && user != ev.target {
		return models.Invalidf("Only the targeted player may counter")
	}

	if len(args) > 0 && strings.EqualFold(args[0], "with") {
		args = args[1:]
	}
	var legal []models.InfluenceID
	for _, inf := range CounterInfluences(ev.action) {
		if g.inRuleset(inf) {
			legal = append(legal, inf)
		}
	}
	var claim models.InfluenceID
	switch {
	case len(args) > 0:
		id, ok := models.LookupInfluence(args[0])
		if !ok {
			return models.Malformedf("Unknown influence '%s'", args[0])
		}
		if !g.inRuleset(id) {
			return models.Invalidf("The %s is not in this game's deck", id)
		}
		claim = id
	case len(legal) == 1:
		claim = legal[0]
	default:
		return models.Malformedf("Specify the influence you counter with, e.g. 'counter with captain'")
	}
	if !CanCounter(claim, ev.action) {
		return models.Invalidf("The %s cannot block %s", claim, actionName(ev.action))
	}

	g.broadcast(fmt.Sprintf("%s claims the %s and blocks %s's %s.", user, claim, ev.source, actionName(ev.action)))
	g.broadcast("Legal responses: challenge, accept.")
	g.pending = &PendingEvent{
		kind:         eventCounter,
		action:       ev.action,
		source:       ev.source,
		target:       ev.target,
		guess:        ev.guess,
		sel:          -1,
		counterer:    user,
		counterClaim: claim,
		responses:    responseSet(models.RespChallenge, models.RespAccept),
		deadline:     g.newDeadline(),
	}
	return nil
}

func (g *Game) respondSelect(user string, ev *PendingEvent, args []string) error {
	indices, err := parseIndices(args)
	if err != nil {
		return err
	}

	switch ev.kind {
	case eventAction:
		// Target of an assassinate/coup picks the card they give up; target
		// of an examine picks the card they show.
		if user != ev.target {
			return models.Invalidf("Only %s may select a card here", ev.target)
		}
		if len(indices) != 1 {
			return models.Malformedf("Select exactly one card, e.g. 'select 1'")
		}
		target := g.players[ev.target]
		if indices[0] >= len(target.Hidden) {
			return models.Invalidf("You do not have a card in position %d", indices[0]+1)
		}
		if ev.action == models.ActExamine {
			g.openExamineDecide(ev, indices[0])
			g.afterResolution()
			return nil
		}
		ev.sel = indices[0]
		g.resolveSuccess(ev)
		g.afterResolution()
		return nil

	case eventLoss:
		if user != ev.source {
			return models.Invalidf("Only %s may select a card here", ev.source)
		}
		if len(indices) != 1 {
			return models.Malformedf("Select exactly one card, e.g. 'select 1'")
		}
		loser := g.players[ev.source]
		card, err := loser.Reveal(indices[0])
		if err != nil {
			return err
		}
		g.broadcast(fmt.Sprintf("%s loses the %s.", ev.source, card))
		g.deathCheck(loser)
		g.afterResolution()
		return nil

	case eventExchange:
		if user != ev.source {
			return models.Invalidf("Only %s may select cards here", ev.source)
		}
		return g.finishExchange(ev, indices)

	case eventExamineShow:
		if user != ev.target {
			return models.Invalidf("Only %s may select a card here", ev.target)
		}
		if len(indices) != 1 {
			return models.Malformedf("Select exactly one card, e.g. 'select 1'")
		}
		if indices[0] >= len(g.players[ev.target].Hidden) {
			return models.Invalidf("You do not have a card in position %d", indices[0]+1)
		}
		g.openExamineDecide(ev, indices[0])
		g.afterResolution()
		return nil

	case eventExamineDecide:
		if user != ev.source {
			return models.Invalidf("Only %s may decide on the shown card", ev.source)
		}
		g.forceRedraw(ev)
		g.afterResolution()
		return nil
	}
	return models.Invalidf("That is not a legal response right now")
}

func parseIndices(args []string) ([]int, error) {
	if len(args) == 0 {
		return nil, models.Malformedf("Select takes card positions, e.g. 'select 1'")
	}
	out := make([]int, 0, len(args))
	seen := make(map[int]bool)
	for _, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil || n < 1 {
			return nil, models.Malformedf("'%s' is not a card position", a)
		}
		if seen[n] {
			return nil, models.Malformedf("Position %d was given twice", n)
		}
		seen[n] = true
		out = append(out, n-1)
	}
	return out, nil
}

// inRuleset reports whether an influence exists in this game's deck
// composition. The Ambassador and the Inquisitor are mutually exclusive.
func (g *Game) inRuleset(inf models.InfluenceID) bool {
	switch inf {
	case models.Ambassador:
		return !g.params.UseInquisitor
	case models.Inquisitor:
		return g.params.UseInquisitor
	}
	return true
}

func (g *Game) validActionList() string {
	var names []string
	for _, id := range []models.ActionID{
		models.ActIncome, models.ActForeignAid, models.ActTax, models.ActSteal,
		models.ActAssassinate, models.ActExchange, models.ActExamine, models.ActCoup,
		models.ActConvert, models.ActEmbezzle,
	} {
		act := models.Actions[id]
		if act.TeamsOnly && !g.params.UseTeams {
			continue
		}
		if id == models.ActExamine && !g.params.UseInquisitor {
			continue
		}
		names = append(names, string(id))
	}
	return strings.Join(names, ", ")
}

func joinResponses(set map[models.ResponseKind]bool) string {
	var out []string
	for _, k := range []models.ResponseKind{models.RespChallenge, models.RespCounter, models.RespAccept, models.RespSelect} {
		if set[k] {
			out = append(out, string(k))
		}
	}
	return strings.Join(out, ", ")
}
