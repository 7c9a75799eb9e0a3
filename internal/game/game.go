package game

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jswaro/coup/internal/models"
)

// Status is the lifecycle phase of a game.
type Status string

const (
	StatusLobby    Status = "lobby"
	StatusStarted  Status = "started"
	StatusFinished Status = "finished"
)

// Game is the authoritative state of one table. All gameplay methods assume
// the caller holds the game lock; commands and the timeout tick serialize
// through Lock/Unlock so only one mutation is in flight at a time.
type Game struct {
	ID      string
	Name    string
	Creator string

	params models.GameParams

	Status   Status
	players  map[string]*models.Player
	order    []string
	current  int
	deck     *Deck
	treasury int
	winner   string

	pending       *PendingEvent
	pendingLosses []string
	followup      *PendingEvent

	outbox []models.Message

	mu             sync.Mutex
	rng            *rand.Rand
	now            func() time.Time
	responseWindow time.Duration
}

// New creates a game in the lobby phase. The creator still has to join via
// AddPlayer; the registry does that so create and join share one code path.
func New(creator string, params models.GameParams, responseWindow time.Duration) *Game {
	if responseWindow <= 0 {
		responseWindow = DefaultResponseWindow
	}
	return &Game{
		ID:             uuid.New().String(),
		Name:           params.Name,
		Creator:        creator,
		params:         params,
		Status:         StatusLobby,
		players:        make(map[string]*models.Player),
		rng:            rand.New(rand.NewSource(time.Now().UnixNano())),
		now:            time.Now,
		responseWindow: responseWindow,
	}
}

// Lock acquires the game's command lock.
func (g *Game) Lock() { g.mu.Lock() }

// Unlock releases the game's command lock.
func (g *Game) Unlock() { g.mu.Unlock() }

// LongName is the listing form of the game name.
func (g *Game) LongName() string {
	if g.params.Password == "" {
		return g.Name
	}
	return fmt.Sprintf("%s (private)", g.Name)
}

// HasPlayer reports membership by name.
func (g *Game) HasPlayer(name string) bool {
	_, ok := g.players[name]
	return ok
}

// PlayerNames returns the seats in turn order (lobby order before start).
func (g *Game) PlayerNames() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// AddPlayer seats a player in the lobby.
func (g *Game) AddPlayer(name, password string) error {
	if g.params.Password != "" && password != g.params.Password {
		return models.Permissionf("Incorrect password. You may not join this game.")
	}
	if g.Status != StatusLobby {
		return models.Invalidf("Game already started")
	}
	if len(g.players) >= MaxPlayers {
		return models.Invalidf("No more room, already full")
	}
	if _, ok := g.players[name]; ok {
		return models.Invalidf("Player %s is already in the game", name)
	}
	g.players[name] = models.NewPlayer(name)
	g.order = append(g.order, name)
	return nil
}

// Start deals the game. Only the creator may start; turn order is shuffled
// once here and then fixed for the life of the game.
func (g *Game) Start(requester string) error {
	if requester != g.Creator {
		return models.Permissionf("Only the owner of the game may start the game")
	}
	if g.Status != StatusLobby {
		return models.Invalidf("Game already started")
	}
	if len(g.players) < MinPlayers {
		return models.Invalidf("Not enough players to start yet")
	}

	g.deck = BuildDeck(g.params.UseInquisitor, len(g.players))
	g.deck.Shuffle(g.rng)

	g.rng.Shuffle(len(g.order), func(i, j int) {
		g.order[i], g.order[j] = g.order[j], g.order[i]
	})

	seats := make([]*models.Player, len(g.order))
	for i, name := range g.order {
		seats[i] = g.players[name]
	}
	if err := g.deck.Deal(seats, CardsPerPlayer); err != nil {
		return err
	}

	if g.params.UseTeams {
		for i, p := range seats {
			if i%2 == 0 {
				p.Team = models.TeamA
			} else {
				p.Team = models.TeamB
			}
		}
	}

	g.current = 0
	g.Status = StatusStarted

	g.broadcast(fmt.Sprintf("The game has begun. Turn order is %s.", strings.Join(g.order, ", ")))
	for _, p := range seats {
		g.whisper(p.Name, fmt.Sprintf("Your influences are: %s.", joinCards(p.Hidden)))
		if g.params.UseTeams {
			g.whisper(p.Name, fmt.Sprintf("Your allegiance is %s.", p.Team))
		}
	}
	g.whisper(g.order[0], "You are the first player. Please choose an action.")
	return nil
}

// CurrentPlayerName returns whose turn it is.
func (g *Game) CurrentPlayerName() (string, error) {
	if len(g.order) == 0 {
		return "", models.Invalidf("There are no players in this game yet")
	}
	return g.order[g.current], nil
}

// IsTurnOf reports whether it is user's turn.
func (g *Game) IsTurnOf(user string) bool {
	name, err := g.CurrentPlayerName()
	return err == nil && name == user
}

func (g *Game) alivePlayers() []string {
	var alive []string
	for _, name := range g.order {
		if g.players[name].Alive() {
			alive = append(alive, name)
		}
	}
	return alive
}

// advanceTurn moves to the next living player, or finishes the game when one
// player remains. Safe to call again after the game is over: it keeps
// reporting the same winner.
func (g *Game) advanceTurn() {
	alive := g.alivePlayers()
	if len(alive) <= 1 {
		g.Status = StatusFinished
		if len(alive) == 1 {
			g.winner = alive[0]
		}
		if g.winner != "" {
			g.broadcast(fmt.Sprintf("Player %s has won!", g.winner))
		}
		return
	}
	for i := 0; i < len(g.order); i++ {
		g.current = (g.current + 1) % len(g.order)
		if g.players[g.order[g.current]].Alive() {
			break
		}
	}
	g.whisper(g.order[g.current], "It is your turn. Please choose an action.")
}

// Winner returns the winning player once the game is finished.
func (g *Game) Winner() string { return g.winner }

func (g *Game) broadcast(text string) {
	g.outbox = append(g.outbox, models.BroadcastTo(g.Name, text))
}

func (g *Game) whisper(user, text string) {
	g.outbox = append(g.outbox, models.WhisperTo(user, text))
}

// DrainMessages returns and clears the ordered outbound queue. The transport
// owns delivery; the engine never blocks on it.
func (g *Game) DrainMessages() []models.Message {
	msgs := g.outbox
	g.outbox = nil
	return msgs
}

func (g *Game) faceUpCards() string {
	var cards []models.InfluenceID
	for _, name := range g.order {
		cards = append(cards, g.players[name].Revealed...)
	}
	if len(cards) == 0 {
		return "none"
	}
	return joinCards(cards)
}

// StatusReport whispers the visible game state to user, plus their own hand.
func (g *Game) StatusReport(user string) error {
	p, ok := g.players[user]
	if !ok {
		return models.NotFoundf("You are not part of this game.")
	}
	g.whisper(user, fmt.Sprintf("Game '%s' (%s), players: %s", g.Name, g.Status, strings.Join(g.order, ", ")))
	if g.Status == StatusLobby {
		return nil
	}
	for _, name := range g.order {
		other := g.players[name]
		line := fmt.Sprintf("%s has %d coins", name, other.Coins)
		if len(other.Revealed) > 0 {
			line += fmt.Sprintf(", revealed: %s", joinCards(other.Revealed))
		}
		if !other.Alive() {
			line += " (out)"
		}
		if g.params.UseTeams {
			line += fmt.Sprintf(" [allegiance %s]", other.Team)
		}
		g.whisper(user, line)
	}
	if g.params.UseTeams {
		g.whisper(user, fmt.Sprintf("The Treasury holds %d coins.", g.treasury))
	}
	g.whisper(user, fmt.Sprintf("The court deck holds %d cards.", g.deck.Size()))
	if current, err := g.CurrentPlayerName(); err == nil && g.Status == StatusStarted {
		g.whisper(user, fmt.Sprintf("It is %s's turn.", current))
	}
	if p.Alive() {
		g.whisper(user, fmt.Sprintf("Your influences are: %s.", joinCards(p.Hidden)))
	}
	return nil
}

// Forfeit removes user from a lobby, or flips all their influence face up in
// a running game. Returns true when the player left an un-started lobby and
// the registry may need to garbage collect the game.
func (g *Game) Forfeit(user string) (bool, error) {
	p, ok := g.players[user]
	if !ok {
		return false, models.NotFoundf("You are not part of this game.")
	}

	if g.Status == StatusLobby {
		delete(g.players, user)
		for i, name := range g.order {
			if name == user {
				g.order = append(g.order[:i], g.order[i+1:]...)
				break
			}
		}
		g.broadcast(fmt.Sprintf("%s left the game.", user))
		return true, nil
	}

	if !p.Alive() {
		return false, models.Invalidf("You are already out of the game")
	}

	// Cards drawn for a half-finished exchange go back to the court deck
	// before the hand is flipped face up.
	if ev := g.pending; ev != nil && ev.kind == eventExchange && ev.source == user {
		for len(p.Hidden) > ev.keep {
			card, _ := p.TakeCard(len(p.Hidden) - 1)
			g.deck.Return(card)
		}
		g.deck.Shuffle(g.rng)
	}

	wasTurn := g.IsTurnOf(user)
	p.RevealAll()
	g.broadcast(fmt.Sprintf("%s has forfeited and is out of the game.", user))
	g.broadcast(fmt.Sprintf("The list of current face-up cards are '%s'.", g.faceUpCards()))

	settled := g.settleAbandoned(user)

	if g.Status != StatusStarted {
		return false, nil
	}
	if !settled && g.pending == nil && (wasTurn || len(g.alivePlayers()) <= 1) {
		g.advanceTurn()
	}
	return false, nil
}

// settleAbandoned tears down an open event that was waiting on a player who
// just went face up. It runs after RevealAll, so resolution sees the player
// as already out. Returns true when it drove the machine itself (including
// any turn advance); the caller then must not advance again.
func (g *Game) settleAbandoned(user string) bool {
	ev := g.pending
	if ev == nil {
		return false
	}
	switch {
	case ev.kind == eventAction && ev.source == user,
		ev.kind == eventCounter && ev.source == user:
		g.pending = nil
		g.followup = nil
		g.broadcast(fmt.Sprintf("%s's %s is abandoned.", ev.source, actionName(ev.action)))
		return false
	case ev.kind == eventCounter && ev.counterer == user:
		// An unchallenged block stands, as it would on timeout.
		g.resolveTimeout(ev)
		return true
	case ev.kind == eventAction && ev.target == user && ev.responses[models.RespSelect]:
		// The action stands; the hit finds its target already out, so no
		// further loss is owed.
		g.resolveSuccess(ev)
		g.afterResolution()
		return true
	case ev.kind == eventLoss && ev.source == user,
		ev.kind == eventExchange && ev.source == user,
		ev.kind == eventExamineShow && ev.target == user,
		ev.kind == eventExamineDecide && (ev.source == user || ev.target == user):
		// The forced reveal already satisfied whatever the event was
		// waiting for.
		g.afterResolution()
		return true
	}
	return false
}

func joinCards(cards []models.InfluenceID) string {
	names := make([]string, len(cards))
	for i, c := range cards {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

func actionName(id models.ActionID) string {
	if act, ok := models.Actions[id]; ok {
		return act.Name
	}
	return string(id)
}
