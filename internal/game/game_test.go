package game

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/jswaro/coup/internal/models"
)

func newLobby(t *testing.T, params models.GameParams, names ...string) *Game {
	t.Helper()
	if params.Name == "" {
		params.Name = "table"
	}
	g := New(names[0], params, time.Minute)
	g.rng = rand.New(rand.NewSource(11))
	g.now = func() time.Time { return testEpoch }
	for _, n := range names {
		if err := g.AddPlayer(n, params.Password); err != nil {
			t.Fatalf("AddPlayer(%s): %v", n, err)
		}
	}
	return g
}

func TestAddPlayer(t *testing.T) {
	g := newLobby(t, models.GameParams{UseInquisitor: true}, "alice")

	if err := g.AddPlayer("alice", ""); err == nil {
		t.Error("duplicate seat accepted")
	}
	if err := g.AddPlayer("bob", ""); err != nil {
		t.Errorf("AddPlayer(bob): %v", err)
	}
}

func TestAddPlayerPassword(t *testing.T) {
	g := newLobby(t, models.GameParams{UseInquisitor: true, Password: "hunter2"}, "alice")

	if err := g.AddPlayer("bob", "wrong"); err == nil {
		t.Error("wrong password accepted")
	}
	if err := g.AddPlayer("bob", "hunter2"); err != nil {
		t.Errorf("AddPlayer with password: %v", err)
	}
}

func TestAddPlayerFullTable(t *testing.T) {
	names := []string{"p0"}
	g := newLobby(t, models.GameParams{UseInquisitor: true}, names[0])
	for i := 1; i < MaxPlayers; i++ {
		if err := g.AddPlayer(string(rune('a'+i)), ""); err != nil {
			t.Fatalf("seat %d: %v", i, err)
		}
	}
	if err := g.AddPlayer("overflow", ""); err == nil {
		t.Error("eleventh seat accepted")
	}
}

func TestStart(t *testing.T) {
	g := newLobby(t, models.GameParams{UseInquisitor: true}, "alice", "bob", "carol")

	if err := g.Start("bob"); err == nil {
		t.Error("non-creator started the game")
	}
	if err := g.Start("alice"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if g.Status != StatusStarted {
		t.Fatalf("status = %s, want %s", g.Status, StatusStarted)
	}

	for name, p := range g.players {
		if len(p.Hidden) != CardsPerPlayer {
			t.Errorf("%s got %d cards, want %d", name, len(p.Hidden), CardsPerPlayer)
		}
		if p.Coins != 2 {
			t.Errorf("%s has %d coins, want 2", name, p.Coins)
		}
	}
	if got := g.deck.Size(); got != 15-3*CardsPerPlayer {
		t.Errorf("deck size = %d, want %d", got, 15-3*CardsPerPlayer)
	}

	text := drainText(g)
	if !strings.Contains(text, "The game has begun") {
		t.Error("start was not announced")
	}
	if err := g.Start("alice"); err == nil {
		t.Error("Start accepted twice")
	}
}

func TestStartNeedsTwoPlayers(t *testing.T) {
	g := newLobby(t, models.GameParams{UseInquisitor: true}, "alice")
	if err := g.Start("alice"); err == nil {
		t.Error("game started with a single player")
	}
}

func TestStartAssignsAlternatingTeams(t *testing.T) {
	g := newLobby(t, models.GameParams{UseInquisitor: true, UseTeams: true}, "alice", "bob", "carol", "dave")
	if err := g.Start("alice"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	counts := map[models.Team]int{}
	for _, p := range g.players {
		counts[p.Team]++
	}
	if counts[models.TeamA] != 2 || counts[models.TeamB] != 2 {
		t.Errorf("team split = %v, want 2/2", counts)
	}
}

func TestForfeitInLobby(t *testing.T) {
	g := newLobby(t, models.GameParams{UseInquisitor: true}, "alice", "bob")

	left, err := g.Forfeit("bob")
	if err != nil {
		t.Fatalf("Forfeit: %v", err)
	}
	if !left {
		t.Error("lobby forfeit did not report the seat as vacated")
	}
	if g.HasPlayer("bob") {
		t.Error("bob still seated after leaving the lobby")
	}
	if got := g.PlayerNames(); len(got) != 1 || got[0] != "alice" {
		t.Errorf("seats = %v, want [alice]", got)
	}
}

func TestForfeitStartedGame(t *testing.T) {
	g := newLobby(t, models.GameParams{UseInquisitor: true}, "alice", "bob")
	if err := g.Start("alice"); err != nil {
		t.Fatalf("Start: %v", err)
	}

	loser, _ := g.CurrentPlayerName()
	left, err := g.Forfeit(loser)
	if err != nil {
		t.Fatalf("Forfeit: %v", err)
	}
	if left {
		t.Error("mid-game forfeit reported a vacated seat")
	}
	if g.players[loser].Alive() {
		t.Error("forfeiting player still alive")
	}
	if g.Status != StatusFinished {
		t.Fatalf("status = %s, want %s", g.Status, StatusFinished)
	}
	if g.Winner() == loser || g.Winner() == "" {
		t.Errorf("winner = %q", g.Winner())
	}
}

func TestForfeitAbandonsPendingAction(t *testing.T) {
	g := newTestGame(t, models.GameParams{UseInquisitor: true}, map[string][]models.InfluenceID{
		"alice": {models.Duke, models.Contessa},
		"bob":   {models.Captain, models.Duke},
		"carol": {models.Contessa, models.Captain},
	}, "alice", "bob", "carol")

	if err := g.Declare("alice", "tax", "", ""); err != nil {
		t.Fatalf("Declare: %v", err)
	}
	if _, err := g.Forfeit("alice"); err != nil {
		t.Fatalf("Forfeit: %v", err)
	}
	if g.pending != nil {
		t.Error("the forfeiting player's own action is still pending")
	}
	if cur, _ := g.CurrentPlayerName(); cur == "alice" {
		t.Error("turn did not move off the forfeiting player")
	}
	// The dead seat cannot act any more.
	if err := g.Respond("alice", models.RespAccept, nil); err == nil {
		t.Error("a forfeited player responded")
	}
}

func TestForfeitOfSelectTargetClearsPending(t *testing.T) {
	g := newTestGame(t, models.GameParams{UseInquisitor: true}, map[string][]models.InfluenceID{
		"alice": {models.Assassin, models.Duke},
		"bob":   {models.Captain, models.Contessa},
		"carol": {models.Duke, models.Captain},
	}, "alice", "bob", "carol")
	g.players["alice"].Coins = AssassinateCost

	if err := g.Declare("alice", "assassinate", "bob", ""); err != nil {
		t.Fatalf("Declare: %v", err)
	}
	g.DrainMessages()

	if _, err := g.Forfeit("bob"); err != nil {
		t.Fatalf("Forfeit: %v", err)
	}
	if g.pending != nil {
		t.Fatalf("pending = %+v after the target forfeited", g.pending)
	}
	if g.players["bob"].Alive() {
		t.Error("bob still alive after forfeiting")
	}

	text := drainText(g)
	if strings.Contains(text, "took too long") {
		t.Errorf("forfeit teardown produced a timeout message:\n%s", text)
	}
	if strings.Contains(text, "loses the .") {
		t.Errorf("forfeit teardown revealed from an empty hand:\n%s", text)
	}

	if cur, _ := g.CurrentPlayerName(); cur != "carol" {
		t.Errorf("current player = %s, want carol", cur)
	}
	if err := g.Declare("carol", "income", "", ""); err != nil {
		t.Errorf("next turn blocked after the forfeit: %v", err)
	}
}

func TestForfeitReturnsExchangeDraws(t *testing.T) {
	g := newTestGame(t, models.GameParams{UseInquisitor: true}, map[string][]models.InfluenceID{
		"alice": {models.Inquisitor, models.Duke},
		"bob":   {models.Captain, models.Contessa},
		"carol": {models.Duke, models.Captain},
	}, "alice", "bob", "carol")
	deckBefore := g.deck.Size()

	if err := g.Declare("alice", "exchange", "", ""); err != nil {
		t.Fatalf("Declare: %v", err)
	}
	if err := g.Respond("bob", models.RespAccept, nil); err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if g.pending == nil || g.pending.kind != eventExchange {
		t.Fatalf("pending = %+v, want a keep selection", g.pending)
	}

	if _, err := g.Forfeit("alice"); err != nil {
		t.Fatalf("Forfeit: %v", err)
	}
	if g.pending != nil {
		t.Fatalf("pending = %+v after the exchanging player forfeited", g.pending)
	}
	// The drawn card went back; only alice's original two are face up.
	if got := g.deck.Size(); got != deckBefore {
		t.Errorf("deck size = %d, want %d", got, deckBefore)
	}
	if got := len(g.players["alice"].Revealed); got != 2 {
		t.Errorf("alice revealed %d cards, want 2", got)
	}
}

func TestCardConservationThroughChallenge(t *testing.T) {
	g := newLobby(t, models.GameParams{UseInquisitor: true}, "alice", "bob", "carol")
	if err := g.Start("alice"); err != nil {
		t.Fatalf("Start: %v", err)
	}

	totalCards := func() int {
		n := g.deck.Size()
		for _, p := range g.players {
			n += len(p.Hidden) + len(p.Revealed)
		}
		return n
	}
	if got := totalCards(); got != 15 {
		t.Fatalf("cards in play = %d, want 15", got)
	}

	actor, _ := g.CurrentPlayerName()
	var challenger string
	for _, n := range g.PlayerNames() {
		if n != actor {
			challenger = n
			break
		}
	}
	if err := g.Declare(actor, "tax", "", ""); err != nil {
		t.Fatalf("Declare: %v", err)
	}
	if err := g.Respond(challenger, models.RespChallenge, nil); err != nil {
		t.Fatalf("Respond: %v", err)
	}
	// Settle any owed selection so the state returns to idle.
	if g.pending != nil && g.pending.kind == eventLoss {
		if err := g.Respond(g.pending.source, models.RespSelect, []string{"1"}); err != nil {
			t.Fatalf("Respond(select): %v", err)
		}
	}

	if got := totalCards(); got != 15 {
		t.Errorf("cards in play = %d after the challenge, want 15", got)
	}
}

func TestStatusReport(t *testing.T) {
	g := newLobby(t, models.GameParams{UseInquisitor: true}, "alice", "bob")
	if err := g.Start("alice"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	g.DrainMessages()

	if err := g.StatusReport("alice"); err != nil {
		t.Fatalf("StatusReport: %v", err)
	}
	text := drainText(g)
	for _, want := range []string{"alice has 2 coins", "bob has 2 coins", "Your influences are"} {
		if !strings.Contains(text, want) {
			t.Errorf("status report missing %q:\n%s", want, text)
		}
	}
	if err := g.StatusReport("mallory"); err == nil {
		t.Error("outsider received a status report")
	}
}
