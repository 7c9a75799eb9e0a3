package command

import (
	"strings"
	"testing"
	"time"

	"github.com/jswaro/coup/internal/models"
	"github.com/jswaro/coup/internal/store"
)

func newDispatcher() *Dispatcher {
	return New(store.New(time.Minute), nil)
}

func whispersTo(msgs []models.Message, user string) []string {
	var out []string
	for _, m := range msgs {
		if m.Kind == models.Whisper && m.Recipient == user {
			out = append(out, m.Text)
		}
	}
	return out
}

func containsText(msgs []models.Message, want string) bool {
	for _, m := range msgs {
		if strings.Contains(m.Text, want) {
			return true
		}
	}
	return false
}

func TestCreateJoinStart(t *testing.T) {
	d := newDispatcher()

	msgs := d.Handle("alice", "create roar")
	if got := whispersTo(msgs, "alice"); len(got) != 1 || got[0] != "Game 'roar' created" {
		t.Fatalf("create reply = %v, want [Game 'roar' created]", got)
	}

	msgs = d.Handle("bob", "join roar")
	if got := whispersTo(msgs, "bob"); len(got) != 1 || got[0] != "Joined game 'roar'" {
		t.Fatalf("join reply = %v, want [Joined game 'roar']", got)
	}
	if !containsText(msgs, "Game 'roar', players (2): alice, bob") {
		t.Errorf("join did not announce the roster: %v", msgs)
	}

	msgs = d.Handle("bob", "start")
	if !containsText(msgs, "Error: Only the owner of the game may start the game") {
		t.Errorf("non-creator start reply = %v", msgs)
	}

	msgs = d.Handle("alice", "start")
	if !containsText(msgs, "Game 'roar' started") {
		t.Errorf("start reply missing confirmation: %v", msgs)
	}
	if !containsText(msgs, "The game has begun") {
		t.Errorf("start did not announce the deal: %v", msgs)
	}
}

func TestCreateRejectsDuplicatesAndDoubleSeating(t *testing.T) {
	d := newDispatcher()
	d.Handle("alice", "create roar")

	msgs := d.Handle("bob", "create roar")
	if !containsText(msgs, "Error: A game with this name already exists") {
		t.Errorf("duplicate create reply = %v", msgs)
	}

	msgs = d.Handle("alice", "create other")
	if !containsText(msgs, "Error: You are already in a game. Forfeit first.") {
		t.Errorf("double seat reply = %v", msgs)
	}
}

func TestCreateFlags(t *testing.T) {
	d := newDispatcher()
	d.Handle("alice", "create sly hush -t")

	msgs := d.Handle("bob", "join sly")
	if !containsText(msgs, "Error: Incorrect password. You may not join this game.") {
		t.Errorf("passwordless join reply = %v", msgs)
	}
	msgs = d.Handle("bob", "join sly hush")
	if got := whispersTo(msgs, "bob"); len(got) != 1 || got[0] != "Joined game 'sly'" {
		t.Errorf("join reply = %v", got)
	}

	msgs = d.Handle("carol", "list")
	if !containsText(msgs, "sly (private)") {
		t.Errorf("list reply = %v, want the private marker", msgs)
	}
}

func TestUnrecognizedCommand(t *testing.T) {
	d := newDispatcher()
	msgs := d.Handle("alice", "dance")
	if !containsText(msgs, "Error: Unrecognized command: dance") {
		t.Errorf("reply = %v", msgs)
	}
}

func TestGameVerbsRequireASeat(t *testing.T) {
	d := newDispatcher()
	msgs := d.Handle("alice", "do income")
	if !containsText(msgs, "Error: You are not in a game and cannot use do") {
		t.Errorf("reply = %v", msgs)
	}
}

func TestDoInLobby(t *testing.T) {
	d := newDispatcher()
	d.Handle("alice", "create roar")
	msgs := d.Handle("alice", "do income")
	if !containsText(msgs, "Error: The game has not started yet") {
		t.Errorf("reply = %v", msgs)
	}
}

func TestHelpAndEmptyLine(t *testing.T) {
	d := newDispatcher()
	if msgs := d.Handle("alice", "   "); msgs != nil {
		t.Errorf("blank line produced %v", msgs)
	}
	msgs := d.Handle("alice", "help")
	if !containsText(msgs, "Available commands") {
		t.Errorf("help reply = %v", msgs)
	}
}

func TestListEmpty(t *testing.T) {
	d := newDispatcher()
	msgs := d.Handle("alice", "list")
	if !containsText(msgs, "No games available.") {
		t.Errorf("reply = %v", msgs)
	}
}

func TestForfeitDisbandsCreatorLobby(t *testing.T) {
	d := newDispatcher()
	d.Handle("alice", "create roar")
	d.Handle("bob", "join roar")

	msgs := d.Handle("alice", "forfeit")
	if !containsText(msgs, "Game 'roar' was disbanded by its creator.") {
		t.Errorf("disband reply = %v", msgs)
	}
	msgs = d.Handle("bob", "do income")
	if !containsText(msgs, "Error: You are not in a game and cannot use do") {
		t.Errorf("bob still seated after the disband: %v", msgs)
	}
}

func TestFullRound(t *testing.T) {
	d := newDispatcher()
	d.Handle("alice", "create roar")
	d.Handle("bob", "join roar")
	msgs := d.Handle("alice", "start")

	// Turn order is shuffled; fish the first player out of the whispers.
	var first string
	for _, name := range []string{"alice", "bob"} {
		for _, text := range whispersTo(msgs, name) {
			if strings.Contains(text, "You are the first player") {
				first = name
			}
		}
	}
	if first == "" {
		t.Fatal("no first-player whisper after start")
	}

	msgs = d.Handle(first, "do income")
	if !containsText(msgs, first+" took income") {
		t.Errorf("income narration missing: %v", msgs)
	}
}
