package store

import (
	"sync"
	"time"

	"github.com/jswaro/coup/internal/game"
	"github.com/jswaro/coup/internal/models"
)

// Registry maps game names to live games and enforces that a player sits in
// at most one game at a time. Its lock only guards the map; each game
// serializes its own mutations.
type Registry struct {
	mu             sync.RWMutex
	games          map[string]*game.Game
	responseWindow time.Duration
}

// New creates a registry. responseWindow is handed to every game it creates;
// zero means the engine default.
func New(responseWindow time.Duration) *Registry {
	return &Registry{
		games:          make(map[string]*game.Game),
		responseWindow: responseWindow,
	}
}

// Create registers a new game and seats the creator in it.
func (r *Registry) Create(creator string, params models.GameParams) (*game.Game, error) {
	if params.Name == "" {
		return nil, models.Malformedf("Not enough arguments")
	}
	if _, err := r.FindUserGame(creator); err == nil {
		return nil, models.Invalidf("You are already in a game. Forfeit first.")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.games[params.Name]; exists {
		return nil, models.Invalidf("A game with this name already exists")
	}
	g := game.New(creator, params, r.responseWindow)
	g.Lock()
	err := g.AddPlayer(creator, params.Password)
	g.Unlock()
	if err != nil {
		return nil, err
	}
	r.games[params.Name] = g
	return g, nil
}

// Get looks a game up by name.
func (r *Registry) Get(name string) (*game.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.games[name]
	if !ok {
		return nil, models.NotFoundf("Game '%s' not found", name)
	}
	return g, nil
}

// FindUserGame scans for the game user currently sits in.
func (r *Registry) FindUserGame(user string) (*game.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, g := range r.games {
		g.Lock()
		member := g.HasPlayer(user)
		g.Unlock()
		if member {
			return g, nil
		}
	}
	return nil, models.NotFoundf("User %s does not appear to be in a game", user)
}

// Join seats a player in an existing game.
func (r *Registry) Join(user, name, password string) (*game.Game, error) {
	if _, err := r.FindUserGame(user); err == nil {
		return nil, models.Invalidf("You are already in a game. Forfeit first.")
	}
	g, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	g.Lock()
	err = g.AddPlayer(user, password)
	g.Unlock()
	if err != nil {
		return nil, err
	}
	return g, nil
}

// Remove drops a game from the registry.
func (r *Registry) Remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.games, name)
}

// List returns the listing names of all games, lobby and running alike.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.games))
	for _, g := range r.games {
		out = append(out, g.LongName())
	}
	return out
}

// Games snapshots the live games, for the timeout sweep.
func (r *Registry) Games() []*game.Game {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*game.Game, 0, len(r.games))
	for _, g := range r.games {
		out = append(out, g)
	}
	return out
}

// SweepTimeouts resolves expired pending events across all games and
// returns whatever messages that produced. It takes each game's own lock,
// so it never races a live command. A finished game stays registered until
// a sweep finds its outbox empty: broadcasts are expanded against the
// registry after this returns, so removing a game in the same tick that
// hands out its closing messages would drop them.
func (r *Registry) SweepTimeouts(now time.Time) []models.Message {
	var msgs []models.Message
	for _, g := range r.Games() {
		g.Lock()
		if g.Status == game.StatusFinished {
			leftover := g.DrainMessages()
			g.Unlock()
			if len(leftover) == 0 {
				r.Remove(g.Name)
			} else {
				msgs = append(msgs, leftover...)
			}
			continue
		}
		g.CheckTimeout(now)
		msgs = append(msgs, g.DrainMessages()...)
		g.Unlock()
	}
	return msgs
}
