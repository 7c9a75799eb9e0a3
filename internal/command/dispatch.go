package command

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jswaro/coup/internal/game"
	"github.com/jswaro/coup/internal/models"
	"github.com/jswaro/coup/internal/store"
)

// gameVerbs are commands that require the issuer to sit in a game.
var gameVerbs = map[string]bool{
	"do": true, "challenge": true, "counter": true, "accept": true,
	"select": true, "status": true, "forfeit": true,
}

// Dispatcher turns inbound chat lines into engine calls and collects the
// ordered outbound messages. It is safe for concurrent use: the registry
// guards its map and every game serializes its own commands.
type Dispatcher struct {
	reg *store.Registry
	log *zap.Logger
}

// New builds a dispatcher over the given registry.
func New(reg *store.Registry, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{reg: reg, log: log}
}

// Handle processes one command line from user and returns every message the
// transport must deliver, in order. Recoverable failures surface as a single
// whisper prefixed "Error: "; nothing here is ever fatal to the process.
func (d *Dispatcher) Handle(user, line string) []models.Message {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	// The original bot took ".verb" on IRC; tolerate the dot form.
	verb := strings.ToLower(strings.TrimPrefix(fields[0], "."))
	args := fields[1:]

	reply, msgs, err := d.dispatch(user, verb, args)
	out := msgs
	if err != nil {
		var gerr *models.GameError
		if errors.As(err, &gerr) && gerr.Kind != models.ErrInternal {
			out = append(out, models.WhisperTo(user, "Error: "+gerr.Reason))
		} else {
			d.log.Error("command failed",
				zap.String("user", user),
				zap.String("command", line),
				zap.Error(err))
			out = append(out, models.WhisperTo(user, "Error: internal game error"))
		}
		return out
	}
	if reply != "" {
		out = append(out, models.WhisperTo(user, reply))
	}
	return out
}

func (d *Dispatcher) dispatch(user, verb string, args []string) (string, []models.Message, error) {
	switch verb {
	case "create":
		return d.handleCreate(user, args)
	case "join":
		return d.handleJoin(user, args)
	case "start":
		return d.handleStart(user, args)
	case "list":
		names := d.reg.List()
		if len(names) == 0 {
			return "No games available.", nil, nil
		}
		return strings.Join(names, "\n"), nil, nil
	case "help":
		return helpText, nil, nil
	}

	if !gameVerbs[verb] {
		return "", nil, models.Unrecognizedf("Unrecognized command: %s. Type help for available options", verb)
	}

	g, err := d.reg.FindUserGame(user)
	if err != nil {
		return "", nil, models.NotFoundf("You are not in a game and cannot use %s", verb)
	}
	return d.dispatchInGame(g, user, verb, args)
}

func (d *Dispatcher) dispatchInGame(g *game.Game, user, verb string, args []string) (string, []models.Message, error) {
	// Lock order is registry before game everywhere; the registry is only
	// touched below after the game lock is released.
	g.Lock()

	var err error
	var leftLobby bool
	switch verb {
	case "do":
		if len(args) == 0 {
			err = models.Malformedf("Not enough arguments")
			break
		}
		err = g.Declare(user, args[0], argAt(args, 1), argAt(args, 2))
	case "challenge":
		err = g.Respond(user, models.RespChallenge, args)
	case "counter":
		err = g.Respond(user, models.RespCounter, args)
	case "accept":
		err = g.Respond(user, models.RespAccept, args)
	case "select":
		err = g.Respond(user, models.RespSelect, args)
	case "status":
		err = g.StatusReport(user)
	case "forfeit":
		leftLobby, err = g.Forfeit(user)
	}

	msgs := g.DrainMessages()
	var remaining []string
	if err == nil && leftLobby {
		remaining = g.PlayerNames()
	}
	g.Unlock()

	if err != nil {
		return "", msgs, err
	}

	if leftLobby {
		if user == g.Creator {
			// The game is gone before these messages are delivered, so they
			// cannot ride the broadcast channel.
			d.reg.Remove(g.Name)
			for _, n := range remaining {
				msgs = append(msgs, models.WhisperTo(n, fmt.Sprintf("Game '%s' was disbanded by its creator.", g.Name)))
			}
		} else if len(remaining) == 0 {
			d.reg.Remove(g.Name)
		}
	}
	return "", msgs, nil
}

func (d *Dispatcher) handleCreate(user string, args []string) (string, []models.Message, error) {
	params, err := parseCreateParams(args)
	if err != nil {
		return "", nil, err
	}
	g, err := d.reg.Create(user, params)
	if err != nil {
		return "", nil, err
	}
	d.log.Info("game created",
		zap.String("game", g.Name),
		zap.String("creator", user),
		zap.Bool("teams", params.UseTeams),
		zap.Bool("inquisitor", params.UseInquisitor))
	return fmt.Sprintf("Game '%s' created", g.Name), nil, nil
}

func (d *Dispatcher) handleJoin(user string, args []string) (string, []models.Message, error) {
	if len(args) == 0 {
		return "", nil, models.Malformedf("Not enough arguments")
	}
	name := args[0]
	password := parsePassword(args[1:])

	g, err := d.reg.Join(user, name, password)
	if err != nil {
		return "", nil, err
	}

	g.Lock()
	players := g.PlayerNames()
	g.Unlock()
	msgs := []models.Message{models.BroadcastTo(name,
		fmt.Sprintf("Game '%s', players (%d): %s", name, len(players), strings.Join(players, ", ")))}
	return fmt.Sprintf("Joined game '%s'", name), msgs, nil
}

func (d *Dispatcher) handleStart(user string, args []string) (string, []models.Message, error) {
	var g *game.Game
	var err error
	if len(args) > 0 {
		g, err = d.reg.Get(args[0])
	} else {
		g, err = d.reg.FindUserGame(user)
	}
	if err != nil {
		return "", nil, err
	}

	g.Lock()
	err = g.Start(user)
	msgs := g.DrainMessages()
	g.Unlock()
	if err != nil {
		return "", msgs, err
	}
	d.log.Info("game started", zap.String("game", g.Name))
	return fmt.Sprintf("Game '%s' started", g.Name), msgs, nil
}

// parseCreateParams understands "create <name> [password] [-p password]
// [-a|-i] [-t] [-g]". The inquisitor variant is the default, as it was in
// the original bot.
func parseCreateParams(args []string) (models.GameParams, error) {
	if len(args) == 0 {
		return models.GameParams{}, models.Malformedf("Not enough arguments")
	}
	params := models.GameParams{Name: args[0], UseInquisitor: true}
	rest := args[1:]
	for i := 0; i < len(rest); i++ {
		switch a := rest[i]; a {
		case "-p", "--password":
			i++
			if i >= len(rest) {
				return models.GameParams{}, models.Malformedf("Missing password after %s", a)
			}
			params.Password = rest[i]
		case "-a", "--amb":
			params.UseInquisitor = false
		case "-i", "--inq":
			params.UseInquisitor = true
		case "-t", "--teams":
			params.UseTeams = true
		case "-g", "--guess":
			params.UseGuessing = true
		default:
			if params.Password == "" && !strings.HasPrefix(a, "-") {
				params.Password = a
			} else {
				return models.GameParams{}, models.Malformedf("Unrecognized option '%s'", a)
			}
		}
	}
	return params, nil
}

func parsePassword(args []string) string {
	for i := 0; i < len(args); i++ {
		if args[i] == "-p" || args[i] == "--password" {
			if i+1 < len(args) {
				return args[i+1]
			}
			return ""
		}
	}
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		return args[0]
	}
	return ""
}

func argAt(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}
