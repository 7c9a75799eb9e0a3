package models

import "fmt"

// ErrorKind classifies the recoverable failures a command can produce.
type ErrorKind int

const (
	// ErrMalformed is wrong arity or syntax, caught before any state change.
	ErrMalformed ErrorKind = iota
	// ErrUnrecognized is an unknown verb.
	ErrUnrecognized
	// ErrPermission is a wrong password or an action reserved for the creator.
	ErrPermission
	// ErrNotFound is a missing game, or a player who is in no game.
	ErrNotFound
	// ErrInvalidOperation is a command that is illegal in the current state.
	ErrInvalidOperation
	// ErrInternal marks a violated engine invariant. Never the player's fault;
	// rendered generically at the command boundary.
	ErrInternal
)

// GameError is the single error type that crosses the command boundary.
// Every core operation either succeeds or fails atomically with one of these.
type GameError struct {
	Kind   ErrorKind
	Reason string
}

func (e *GameError) Error() string { return e.Reason }

// Malformedf reports a syntax or arity problem.
func Malformedf(format string, args ...any) *GameError {
	return &GameError{Kind: ErrMalformed, Reason: fmt.Sprintf(format, args...)}
}

// Unrecognizedf reports an unknown command verb.
func Unrecognizedf(format string, args ...any) *GameError {
	return &GameError{Kind: ErrUnrecognized, Reason: fmt.Sprintf(format, args...)}
}

// Permissionf reports a password or ownership failure.
func Permissionf(format string, args ...any) *GameError {
	return &GameError{Kind: ErrPermission, Reason: fmt.Sprintf(format, args...)}
}

// NotFoundf reports a missing game or unknown membership.
func NotFoundf(format string, args ...any) *GameError {
	return &GameError{Kind: ErrNotFound, Reason: fmt.Sprintf(format, args...)}
}

// Invalidf reports a semantically illegal operation.
func Invalidf(format string, args ...any) *GameError {
	return &GameError{Kind: ErrInvalidOperation, Reason: fmt.Sprintf(format, args...)}
}

// Internalf reports a violated invariant inside the engine.
func Internalf(format string, args ...any) *GameError {
	return &GameError{Kind: ErrInternal, Reason: fmt.Sprintf(format, args...)}
}
