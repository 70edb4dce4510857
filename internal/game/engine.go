// Package game implements the room game loop: pool building, track selection,
// the round scheduler state machine, answer collection and scoring.
//
// One process owns all active rooms. The registry is process-local, so this
// engine cannot be scaled across instances without replacing StateStore with
// shared storage and a distributed lock.
package game

import (
	"errors"
	"time"

	"trackparty/backend/internal/supplier"
)

// Scoring and pacing constants.
const (
	pointsPerPick   = 5
	streakThreshold = 3
	streakBonus     = 10
	lightningEvery  = 5
)

// Event names broadcast to room listeners.
const (
	EventGameStarted    = "game_started"
	EventRoundStarted   = "round_started"
	EventPlayerAnswered = "player_answered"
	EventRoundEnded     = "round_ended"
	EventGameFinished   = "game_finished"
	EventRematch        = "rematch_started"
)

// State-conflict errors, surfaced to handlers as 409s.
var (
	ErrNotHost             = errors.New("only the host can do that")
	ErrNotInRoom           = errors.New("not a player in this room")
	ErrNotEnoughPlayers    = errors.New("need at least 2 players to start")
	ErrUnlinkedPlayers     = errors.New("all players must link a music account first")
	ErrGameInProgress      = errors.New("game already in progress")
	ErrNoGameToRestart     = errors.New("no game to restart")
	ErrNotAcceptingAnswers = errors.New("cannot answer now")
	ErrAlreadyAnswered     = errors.New("already answered this round")
	ErrNoOpenRound         = errors.New("no open round")
)

// Notifier fans an event out to a room's connected listeners. Delivery is
// fire-and-forget.
type Notifier interface {
	NotifyRoom(roomCode, eventType string, payload interface{})
}

// Options controls engine pacing. The defaults suit production; tests shrink
// the delays.
type Options struct {
	// StartDelay is the pause between "game started" and round 1.
	StartDelay time.Duration
	// ResultsDelay is how long results stay up before the next round.
	ResultsDelay time.Duration
	// FetchTimeout bounds each player's track fetch during pool building.
	FetchTimeout time.Duration
	// Tick is the countdown resolution.
	Tick time.Duration
}

func (o *Options) applyDefaults() {
	if o.StartDelay == 0 {
		o.StartDelay = 3 * time.Second
	}
	if o.ResultsDelay == 0 {
		o.ResultsDelay = 8 * time.Second
	}
	if o.FetchTimeout == 0 {
		o.FetchTimeout = 5 * time.Second
	}
	if o.Tick == 0 {
		o.Tick = time.Second
	}
}

// Engine drives every room's game loop.
type Engine struct {
	store    Store
	states   *StateStore
	notifier Notifier
	supplier supplier.Supplier
	opts     Options
}

// NewEngine wires the engine to its collaborators.
func NewEngine(store Store, states *StateStore, notifier Notifier, sup supplier.Supplier, opts Options) *Engine {
	opts.applyDefaults()
	return &Engine{
		store:    store,
		states:   states,
		notifier: notifier,
		supplier: sup,
		opts:     opts,
	}
}

// States exposes the registry for read-model consumers.
func (e *Engine) States() *StateStore {
	return e.states
}
