package game

import (
	"sync"
	"time"
)

// Status is the in-memory phase of a room's running game. It is distinct from
// the persisted room status: while a room is "playing" its state cycles
// between question and results.
type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusQuestion Status = "question"
	StatusResults  Status = "results"
	StatusFinished Status = "finished"
)

// State is the live coordination record for one room's game. It is pure
// runtime state with no durability guarantee; a process restart loses
// in-flight games. All fields are guarded by mu.
type State struct {
	mu sync.Mutex

	Status       Status
	CurrentRound int
	SecondsLeft  int
	TrackID      uint
	RoundStarted time.Time
	Lightning    bool

	// Answered holds the user IDs that submitted for the open round.
	Answered map[uint]bool
	// UsedTracks holds track IDs already played this game; cleared when the
	// pool is exhausted so long games can wrap around.
	UsedTracks map[uint]bool
	// Streaks maps user ID to consecutive correct-or-partial answers.
	Streaks map[uint]int
	// DistIndex offsets the selector's pick so multi-listener tracks rotate
	// across players instead of clustering.
	DistIndex int

	// cancel stops the running countdown; pending aborts a scheduled
	// start-next-round callback. Both may be nil.
	cancel  chan struct{}
	pending *time.Timer
}

func newState() *State {
	return &State{
		Status:     StatusWaiting,
		Answered:   make(map[uint]bool),
		UsedTracks: make(map[uint]bool),
		Streaks:    make(map[uint]int),
	}
}

// stopTimersLocked cancels the countdown and any pending transition.
// Callers must hold mu.
func (s *State) stopTimersLocked() {
	if s.cancel != nil {
		close(s.cancel)
		s.cancel = nil
	}
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
}

// StateStore is the registry of live games, keyed by room code. It is owned
// by the composition root and injected into the engine; entries are created
// on game start and deleted on rematch.
type StateStore struct {
	mu     sync.RWMutex
	states map[string]*State
}

func NewStateStore() *StateStore {
	return &StateStore{states: make(map[string]*State)}
}

// Get returns the live state for a room, or nil if no game is running.
func (r *StateStore) Get(roomCode string) *State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.states[roomCode]
}

// Set installs a fresh state for a room, replacing any previous one.
func (r *StateStore) Set(roomCode string, state *State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states[roomCode] = state
}

// Delete removes a room's state, stopping its timers first.
func (r *StateStore) Delete(roomCode string) {
	r.mu.Lock()
	state := r.states[roomCode]
	delete(r.states, roomCode)
	r.mu.Unlock()

	if state != nil {
		state.mu.Lock()
		state.stopTimersLocked()
		state.mu.Unlock()
	}
}
