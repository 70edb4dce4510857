package game

import (
	"trackparty/backend/internal/models"
)

// TrackSnapshot is the public view of the active track. Listeners is the
// answer key and is only populated once the round is in results.
type TrackSnapshot struct {
	ExternalID string         `json:"external_id"`
	Name       string         `json:"name"`
	Artist     string         `json:"artist"`
	ArtworkURL string         `json:"artwork_url"`
	PreviewURL string         `json:"preview_url"`
	Listeners  models.UintSet `json:"listeners,omitempty"`
}

// PlayerSnapshot is one roster entry in the read model.
type PlayerSnapshot struct {
	UserID      uint   `json:"user_id"`
	Nickname    string `json:"nickname"`
	Score       int    `json:"score"`
	Streak      int    `json:"streak"`
	Answered    bool   `json:"answered"`
	LastOutcome string `json:"last_outcome,omitempty"` // correct | partial | wrong
}

// Snapshot is the per-room current-game view consumed by the UI.
type Snapshot struct {
	Status      Status           `json:"status"`
	Round       int              `json:"round"`
	TotalRounds int              `json:"total_rounds"`
	SecondsLeft int              `json:"seconds_left"`
	TimeLimit   int              `json:"time_limit"`
	Lightning   bool             `json:"lightning"`
	Track       *TrackSnapshot   `json:"track,omitempty"`
	Players     []PlayerSnapshot `json:"players"`
}

// Snapshot builds the current-game view for a room. Rooms with no live game
// report the persisted room status with zeroed round fields.
func (e *Engine) Snapshot(roomCode string) (*Snapshot, error) {
	room, err := e.store.RoomByCode(roomCode)
	if err != nil {
		return nil, err
	}
	roster, err := e.store.Roster(room.ID)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Status:      Status(string(room.Status)),
		TotalRounds: room.TotalRounds,
		Players:     make([]PlayerSnapshot, 0, len(roster)),
	}

	state := e.states.Get(roomCode)
	if state == nil {
		for _, player := range roster {
			snap.Players = append(snap.Players, PlayerSnapshot{
				UserID:   player.UserID,
				Nickname: player.User.Nickname,
				Score:    player.Score,
			})
		}
		return snap, nil
	}

	state.mu.Lock()
	snap.Status = state.Status
	snap.Round = state.CurrentRound
	snap.SecondsLeft = state.SecondsLeft
	snap.Lightning = state.Lightning
	answered := make(map[uint]bool, len(state.Answered))
	for id := range state.Answered {
		answered[id] = true
	}
	streaks := make(map[uint]int, len(state.Streaks))
	for id, n := range state.Streaks {
		streaks[id] = n
	}
	revealKey := state.Status == StatusResults || state.Status == StatusFinished
	state.mu.Unlock()

	outcomes := make(map[uint]string)
	if snap.Round > 0 {
		round, err := e.store.CurrentRound(room.ID)
		if err == nil && round.Number == snap.Round {
			snap.TimeLimit = round.TimeLimit
			snap.Track = &TrackSnapshot{
				ExternalID: round.Track.ExternalID,
				Name:       round.Track.Name,
				Artist:     round.Track.Artist,
				ArtworkURL: round.Track.ArtworkURL,
				PreviewURL: round.Track.PreviewURL,
			}
			if revealKey {
				snap.Track.Listeners = round.CorrectListeners

				if answers, err := e.store.AnswersForRound(round.ID); err == nil {
					for _, answer := range answers {
						if !answer.Scored {
							continue
						}
						switch {
						case answer.IsCorrect:
							outcomes[answer.UserID] = "correct"
						case answer.IsPartialCorrect:
							outcomes[answer.UserID] = "partial"
						default:
							outcomes[answer.UserID] = "wrong"
						}
					}
				}
			}
		}
	}

	for _, player := range roster {
		snap.Players = append(snap.Players, PlayerSnapshot{
			UserID:      player.UserID,
			Nickname:    player.User.Nickname,
			Score:       player.Score,
			Streak:      streaks[player.UserID],
			Answered:    answered[player.UserID],
			LastOutcome: outcomes[player.UserID],
		})
	}
	return snap, nil
}
