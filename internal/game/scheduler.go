package game

import (
	"context"
	"log"
	"time"

	"trackparty/backend/internal/models"
)

// StartGame validates the room, rebuilds its track pool and kicks off the
// round loop. Host only; requires at least two players, all with linked
// accounts.
func (e *Engine) StartGame(roomCode string, hostID uint) error {
	room, err := e.store.RoomByCode(roomCode)
	if err != nil {
		return err
	}
	if room.HostID == nil || *room.HostID != hostID {
		return ErrNotHost
	}
	if room.Status != models.RoomStatusWaiting {
		return ErrGameInProgress
	}

	roster, err := e.store.Roster(room.ID)
	if err != nil {
		return err
	}
	if len(roster) < 2 {
		return ErrNotEnoughPlayers
	}
	for _, player := range roster {
		if !player.User.HasMusicAccount() {
			return ErrUnlinkedPlayers
		}
	}

	if err := e.store.ResetScores(room.ID); err != nil {
		return err
	}
	if err := e.buildPool(context.Background(), room.ID, roster); err != nil {
		return err
	}

	room.Status = models.RoomStatusPlaying
	room.CurrentRound = 0
	if err := e.store.SaveRoom(room); err != nil {
		return err
	}

	state := newState()
	e.states.Set(roomCode, state)

	e.notifier.NotifyRoom(roomCode, EventGameStarted, map[string]interface{}{
		"total_rounds":  room.TotalRounds,
		"round_seconds": room.RoundSeconds,
	})

	state.mu.Lock()
	state.pending = time.AfterFunc(e.opts.StartDelay, func() {
		e.startNextRound(roomCode)
	})
	state.mu.Unlock()

	return nil
}

// Rematch returns a finished (or stalled) room to the waiting phase. Host
// only. The live game state is discarded; scores reset.
func (e *Engine) Rematch(roomCode string, hostID uint) error {
	room, err := e.store.RoomByCode(roomCode)
	if err != nil {
		return err
	}
	if room.HostID == nil || *room.HostID != hostID {
		return ErrNotHost
	}
	if room.Status == models.RoomStatusWaiting {
		return ErrNoGameToRestart
	}

	e.states.Delete(roomCode)

	if err := e.store.ResetScores(room.ID); err != nil {
		return err
	}

	room.Status = models.RoomStatusWaiting
	room.CurrentRound = 0
	if err := e.store.SaveRoom(room); err != nil {
		return err
	}

	e.notifier.NotifyRoom(roomCode, EventRematch, nil)
	return nil
}

// startNextRound fires from a timer. It must never panic into the timer
// runtime: if the room or state is gone, or the state moved on while the
// callback was in flight, it exits silently.
func (e *Engine) startNextRound(roomCode string) {
	room, err := e.store.RoomByCode(roomCode)
	if err != nil {
		log.Printf("game: start next round for %s: %v", roomCode, err)
		return
	}
	state := e.states.Get(roomCode)
	if state == nil {
		return
	}

	state.mu.Lock()

	// Stale callback: a question is already open or the game is over.
	if state.Status != StatusWaiting && state.Status != StatusResults {
		state.mu.Unlock()
		return
	}

	number := room.CurrentRound + 1
	if number > room.TotalRounds {
		e.finishLocked(roomCode, room, state)
		return
	}

	pool, err := e.store.Tracks(room.ID)
	if err != nil {
		log.Printf("game: load pool for %s: %v", roomCode, err)
		state.mu.Unlock()
		return
	}

	track := selectTrack(pool, state.UsedTracks, number, state.DistIndex)
	state.DistIndex++
	if track == nil {
		e.finishLocked(roomCode, room, state)
		return
	}

	lightning := number%lightningEvery == 0
	timeLimit := room.RoundSeconds
	if lightning {
		timeLimit /= 2
	}
	if timeLimit < 1 {
		timeLimit = 1
	}

	round := &models.Round{
		RoomID:           room.ID,
		Number:           number,
		TrackID:          track.ID,
		CorrectListeners: append(models.UintSet{}, track.Listeners...),
		Lightning:        lightning,
		TimeLimit:        timeLimit,
		StartedAt:        time.Now(),
	}
	if err := e.store.CreateRound(round); err != nil {
		log.Printf("game: create round %d for %s: %v", number, roomCode, err)
		state.mu.Unlock()
		return
	}

	room.CurrentRound = number
	if err := e.store.SaveRoom(room); err != nil {
		log.Printf("game: save room %s: %v", roomCode, err)
	}

	state.Status = StatusQuestion
	state.CurrentRound = number
	state.SecondsLeft = timeLimit
	state.TrackID = track.ID
	state.RoundStarted = round.StartedAt
	state.Lightning = lightning
	state.Answered = make(map[uint]bool)

	cancel := make(chan struct{})
	state.cancel = cancel
	go e.runCountdown(roomCode, state, number, cancel)

	state.mu.Unlock()

	e.notifier.NotifyRoom(roomCode, EventRoundStarted, map[string]interface{}{
		"number":     number,
		"total":      room.TotalRounds,
		"lightning":  lightning,
		"time_limit": timeLimit,
		"track": map[string]interface{}{
			"external_id": track.ExternalID,
			"name":        track.Name,
			"artist":      track.Artist,
			"artwork_url": track.ArtworkURL,
			"preview_url": track.PreviewURL,
		},
	})
}

// runCountdown ticks the open round down and forces the round to end when the
// clock reaches zero. The cancel channel stops it when the round ends early.
// It only ever touches the state it was started with: after a rematch the
// registry holds a fresh state whose round numbers restart, so an identity
// check keeps a lingering old countdown off the new game's clock.
func (e *Engine) runCountdown(roomCode string, state *State, roundNumber int, cancel <-chan struct{}) {
	ticker := time.NewTicker(e.opts.Tick)
	defer ticker.Stop()

	for {
		select {
		case <-cancel:
			return
		case <-ticker.C:
			if e.states.Get(roomCode) != state {
				return
			}

			state.mu.Lock()
			if state.Status != StatusQuestion || state.CurrentRound != roundNumber {
				state.mu.Unlock()
				return
			}
			state.SecondsLeft--
			expired := state.SecondsLeft <= 0
			state.mu.Unlock()

			if expired {
				e.endRound(roomCode, roundNumber)
				return
			}
		}
	}
}

// endRound closes the given round, scores it and schedules the next one. It
// is triggered by the countdown hitting zero or by the last player answering;
// the status guard makes racing triggers collapse into a single scoring pass.
func (e *Engine) endRound(roomCode string, roundNumber int) {
	room, err := e.store.RoomByCode(roomCode)
	if err != nil {
		log.Printf("game: end round for %s: %v", roomCode, err)
		return
	}
	state := e.states.Get(roomCode)
	if state == nil {
		return
	}

	state.mu.Lock()
	if state.Status != StatusQuestion || state.CurrentRound != roundNumber {
		state.mu.Unlock()
		return
	}
	state.Status = StatusResults
	state.stopTimersLocked()

	round, err := e.store.CurrentRound(room.ID)
	if err != nil || round.Number != roundNumber {
		log.Printf("game: load round %d for %s: %v", roundNumber, roomCode, err)
		state.mu.Unlock()
		return
	}

	answers, err := e.store.AnswersForRound(round.ID)
	if err != nil {
		log.Printf("game: load answers for %s round %d: %v", roomCode, roundNumber, err)
		state.mu.Unlock()
		return
	}

	results := scoreRound(round, answers, state.Streaks)

	for i := range answers {
		if err := e.store.SaveAnswer(&answers[i]); err != nil {
			log.Printf("game: save answer for user %d: %v", answers[i].UserID, err)
			continue
		}
		if err := e.store.AddScore(room.ID, answers[i].UserID, answers[i].Score); err != nil {
			log.Printf("game: add score for user %d: %v", answers[i].UserID, err)
		}
	}

	now := time.Now()
	round.EndedAt = &now
	if err := e.store.SaveRound(round); err != nil {
		log.Printf("game: save round %d for %s: %v", roundNumber, roomCode, err)
	}

	state.pending = time.AfterFunc(e.opts.ResultsDelay, func() {
		e.startNextRound(roomCode)
	})
	state.mu.Unlock()

	e.notifier.NotifyRoom(roomCode, EventRoundEnded, map[string]interface{}{
		"number":            roundNumber,
		"correct_listeners": round.CorrectListeners,
		"results":           results,
	})
}

// finishLocked ends the game. Called with state.mu held; releases it.
func (e *Engine) finishLocked(roomCode string, room *models.Room, state *State) {
	state.Status = StatusFinished
	state.stopTimersLocked()
	state.mu.Unlock()

	room.Status = models.RoomStatusFinished
	if err := e.store.SaveRoom(room); err != nil {
		log.Printf("game: finish room %s: %v", roomCode, err)
	}

	standings := make([]map[string]interface{}, 0)
	if roster, err := e.store.Roster(room.ID); err == nil {
		for _, player := range roster {
			standings = append(standings, map[string]interface{}{
				"user_id":  player.UserID,
				"nickname": player.User.Nickname,
				"score":    player.Score,
			})
		}
	}

	e.notifier.NotifyRoom(roomCode, EventGameFinished, map[string]interface{}{
		"standings": standings,
	})
}
