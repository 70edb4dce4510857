package game

import (
	"log"

	"trackparty/backend/internal/models"
)

// SubmitAnswer records one player's selection for the open round. Only roster
// members may answer, at most once per round; answering outside the question
// phase is rejected. When the last roster member answers, the round ends
// immediately instead of waiting out the clock.
func (e *Engine) SubmitAnswer(roomCode string, userID uint, selected []uint) error {
	room, err := e.store.RoomByCode(roomCode)
	if err != nil {
		return err
	}

	roster, err := e.store.Roster(room.ID)
	if err != nil {
		return err
	}
	member := false
	for _, player := range roster {
		if player.UserID == userID {
			member = true
			break
		}
	}
	if !member {
		return ErrNotInRoom
	}

	state := e.states.Get(roomCode)
	if state == nil {
		return ErrNotAcceptingAnswers
	}

	state.mu.Lock()

	if state.Status != StatusQuestion {
		state.mu.Unlock()
		return ErrNotAcceptingAnswers
	}
	if state.Answered[userID] {
		state.mu.Unlock()
		return ErrAlreadyAnswered
	}

	round, err := e.store.CurrentRound(room.ID)
	if err != nil || round.EndedAt != nil {
		state.mu.Unlock()
		return ErrNoOpenRound
	}

	answer := &models.Answer{
		RoundID:  round.ID,
		UserID:   userID,
		Selected: append(models.UintSet{}, dedup(selected)...),
	}
	if err := e.store.CreateAnswer(answer); err != nil {
		// A unique-constraint violation means a duplicate slipped past the
		// in-memory check; report it the same way.
		state.mu.Unlock()
		log.Printf("game: create answer for user %d in %s: %v", userID, roomCode, err)
		return ErrAlreadyAnswered
	}

	state.Answered[userID] = true
	answeredCount := len(state.Answered)
	roundNumber := state.CurrentRound

	state.mu.Unlock()

	e.notifier.NotifyRoom(roomCode, EventPlayerAnswered, map[string]interface{}{
		"user_id": userID,
		"round":   roundNumber,
	})

	// Early termination. endRound's status guard makes a race with the
	// countdown, or with another simultaneous last answer, collapse to a
	// single scoring pass.
	if answeredCount >= len(roster) {
		e.endRound(roomCode, roundNumber)
	}
	return nil
}

// PlayerLeft reacts to a roster shrinking while a game may be live. A room
// with nobody left (or one that no longer exists) drops its state and timers;
// otherwise, if everyone still in the room has answered the open round, the
// round ends now instead of waiting out the clock.
func (e *Engine) PlayerLeft(roomCode string) {
	room, err := e.store.RoomByCode(roomCode)
	if err != nil {
		e.states.Delete(roomCode)
		return
	}
	state := e.states.Get(roomCode)
	if state == nil {
		return
	}

	roster, err := e.store.Roster(room.ID)
	if err != nil {
		log.Printf("game: load roster for %s: %v", roomCode, err)
		return
	}
	if len(roster) == 0 {
		e.states.Delete(roomCode)
		return
	}

	state.mu.Lock()
	if state.Status != StatusQuestion {
		state.mu.Unlock()
		return
	}
	answered := 0
	for _, player := range roster {
		if state.Answered[player.UserID] {
			answered++
		}
	}
	roundNumber := state.CurrentRound
	state.mu.Unlock()

	if answered >= len(roster) {
		e.endRound(roomCode, roundNumber)
	}
}

func dedup(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
