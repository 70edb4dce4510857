package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"trackparty/backend/internal/game"

	"github.com/stretchr/testify/assert"
)

func TestEngineErrorStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{game.ErrNotHost, http.StatusForbidden},
		{game.ErrNotInRoom, http.StatusForbidden},
		{game.ErrNotEnoughPlayers, http.StatusConflict},
		{game.ErrUnlinkedPlayers, http.StatusConflict},
		{game.ErrGameInProgress, http.StatusConflict},
		{game.ErrNoGameToRestart, http.StatusConflict},
		{game.ErrNotAcceptingAnswers, http.StatusConflict},
		{game.ErrAlreadyAnswered, http.StatusConflict},
		{game.ErrNoOpenRound, http.StatusConflict},
		{game.ErrNotFound, http.StatusNotFound},
		{errors.New("database exploded"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		status, _ := engineErrorStatus(tc.err)
		assert.Equal(t, tc.want, status, "error %v", tc.err)
	}

	// Wrapped sentinels keep their mapping.
	status, _ := engineErrorStatus(fmt.Errorf("start: %w", game.ErrNotHost))
	assert.Equal(t, http.StatusForbidden, status)

	// Internal errors never leak their message.
	_, msg := engineErrorStatus(errors.New("database exploded"))
	assert.Equal(t, "Something went wrong", msg)
}
