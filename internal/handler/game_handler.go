package handler

import (
	"errors"
	"net/http"
	"trackparty/backend/internal/game"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// AnswerInput is a player's guess: the user IDs they believe listened to the
// active track.
type AnswerInput struct {
	Selected []uint `json:"selected" binding:"required"`
}

// endregion

// engineErrorStatus maps engine errors onto HTTP statuses: state conflicts
// are 409s, missing records 404s, anything else a generic 500.
func engineErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, game.ErrNotHost),
		errors.Is(err, game.ErrNotInRoom):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, game.ErrNotEnoughPlayers),
		errors.Is(err, game.ErrUnlinkedPlayers),
		errors.Is(err, game.ErrGameInProgress),
		errors.Is(err, game.ErrNoGameToRestart),
		errors.Is(err, game.ErrNotAcceptingAnswers),
		errors.Is(err, game.ErrAlreadyAnswered),
		errors.Is(err, game.ErrNoOpenRound):
		return http.StatusConflict, err.Error()
	case errors.Is(err, game.ErrNotFound):
		return http.StatusNotFound, "Room not found"
	default:
		return http.StatusInternalServerError, "Something went wrong"
	}
}

// StartGame godoc
// @Summary      Start the game (Host only)
// @Description  Rebuilds the track pool, resets scores and starts round one.
// @Tags         game
// @Produce      json
// @Security     BearerAuth
// @Param        code path string true "Room code"
// @Success      200 {object} map[string]string "{"message": "Game started"}"
// @Failure      403 {object} ErrorResponse "Only the host can start the game"
// @Failure      404 {object} ErrorResponse "Room not found"
// @Failure      409 {object} ErrorResponse "Not enough players, unlinked accounts, or game already running"
// @Router       /rooms/{code}/start [post]
func StartGame(c *gin.Context) {
	userID, _ := c.Get("userID")

	if err := gameEngine.StartGame(c.Param("code"), userID.(uint)); err != nil {
		status, msg := engineErrorStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Game started"})
}

// SubmitAnswer godoc
// @Summary      Answer the open round
// @Description  Records the player's selection for the current question. One
// @Description  answer per player per round.
// @Tags         game
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        code  path string      true "Room code"
// @Param        input body AnswerInput true "Selected listener IDs"
// @Success      200 {object} map[string]string "{"message": "Answer recorded"}"
// @Failure      404 {object} ErrorResponse "Room not found"
// @Failure      409 {object} ErrorResponse "Not accepting answers or already answered"
// @Router       /rooms/{code}/answer [post]
func SubmitAnswer(c *gin.Context) {
	userID, _ := c.Get("userID")

	var input AnswerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := gameEngine.SubmitAnswer(c.Param("code"), userID.(uint), input.Selected); err != nil {
		status, msg := engineErrorStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Answer recorded"})
}

// GetGameSnapshot godoc
// @Summary      Get the current game view
// @Description  Returns the live game snapshot. The answer key is hidden
// @Description  while a question is open and revealed in results.
// @Tags         game
// @Produce      json
// @Security     BearerAuth
// @Param        code path string true "Room code"
// @Success      200 {object} game.Snapshot
// @Failure      404 {object} ErrorResponse "Room not found"
// @Router       /rooms/{code}/game [get]
func GetGameSnapshot(c *gin.Context) {
	snap, err := gameEngine.Snapshot(c.Param("code"))
	if err != nil {
		status, msg := engineErrorStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, snap)
}

// Rematch godoc
// @Summary      Start a rematch (Host only)
// @Description  Returns the room to the waiting phase with scores reset.
// @Tags         game
// @Produce      json
// @Security     BearerAuth
// @Param        code path string true "Room code"
// @Success      200 {object} map[string]string "{"message": "Rematch ready"}"
// @Failure      403 {object} ErrorResponse "Only the host can start a rematch"
// @Failure      404 {object} ErrorResponse "Room not found"
// @Failure      409 {object} ErrorResponse "No game to restart"
// @Router       /rooms/{code}/rematch [post]
func Rematch(c *gin.Context) {
	userID, _ := c.Get("userID")

	if err := gameEngine.Rematch(c.Param("code"), userID.(uint)); err != nil {
		status, msg := engineErrorStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Rematch ready"})
}
