package handler

import (
	"trackparty/backend/internal/game"
	"trackparty/backend/internal/hub"
)

// Package-level collaborators, wired once from main.
var (
	gameEngine *game.Engine
	eventHub   *hub.Hub
)

// Init wires the handlers to the game engine and broadcast hub.
func Init(engine *game.Engine, h *hub.Hub) {
	gameEngine = engine
	eventHub = h
}

// ErrorResponse represents a generic error response.
type ErrorResponse struct {
	Error string `json:"error" example:"An error message"`
}
