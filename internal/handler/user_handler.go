package handler

import (
	"net/http"
	"trackparty/backend/internal/database"
	"trackparty/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// PrivateUserResponse defines the structure for the authenticated user's own profile.
type PrivateUserResponse struct {
	ID            uint   `json:"id" example:"1"`
	Nickname      string `json:"nickname" example:"testuser"`
	Email         string `json:"email" example:"test@example.com"`
	MusicProvider string `json:"music_provider,omitempty"`
	MusicLinked   bool   `json:"music_linked"`
	CurrentRoom   string `json:"current_room,omitempty"`
}

// MusicAccountInput defines the structure for linking a music account.
type MusicAccountInput struct {
	Provider string `json:"provider" binding:"required" example:"spotify"`
	Token    string `json:"token" binding:"required"`
}

func newPrivateUserResponse(user models.User) PrivateUserResponse {
	resp := PrivateUserResponse{
		ID:            user.ID,
		Nickname:      user.Nickname,
		Email:         user.Email,
		MusicProvider: user.MusicProvider,
		MusicLinked:   user.HasMusicAccount(),
	}
	if user.CurrentRoom != nil {
		resp.CurrentRoom = user.CurrentRoom.Code
	}
	return resp
}

// endregion

// GetMe godoc
// @Summary      Get own profile
// @Description  Gets the authenticated user's profile.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  PrivateUserResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/me [get]
func GetMe(c *gin.Context) {
	userID, _ := c.Get("userID")

	var user models.User
	if err := database.DB.Preload("CurrentRoom").First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, newPrivateUserResponse(user))
}

// LinkMusicAccount godoc
// @Summary      Link a music account
// @Description  Stores the credential the track supplier uses to fetch this
// @Description  player's listening history.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body MusicAccountInput true "Account credential"
// @Success      200  {object}  PrivateUserResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /users/me/music-account [put]
func LinkMusicAccount(c *gin.Context) {
	userID, _ := c.Get("userID")

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var input MusicAccountInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user.MusicProvider = input.Provider
	user.MusicToken = input.Token
	if err := database.DB.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to link account"})
		return
	}

	c.JSON(http.StatusOK, newPrivateUserResponse(user))
}
