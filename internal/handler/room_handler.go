package handler

import (
	"net/http"
	"strconv"
	"trackparty/backend/internal/database"
	"trackparty/backend/internal/hub"
	"trackparty/backend/internal/models"
	"trackparty/backend/internal/roomcode"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// region --- DTOs ---

type RoomInput struct {
	Name         string `json:"name" binding:"required"`
	Public       bool   `json:"public"`
	Password     string `json:"password"`
	MaxPlayers   int    `json:"max_players" binding:"required,min=2,max=16"`
	TotalRounds  int    `json:"total_rounds" binding:"omitempty,min=1,max=50"`
	RoundSeconds int    `json:"round_seconds" binding:"omitempty,min=5,max=120"`
}

type JoinRoomInput struct {
	Password string `json:"password"`
}

type RoomPlayerResponse struct {
	UserID   uint   `json:"user_id"`
	Nickname string `json:"nickname"`
	Score    int    `json:"score"`
	IsHost   bool   `json:"is_host"`
}

type RoomResponse struct {
	Code         string               `json:"code"`
	Name         string               `json:"name"`
	Public       bool                 `json:"public"`
	Status       models.RoomStatus    `json:"status"`
	MaxPlayers   int                  `json:"max_players"`
	TotalRounds  int                  `json:"total_rounds"`
	RoundSeconds int                  `json:"round_seconds"`
	Players      []RoomPlayerResponse `json:"players"`
}

func newRoomResponse(room models.Room, players []models.RoomPlayer) RoomResponse {
	var playerResponses []RoomPlayerResponse
	for _, player := range players {
		playerResponses = append(playerResponses, RoomPlayerResponse{
			UserID:   player.UserID,
			Nickname: player.User.Nickname,
			Score:    player.Score,
			IsHost:   room.HostID != nil && *room.HostID == player.UserID,
		})
	}

	return RoomResponse{
		Code:         room.Code,
		Name:         room.Name,
		Public:       room.Public,
		Status:       room.Status,
		MaxPlayers:   room.MaxPlayers,
		TotalRounds:  room.TotalRounds,
		RoundSeconds: room.RoundSeconds,
		Players:      playerResponses,
	}
}

// endregion

// CreateRoom godoc
// @Summary      Create a new room
// @Description  Creates a room with a fresh join code; the creator joins it as host.
// @Tags         rooms
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body RoomInput true "Room Info"
// @Success      201  {object}  RoomResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse "User is already in a room"
// @Router       /rooms [post]
func CreateRoom(c *gin.Context) {
	userID, _ := c.Get("userID")

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if user.CurrentRoomID != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "User is already in a room"})
		return
	}

	var input RoomInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !input.Public && input.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Private rooms need a password"})
		return
	}

	code, err := roomcode.UniqueRoomCode(func(candidate string) (bool, error) {
		var count int64
		if err := database.DB.Model(&models.Room{}).Where("code = ?", candidate).Count(&count).Error; err != nil {
			return false, err
		}
		return count > 0, nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to allocate a room code"})
		return
	}

	room := models.Room{
		Code:       code,
		Name:       input.Name,
		Public:     input.Public,
		HostID:     &user.ID,
		Status:     models.RoomStatusWaiting,
		MaxPlayers: input.MaxPlayers,
	}
	if input.TotalRounds > 0 {
		room.TotalRounds = input.TotalRounds
	} else {
		room.TotalRounds = 10
	}
	if input.RoundSeconds > 0 {
		room.RoundSeconds = input.RoundSeconds
	} else {
		room.RoundSeconds = 20
	}
	if !input.Public {
		hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		room.PasswordHash = string(hashed)
	}

	// Use a transaction so the room, roster entry and user update land together.
	tx := database.DB.Begin()

	if err := tx.Create(&room).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create room"})
		return
	}

	if err := tx.Create(&models.RoomPlayer{RoomID: room.ID, UserID: user.ID}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join room"})
		return
	}

	user.CurrentRoomID = &room.ID
	if err := tx.Save(&user).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user's room"})
		return
	}

	tx.Commit()

	players := loadRoster(room.ID)
	c.JSON(http.StatusCreated, newRoomResponse(room, players))
}

// SearchRooms godoc
// @Summary      List public rooms
// @Description  Gets a paginated list of public rooms still waiting for players.
// @Description  Works with or without a token.
// @Tags         rooms
// @Produce      json
// @Param        page    query int false "Page number" default(1)
// @Param        limit   query int false "Items per page" default(10)
// @Success      200 {object} PaginatedResponse[RoomResponse]
// @Router       /rooms [get]
func SearchRooms(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}

	query := database.DB.Model(&models.Room{}).
		Where("public = ? AND status = ?", true, models.RoomStatusWaiting).
		Order("created_at DESC")

	paginated, err := Paginate[models.Room](query, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list rooms"})
		return
	}

	response := make([]RoomResponse, 0, len(paginated.Data))
	for _, room := range paginated.Data {
		response = append(response, newRoomResponse(room, loadRoster(room.ID)))
	}

	c.JSON(http.StatusOK, PaginatedResponse[RoomResponse]{Data: response, Meta: paginated.Meta})
}

// GetRoomByCode godoc
// @Summary      Get a room by code
// @Description  Gets full details for a single room.
// @Tags         rooms
// @Produce      json
// @Security     BearerAuth
// @Param        code path string true "Room code"
// @Success      200 {object} RoomResponse
// @Failure      404 {object} ErrorResponse "Room not found"
// @Router       /rooms/{code} [get]
func GetRoomByCode(c *gin.Context) {
	var room models.Room
	if err := database.DB.Where("code = ?", c.Param("code")).First(&room).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
		return
	}

	c.JSON(http.StatusOK, newRoomResponse(room, loadRoster(room.ID)))
}

// JoinRoom godoc
// @Summary      Join a room
// @Description  Joins a waiting room by code, checking capacity and password.
// @Tags         rooms
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        code  path string true "Room code"
// @Param        input body JoinRoomInput false "Join Info"
// @Success      200 {object} RoomResponse
// @Failure      403 {object} ErrorResponse "Wrong password"
// @Failure      404 {object} ErrorResponse "Room not found"
// @Failure      409 {object} ErrorResponse "Room full, game in progress, or user in another room"
// @Router       /rooms/{code}/join [post]
func JoinRoom(c *gin.Context) {
	userID, _ := c.Get("userID")

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if user.CurrentRoomID != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "User is already in a room"})
		return
	}

	var room models.Room
	if err := database.DB.Where("code = ?", c.Param("code")).First(&room).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
		return
	}
	if room.Status != models.RoomStatusWaiting {
		c.JSON(http.StatusConflict, gin.H{"error": "Game already in progress"})
		return
	}

	var input JoinRoomInput
	_ = c.ShouldBindJSON(&input)
	if !room.Public {
		if err := bcrypt.CompareHashAndPassword([]byte(room.PasswordHash), []byte(input.Password)); err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "Wrong password"})
			return
		}
	}

	var memberCount int64
	if err := database.DB.Model(&models.RoomPlayer{}).Where("room_id = ?", room.ID).Count(&memberCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join room"})
		return
	}
	if int(memberCount) >= room.MaxPlayers {
		c.JSON(http.StatusConflict, gin.H{"error": "Room is full"})
		return
	}

	tx := database.DB.Begin()

	if err := tx.Create(&models.RoomPlayer{RoomID: room.ID, UserID: user.ID}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join room"})
		return
	}

	user.CurrentRoomID = &room.ID
	if err := tx.Save(&user).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user's room"})
		return
	}

	// The first joiner becomes host if the seat is empty.
	if room.HostID == nil {
		if err := tx.Model(&room).Update("host_id", user.ID).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign host"})
			return
		}
	}

	tx.Commit()

	eventHub.Broadcast(room.Code, hub.Event{Type: "player_joined", Payload: gin.H{
		"user_id":  user.ID,
		"nickname": user.Nickname,
	}})

	database.DB.Where("code = ?", room.Code).First(&room)
	c.JSON(http.StatusOK, newRoomResponse(room, loadRoster(room.ID)))
}

// LeaveRoom godoc
// @Summary      Leave the current room
// @Description  Leaves the room the user is currently in. Handles host migration and room deletion.
// @Tags         rooms
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} map[string]string "{"message": "Left room successfully"}"
// @Failure      404 {object} ErrorResponse "User is not in a room"
// @Router       /rooms/leave [post]
func LeaveRoom(c *gin.Context) {
	userID, _ := c.Get("userID")

	var user models.User
	if err := database.DB.Preload("CurrentRoom").First(&user, userID).Error; err != nil || user.CurrentRoomID == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User is not in a room"})
		return
	}

	room := user.CurrentRoom
	players := loadRoster(room.ID)

	tx := database.DB.Begin()

	if err := tx.Unscoped().Where("room_id = ? AND user_id = ?", room.ID, user.ID).Delete(&models.RoomPlayer{}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to leave room"})
		return
	}
	if err := tx.Model(&user).Update("current_room_id", nil).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to leave room"})
		return
	}

	// If the user was the last one, delete the room.
	if len(players) == 1 && players[0].UserID == user.ID {
		if err := tx.Delete(room).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete empty room"})
			return
		}
	} else if room.HostID != nil && *room.HostID == user.ID { // If the user was the host, promote the next member
		var nextHost uint
		for _, player := range players {
			if player.UserID != user.ID {
				nextHost = player.UserID
				break
			}
		}
		if nextHost != 0 {
			if err := tx.Model(room).Update("host_id", nextHost).Error; err != nil {
				tx.Rollback()
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to transfer host"})
				return
			}
		}
	}

	tx.Commit()

	eventHub.Broadcast(room.Code, hub.Event{Type: "player_left", Payload: gin.H{
		"user_id":  user.ID,
		"nickname": user.Nickname,
	}})

	// Drop live game state for an emptied room; otherwise the open round may
	// now be fully answered by everyone remaining.
	gameEngine.PlayerLeft(room.Code)

	c.JSON(http.StatusOK, gin.H{"message": "Left room successfully"})
}

// KickMember godoc
// @Summary      Kick a member from a room (Host only)
// @Description  Removes a member from the room. Rejected while a game is running.
// @Tags         rooms
// @Produce      json
// @Security     BearerAuth
// @Param        code    path string true "Room code"
// @Param        userID  path int    true "User ID of member to kick"
// @Success      200 {object} map[string]string "{"message": "Member kicked successfully"}"
// @Failure      403 {object} ErrorResponse "Only the host can kick members"
// @Failure      404 {object} ErrorResponse "Room or member not found"
// @Failure      409 {object} ErrorResponse "Cannot kick during an active game"
// @Router       /rooms/{code}/players/{userID} [delete]
func KickMember(c *gin.Context) {
	hostID, _ := c.Get("userID")
	memberToKickID, _ := strconv.Atoi(c.Param("userID"))

	var room models.Room
	if err := database.DB.Where("code = ?", c.Param("code")).First(&room).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
		return
	}

	if room.HostID == nil || *room.HostID != hostID.(uint) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the host can kick members"})
		return
	}
	if room.Status == models.RoomStatusPlaying {
		c.JSON(http.StatusConflict, gin.H{"error": "Cannot kick during an active game"})
		return
	}
	if *room.HostID == uint(memberToKickID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Host cannot kick themselves"})
		return
	}

	var member models.RoomPlayer
	if err := database.DB.Preload("User").Where("room_id = ? AND user_id = ?", room.ID, memberToKickID).First(&member).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Member not found in this room"})
		return
	}

	tx := database.DB.Begin()
	if err := tx.Unscoped().Delete(&member).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to kick member"})
		return
	}
	if err := tx.Model(&models.User{}).Where("id = ?", member.UserID).Update("current_room_id", nil).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to kick member"})
		return
	}
	tx.Commit()

	eventHub.Broadcast(room.Code, hub.Event{Type: "player_kicked", Payload: gin.H{
		"user_id":  member.UserID,
		"nickname": member.User.Nickname,
	}})

	c.JSON(http.StatusOK, gin.H{"message": "Member kicked successfully"})
}

func loadRoster(roomID uint) []models.RoomPlayer {
	var players []models.RoomPlayer
	if err := database.DB.Preload("User").Where("room_id = ?", roomID).Order("id").Find(&players).Error; err != nil {
		return nil
	}
	return players
}
