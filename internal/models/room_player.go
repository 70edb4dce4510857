package models

import "gorm.io/gorm"

// RoomPlayer is a roster entry linking a user to a room with their running score.
// A user appears at most once per room.
type RoomPlayer struct {
	gorm.Model
	RoomID uint `gorm:"not null;uniqueIndex:idx_room_players_room_user"`
	UserID uint `gorm:"not null;uniqueIndex:idx_room_players_room_user"`
	Score  int  `gorm:"not null;default:0"`

	User User `gorm:"foreignKey:UserID"`
}
