package models

import "gorm.io/gorm"

// RoomStatus is the persisted lifecycle state of a room.
type RoomStatus string

const (
	RoomStatusWaiting  RoomStatus = "waiting"
	RoomStatusPlaying  RoomStatus = "playing"
	RoomStatusFinished RoomStatus = "finished"
)

// Room represents one game session, joined by short code.
type Room struct {
	gorm.Model
	Code string `gorm:"size:10;uniqueIndex;not null"`
	Name string `gorm:"size:255;not null"`

	// HostID is nil until the first player joins.
	HostID *uint `gorm:"index"`

	Public bool `gorm:"not null;default:true"`
	// PasswordHash is set only for private rooms.
	PasswordHash string `gorm:"size:255"`

	Status       RoomStatus `gorm:"size:20;not null;default:'waiting';index"`
	MaxPlayers   int        `gorm:"not null;default:8"`
	CurrentRound int        `gorm:"not null;default:0"`
	TotalRounds  int        `gorm:"not null;default:10"`
	RoundSeconds int        `gorm:"not null;default:20"`

	Host    *User        `gorm:"foreignKey:HostID"`
	Players []RoomPlayer `gorm:"foreignKey:RoomID"`
}
