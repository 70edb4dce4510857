package models

import (
	"time"

	"gorm.io/gorm"
)

// Round is one question instance. CorrectListeners is snapshotted from the
// track at creation so later pool rebuilds cannot change a finished round's
// answer key. Number is 1-based and unique within a room's game.
type Round struct {
	gorm.Model
	RoomID  uint `gorm:"index;not null;uniqueIndex:idx_rounds_room_number"`
	Number  int  `gorm:"not null;uniqueIndex:idx_rounds_room_number"`
	TrackID uint `gorm:"not null"`

	CorrectListeners UintSet `gorm:"type:text;not null"`
	Lightning        bool    `gorm:"not null;default:false"`
	TimeLimit        int     `gorm:"not null"`

	StartedAt time.Time `gorm:"not null"`
	EndedAt   *time.Time

	Track Track `gorm:"foreignKey:TrackID"`
}
