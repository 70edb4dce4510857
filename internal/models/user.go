package models

import "gorm.io/gorm"

// User represents a registered player.
type User struct {
	gorm.Model
	Nickname     string `gorm:"size:255;unique;not null"`
	Email        string `gorm:"size:255;unique;not null"`
	PasswordHash string `gorm:"size:255;not null"`

	// Linked music/video account. The token is an opaque credential handed to
	// the track supplier; we never refresh or introspect it ourselves.
	MusicProvider string `gorm:"size:50"`
	MusicToken    string `gorm:"size:512"`

	// A user can only be in one room at a time.
	CurrentRoomID *uint `gorm:"index"`
	CurrentRoom   *Room `gorm:"foreignKey:CurrentRoomID"`
}

// HasMusicAccount reports whether the user linked a supplier credential.
func (u *User) HasMusicAccount() bool {
	return u.MusicProvider != "" && u.MusicToken != ""
}
