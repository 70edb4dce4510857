package models

import "gorm.io/gorm"

// Track is one entry in a room's candidate pool. Listeners holds the user IDs
// whose linked accounts surfaced this track; it is the answer key for any round
// built on the track and is never empty.
type Track struct {
	gorm.Model
	RoomID     uint   `gorm:"not null;uniqueIndex:idx_tracks_room_external"`
	ExternalID string `gorm:"size:255;not null;uniqueIndex:idx_tracks_room_external"`

	Name       string `gorm:"size:255;not null"`
	Artist     string `gorm:"size:255"`
	ArtworkURL string `gorm:"size:512"`
	PreviewURL string `gorm:"size:512"`

	Listeners UintSet `gorm:"type:text;not null"`
}
