package models

import "gorm.io/gorm"

// Answer is one player's submission for one round. At most one answer exists
// per (round, user) pair; duplicates are rejected, never overwritten.
// Classification and score are filled in when the round is scored.
type Answer struct {
	gorm.Model
	RoundID uint `gorm:"not null;uniqueIndex:idx_answers_round_user"`
	UserID  uint `gorm:"not null;uniqueIndex:idx_answers_round_user"`

	Selected UintSet `gorm:"type:text;not null"`

	Scored           bool `gorm:"not null;default:false"`
	IsCorrect        bool `gorm:"not null;default:false"`
	IsPartialCorrect bool `gorm:"not null;default:false"`
	Score            int  `gorm:"not null;default:0"`

	User User `gorm:"foreignKey:UserID"`
}
