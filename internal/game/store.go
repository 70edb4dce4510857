package game

import (
	"errors"
	"trackparty/backend/internal/models"

	"gorm.io/gorm"
)

// ErrNotFound is returned by Store lookups that match nothing.
var ErrNotFound = errors.New("game: record not found")

// Store is the narrow persistence surface the engine needs. Handlers talk to
// gorm directly; the engine goes through this interface so it can be tested
// against an in-memory fake.
type Store interface {
	RoomByCode(code string) (*models.Room, error)
	SaveRoom(room *models.Room) error

	Roster(roomID uint) ([]models.RoomPlayer, error)
	ResetScores(roomID uint) error
	AddScore(roomID, userID uint, delta int) error

	ReplaceTracks(roomID uint, tracks []models.Track) error
	Tracks(roomID uint) ([]models.Track, error)

	CreateRound(round *models.Round) error
	SaveRound(round *models.Round) error
	CurrentRound(roomID uint) (*models.Round, error)

	CreateAnswer(answer *models.Answer) error
	SaveAnswer(answer *models.Answer) error
	AnswersForRound(roundID uint) ([]models.Answer, error)
}

// GormStore implements Store on the application's gorm connection.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) RoomByCode(code string) (*models.Room, error) {
	var room models.Room
	if err := s.db.Where("code = ?", code).First(&room).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &room, nil
}

func (s *GormStore) SaveRoom(room *models.Room) error {
	return s.db.Save(room).Error
}

func (s *GormStore) Roster(roomID uint) ([]models.RoomPlayer, error) {
	var players []models.RoomPlayer
	err := s.db.Preload("User").Where("room_id = ?", roomID).Order("id").Find(&players).Error
	return players, err
}

func (s *GormStore) ResetScores(roomID uint) error {
	return s.db.Model(&models.RoomPlayer{}).Where("room_id = ?", roomID).Update("score", 0).Error
}

func (s *GormStore) AddScore(roomID, userID uint, delta int) error {
	return s.db.Model(&models.RoomPlayer{}).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		Update("score", gorm.Expr("score + ?", delta)).Error
}

// ReplaceTracks swaps the room's whole pool in one transaction.
func (s *GormStore) ReplaceTracks(roomID uint, tracks []models.Track) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("room_id = ?", roomID).Delete(&models.Track{}).Error; err != nil {
			return err
		}
		for i := range tracks {
			tracks[i].RoomID = roomID
			if err := tx.Create(&tracks[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *GormStore) Tracks(roomID uint) ([]models.Track, error) {
	var tracks []models.Track
	err := s.db.Where("room_id = ?", roomID).Order("id").Find(&tracks).Error
	return tracks, err
}

func (s *GormStore) CreateRound(round *models.Round) error {
	return s.db.Create(round).Error
}

func (s *GormStore) SaveRound(round *models.Round) error {
	return s.db.Save(round).Error
}

// CurrentRound returns the latest round for a room.
func (s *GormStore) CurrentRound(roomID uint) (*models.Round, error) {
	var round models.Round
	err := s.db.Preload("Track").Where("room_id = ?", roomID).Order("number DESC").First(&round).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &round, nil
}

func (s *GormStore) CreateAnswer(answer *models.Answer) error {
	return s.db.Create(answer).Error
}

func (s *GormStore) SaveAnswer(answer *models.Answer) error {
	return s.db.Save(answer).Error
}

func (s *GormStore) AnswersForRound(roundID uint) ([]models.Answer, error) {
	var answers []models.Answer
	err := s.db.Where("round_id = ?", roundID).Order("id").Find(&answers).Error
	return answers, err
}
