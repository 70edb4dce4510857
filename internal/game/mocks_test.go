package game

import (
	"context"
	"fmt"
	"sync"

	"trackparty/backend/internal/models"
	"trackparty/backend/internal/supplier"
)

// fakeStore is an in-memory Store for engine tests.
type fakeStore struct {
	mu      sync.Mutex
	nextID  uint
	room    *models.Room
	roster  []models.RoomPlayer
	tracks  []models.Track
	rounds  []*models.Round
	answers []*models.Answer

	// scoreApplied counts AddScore invocations per user, to catch
	// double-applied rounds.
	scoreApplied map[uint]int

	failTracks bool
}

func newFakeStore(room *models.Room, roster []models.RoomPlayer) *fakeStore {
	return &fakeStore{
		nextID:       100,
		room:         room,
		roster:       roster,
		scoreApplied: make(map[uint]int),
	}
}

func (f *fakeStore) id() uint {
	f.nextID++
	return f.nextID
}

func (f *fakeStore) RoomByCode(code string) (*models.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.room == nil || f.room.Code != code {
		return nil, ErrNotFound
	}
	copied := *f.room
	return &copied, nil
}

func (f *fakeStore) SaveRoom(room *models.Room) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *room
	f.room = &copied
	return nil
}

func (f *fakeStore) Roster(roomID uint) ([]models.RoomPlayer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.RoomPlayer, len(f.roster))
	copy(out, f.roster)
	return out, nil
}

func (f *fakeStore) ResetScores(roomID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.roster {
		f.roster[i].Score = 0
	}
	return nil
}

func (f *fakeStore) AddScore(roomID, userID uint, delta int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.roster {
		if f.roster[i].UserID == userID {
			f.roster[i].Score += delta
		}
	}
	f.scoreApplied[userID]++
	return nil
}

func (f *fakeStore) ReplaceTracks(roomID uint, tracks []models.Track) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tracks = nil
	for _, track := range tracks {
		track.ID = f.id()
		track.RoomID = roomID
		f.tracks = append(f.tracks, track)
	}
	return nil
}

func (f *fakeStore) Tracks(roomID uint) ([]models.Track, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failTracks {
		return nil, fmt.Errorf("boom")
	}
	out := make([]models.Track, len(f.tracks))
	copy(out, f.tracks)
	return out, nil
}

func (f *fakeStore) CreateRound(round *models.Round) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	round.ID = f.id()
	for i := range f.tracks {
		if f.tracks[i].ID == round.TrackID {
			round.Track = f.tracks[i]
		}
	}
	copied := *round
	f.rounds = append(f.rounds, &copied)
	return nil
}

func (f *fakeStore) SaveRound(round *models.Round) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, existing := range f.rounds {
		if existing.ID == round.ID {
			copied := *round
			f.rounds[i] = &copied
		}
	}
	return nil
}

func (f *fakeStore) CurrentRound(roomID uint) (*models.Round, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.rounds) == 0 {
		return nil, ErrNotFound
	}
	copied := *f.rounds[len(f.rounds)-1]
	return &copied, nil
}

func (f *fakeStore) CreateAnswer(answer *models.Answer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.answers {
		if existing.RoundID == answer.RoundID && existing.UserID == answer.UserID {
			return fmt.Errorf("duplicate answer")
		}
	}
	answer.ID = f.id()
	copied := *answer
	f.answers = append(f.answers, &copied)
	return nil
}

func (f *fakeStore) SaveAnswer(answer *models.Answer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, existing := range f.answers {
		if existing.ID == answer.ID {
			copied := *answer
			f.answers[i] = &copied
		}
	}
	return nil
}

func (f *fakeStore) AnswersForRound(roundID uint) ([]models.Answer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Answer
	for _, answer := range f.answers {
		if answer.RoundID == roundID {
			out = append(out, *answer)
		}
	}
	return out, nil
}

func (f *fakeStore) answerFor(roundID, userID uint) *models.Answer {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, answer := range f.answers {
		if answer.RoundID == roundID && answer.UserID == userID {
			copied := *answer
			return &copied
		}
	}
	return nil
}

func (f *fakeStore) roundByNumber(number int) *models.Round {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, round := range f.rounds {
		if round.Number == number {
			copied := *round
			return &copied
		}
	}
	return nil
}

func (f *fakeStore) playerScore(userID uint) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, player := range f.roster {
		if player.UserID == userID {
			return player.Score
		}
	}
	return 0
}

// fakeNotifier records broadcast events.
type fakeNotifier struct {
	mu     sync.Mutex
	events []string
}

func (f *fakeNotifier) NotifyRoom(roomCode, eventType string, payload interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, eventType)
}

func (f *fakeNotifier) count(eventType string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, event := range f.events {
		if event == eventType {
			n++
		}
	}
	return n
}

// fakeSupplier serves canned candidates per token.
type fakeSupplier struct {
	mu      sync.Mutex
	byToken map[string][]supplier.Candidate
	errFor  map[string]error
}

func (f *fakeSupplier) FetchCandidateTracks(ctx context.Context, cred supplier.Credential) ([]supplier.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.errFor[cred.Token]; ok {
		return nil, err
	}
	return f.byToken[cred.Token], nil
}
