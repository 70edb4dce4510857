package game

import (
	"context"
	"errors"
	"testing"

	"trackparty/backend/internal/models"
	"trackparty/backend/internal/supplier"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func rosterOf(userIDs ...uint) []models.RoomPlayer {
	var roster []models.RoomPlayer
	for _, id := range userIDs {
		roster = append(roster, models.RoomPlayer{
			RoomID: 1,
			UserID: id,
			User: models.User{
				Model:         gorm.Model{ID: id},
				Nickname:      "player",
				MusicProvider: "spotify",
				MusicToken:    tokenFor(id),
			},
		})
	}
	return roster
}

func tokenFor(userID uint) string {
	return string(rune('a' + userID))
}

func poolEngine(store *fakeStore, sup supplier.Supplier) *Engine {
	return NewEngine(store, NewStateStore(), &fakeNotifier{}, sup, Options{})
}

func TestBuildPoolMergesListeners(t *testing.T) {
	store := newFakeStore(nil, nil)
	sup := &fakeSupplier{byToken: map[string][]supplier.Candidate{
		tokenFor(1): {
			{ExternalID: "t1", Name: "Track One", Artist: "A"},
			{ExternalID: "t2", Name: "Track Two", Artist: "B"},
		},
		tokenFor(2): {
			{ExternalID: "t2", Name: "Renamed Two", Artist: "X"},
		},
	}}

	err := poolEngine(store, sup).buildPool(context.Background(), 1, rosterOf(1, 2))
	require.NoError(t, err)

	tracks, _ := store.Tracks(1)
	require.Len(t, tracks, 2)

	byExternal := map[string]models.Track{}
	for _, track := range tracks {
		byExternal[track.ExternalID] = track
	}

	assert.ElementsMatch(t, []uint{1}, []uint(byExternal["t1"].Listeners))
	assert.ElementsMatch(t, []uint{1, 2}, []uint(byExternal["t2"].Listeners))
	// First-seen metadata is canonical.
	assert.Equal(t, "Track Two", byExternal["t2"].Name)
}

func TestBuildPoolDeduplicatesWithinOnePlayer(t *testing.T) {
	store := newFakeStore(nil, nil)
	sup := &fakeSupplier{byToken: map[string][]supplier.Candidate{
		tokenFor(1): {
			{ExternalID: "t1", Name: "Track One"},
			{ExternalID: "t1", Name: "Track One Again"},
		},
	}}

	err := poolEngine(store, sup).buildPool(context.Background(), 1, rosterOf(1))
	require.NoError(t, err)

	tracks, _ := store.Tracks(1)
	require.Len(t, tracks, 1)
	assert.Equal(t, models.UintSet{1}, tracks[0].Listeners)
}

func TestBuildPoolIsolatesFailures(t *testing.T) {
	store := newFakeStore(nil, nil)
	sup := &fakeSupplier{
		byToken: map[string][]supplier.Candidate{
			tokenFor(1): {{ExternalID: "t1", Name: "Track One"}},
		},
		errFor: map[string]error{
			tokenFor(2): errors.New("upstream down"),
		},
	}

	err := poolEngine(store, sup).buildPool(context.Background(), 1, rosterOf(1, 2))
	require.NoError(t, err)

	tracks, _ := store.Tracks(1)
	require.Len(t, tracks, 1)
	assert.Equal(t, "t1", tracks[0].ExternalID)
}

func TestBuildPoolFallbackCatalog(t *testing.T) {
	store := newFakeStore(nil, nil)
	sup := &fakeSupplier{errFor: map[string]error{
		tokenFor(1): errors.New("down"),
		tokenFor(2): errors.New("down"),
	}}

	err := poolEngine(store, sup).buildPool(context.Background(), 1, rosterOf(1, 2))
	require.NoError(t, err)

	tracks, _ := store.Tracks(1)
	require.NotEmpty(t, tracks)
	for _, track := range tracks {
		assert.NotEmpty(t, track.Listeners, "fallback tracks need a non-empty answer key")
		for _, listener := range track.Listeners {
			assert.Contains(t, []uint{1, 2}, listener)
		}
	}
}
