package game

import (
	"testing"
	"time"

	"trackparty/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshotFixture(t *testing.T) (*Engine, *fakeStore) {
	t.Helper()
	store := newFakeStore(testRoom(3, 600), rosterOf(1, 2))
	opts := testOptions()
	// Hold the results screen so assertions aren't raced by round 2.
	opts.ResultsDelay = time.Hour
	engine := NewEngine(store, NewStateStore(), &fakeNotifier{}, sharedPoolSupplier(), opts)
	t.Cleanup(func() { engine.states.Delete(testRoomCode) })
	return engine, store
}

func TestSnapshotWithoutLiveGame(t *testing.T) {
	engine, _ := snapshotFixture(t)

	snap, err := engine.Snapshot(testRoomCode)
	require.NoError(t, err)

	assert.Equal(t, Status("waiting"), snap.Status)
	assert.Equal(t, 0, snap.Round)
	assert.Nil(t, snap.Track)
	assert.Len(t, snap.Players, 2)
}

func TestSnapshotHidesAnswerKeyDuringQuestion(t *testing.T) {
	engine, _ := snapshotFixture(t)

	require.NoError(t, engine.StartGame(testRoomCode, 1))
	waitForQuestion(t, engine, 1)

	require.NoError(t, engine.SubmitAnswer(testRoomCode, 1, []uint{1}))

	snap, err := engine.Snapshot(testRoomCode)
	require.NoError(t, err)

	assert.Equal(t, StatusQuestion, snap.Status)
	assert.Equal(t, 1, snap.Round)
	assert.Equal(t, 3, snap.TotalRounds)
	require.NotNil(t, snap.Track)
	assert.NotEmpty(t, snap.Track.Name)
	assert.Empty(t, snap.Track.Listeners, "answer key must stay hidden while the question is open")

	byUser := map[uint]PlayerSnapshot{}
	for _, player := range snap.Players {
		byUser[player.UserID] = player
	}
	assert.True(t, byUser[1].Answered)
	assert.False(t, byUser[2].Answered)
	assert.Empty(t, byUser[1].LastOutcome)
}

func TestSnapshotRevealsAnswerKeyInResults(t *testing.T) {
	engine, store := snapshotFixture(t)

	require.NoError(t, engine.StartGame(testRoomCode, 1))
	waitForQuestion(t, engine, 1)

	round := store.roundByNumber(1)
	require.NoError(t, engine.SubmitAnswer(testRoomCode, 1, round.CorrectListeners))
	require.NoError(t, engine.SubmitAnswer(testRoomCode, 2, []uint{99}))

	require.Eventually(t, func() bool {
		st := engine.states.Get(testRoomCode)
		return st != nil && stateStatus(st) == StatusResults
	}, 2*time.Second, time.Millisecond)

	snap, err := engine.Snapshot(testRoomCode)
	require.NoError(t, err)

	assert.Equal(t, StatusResults, snap.Status)
	require.NotNil(t, snap.Track)
	assert.Equal(t, models.UintSet(round.CorrectListeners), snap.Track.Listeners)

	byUser := map[uint]PlayerSnapshot{}
	for _, player := range snap.Players {
		byUser[player.UserID] = player
	}
	assert.Equal(t, "correct", byUser[1].LastOutcome)
	assert.Equal(t, "wrong", byUser[2].LastOutcome)
	assert.Equal(t, 1, byUser[1].Streak)
	assert.Equal(t, 0, byUser[2].Streak)
}
