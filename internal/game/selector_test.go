package game

import (
	"testing"

	"trackparty/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testPool() []models.Track {
	return []models.Track{
		{Model: gorm.Model{ID: 1}, Name: "solo one", Listeners: models.UintSet{1}},
		{Model: gorm.Model{ID: 2}, Name: "solo two", Listeners: models.UintSet{2}},
		{Model: gorm.Model{ID: 3}, Name: "shared", Listeners: models.UintSet{1, 2}},
	}
}

func TestSelectTrackEmptyPool(t *testing.T) {
	assert.Nil(t, selectTrack(nil, map[uint]bool{}, 1, 0))
}

func TestSelectTrackMarksUsed(t *testing.T) {
	pool := testPool()
	used := map[uint]bool{}

	track := selectTrack(pool, used, 1, 0)

	require.NotNil(t, track)
	assert.True(t, used[track.ID])
}

func TestSelectTrackSkipsUsed(t *testing.T) {
	pool := testPool()

	for i := 0; i < 20; i++ {
		used := map[uint]bool{pool[0].ID: true, pool[1].ID: true}
		track := selectTrack(pool, used, 1, i)
		require.NotNil(t, track)
		assert.Equal(t, pool[2].ID, track.ID)
	}
}

func TestSelectTrackEvenRoundPrefersMultiListener(t *testing.T) {
	pool := testPool()

	for i := 0; i < 50; i++ {
		track := selectTrack(pool, map[uint]bool{}, 2, i)
		require.NotNil(t, track)
		assert.GreaterOrEqual(t, len(track.Listeners), 2,
			"even rounds must pick a multi-listener track while one is unused")
	}
}

func TestSelectTrackEvenRoundFallsBackWithoutMultiListener(t *testing.T) {
	pool := testPool()
	used := map[uint]bool{pool[2].ID: true}

	track := selectTrack(pool, used, 2, 0)

	require.NotNil(t, track)
	assert.Len(t, track.Listeners, 1)
}

func TestSelectTrackWrapsAroundWhenExhausted(t *testing.T) {
	pool := testPool()
	used := map[uint]bool{}
	for i := range pool {
		used[pool[i].ID] = true
	}

	track := selectTrack(pool, used, 3, 0)

	require.NotNil(t, track)
	// The used set was cleared for a fresh pass; only the new pick remains.
	assert.Len(t, used, 1)
	assert.True(t, used[track.ID])
}
