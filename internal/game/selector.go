package game

import (
	"math/rand"

	"trackparty/backend/internal/models"
)

// selectTrack picks the next round's track. Tracks in used are skipped; once
// every track has been played, used is cleared and the pool wraps around.
// Even-numbered rounds prefer tracks with two or more listeners so shared
// tracks come up regularly. Returns nil only when the pool itself is empty.
//
// The chosen track's ID is added to used, and distIndex rotates the pick
// window so repeated selections spread across the candidates.
func selectTrack(pool []models.Track, used map[uint]bool, roundNumber, distIndex int) *models.Track {
	if len(pool) == 0 {
		return nil
	}

	candidates := make([]*models.Track, 0, len(pool))
	for i := range pool {
		if !used[pool[i].ID] {
			candidates = append(candidates, &pool[i])
		}
	}

	// Pool exhausted: start a fresh pass.
	if len(candidates) == 0 {
		for id := range used {
			delete(used, id)
		}
		for i := range pool {
			candidates = append(candidates, &pool[i])
		}
	}

	if roundNumber%2 == 0 {
		multi := make([]*models.Track, 0, len(candidates))
		for _, track := range candidates {
			if len(track.Listeners) >= 2 {
				multi = append(multi, track)
			}
		}
		if len(multi) > 0 {
			candidates = multi
		}
	}

	chosen := candidates[(distIndex+rand.Intn(len(candidates)))%len(candidates)]
	used[chosen.ID] = true
	return chosen
}
