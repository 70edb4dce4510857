package game

import (
	"context"
	"log"
	"math/rand"
	"sync"

	"trackparty/backend/internal/models"
	"trackparty/backend/internal/supplier"

	"github.com/google/uuid"
)

type fetchResult struct {
	userID uint
	items  []supplier.Candidate
}

// buildPool fetches every roster member's candidate tracks, merges them by
// external ID and persists the result as the room's pool, replacing any prior
// pool. Fetches fan out concurrently with a per-player timeout; a player whose
// fetch fails contributes nothing and never blocks the others. If nothing
// usable comes back the fallback catalog keeps the game playable.
func (e *Engine) buildPool(ctx context.Context, roomID uint, roster []models.RoomPlayer) error {
	results := make(chan fetchResult, len(roster))
	var wg sync.WaitGroup

	for _, player := range roster {
		if !player.User.HasMusicAccount() {
			continue
		}
		wg.Add(1)
		go func(userID uint, cred supplier.Credential) {
			defer wg.Done()
			fetchCtx, cancel := context.WithTimeout(ctx, e.opts.FetchTimeout)
			defer cancel()

			items, err := e.supplier.FetchCandidateTracks(fetchCtx, cred)
			if err != nil {
				log.Printf("game: track fetch failed for user %d: %v", userID, err)
				return
			}
			results <- fetchResult{userID: userID, items: items}
		}(player.UserID, supplier.Credential{Provider: player.User.MusicProvider, Token: player.User.MusicToken})
	}

	wg.Wait()
	close(results)

	// Merge by external ID: first-seen metadata wins, listener sets union.
	byExternalID := make(map[string]*models.Track)
	var order []string
	for res := range results {
		for _, item := range res.items {
			track, ok := byExternalID[item.ExternalID]
			if !ok {
				track = &models.Track{
					RoomID:     roomID,
					ExternalID: item.ExternalID,
					Name:       item.Name,
					Artist:     item.Artist,
					ArtworkURL: item.ArtworkURL,
					PreviewURL: item.PreviewURL,
					Listeners:  models.UintSet{},
				}
				byExternalID[item.ExternalID] = track
				order = append(order, item.ExternalID)
			}
			if !track.Listeners.Contains(res.userID) {
				track.Listeners = append(track.Listeners, res.userID)
			}
		}
	}

	tracks := make([]models.Track, 0, len(byExternalID))
	for _, id := range order {
		tracks = append(tracks, *byExternalID[id])
	}

	if len(tracks) == 0 {
		log.Printf("game: empty pool for room %d, using fallback catalog", roomID)
		tracks = fallbackPool(roomID, roster)
	}

	return e.store.ReplaceTracks(roomID, tracks)
}

// Generic stand-ins used when no player has a usable linked account.
var fallbackCatalog = []struct {
	name   string
	artist string
}{
	{"Midnight Drive", "The Neon Owls"},
	{"Paper Planes Over Paris", "Lumen Field"},
	{"Static Bloom", "Glasshouse Choir"},
	{"Second Sunrise", "Mara Voss"},
	{"Gravity's Waiting Room", "Dial Tone Poets"},
	{"Coastline Confetti", "June & The Arcades"},
	{"Borrowed Thunder", "Hollow Crown Radio"},
	{"Velvet Traffic", "Sao Tome Social Club"},
}

// fallbackPool assigns each catalog track a random non-empty subset of the
// roster as listeners.
func fallbackPool(roomID uint, roster []models.RoomPlayer) []models.Track {
	tracks := make([]models.Track, 0, len(fallbackCatalog))
	for _, entry := range fallbackCatalog {
		listeners := models.UintSet{}
		for _, player := range roster {
			if rand.Intn(2) == 0 {
				listeners = append(listeners, player.UserID)
			}
		}
		if len(listeners) == 0 && len(roster) > 0 {
			listeners = append(listeners, roster[rand.Intn(len(roster))].UserID)
		}
		tracks = append(tracks, models.Track{
			RoomID:     roomID,
			ExternalID: "fallback-" + uuid.NewString(),
			Name:       entry.name,
			Artist:     entry.artist,
			Listeners:  listeners,
		})
	}
	return tracks
}
