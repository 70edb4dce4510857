package supplier

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheTTL = 15 * time.Minute

// Cached wraps a Supplier with a Redis cache so repeated game starts in the
// same room don't hammer the catalog API. Cache failures fall through to the
// underlying supplier.
type Cached struct {
	inner Supplier
	rdb   *redis.Client
}

// NewCached creates a caching supplier. rdb may not be nil.
func NewCached(inner Supplier, rdb *redis.Client) *Cached {
	return &Cached{inner: inner, rdb: rdb}
}

func (c *Cached) FetchCandidateTracks(ctx context.Context, cred Credential) ([]Candidate, error) {
	key := cacheKey(cred)

	if raw, err := c.rdb.Get(ctx, key).Result(); err == nil {
		var cached []Candidate
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			return cached, nil
		}
	}

	items, err := c.inner.FetchCandidateTracks(ctx, cred)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(items); err == nil {
		if err := c.rdb.Set(ctx, key, raw, cacheTTL).Err(); err != nil {
			log.Printf("supplier: cache write failed: %v", err)
		}
	}
	return items, nil
}

// The token never goes to Redis in the clear.
func cacheKey(cred Credential) string {
	sum := sha256.Sum256([]byte(cred.Provider + ":" + cred.Token))
	return "supplier:history:" + hex.EncodeToString(sum[:])
}
