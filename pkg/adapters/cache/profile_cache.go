package cache

import (
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/rs/zerolog/log"
	"github.com/wadjakorntonsri/linkbio/pkg/core/domain"
	"github.com/wadjakorntonsri/linkbio/pkg/ports"
)

// ProfileCache wraps Ristretto for username -> profile lookups on the public
// read path. Values are copied in and out so callers never share a profile.
type ProfileCache struct {
	client *ristretto.Cache
	ttl    time.Duration
}

// New creates a cache holding up to maxItems profiles for ttl each.
func New(maxItems int64, ttl time.Duration) (*ProfileCache, error) {
	client, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: maxItems * 10, // keys tracked for admission
		MaxCost:     maxItems,      // every profile costs 1
		BufferItems: 64,            // keys per Get buffer

		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Int64("max_items", maxItems).
		Dur("ttl", ttl).
		Msg("Profile cache initialized")

	return &ProfileCache{client: client, ttl: ttl}, nil
}

func key(username string) string {
	return "profile:" + username
}

func (c *ProfileCache) Get(username string) (*domain.Profile, bool) {
	v, ok := c.client.Get(key(username))
	if !ok {
		return nil, false
	}
	profile, ok := v.(domain.Profile)
	if !ok {
		return nil, false
	}
	return &profile, true
}

// Set stores the profile under its username. Admission is asynchronous.
func (c *ProfileCache) Set(profile *domain.Profile) {
	if profile == nil {
		return
	}
	c.client.SetWithTTL(key(profile.Username), *profile, 1, c.ttl)
}

func (c *ProfileCache) Invalidate(usernames ...string) {
	for _, u := range usernames {
		c.client.Del(key(u))
	}
}

// Wait blocks until pending writes are applied.
func (c *ProfileCache) Wait() {
	c.client.Wait()
}

// Close cleanly shuts down the cache
func (c *ProfileCache) Close() {
	c.client.Close()
	log.Info().Msg("Profile cache closed")
}

var _ ports.ProfileCache = (*ProfileCache)(nil)
