package services

import (
	"context"

	lru "github.com/hashicorp/golang-lru"

	"github.com/okubot/bookclub/bookclub/database/models"
	"github.com/okubot/bookclub/bookclub/database/repositories"
)

// ClubCache fronts club-by-key lookups with an LRU. Keys are typed during
// /join and club configuration changes rarely, so a small cache absorbs
// nearly all reads.
type ClubCache struct {
	clubs repositories.ClubRepository
	cache *lru.Cache
}

func NewClubCache(clubs repositories.ClubRepository, size int) (*ClubCache, error) {
	if size <= 0 {
		size = 64
	}
	cache, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &ClubCache{clubs: clubs, cache: cache}, nil
}

// GetByKey returns (nil, nil) for an unknown key, matching the repository.
func (c *ClubCache) GetByKey(ctx context.Context, key string) (*models.Club, error) {
	if v, ok := c.cache.Get(key); ok {
		return v.(*models.Club), nil
	}
	club, err := c.clubs.GetByKey(ctx, key)
	if err != nil || club == nil {
		return nil, err
	}
	c.cache.Add(key, club)
	return club, nil
}

// Invalidate drops a key after its club is updated or deleted.
func (c *ClubCache) Invalidate(key string) {
	c.cache.Remove(key)
}
