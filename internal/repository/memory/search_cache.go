package memory

import (
	"strings"
	"time"

	"ai-counsellor-be/internal/dto"

	"github.com/patrickmn/go-cache"
)

// SearchCache keeps recent university search results in process memory.
// The upstream directory changes rarely, so a short TTL is plenty.
type SearchCache struct {
	cache *cache.Cache
}

func NewSearchCache() *SearchCache {
	// Default expiration of 1 hour, purge sweep every 10 minutes
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &SearchCache{
		cache: c,
	}
}

func key(name, country string) string {
	return strings.ToLower(strings.TrimSpace(name)) + "|" + strings.ToLower(strings.TrimSpace(country))
}

func (r *SearchCache) Save(name, country string, results []dto.UniversitySearchResult) {
	r.cache.Set(key(name, country), results, cache.DefaultExpiration)
}

func (r *SearchCache) Get(name, country string) ([]dto.UniversitySearchResult, bool) {
	if x, found := r.cache.Get(key(name, country)); found {
		return x.([]dto.UniversitySearchResult), true
	}
	return nil, false
}

func (r *SearchCache) Delete(name, country string) {
	r.cache.Delete(key(name, country))
}
