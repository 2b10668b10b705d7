package portage

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

type lookupResult struct {
	cpv string
	ok  bool
}

// CachedRepository memoizes atom lookups of a Repository. The engine's
// workers resolve the same atoms many times while walking the graph.
type CachedRepository struct {
	*Repository
	best      *lru.Cache[string, lookupResult]
	installed *lru.Cache[string, lookupResult]
}

// NewCached wraps r with LRU caches holding up to size entries each.
func NewCached(r *Repository, size int) (*CachedRepository, error) {
	best, err := lru.New[string, lookupResult](size)
	if err != nil {
		return nil, err
	}
	installed, err := lru.New[string, lookupResult](size)
	if err != nil {
		return nil, err
	}
	return &CachedRepository{Repository: r, best: best, installed: installed}, nil
}

// FindBestVisible implements the repository query with caching.
func (c *CachedRepository) FindBestVisible(a string) (string, bool) {
	return cachedLookup(c.best, a, c.Repository.FindBestVisible)
}

// FindInstalled implements the repository query with caching.
func (c *CachedRepository) FindInstalled(a string) (string, bool) {
	return cachedLookup(c.installed, a, c.Repository.FindInstalled)
}

func cachedLookup(cache *lru.Cache[string, lookupResult], a string, find func(string) (string, bool)) (string, bool) {
	if r, ok := cache.Get(a); ok {
		return r.cpv, r.ok
	}
	cpv, ok := find(a)
	cache.Add(a, lookupResult{cpv: cpv, ok: ok})
	return cpv, ok
}
