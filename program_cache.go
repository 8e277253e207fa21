package deps

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// ProgramCache stores compiled rule programs keyed by engine and expression.
type ProgramCache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

// WithProgramCache shares cache between containers so rule expressions are
// compiled once. Programs that bind custom functions are cached per
// function registry and never run another container's helpers.
func WithProgramCache(cache ProgramCache) Option {
	return func(cfg *valuesConfig) {
		cfg.programCache = cache
	}
}

// NewProgramCache returns a ProgramCache backed by go-cache. Entries expire
// after expiration (zero keeps them forever) and are swept every cleanup.
func NewProgramCache(expiration, cleanup time.Duration) ProgramCache {
	if expiration <= 0 {
		expiration = gocache.NoExpiration
	}
	return &memoryProgramCache{store: gocache.New(expiration, cleanup)}
}

type memoryProgramCache struct {
	store *gocache.Cache
}

func (c *memoryProgramCache) Get(key string) (any, bool) {
	return c.store.Get(key)
}

func (c *memoryProgramCache) Set(key string, value any) {
	c.store.SetDefault(key, value)
}
