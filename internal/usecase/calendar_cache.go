package usecase

import (
	"sync"
	"time"
)

// CalendarCache keeps the season's match dates between sync passes. It is
// keyed by season so a season rollover forces a refetch.
type CalendarCache struct {
	mu     sync.RWMutex
	season string
	dates  []time.Time
}

func NewCalendarCache() *CalendarCache {
	return &CalendarCache{}
}

// Get returns a copy of the cached dates; ok is false when the cache is
// empty or holds another season.
func (c *CalendarCache) Get(season string) ([]time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.season != season || len(c.dates) == 0 {
		return nil, false
	}
	return append([]time.Time(nil), c.dates...), true
}

func (c *CalendarCache) Store(season string, dates []time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.season = season
	c.dates = append([]time.Time(nil), dates...)
}

func (c *CalendarCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.season = ""
	c.dates = nil
}
