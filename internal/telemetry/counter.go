// Package telemetry counts remote document reads for cost tracking.
// The count is advisory and never gates behaviour.
package telemetry

import (
	"strconv"
	"sync"

	"github.com/reallyasi9/stripes/internal/cache"
	"github.com/rs/zerolog"
)

// Counter is a read counter persisted to a cache.
// It implements firestore.ReadObserver.
type Counter struct {
	mu    sync.Mutex
	n     int64
	store cache.Cache
	log   zerolog.Logger
}

// NewCounter creates a Counter starting from the value stored in c, if any.
func NewCounter(c cache.Cache, log zerolog.Logger) *Counter {
	ctr := &Counter{store: c, log: log}
	blob, ok, err := c.Get(cache.ReadCountKey)
	if err != nil {
		log.Warn().Err(err).Msg("unable to load stored read count")
		return ctr
	}
	if ok {
		n, err := strconv.ParseInt(string(blob), 10, 64)
		if err != nil {
			log.Warn().Err(err).Str("value", string(blob)).Msg("ignoring malformed stored read count")
			return ctr
		}
		ctr.n = n
	}
	return ctr
}

// Increment adds n reads and persists the new total.
func (c *Counter) Increment(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n += int64(n)
	c.log.Debug().Int64("reads", c.n).Msg("firestore read count")
	c.persist()
}

// ObserveReads implements firestore.ReadObserver.
func (c *Counter) ObserveReads(n int) {
	c.Increment(n)
}

// Read returns the current total.
func (c *Counter) Read() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}

// Reset sets the total back to zero.
func (c *Counter) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n = 0
	c.persist()
}

// persist must be called with mu held.
func (c *Counter) persist() {
	if err := c.store.Put(cache.ReadCountKey, []byte(strconv.FormatInt(c.n, 10))); err != nil {
		c.log.Warn().Err(err).Msg("unable to persist read count")
	}
}
