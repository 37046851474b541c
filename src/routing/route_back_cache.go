package routing

import (
	"time"

	"github.com/hashicorp/golang-lru/simplelru"

	"github.com/meshnetworks/hoproute/src/common"
)

type routeBackEntry struct {
	peer       PeerID
	insertedAt time.Time
}

// RouteBackCache maps the hash of a routed request to the peer it
// arrived from, so that the reply can be sent along the exact inverse
// path. Entries expire after a fixed TTL and, when the cache is full,
// the oldest-inserted entries are evicted first regardless of TTL.
//
// RouteBackCache is not safe for concurrent use; it is guarded by the
// mutex of the owning RoutingTable.
type RouteBackCache struct {
	clock   common.Clock
	ttl     time.Duration
	entries *simplelru.LRU
}

// NewRouteBackCache creates a RouteBackCache holding at most size
// entries, each valid for ttl after insertion. A non-positive size
// falls back to defaultRouteBackCacheSize.
func NewRouteBackCache(clock common.Clock, size int, ttl time.Duration) *RouteBackCache {
	// Lookups use Peek, so the LRU's recency order degenerates to
	// insertion order and RemoveOldest drops the oldest-inserted entry.
	entries, _ := simplelru.NewLRU(cacheSize(size, defaultRouteBackCacheSize), nil)
	return &RouteBackCache{
		clock:   clock,
		ttl:     ttl,
		entries: entries,
	}
}

// Insert records that the request identified by hash arrived from
// prev. Re-inserting an existing hash overwrites the previous entry;
// on conflicting peers the last writer wins.
func (c *RouteBackCache) Insert(hash Hash, prev PeerID) {
	now := c.clock.Now()
	c.sweepExpired(now)
	c.entries.Add(hash, routeBackEntry{peer: prev, insertedAt: now})
}

// Remove returns and deletes the previous hop recorded for hash, if
// present and not expired.
func (c *RouteBackCache) Remove(hash Hash) (PeerID, bool) {
	entry, ok := c.lookup(hash)
	if !ok {
		return "", false
	}
	c.entries.Remove(hash)
	return entry.peer, true
}

// Get returns the previous hop recorded for hash without deleting it.
func (c *RouteBackCache) Get(hash Hash) (PeerID, bool) {
	entry, ok := c.lookup(hash)
	if !ok {
		return "", false
	}
	return entry.peer, true
}

// Len returns the number of entries currently held, including entries
// that have expired but have not been purged yet.
func (c *RouteBackCache) Len() int {
	return c.entries.Len()
}

func (c *RouteBackCache) lookup(hash Hash) (routeBackEntry, bool) {
	v, ok := c.entries.Peek(hash)
	if !ok {
		return routeBackEntry{}, false
	}
	entry := v.(routeBackEntry)
	if c.expired(entry, c.clock.Now()) {
		c.entries.Remove(hash)
		return routeBackEntry{}, false
	}
	return entry, true
}

// sweepExpired purges expired entries from the old end of the cache.
// Entries are in insertion order, so the sweep stops at the first live
// one.
func (c *RouteBackCache) sweepExpired(now time.Time) {
	for {
		_, v, ok := c.entries.GetOldest()
		if !ok || !c.expired(v.(routeBackEntry), now) {
			return
		}
		c.entries.RemoveOldest()
	}
}

func (c *RouteBackCache) expired(entry routeBackEntry, now time.Time) bool {
	return now.Sub(entry.insertedAt) > c.ttl
}
