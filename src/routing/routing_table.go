package routing

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/simplelru"
	"github.com/sirupsen/logrus"

	"github.com/meshnetworks/hoproute/src/common"
)

// RoutingTable holds the current next-hop snapshot and the route-back
// cache, and makes next-hop decisions for outgoing messages. A single
// mutex guards the snapshot pointer, the route-back cache, the call
// counter and the last-routed map.
type RoutingTable struct {
	sync.Mutex

	nextHops  NextHopTable
	routeBack *RouteBackCache

	// findRouteCalls counts calls to FindRoute with a peer target. It
	// is shared across destinations so that load spreads over all
	// neighbors jointly rather than per-destination.
	findRouteCalls uint64
	// lastRouted maps a neighbor to the findRouteCalls value at which
	// it was last selected.
	lastRouted *simplelru.LRU

	logger *logrus.Entry
}

// Fallback capacities for misconfigured (non-positive) cache sizes.
// simplelru refuses to build a zero-capacity cache, and a routing table
// without its caches cannot operate.
const (
	defaultRouteBackCacheSize  = 10000
	defaultLastRoutedCacheSize = 10000
)

// cacheSize returns size, or fallback when size is not a valid cache
// capacity.
func cacheSize(size, fallback int) int {
	if size <= 0 {
		return fallback
	}
	return size
}

// RoutingTableConfig groups the capacity and expiry settings of a
// RoutingTable.
type RoutingTableConfig struct {
	// RouteBackCacheSize is the max number of route-back entries.
	RouteBackCacheSize int

	// RouteBackTTL is how long a route-back entry remains valid.
	RouteBackTTL time.Duration

	// LastRoutedCacheSize is the max number of neighbors tracked for
	// LRU tie-breaking.
	LastRoutedCacheSize int
}

// NewRoutingTable creates an empty RoutingTable. Non-positive cache
// sizes in conf fall back to the package defaults.
func NewRoutingTable(clock common.Clock, conf RoutingTableConfig, logger *logrus.Entry) *RoutingTable {
	lastRouted, _ := simplelru.NewLRU(cacheSize(conf.LastRoutedCacheSize, defaultLastRoutedCacheSize), nil)
	return &RoutingTable{
		nextHops:   NextHopTable{},
		routeBack:  NewRouteBackCache(clock, conf.RouteBackCacheSize, conf.RouteBackTTL),
		lastRouted: lastRouted,
		logger:     logger,
	}
}

// Update replaces the next-hop snapshot with the provided one. Entries
// with an empty hop set are rejected; the producer is not supposed to
// emit them.
func (rt *RoutingTable) Update(nextHops NextHopTable) {
	for peer, hops := range nextHops {
		if len(hops) == 0 {
			rt.logger.WithField("peer", peer).Warn("Dropping empty next-hop set")
			delete(nextHops, peer)
		}
	}

	rt.Lock()
	defer rt.Unlock()

	rt.nextHops = nextHops
}

// ReachablePeers returns the number of destination peers in the
// current snapshot.
func (rt *RoutingTable) ReachablePeers() int {
	rt.Lock()
	defer rt.Unlock()

	return len(rt.nextHops)
}

// CountNextHops returns the number of equal-cost neighbors for the
// destination, or 0 if it is unknown.
func (rt *RoutingTable) CountNextHops(peerID PeerID) int {
	rt.Lock()
	defer rt.Unlock()

	return len(rt.nextHops[peerID])
}

// ViewRoute returns the equal-cost neighbors for the destination, or
// nil if it is unknown.
func (rt *RoutingTable) ViewRoute(peerID PeerID) []PeerID {
	rt.Lock()
	defer rt.Unlock()

	hops, ok := rt.nextHops[peerID]
	if !ok {
		return nil
	}

	res := make([]PeerID, len(hops))
	copy(res, hops)
	return res
}

// FindRoute resolves a target to the next hop. For a peer target it
// picks the least recently used neighbor on some shortest path to the
// peer; for a hash target it consumes the corresponding route-back
// entry.
func (rt *RoutingTable) FindRoute(target Target) (PeerID, error) {
	rt.Lock()
	defer rt.Unlock()

	if target.IsHash() {
		prev, ok := rt.routeBack.Remove(target.Hash())
		if !ok {
			return "", ErrRouteBackNotFound
		}
		return prev, nil
	}

	return rt.findRouteToPeer(target.PeerID())
}

// findRouteToPeer selects a neighbor on some shortest path to peerID.
// Among equal-cost neighbors the one with the smallest last-routed
// counter wins, ties broken by position in the hop set, which makes
// selection round-robin across many calls.
func (rt *RoutingTable) findRouteToPeer(peerID PeerID) (PeerID, error) {
	hops := rt.nextHops[peerID]
	if len(hops) == 0 {
		return "", ErrPeerUnreachable
	}

	next := hops[0]
	best := rt.lastRoutedAt(next)
	for _, hop := range hops[1:] {
		if at := rt.lastRoutedAt(hop); at < best {
			next = hop
			best = at
		}
	}

	rt.findRouteCalls++
	rt.lastRouted.Add(next, rt.findRouteCalls)

	return next, nil
}

func (rt *RoutingTable) lastRoutedAt(peer PeerID) uint64 {
	if v, ok := rt.lastRouted.Get(peer); ok {
		return v.(uint64)
	}
	return 0
}

// AddRouteBack records that the request identified by hash arrived
// from prev.
func (rt *RoutingTable) AddRouteBack(hash Hash, prev PeerID) {
	rt.Lock()
	defer rt.Unlock()

	rt.routeBack.Insert(hash, prev)
}

// CompareRouteBack reports whether the route-back cache currently maps
// hash to peerID. The entry is left in place.
func (rt *RoutingTable) CompareRouteBack(hash Hash, peerID PeerID) bool {
	rt.Lock()
	defer rt.Unlock()

	prev, ok := rt.routeBack.Get(hash)
	return ok && prev == peerID
}

// Info returns a copy of the current next-hop snapshot.
func (rt *RoutingTable) Info() NextHopTable {
	rt.Lock()
	defer rt.Unlock()

	return rt.nextHops.Copy()
}
