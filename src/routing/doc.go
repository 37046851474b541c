// Package routing implements the in-memory routing table of a hoproute
// node.
//
// Next-hop routing
//
// The routing table does not compute routes itself. It consumes a
// precomputed NextHopTable, a snapshot mapping every known destination
// peer to the set of directly connected neighbors that lie on some
// shortest path to it. Snapshots are produced externally and installed
// whole with Update; between updates the table is immutable and shared
// by all readers.
//
// When several neighbors tie for a destination, FindRoute picks the one
// that was selected least recently, so that repeated traffic to the
// same destination rotates through all equal-cost neighbors. The
// recency counter is shared across destinations on purpose: it spreads
// load over all neighbors jointly, not per-destination.
//
// Route-back
//
// Replies to hash-addressed requests do not use the next-hop table.
// When a request is received, the hash and the peer it arrived from are
// recorded in the RouteBackCache; the reply is later routed to that
// peer by targeting the request hash. Entries expire after a TTL and
// the cache is bounded, so late or duplicate replies simply find no
// entry, which callers treat as a normal outcome.
package routing
