package routing

import "errors"

var (
	// ErrPeerUnreachable is returned by FindRoute when the target peer
	// has no entry in the next-hop table. It is recoverable; callers
	// may retry after a subsequent topology update.
	ErrPeerUnreachable = errors.New("peer unreachable")

	// ErrRouteBackNotFound is returned by FindRoute when no route-back
	// entry exists for the target hash. This is expected for late or
	// duplicate replies.
	ErrRouteBackNotFound = errors.New("route back not found")
)
