package routing

// NextHopTable maps each known destination peer to the set of directly
// connected neighbors that lie on some shortest path to it. The
// producer guarantees every listed neighbor is directly connected; the
// routing table does not verify this.
//
// A NextHopTable is an immutable snapshot. It is installed whole with
// RoutingTable.Update and must not be mutated afterwards.
type NextHopTable map[PeerID][]PeerID

// Copy returns a deep copy of the table.
func (t NextHopTable) Copy() NextHopTable {
	res := make(NextHopTable, len(t))
	for peer, hops := range t {
		cp := make([]PeerID, len(hops))
		copy(cp, hops)
		res[peer] = cp
	}
	return res
}
