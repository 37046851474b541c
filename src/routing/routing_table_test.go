package routing

import (
	"reflect"
	"testing"
	"time"

	"github.com/meshnetworks/hoproute/src/common"
)

func newTestRoutingTable(t *testing.T, clock common.Clock) *RoutingTable {
	return NewRoutingTable(
		clock,
		RoutingTableConfig{
			RouteBackCacheSize:  100,
			RouteBackTTL:        testTTL,
			LastRoutedCacheSize: 100,
		},
		common.NewTestEntry(t, "routing"),
	)
}

func TestZeroValueConfigFallsBack(t *testing.T) {
	clock := common.NewFakeClock(time.Unix(0, 0))
	rt := NewRoutingTable(clock, RoutingTableConfig{}, common.NewTestEntry(t, "routing"))

	rt.Update(NextHopTable{"A": {"N1"}})

	next, err := rt.FindRoute(PeerTarget("A"))
	if err != nil {
		t.Fatal(err)
	}
	if next != "N1" {
		t.Fatalf("next hop should be N1, not %s", next)
	}

	h := testHash(1)
	rt.AddRouteBack(h, "P1")
	if !rt.CompareRouteBack(h, "P1") {
		t.Fatal("route-back entry should be held with a zero-value config")
	}
}

func TestReachablePeers(t *testing.T) {
	clock := common.NewFakeClock(time.Unix(0, 0))
	rt := newTestRoutingTable(t, clock)

	if rt.ReachablePeers() != 0 {
		t.Fatalf("empty table should have 0 reachable peers")
	}

	rt.Update(NextHopTable{
		"A": {"N1"},
		"B": {"N1", "N2"},
		"C": {"N3"},
	})

	if n := rt.ReachablePeers(); n != 3 {
		t.Fatalf("reachable peers should be 3, not %d", n)
	}

	rt.Update(NextHopTable{"A": {"N1"}})

	if n := rt.ReachablePeers(); n != 1 {
		t.Fatalf("reachable peers should be 1 after snapshot swap, not %d", n)
	}
}

func TestUpdateDropsEmptyHopSets(t *testing.T) {
	clock := common.NewFakeClock(time.Unix(0, 0))
	rt := newTestRoutingTable(t, clock)

	rt.Update(NextHopTable{
		"A": {"N1"},
		"B": {},
	})

	if n := rt.ReachablePeers(); n != 1 {
		t.Fatalf("empty hop set should have been dropped, reachable=%d", n)
	}
	if _, err := rt.FindRoute(PeerTarget("B")); err != ErrPeerUnreachable {
		t.Fatalf("routing to a dropped destination should fail with ErrPeerUnreachable, got %v", err)
	}
}

func TestCountNextHops(t *testing.T) {
	clock := common.NewFakeClock(time.Unix(0, 0))
	rt := newTestRoutingTable(t, clock)

	rt.Update(NextHopTable{"D": {"N1", "N2", "N3"}})

	if n := rt.CountNextHops("D"); n != 3 {
		t.Fatalf("D should have 3 next hops, not %d", n)
	}
	if n := rt.CountNextHops("X"); n != 0 {
		t.Fatalf("unknown peer should have 0 next hops, not %d", n)
	}
}

func TestViewRoute(t *testing.T) {
	clock := common.NewFakeClock(time.Unix(0, 0))
	rt := newTestRoutingTable(t, clock)

	rt.Update(NextHopTable{"D": {"N1", "N2"}})

	hops := rt.ViewRoute("D")
	if !reflect.DeepEqual(hops, []PeerID{"N1", "N2"}) {
		t.Fatalf("ViewRoute returned %v", hops)
	}

	// mutating the returned slice must not affect the snapshot
	hops[0] = "garbage"
	if hops2 := rt.ViewRoute("D"); !reflect.DeepEqual(hops2, []PeerID{"N1", "N2"}) {
		t.Fatalf("snapshot was mutated through ViewRoute result: %v", hops2)
	}

	if rt.ViewRoute("X") != nil {
		t.Fatal("ViewRoute of unknown peer should be nil")
	}
}

func TestFindRouteUnreachable(t *testing.T) {
	clock := common.NewFakeClock(time.Unix(0, 0))
	rt := newTestRoutingTable(t, clock)

	if _, err := rt.FindRoute(PeerTarget("D")); err != ErrPeerUnreachable {
		t.Fatalf("expected ErrPeerUnreachable, got %v", err)
	}
}

func TestFindRouteFairness(t *testing.T) {
	clock := common.NewFakeClock(time.Unix(0, 0))
	rt := newTestRoutingTable(t, clock)

	rt.Update(NextHopTable{"D": {"N1", "N2", "N3"}})

	expected := []PeerID{"N1", "N2", "N3", "N1", "N2"}
	for i, want := range expected {
		got, err := rt.FindRoute(PeerTarget("D"))
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Fatalf("call %d should select %s, not %s", i, want, got)
		}
	}
}

func TestFindRouteFairnessAcrossDestinations(t *testing.T) {
	clock := common.NewFakeClock(time.Unix(0, 0))
	rt := newTestRoutingTable(t, clock)

	// N1 is shared between both destinations; routing to D1 should
	// push later routing to D2 towards N2.
	rt.Update(NextHopTable{
		"D1": {"N1"},
		"D2": {"N1", "N2"},
	})

	if next, _ := rt.FindRoute(PeerTarget("D1")); next != "N1" {
		t.Fatalf("D1 should route through N1, not %s", next)
	}
	if next, _ := rt.FindRoute(PeerTarget("D2")); next != "N2" {
		t.Fatalf("D2 should route through N2, not %s", next)
	}
}

func TestFindRouteBack(t *testing.T) {
	clock := common.NewFakeClock(time.Unix(0, 0))
	rt := newTestRoutingTable(t, clock)

	h := testHash(1)
	rt.AddRouteBack(h, "P9")

	if !rt.CompareRouteBack(h, "P9") {
		t.Fatal("CompareRouteBack should match the inserted peer")
	}
	if rt.CompareRouteBack(h, "P8") {
		t.Fatal("CompareRouteBack should not match a different peer")
	}

	// CompareRouteBack must leave the entry in place
	next, err := rt.FindRoute(HashTarget(h))
	if err != nil {
		t.Fatal(err)
	}
	if next != "P9" {
		t.Fatalf("route back should be P9, not %s", next)
	}

	// the entry is consumed
	if _, err := rt.FindRoute(HashTarget(h)); err != ErrRouteBackNotFound {
		t.Fatalf("expected ErrRouteBackNotFound, got %v", err)
	}
}

func TestFindRouteBackExpired(t *testing.T) {
	clock := common.NewFakeClock(time.Unix(0, 0))
	rt := newTestRoutingTable(t, clock)

	h := testHash(1)
	rt.AddRouteBack(h, "P9")

	clock.Advance(testTTL + time.Second)

	if _, err := rt.FindRoute(HashTarget(h)); err != ErrRouteBackNotFound {
		t.Fatalf("expected ErrRouteBackNotFound after expiry, got %v", err)
	}
}

func TestInfoIsACopy(t *testing.T) {
	clock := common.NewFakeClock(time.Unix(0, 0))
	rt := newTestRoutingTable(t, clock)

	rt.Update(NextHopTable{"D": {"N1"}})

	info := rt.Info()
	info["D"][0] = "garbage"
	info["X"] = []PeerID{"N9"}

	if hops := rt.ViewRoute("D"); !reflect.DeepEqual(hops, []PeerID{"N1"}) {
		t.Fatalf("snapshot was mutated through Info result: %v", hops)
	}
	if rt.ReachablePeers() != 1 {
		t.Fatal("snapshot grew through Info result")
	}
}
