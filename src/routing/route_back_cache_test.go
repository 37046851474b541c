package routing

import (
	"fmt"
	"testing"
	"time"

	"github.com/meshnetworks/hoproute/src/common"
)

const testTTL = 10 * time.Second

func testHash(i int) Hash {
	return HashFromBytes([]byte(fmt.Sprintf("hash%d", i)))
}

func TestRouteBackInsertRemove(t *testing.T) {
	clock := common.NewFakeClock(time.Unix(0, 0))
	cache := NewRouteBackCache(clock, 10, testTTL)

	h := testHash(1)
	cache.Insert(h, "P9")

	peer, ok := cache.Remove(h)
	if !ok {
		t.Fatal("Remove should find the entry")
	}
	if peer != "P9" {
		t.Fatalf("previous hop should be P9, not %s", peer)
	}

	if _, ok := cache.Remove(h); ok {
		t.Fatal("second Remove should not find the entry")
	}
}

func TestRouteBackGetDoesNotDelete(t *testing.T) {
	clock := common.NewFakeClock(time.Unix(0, 0))
	cache := NewRouteBackCache(clock, 10, testTTL)

	h := testHash(1)
	cache.Insert(h, "P1")

	for i := 0; i < 3; i++ {
		peer, ok := cache.Get(h)
		if !ok || peer != "P1" {
			t.Fatalf("Get %d should return P1", i)
		}
	}

	if peer, ok := cache.Remove(h); !ok || peer != "P1" {
		t.Fatal("entry should still be removable after Get")
	}
}

func TestRouteBackExpiry(t *testing.T) {
	clock := common.NewFakeClock(time.Unix(0, 0))
	cache := NewRouteBackCache(clock, 10, testTTL)

	h := testHash(1)
	cache.Insert(h, "P9")

	clock.Advance(testTTL)
	if peer, ok := cache.Get(h); !ok || peer != "P9" {
		t.Fatal("entry should still be live exactly at the TTL boundary")
	}

	clock.Advance(time.Second)
	if _, ok := cache.Remove(h); ok {
		t.Fatal("expired entry should not be returned")
	}
}

func TestRouteBackCapacityEviction(t *testing.T) {
	size := 5
	clock := common.NewFakeClock(time.Unix(0, 0))
	cache := NewRouteBackCache(clock, size, testTTL)

	for i := 0; i < size+2; i++ {
		cache.Insert(testHash(i), PeerID(fmt.Sprintf("P%d", i)))
	}

	if cache.Len() != size {
		t.Fatalf("cache should hold %d entries, not %d", size, cache.Len())
	}

	// the two oldest-inserted entries were dropped
	for i := 0; i < 2; i++ {
		if _, ok := cache.Get(testHash(i)); ok {
			t.Fatalf("entry %d should have been evicted", i)
		}
	}
	for i := 2; i < size+2; i++ {
		if _, ok := cache.Get(testHash(i)); !ok {
			t.Fatalf("entry %d should still be present", i)
		}
	}
}

func TestRouteBackExpiredSweepOnInsert(t *testing.T) {
	clock := common.NewFakeClock(time.Unix(0, 0))
	cache := NewRouteBackCache(clock, 10, testTTL)

	cache.Insert(testHash(1), "P1")
	cache.Insert(testHash(2), "P2")

	clock.Advance(testTTL + time.Second)
	cache.Insert(testHash(3), "P3")

	if cache.Len() != 1 {
		t.Fatalf("expired entries should have been swept, len=%d", cache.Len())
	}
	if peer, ok := cache.Get(testHash(3)); !ok || peer != "P3" {
		t.Fatal("fresh entry should be present")
	}
}

func TestRouteBackZeroSizeFallsBack(t *testing.T) {
	clock := common.NewFakeClock(time.Unix(0, 0))
	cache := NewRouteBackCache(clock, 0, testTTL)

	h := testHash(1)
	cache.Insert(h, "P1")

	if peer, ok := cache.Get(h); !ok || peer != "P1" {
		t.Fatal("cache built with size 0 should still hold entries")
	}
}

func TestRouteBackOverwrite(t *testing.T) {
	clock := common.NewFakeClock(time.Unix(0, 0))
	cache := NewRouteBackCache(clock, 10, testTTL)

	h := testHash(1)
	cache.Insert(h, "P1")
	cache.Insert(h, "P1")

	if cache.Len() != 1 {
		t.Fatalf("duplicate insert should not grow the cache, len=%d", cache.Len())
	}
}
