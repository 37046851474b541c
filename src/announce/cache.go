package announce

import (
	"sync"

	"github.com/hashicorp/golang-lru/simplelru"
	"github.com/sirupsen/logrus"

	"github.com/meshnetworks/hoproute/src/routing"
)

// Cache is the in-memory account-to-peer announcement cache, layered
// on top of an AnnouncementStore. It keeps two independent LRU maps:
// accountPeers, holding the freshest known announcement per account,
// and accountPeersBroadcasted, recording which announcements were
// already gossiped so they are not broadcast twice.
//
// The broadcast map is a subset in spirit, not in storage: accountPeers
// may hold entries that were never broadcast because they were loaded
// lazily from the store.
//
// The cache performs no epoch comparison. Validation happens upstream;
// whatever AddAccounts is fed last for an account wins.
type Cache struct {
	sync.Mutex

	accountPeers            *simplelru.LRU
	accountPeersBroadcasted *simplelru.LRU
	store                   AnnouncementStore
	logger                  *logrus.Entry
}

// defaultCacheSize bounds the two maps when the configured size is not
// a valid capacity. simplelru refuses to build a zero-capacity cache.
const defaultCacheSize = 10000

// NewCache creates a Cache bounded to size entries per map, backed by
// store. A non-positive size falls back to defaultCacheSize.
func NewCache(store AnnouncementStore, size int, logger *logrus.Entry) *Cache {
	if size <= 0 {
		size = defaultCacheSize
	}
	accountPeers, _ := simplelru.NewLRU(size, nil)
	accountPeersBroadcasted, _ := simplelru.NewLRU(size, nil)
	return &Cache{
		accountPeers:            accountPeers,
		accountPeersBroadcasted: accountPeersBroadcasted,
		store:                   store,
		logger:                  logger,
	}
}

// AddAccounts inserts announcements and returns the broadcast delta:
// exactly those announcements, in input order, that the caller must
// gossip onward. Announcements whose (account, epoch) pair was already
// broadcast are skipped. Every accepted announcement is written to the
// store best-effort; a store failure is logged and does not fail the
// call because the in-memory state already reflects the update and the
// network will replay the announcement.
func (c *Cache) AddAccounts(aas []*AnnounceAccount) []*AnnounceAccount {
	c.Lock()
	defer c.Unlock()

	res := []*AnnounceAccount{}
	for _, aa := range aas {
		if prev, ok := c.accountPeersBroadcasted.Get(aa.AccountID); ok {
			if prev.(*AnnounceAccount).EpochID == aa.EpochID {
				continue
			}
		}

		c.accountPeers.Add(aa.AccountID, aa)
		c.accountPeersBroadcasted.Add(aa.AccountID, aa)

		if err := c.store.SetAnnouncement(aa.AccountID, aa); err != nil {
			c.logger.WithError(err).WithField("account", aa.AccountID).
				Warn("Saving announcement to store")
		}

		res = append(res, aa)
	}
	return res
}

// GetAccountOwner returns the peer hosting the account, per the
// freshest known announcement. The cache is consulted first, then the
// store; a store hit populates the cache. A store error is treated as
// a miss.
func (c *Cache) GetAccountOwner(id AccountID) (routing.PeerID, bool) {
	c.Lock()
	defer c.Unlock()

	aa := c.getAnnouncement(id)
	if aa == nil {
		return "", false
	}
	return aa.PeerID, true
}

// getAnnouncement must be called with the lock held. Holding the lock
// across the store read keeps the miss-then-populate sequence atomic
// with respect to a concurrent AddAccounts.
func (c *Cache) getAnnouncement(id AccountID) *AnnounceAccount {
	if v, ok := c.accountPeers.Get(id); ok {
		return v.(*AnnounceAccount)
	}

	aa, err := c.store.GetAnnouncement(id)
	if err != nil {
		c.logger.WithError(err).WithField("account", id).
			Warn("Loading announcement from store")
		return nil
	}
	if aa == nil {
		return nil
	}

	c.accountPeers.Add(id, aa)
	return aa
}

// GetAccountsKeys returns a snapshot of the account ids currently in
// the cache.
func (c *Cache) GetAccountsKeys() []AccountID {
	c.Lock()
	defer c.Unlock()

	keys := c.accountPeers.Keys()
	res := make([]AccountID, len(keys))
	for i, k := range keys {
		res[i] = k.(AccountID)
	}
	return res
}

// GetAnnouncements returns a snapshot of the announcements currently
// in the cache.
func (c *Cache) GetAnnouncements() []*AnnounceAccount {
	c.Lock()
	defer c.Unlock()

	keys := c.accountPeers.Keys()
	res := make([]*AnnounceAccount, 0, len(keys))
	for _, k := range keys {
		if v, ok := c.accountPeers.Peek(k); ok {
			res = append(res, v.(*AnnounceAccount))
		}
	}
	return res
}

// GetBroadcastedAnnouncements returns, for each requested account id,
// the announcement that was already broadcast, if any.
func (c *Cache) GetBroadcastedAnnouncements(ids []AccountID) map[AccountID]*AnnounceAccount {
	c.Lock()
	defer c.Unlock()

	res := make(map[AccountID]*AnnounceAccount)
	for _, id := range ids {
		if v, ok := c.accountPeersBroadcasted.Get(id); ok {
			res[id] = v.(*AnnounceAccount)
		}
	}
	return res
}
