package announce

import (
	"fmt"

	"github.com/dgraph-io/badger"

	cm "github.com/meshnetworks/hoproute/src/common"
)

const announcePrefix = "announce"

// AnnouncementStore is the narrow persistence interface consumed by
// the cache. Gets are consistent with the last committed Set of the
// same key; there is no ordering guarantee across keys.
type AnnouncementStore interface {
	// GetAnnouncement fetches the announcement stored for the account,
	// or nil if there is none.
	GetAnnouncement(id AccountID) (*AnnounceAccount, error)

	// SetAnnouncement stores the announcement under the account,
	// overwriting any previous one.
	SetAnnouncement(id AccountID, aa *AnnounceAccount) error
}

// BadgerStore persists announcements in a Badger database. Writes to
// the same key are atomic through Badger's transaction commit.
type BadgerStore struct {
	db   *badger.DB
	path string
}

// NewBadgerStore opens (or creates) a database at path.
func NewBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	opts.SyncWrites = false
	opts.Logger = nil
	handle, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &BadgerStore{
		db:   handle,
		path: path,
	}, nil
}

//==============================================================================
//Keys

func announceKey(id AccountID) []byte {
	return []byte(fmt.Sprintf("%s_%s", announcePrefix, id))
}

//==============================================================================
//Implement the AnnouncementStore interface

// GetAnnouncement ...
func (s *BadgerStore) GetAnnouncement(id AccountID) (*AnnounceAccount, error) {
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(announceKey(id))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})

	if err == badger.ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, cm.NewStoreErr("Announcement", cm.IOFailure, string(id))
	}

	aa := new(AnnounceAccount)
	if err := aa.Unmarshal(data); err != nil {
		return nil, cm.NewStoreErr("Announcement", cm.Corrupted, string(id))
	}

	return aa, nil
}

// SetAnnouncement ...
func (s *BadgerStore) SetAnnouncement(id AccountID, aa *AnnounceAccount) error {
	val, err := aa.Marshal()
	if err != nil {
		return err
	}

	tx := s.db.NewTransaction(true)
	defer tx.Discard()

	if err := tx.Set(announceKey(id), val); err != nil {
		return cm.NewStoreErr("Announcement", cm.IOFailure, string(id))
	}
	if err := tx.Commit(); err != nil {
		return cm.NewStoreErr("Announcement", cm.IOFailure, string(id))
	}
	return nil
}

// StorePath returns the database directory.
func (s *BadgerStore) StorePath() string {
	return s.path
}

// Close releases the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}
