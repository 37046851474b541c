package announce

import (
	"bytes"

	"github.com/ugorji/go/codec"

	"github.com/meshnetworks/hoproute/src/routing"
)

// AccountID is the opaque stable identifier of an account.
type AccountID string

// EpochID identifies the consensus interval an announcement is scoped
// to. It is opaque to the routing core.
type EpochID string

// AnnounceAccount is a signed claim that an account is hosted by a
// peer during an epoch. It is produced and validated upstream and
// immutable once constructed; the signature is carried as opaque
// bytes.
type AnnounceAccount struct {
	AccountID AccountID
	PeerID    routing.PeerID
	EpochID   EpochID
	Signature []byte
}

// Marshal returns the canonical JSON encoding of the announcement.
func (a *AnnounceAccount) Marshal() ([]byte, error) {
	b := new(bytes.Buffer)

	jh := new(codec.JsonHandle)
	jh.Canonical = true
	enc := codec.NewEncoder(b, jh)

	if err := enc.Encode(a); err != nil {
		return nil, err
	}

	return b.Bytes(), nil
}

// Unmarshal parses a canonical JSON encoded announcement.
func (a *AnnounceAccount) Unmarshal(data []byte) error {
	b := bytes.NewBuffer(data)

	jh := new(codec.JsonHandle)
	jh.Canonical = true
	dec := codec.NewDecoder(b, jh)

	return dec.Decode(a)
}
