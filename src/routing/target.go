package routing

import (
	"encoding/hex"
	"fmt"
)

// PeerID is the opaque stable identifier of a network participant.
type PeerID string

// HashSize is the width of a content hash in bytes.
const HashSize = 32

// Hash is a fixed-width content hash identifying a routed request.
type Hash [HashSize]byte

// HashFromBytes copies data into a Hash. Input longer than HashSize is
// truncated, shorter input is zero-padded.
func HashFromBytes(data []byte) Hash {
	var h Hash
	copy(h[:], data)
	return h
}

// Hex ...
func (h Hash) Hex() string {
	return "0x" + hex.EncodeToString(h[:])
}

// Target designates where a routed message should go: either a peer,
// for forward routing over the next-hop table, or the hash of a
// previously received request, for routing a reply back along the
// inverse path.
type Target struct {
	peerID PeerID
	hash   Hash
	isHash bool
}

// PeerTarget returns a Target addressing a peer.
func PeerTarget(id PeerID) Target {
	return Target{peerID: id}
}

// HashTarget returns a Target addressing the origin of a request hash.
func HashTarget(h Hash) Target {
	return Target{hash: h, isHash: true}
}

// IsHash reports whether the target is a request hash.
func (t Target) IsHash() bool {
	return t.isHash
}

// PeerID returns the addressed peer. Only meaningful when IsHash is
// false.
func (t Target) PeerID() PeerID {
	return t.peerID
}

// Hash returns the addressed request hash. Only meaningful when IsHash
// is true.
func (t Target) Hash() Hash {
	return t.hash
}

// String ...
func (t Target) String() string {
	if t.isHash {
		return fmt.Sprintf("Hash(%s)", t.hash.Hex())
	}
	return fmt.Sprintf("PeerID(%s)", t.peerID)
}
