// Package announce tracks which peer hosts which account.
//
// An AnnounceAccount is a signed claim, produced and validated
// upstream, that an account is hosted by a peer during an epoch. The
// Cache keeps the freshest announcement per account in a bounded LRU
// map, together with a second LRU map recording which announcements
// were already gossiped, so that the same announcement is not broadcast
// twice.
//
// Announcements are also persisted through an AnnouncementStore. Writes
// are best-effort: if the store fails the in-memory state is already
// correct and the network will replay the announcement, so the error is
// only logged. Reads are authoritative on a cache miss: an announcement
// found on disk is installed into the cache before being returned.
package announce
