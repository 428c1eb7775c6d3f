package database

import (
	"time"

	"zerobin/internal/item"
)

// Database is the durable store for items plus the id sequence. Lookups
// and deletes that match nothing return an error wrapping sql.ErrNoRows.
// Every operation acts on a single item, so no cross-call transaction is
// exposed.
type Database interface {
	// NextID bumps the sequence and returns a never-reused id. The id
	// stays consumed even if the caller never inserts anything.
	NextID() (int64, error)

	AddItem(it item.Item) error
	UpdateItem(it item.Item) error

	GetItemByDigest(digest string) (item.Item, error)
	// GetPublicItemByLabel never returns private items, even on an
	// exact label match.
	GetPublicItemByLabel(label string) (item.Item, error)

	DeleteItem(id int64) error
	DeleteItemByDigest(digest string) error

	// SunsetItems deletes every item whose sunset is at or before now
	// and reports how many went away. Zero matches is a no-op.
	SunsetItems(now time.Time) (int64, error)

	Close() error
}
