package storage

import "errors"

// ErrNotFound is returned when no blob exists under the requested key
var ErrNotFound = errors.New("blob not found")

// Well-known blob keys. The whole application state lives under two keys
// with read-whole/write-whole semantics.
const (
	ProgressKey = "progress"
	SettingsKey = "settings"
)

// Store is the persistence boundary: a key-value blob store. A write
// replaces the entire blob; there is no partial-write protocol.
type Store interface {
	ReadBlob(key string) ([]byte, error)
	WriteBlob(key string, blob []byte) error
}
