package storage

import (
	"time"

	"ura-xlaw/internal/domain"
)

// Record is the client state that survives a restart: the bearer token and
// the profile it belongs to.
type Record struct {
	Token   string      `json:"token"`
	User    domain.User `json:"user"`
	SavedAt time.Time   `json:"saved_at"`
}

// Store persists the session record
type Store interface {
	// Load returns the saved record, or ok=false when nothing is saved
	Load() (rec Record, ok bool, err error)
	Save(rec Record) error
	Clear() error
}
