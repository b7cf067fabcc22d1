package session

import (
	"context"
	"errors"
	"time"

	"github.com/LuckylisaBemeye/Bomahub/internal/model"
)

// ErrNotFound is returned by a Store when the session does not exist or has expired.
var ErrNotFound = errors.New("session not found")

// Cookie is an upstream cookie kept for a session.
type Cookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Record is the persisted form of a Session.
type Record struct {
	ID            string      `json:"id"`
	Cookies       []Cookie    `json:"cookies,omitempty"`
	Authenticated bool        `json:"authenticated"`
	User          *model.User `json:"user,omitempty"`
	CheckedAt     time.Time   `json:"checkedAt"`
}

// Store persists session records. Implementations are safe for concurrent use.
type Store interface {
	Get(ctx context.Context, id string) (*Record, error)
	Put(ctx context.Context, rec *Record, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
	Close() error
}
