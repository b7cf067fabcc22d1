package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/LuckylisaBemeye/Bomahub/pkg/client"
	"github.com/LuckylisaBemeye/Bomahub/prometheus"
)

// ClientFactory builds an API client with an empty cookie jar.
type ClientFactory func() *client.Client

// Options configure a Manager.
type Options struct {
	TTL             time.Duration
	RecheckInterval time.Duration
	Logger          *zap.Logger
}

// Manager opens, persists and destroys sessions.
type Manager struct {
	store     Store
	newClient ClientFactory
	ttl       time.Duration
	recheck   time.Duration
	log       *zap.Logger
	now       func() time.Time
}

// NewManager creates a session manager backed by store.
func NewManager(store Store, newClient ClientFactory, opts Options) *Manager {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.TTL <= 0 {
		opts.TTL = 12 * time.Hour
	}
	return &Manager{
		store:     store,
		newClient: newClient,
		ttl:       opts.TTL,
		recheck:   opts.RecheckInterval,
		log:       opts.Logger,
		now:       time.Now,
	}
}

// TTL is how long an idle session is kept.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Open restores the session id from the store, or starts a new one when id is
// empty or unknown. The upstream "who am I" check runs for new sessions and for
// authenticated sessions whose last check is older than the recheck interval.
func (m *Manager) Open(ctx context.Context, id string) (*Session, error) {
	var rec *Record
	if id != "" {
		r, err := m.store.Get(ctx, id)
		switch {
		case err == nil:
			rec = r
		case errors.Is(err, ErrNotFound):
		default:
			return nil, fmt.Errorf("failed to load session: %w", err)
		}
	}

	var s *Session
	if rec != nil {
		s = newSession(rec.ID, m.newClient(), m.now)
		s.restore(rec)
		prometheus.RecordSessionOpened("restored")
	} else {
		s = newSession(uuid.NewString(), m.newClient(), m.now)
		prometheus.RecordSessionOpened("new")
	}

	if s.needsCheck(m.recheck) {
		st := s.Init(ctx)
		m.log.Debug("Session checked",
			zap.String("session_id", s.ID()),
			zap.Bool("authenticated", st.IsAuthenticated))
	}
	return s, nil
}

// Save persists the session. Sessions that are neither authenticated nor hold
// upstream cookies are not stored.
func (m *Manager) Save(ctx context.Context, s *Session) error {
	rec := s.record()
	if !rec.Authenticated && len(rec.Cookies) == 0 {
		if err := m.store.Delete(ctx, rec.ID); err != nil {
			return fmt.Errorf("failed to drop session: %w", err)
		}
		return nil
	}
	if err := m.store.Put(ctx, rec, m.ttl); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Destroy removes the session from the store.
func (m *Manager) Destroy(ctx context.Context, s *Session) error {
	if err := m.store.Delete(ctx, s.ID()); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
