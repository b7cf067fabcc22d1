// Package session keeps the per-browser authentication state of the console
// and the upstream cookies that back it.
package session

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/LuckylisaBemeye/Bomahub/internal/model"
	"github.com/LuckylisaBemeye/Bomahub/pkg/client"
	"github.com/LuckylisaBemeye/Bomahub/prometheus"
)

// State is a read-only snapshot of a session.
type State struct {
	IsAuthenticated bool
	User            *model.User
	IsLoading       bool
}

// HasRole reports whether the signed-in user holds at least min.
func (s State) HasRole(min model.Role) bool {
	return s.IsAuthenticated && s.User != nil && s.User.Role.AtLeast(min)
}

// Session is the authentication context of one browser. It owns an API client
// whose cookie jar carries the upstream session.
type Session struct {
	mu        sync.Mutex
	id        string
	api       *client.Client
	state     State
	checkedAt time.Time
	now       func() time.Time
}

func newSession(id string, api *client.Client, now func() time.Time) *Session {
	return &Session{
		id:    id,
		api:   api,
		state: State{IsLoading: true},
		now:   now,
	}
}

// ID is the console session id.
func (s *Session) ID() string {
	return s.id
}

// API returns the client bound to this session's upstream cookies.
func (s *Session) API() *client.Client {
	return s.api
}

// State returns the current snapshot.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// CheckedAt is when the upstream session was last confirmed.
func (s *Session) CheckedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkedAt
}

// Init asks the API who the current user is. Any failure leaves the session
// unauthenticated; it is never reported as an error.
func (s *Session) Init(ctx context.Context) State {
	user, err := s.api.Me(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkedAt = s.now()
	if err != nil {
		s.state = State{}
	} else {
		s.state = State{IsAuthenticated: true, User: user}
	}
	prometheus.RecordSessionRecheck(s.state.IsAuthenticated)
	return s.state
}

// Login authenticates with the API and then refreshes the user from the
// "who am I" endpoint when it answers.
func (s *Session) Login(ctx context.Context, cred client.Credentials) (*model.User, error) {
	user, err := s.api.Login(ctx, cred)
	if err != nil {
		return nil, err
	}
	if me, err := s.api.Me(ctx); err == nil && me.Username != "" {
		user = me
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = State{IsAuthenticated: true, User: user}
	s.checkedAt = s.now()
	return user, nil
}

// Logout ends the upstream session. Local state is cleared even when the API
// call fails; the error is returned for display.
func (s *Session) Logout(ctx context.Context) error {
	err := s.api.Logout(ctx)
	s.Invalidate()
	return err
}

// Invalidate drops the local authentication state and upstream cookies.
func (s *Session) Invalidate() {
	s.api.ResetCookies()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = State{}
	s.checkedAt = time.Time{}
}

// needsCheck reports whether Init must run before the session is trusted.
func (s *Session) needsCheck(interval time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.IsLoading {
		return true
	}
	return s.state.IsAuthenticated && s.now().Sub(s.checkedAt) >= interval
}

func (s *Session) record() *Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := &Record{
		ID:            s.id,
		Authenticated: s.state.IsAuthenticated,
		User:          s.state.User,
		CheckedAt:     s.checkedAt,
	}
	for _, c := range s.api.Cookies() {
		rec.Cookies = append(rec.Cookies, Cookie{Name: c.Name, Value: c.Value})
	}
	return rec
}

func (s *Session) restore(rec *Record) {
	cookies := make([]*http.Cookie, 0, len(rec.Cookies))
	for _, c := range rec.Cookies {
		cookies = append(cookies, &http.Cookie{Name: c.Name, Value: c.Value, Path: "/"})
	}
	s.api.SetCookies(cookies)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = State{IsAuthenticated: rec.Authenticated, User: rec.User}
	if !rec.Authenticated {
		s.state.User = nil
	}
	s.checkedAt = rec.CheckedAt
}
