// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package session tracks which participant each client is editing.
package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

const CookieName = "tripboard_session"

const (
	DefaultMaxAge      = 30 * 24 * time.Hour
	DefaultMaxSessions = 10000
)

var ErrInvalidToken = errors.New("invalid session token")

// Session is one client's explicit application state.
type Session struct {
	ID       string
	ActiveID string // "" until the client picks a participant
}

// Manager keeps sessions in memory, keyed by a signed cookie. Sessions
// idle for longer than maxAge are dropped, and the least recently used
// one goes first once the cache is full.
type Manager struct {
	salt   string
	maxAge time.Duration

	mu       sync.Mutex
	sessions *expirable.LRU[string, *Session]
}

type Option func(*config)

type config struct {
	maxAge      time.Duration
	maxSessions int
}

// WithMaxAge sets both the cookie lifetime and the idle expiry.
func WithMaxAge(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.maxAge = d
		}
	}
}

func WithMaxSessions(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxSessions = n
		}
	}
}

func NewManager(salt string, opts ...Option) *Manager {
	c := config{maxAge: DefaultMaxAge, maxSessions: DefaultMaxSessions}
	for _, opt := range opts {
		opt(&c)
	}
	return &Manager{
		salt:     salt,
		maxAge:   c.maxAge,
		sessions: expirable.NewLRU[string, *Session](c.maxSessions, nil, c.maxAge),
	}
}

// Len reports how many sessions are held.
func (m *Manager) Len() int {
	return m.sessions.Len()
}

// FromRequest returns the session named by the request cookie, starting a
// new one (and setting the cookie) when it is missing or invalid.
func (m *Manager) FromRequest(w http.ResponseWriter, r *http.Request) Session {
	if c, err := r.Cookie(CookieName); err == nil {
		if id, err := VerifyToken(c.Value, m.salt); err == nil {
			return m.get(id)
		}
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    SignToken(id, m.salt),
		Path:     "/",
		MaxAge:   int(m.maxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return m.get(id)
}

// Select sets the active participant id of session id.
func (m *Manager) Select(id, participantID string) Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.lookup(id)
	s.ActiveID = participantID
	return *s
}

func (m *Manager) get(id string) Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.lookup(id)
}

// lookup returns the session for id, creating it if it expired or never
// existed. Re-adding it restarts the idle clock. Caller holds m.mu.
func (m *Manager) lookup(id string) *Session {
	s, ok := m.sessions.Get(id)
	if !ok {
		s = &Session{ID: id}
	}
	m.sessions.Add(id, s)
	return s
}

// SignToken returns "<id>.<hmac>" for use as a cookie value.
func SignToken(id, salt string) string {
	return id + "." + signature(id, salt)
}

// VerifyToken checks a token from SignToken and returns its id.
func VerifyToken(token, salt string) (string, error) {
	id, sig, ok := strings.Cut(token, ".")
	if !ok || id == "" {
		return "", ErrInvalidToken
	}
	if !hmac.Equal([]byte(sig), []byte(signature(id, salt))) {
		return "", ErrInvalidToken
	}
	return id, nil
}

func signature(id, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(id))
	// Use URL-safe base64 and trim padding for cleaner cookies
	return strings.TrimRight(base64.URLEncoding.EncodeToString(h.Sum(nil)), "=")
}
