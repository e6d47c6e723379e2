// Package session holds per-session in-memory state: the raw expense ledger
// and the configured monthly budget. State lives for the duration of a
// session and is never persisted.
package session

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"expensedash/internal/models"
)

// CookieName carries the session ID between requests
const CookieName = "expense_session"

// Session owns one user's ledger and budget. The ledger is append-only;
// version increments on every mutation so the cleaning transform can be
// memoized by content identity.
type Session struct {
	ID string

	mu       sync.Mutex
	ledger   []models.ExpenseRecord
	budget   float64
	version  uint64
	lastSeen time.Time

	// Memoized cleaning result, keyed by ledger version. An optimization
	// only: results are identical with or without it.
	cleaned        []models.ExpenseRecord
	cleanedVersion uint64
	hasCleaned     bool
}

// Append adds records to the end of the ledger
func (s *Session) Append(records ...models.ExpenseRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ledger = append(s.ledger, records...)
	s.version++
}

// Ledger returns a copy of the raw ledger in insertion order
func (s *Session) Ledger() []models.ExpenseRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.ExpenseRecord, len(s.ledger))
	copy(out, s.ledger)
	return out
}

// SetBudget overwrites the monthly budget wholesale
func (s *Session) SetBudget(budget float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.budget = budget
}

// Budget returns the configured monthly budget (0 = no budget set)
func (s *Session) Budget() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.budget
}

// Version returns the current ledger version
func (s *Session) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.version
}

// Restore replaces the ledger and budget wholesale (snapshot restore)
func (s *Session) Restore(ledger []models.ExpenseRecord, budget float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ledger = make([]models.ExpenseRecord, len(ledger))
	copy(s.ledger, ledger)
	s.budget = budget
	s.version++
}

// Cleaned returns the cleaned ledger, applying the given pure transform to
// the raw ledger. The result is cached until the ledger version changes.
func (s *Session) Cleaned(clean func([]models.ExpenseRecord) []models.ExpenseRecord) []models.ExpenseRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasCleaned || s.cleanedVersion != s.version {
		raw := make([]models.ExpenseRecord, len(s.ledger))
		copy(raw, s.ledger)

		s.cleaned = clean(raw)
		s.cleanedVersion = s.version
		s.hasCleaned = true
	}

	out := make([]models.ExpenseRecord, len(s.cleaned))
	copy(out, s.cleaned)
	return out
}

// touch updates the last-seen time for expiry tracking
func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastSeen = now
}

// expiredAt reports whether the session has been idle longer than ttl
func (s *Session) expiredAt(now time.Time, ttl time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return now.Sub(s.lastSeen) > ttl
}

// Manager creates and tracks sessions by cookie ID. Idle sessions are
// dropped after the configured TTL; their state is gone for good.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
}

// NewManager creates a session manager with the given idle TTL
func NewManager(ttl time.Duration) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		ttl:      ttl,
	}
}

// Get returns the session for the request, creating one (and setting the
// session cookie) on first touch.
func (m *Manager) Get(w http.ResponseWriter, r *http.Request) *Session {
	now := time.Now()
	m.sweep(now)

	if c, err := r.Cookie(CookieName); err == nil {
		if s := m.lookup(c.Value); s != nil {
			s.touch(now)
			return s
		}
	}

	s := &Session{
		ID:       uuid.NewString(),
		lastSeen: now,
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    s.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return s
}

// Count returns the number of live sessions
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.sessions)
}

func (m *Manager) lookup(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.sessions[id]
}

// sweep drops sessions idle past the TTL
func (m *Manager) sweep(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, s := range m.sessions {
		if s.expiredAt(now, m.ttl) {
			delete(m.sessions, id)
		}
	}
}
