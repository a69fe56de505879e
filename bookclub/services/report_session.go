package services

import (
	"context"
	"sync"
	"time"
)

// SessionState is the explicit position of a user inside the /report
// conversation. Every component interaction validates against it instead
// of guessing from message content.
type SessionState int

const (
	// StateSelectingBook: the book picker is showing.
	StateSelectingBook SessionState = iota
	// StateEnteringPages: a book is chosen, the page-count modal is open.
	StateEnteringPages
	// StateConfirming: at least one entry collected, summary shown with
	// add-another / submit buttons.
	StateConfirming
)

// ReportEntry is one book's claimed page count within a session.
type ReportEntry struct {
	UserBookID int64
	Pages      int
}

// ReportSession collects entries across the multi-step /report exchange.
// It belongs to exactly one user; component handlers must check ownership.
type ReportSession struct {
	UserID    string
	State     SessionState
	Pending   int64 // user-book awaiting a page count, valid in StateEnteringPages
	Entries   []ReportEntry
	StartedAt time.Time
	UpdatedAt time.Time
}

// ReportSessionManager holds at most one live session per user. Sessions
// expire after the timeout so an abandoned modal never wedges the user.
type ReportSessionManager struct {
	sessions sync.Map
	timeout  time.Duration
}

func NewReportSessionManager(timeout time.Duration) *ReportSessionManager {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &ReportSessionManager{timeout: timeout}
}

// Begin opens a fresh session for the user. Returns false when one is
// already live; the user has to finish or let it expire.
func (m *ReportSessionManager) Begin(userID string) (*ReportSession, bool) {
	now := time.Now()
	s := &ReportSession{
		UserID:    userID,
		State:     StateSelectingBook,
		StartedAt: now,
		UpdatedAt: now,
	}
	if existing, loaded := m.sessions.LoadOrStore(userID, s); loaded {
		if !m.expired(existing.(*ReportSession), now) {
			return nil, false
		}
		m.sessions.Store(userID, s)
	}
	return s, true
}

// Get returns the user's live session, nil when there is none or it expired.
func (m *ReportSessionManager) Get(userID string) *ReportSession {
	v, ok := m.sessions.Load(userID)
	if !ok {
		return nil
	}
	s := v.(*ReportSession)
	if m.expired(s, time.Now()) {
		m.sessions.Delete(userID)
		return nil
	}
	return s
}

// SelectBook transitions SelectingBook -> EnteringPages. Returns false on
// any other state.
func (m *ReportSessionManager) SelectBook(userID string, userBookID int64) bool {
	s := m.Get(userID)
	if s == nil || s.State != StateSelectingBook {
		return false
	}
	s.Pending = userBookID
	s.State = StateEnteringPages
	s.UpdatedAt = time.Now()
	return true
}

// RecordPages transitions EnteringPages -> Confirming, appending the entry.
func (m *ReportSessionManager) RecordPages(userID string, pages int) bool {
	s := m.Get(userID)
	if s == nil || s.State != StateEnteringPages || pages <= 0 {
		return false
	}
	s.Entries = append(s.Entries, ReportEntry{UserBookID: s.Pending, Pages: pages})
	s.Pending = 0
	s.State = StateConfirming
	s.UpdatedAt = time.Now()
	return true
}

// AddAnother transitions Confirming -> SelectingBook for a further entry.
func (m *ReportSessionManager) AddAnother(userID string) bool {
	s := m.Get(userID)
	if s == nil || s.State != StateConfirming {
		return false
	}
	s.State = StateSelectingBook
	s.UpdatedAt = time.Now()
	return true
}

// Take closes the session and hands its entries to the caller for
// submission. Only valid in Confirming.
func (m *ReportSessionManager) Take(userID string) ([]ReportEntry, bool) {
	s := m.Get(userID)
	if s == nil || s.State != StateConfirming {
		return nil, false
	}
	m.sessions.Delete(userID)
	return s.Entries, true
}

// Cancel drops the user's session regardless of state.
func (m *ReportSessionManager) Cancel(userID string) {
	m.sessions.Delete(userID)
}

func (m *ReportSessionManager) expired(s *ReportSession, now time.Time) bool {
	return now.Sub(s.UpdatedAt) > m.timeout
}

// StartCleanupRoutine sweeps expired sessions until ctx is done.
func (m *ReportSessionManager) StartCleanupRoutine(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				m.sessions.Range(func(key, value interface{}) bool {
					if m.expired(value.(*ReportSession), now) {
						m.sessions.Delete(key)
					}
					return true
				})
			}
		}
	}()
}
