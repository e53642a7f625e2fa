package server

import (
	"fmt"
	"log"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/staffyard/staffyard/internal/board"
	"github.com/staffyard/staffyard/internal/dragdrop"
	"github.com/staffyard/staffyard/internal/history"
	"github.com/staffyard/staffyard/internal/store"
)

// Session is one open planning year: the live board state, its undo
// history, and the debounced autosave machinery. All access goes
// through Do, which serializes mutations — the board is single-editor
// by design, the lock only guards against concurrent HTTP requests.
type Session struct {
	Year int

	mu        sync.Mutex
	db        *gorm.DB
	state     *board.State
	history   *history.Manager
	handler   *dragdrop.Handler
	dirty     bool
	saving    bool
	saveDelay time.Duration
	timer     *time.Timer
}

func newSession(db *gorm.DB, year, historyLimit int, saveDelay time.Duration) (*Session, error) {
	st, err := store.LoadBoard(db, year)
	if err != nil {
		return nil, err
	}
	s := &Session{
		Year:      year,
		db:        db,
		state:     st,
		history:   history.NewManager(historyLimit),
		saveDelay: saveDelay,
	}
	s.handler = dragdrop.NewHandler(st, s.history, s.markDirty)
	return s, nil
}

// Do runs fn with exclusive access to the session's handler and state.
func (s *Session) Do(fn func(h *dragdrop.Handler, st *board.State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.handler, s.state)
}

// Board returns a detached copy of the current state plus undo/redo
// availability.
func (s *Session) Board() (*board.State, bool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone(), s.history.CanUndo(), s.history.CanRedo()
}

// markDirty arms (or re-arms) the autosave debounce. Called by the
// drag-drop handler while the session lock is held.
func (s *Session) markDirty() {
	s.dirty = true
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.saveDelay, s.autosave)
}

// autosave writes the board back once the debounce fires. A save
// already in flight suppresses the cycle (the dirty flag keeps the
// state scheduled); a failed save leaves the board dirty and re-arms
// the debounce so the next cycle retries.
func (s *Session) autosave() {
	s.mu.Lock()
	if s.saving || !s.dirty {
		s.mu.Unlock()
		return
	}
	s.saving = true
	s.dirty = false
	clone := s.state.Clone()
	s.mu.Unlock()

	recs, err := store.SaveBoard(s.db, clone)

	s.mu.Lock()
	s.saving = false
	if err != nil {
		s.dirty = true
		s.timer = time.AfterFunc(s.saveDelay, s.autosave)
		s.mu.Unlock()
		log.Printf("server: autosave year %d: %v", s.Year, err)
		return
	}
	s.absorb(recs)
	if s.dirty {
		// Mutated while the save was in flight; go again.
		s.timer = time.AfterFunc(s.saveDelay, s.autosave)
	}
	s.mu.Unlock()
}

// SaveNow performs a synchronous save for the manual-save and
// lane-reorder paths. When a save is already in flight the state is
// left dirty for the debounce cycle to flush.
func (s *Session) SaveNow() ([]store.Reconciliation, error) {
	s.mu.Lock()
	if s.saving {
		s.dirty = true
		s.mu.Unlock()
		return nil, nil
	}
	s.saving = true
	s.dirty = false
	clone := s.state.Clone()
	s.mu.Unlock()

	recs, err := store.SaveBoard(s.db, clone)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.saving = false
	if err != nil {
		s.dirty = true
		return nil, fmt.Errorf("server: save year %d: %w", s.Year, err)
	}
	s.absorb(recs)
	return recs, nil
}

// absorb writes save-assigned transaction ids back into the live board.
// The persisted snapshot already carries them, so absorbing does not
// dirty the state.
func (s *Session) absorb(recs []store.Reconciliation) {
	for _, rec := range recs {
		l := s.state.Lane(rec.LaneID)
		if l != nil && l.LinkedTransactionID == 0 {
			l.LinkedTransactionID = rec.TransactionID
			l.LinkedTransactionType = string(l.ChainType)
			if l.GroupNumber == "" {
				l.GroupNumber = rec.GroupNumber
			}
		}
		for id, detailID := range rec.DetailIDs {
			if r := s.state.Record(id); r != nil {
				r.SwapDetailID = detailID
				r.TransactionID = rec.TransactionID
				if l != nil {
					r.TransactionType = string(l.ChainType)
				}
			}
		}
	}
}

// Sessions hands out one Session per planning year, loading the board
// on first access.
type Sessions struct {
	mu           sync.Mutex
	db           *gorm.DB
	byYear       map[int]*Session
	historyLimit int
	saveDelay    time.Duration
}

// NewSessions creates the per-year session registry.
func NewSessions(db *gorm.DB, historyLimit int, saveDelay time.Duration) *Sessions {
	return &Sessions{
		db:           db,
		byYear:       map[int]*Session{},
		historyLimit: historyLimit,
		saveDelay:    saveDelay,
	}
}

// Get returns the session for the year, creating and loading it on
// first use.
func (m *Sessions) Get(year int) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.byYear[year]; ok {
		return s, nil
	}
	s, err := newSession(m.db, year, m.historyLimit, m.saveDelay)
	if err != nil {
		return nil, err
	}
	m.byYear[year] = s
	return s, nil
}
