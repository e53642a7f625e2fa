// Package dragdrop interprets drag-and-drop events into board state
// mutations. Every transition follows the same discipline: validate
// first, push a history snapshot of the pre-mutation state, mutate,
// recompute succession and titles for every lane whose membership
// changed, then mark the board dirty for autosave. A rejected transition
// commits nothing — not even a snapshot.
package dragdrop

import (
	"errors"
	"fmt"

	"github.com/staffyard/staffyard/internal/board"
	"github.com/staffyard/staffyard/internal/history"
	"github.com/staffyard/staffyard/internal/succession"
)

// Edge is the card edge a drop targeted.
type Edge string

const (
	EdgeTop    Edge = "top"
	EdgeBottom Edge = "bottom"
)

// LaneEdge is the lane edge a lane-reorder drop targeted.
type LaneEdge string

const (
	LaneEdgeLeft  LaneEdge = "left"
	LaneEdgeRight LaneEdge = "right"
)

var (
	// ErrLaneNotFound is returned when a transition names an unknown lane.
	ErrLaneNotFound = errors.New("dragdrop: lane not found")
	// ErrRecordNotFound is returned when a transition names an unknown record.
	ErrRecordNotFound = errors.New("dragdrop: record not found")
	// ErrLaneCompleted is returned for mutations against a finalized lane.
	ErrLaneCompleted = errors.New("dragdrop: lane is completed and read-only")
	// ErrInvalidTarget is returned when the drop target cannot anchor the
	// transition, e.g. dropping a selection onto one of its own members.
	ErrInvalidTarget = errors.New("dragdrop: invalid drop target")
)

// CapacityError rejects a transition that would exceed a lane type's
// member limit. The board state is left unchanged.
type CapacityError struct {
	ChainType board.ChainType
	Limit     int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("dragdrop: %s lane holds at most %d members", e.ChainType, e.Limit)
}

// DirectoryPerson is the slice of a directory staff entry the handler
// needs to mint a position record. The server maps storage rows into
// this shape; the core never touches the database.
type DirectoryPerson struct {
	StaffID           uint
	Name              string
	Rank              string
	PositionTitle     string
	Unit              string
	PositionCode      string
	PositionCodeLabel string
	Seniority         string
	Avatar            string
}

// Handler applies drag-drop transitions to one board session's state.
// It is not safe for concurrent use; the owning session serializes
// access.
type Handler struct {
	State   *board.State
	History *history.Manager
	// MarkDirty is invoked after every committed mutation so the
	// session can arm its debounced autosave. May be nil.
	MarkDirty func()
}

// NewHandler wires a handler over the given state and history.
func NewHandler(state *board.State, hist *history.Manager, markDirty func()) *Handler {
	return &Handler{State: state, History: hist, MarkDirty: markDirty}
}

func (h *Handler) markDirty() {
	if h.MarkDirty != nil {
		h.MarkDirty()
	}
}

// snapshot pushes the pre-mutation state. Callers must have validated
// the transition already: a snapshot of a transition that then fails
// would clear the redo stack as a side effect of a no-op.
func (h *Handler) snapshot() {
	if h.History != nil {
		h.History.Snapshot(h.State)
	}
}

// refresh recomputes succession and rederives the title for each lane
// whose membership changed, then marks the board dirty.
func (h *Handler) refresh(changed ...*board.Lane) {
	for _, l := range changed {
		succession.Recompute(l, h.State.Personnel)
		board.Retitle(l, h.State.Personnel)
	}
	h.markDirty()
}

// capacityCheck returns a CapacityError when the lane cannot accept the
// incoming ids.
func capacityCheck(l *board.Lane, incomingIDs []string) error {
	if !l.CanAccept(incomingIDs) {
		return &CapacityError{ChainType: l.ChainType, Limit: l.ChainType.Capacity()}
	}
	return nil
}

// mutableLane resolves a lane id and rejects completed lanes.
func (h *Handler) mutableLane(laneID string) (*board.Lane, error) {
	l := h.State.Lane(laneID)
	if l == nil {
		return nil, ErrLaneNotFound
	}
	if l.IsCompleted {
		return nil, ErrLaneCompleted
	}
	return l, nil
}

// newRecord mints a board placement for a directory person.
func newRecord(p DirectoryPerson) *board.PositionRecord {
	return &board.PositionRecord{
		ID:                board.NewRecordID(),
		OriginalID:        p.StaffID,
		Name:              p.Name,
		Rank:              p.Rank,
		PositionTitle:     p.PositionTitle,
		Unit:              p.Unit,
		PositionCode:      p.PositionCode,
		PositionCodeLabel: p.PositionCodeLabel,
		Seniority:         p.Seniority,
		Annotations:       board.Annotations{Avatar: p.Avatar},
	}
}

// insertAt inserts id into ids at index i (clamped to the valid range).
func insertAt(ids []string, i int, id string) []string {
	if i < 0 {
		i = 0
	}
	if i > len(ids) {
		i = len(ids)
	}
	ids = append(ids, "")
	copy(ids[i+1:], ids[i:])
	ids[i] = id
	return ids
}

// removeID removes the first occurrence of id from ids.
func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
