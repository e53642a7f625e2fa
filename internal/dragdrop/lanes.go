package dragdrop

import (
	"fmt"

	"github.com/staffyard/staffyard/internal/board"
)

// CreateLaneOpts holds parameters for creating a lane.
type CreateLaneOpts struct {
	ChainType board.ChainType
	// Title seeds promotion/custom lanes; derived types ignore it.
	Title       string
	Anchor      *board.Anchor
	GroupNumber string
	Level       int
}

// CreateLane adds an empty lane to the end of the board. Lanes created
// from a vacancy pick carry the vacancy label as their initial title.
func (h *Handler) CreateLane(opts CreateLaneOpts) (*board.Lane, error) {
	if !opts.ChainType.Valid() {
		return nil, fmt.Errorf("dragdrop: unknown chain type %q", opts.ChainType)
	}
	l := &board.Lane{
		ID:          board.NewLaneID(),
		Title:       opts.Title,
		GroupNumber: opts.GroupNumber,
		ItemIDs:     []string{},
		ChainType:   opts.ChainType,
		Anchor:      opts.Anchor,
		Level:       opts.Level,
	}
	if l.Title == "" && l.Anchor != nil && l.Anchor.Kind == board.AnchorVacancy && l.Anchor.Vacancy != nil {
		l.Title = l.Anchor.Vacancy.Label
	}

	h.snapshot()
	board.Retitle(l, h.State.Personnel)
	h.State.Lanes = append(h.State.Lanes, l)
	h.markDirty()
	return l, nil
}

// DeleteLane removes the lane and destroys its member records. It
// returns the id of the backing transaction, if any, so the caller can
// delete the persisted row (idempotently) as well. Completed lanes can
// be deleted; their read-only rule covers membership mutation only.
func (h *Handler) DeleteLane(laneID string) (uint, error) {
	l := h.State.Lane(laneID)
	if l == nil {
		return 0, ErrLaneNotFound
	}

	h.snapshot()
	for _, id := range l.ItemIDs {
		delete(h.State.Personnel, id)
	}
	kept := make([]*board.Lane, 0, len(h.State.Lanes))
	for _, other := range h.State.Lanes {
		if other.ID != laneID {
			kept = append(kept, other)
		}
	}
	h.State.Lanes = kept
	h.markDirty()

	txID := l.LinkedTransactionID
	if txID == 0 && l.Anchor != nil && l.Anchor.Kind == board.AnchorTransaction && l.Anchor.Transaction != nil {
		txID = l.Anchor.Transaction.TransactionID
	}
	return txID, nil
}

// CompleteLane finalizes the lane. Completed lanes reject all further
// membership mutation and are filtered into their own view client-side.
func (h *Handler) CompleteLane(laneID string) (*board.Lane, error) {
	l, err := h.mutableLane(laneID)
	if err != nil {
		return nil, err
	}

	h.snapshot()
	l.IsCompleted = true
	h.markDirty()
	return l, nil
}

// InsertPlaceholder appends a placeholder record reserving a slot at
// the end of the lane, subject to the usual capacity rule. The
// placeholder participates in succession like any member but hands
// nothing down.
func (h *Handler) InsertPlaceholder(laneID string) (*board.PositionRecord, error) {
	l, err := h.mutableLane(laneID)
	if err != nil {
		return nil, err
	}
	rec := &board.PositionRecord{
		ID:            board.NewRecordID(),
		IsPlaceholder: true,
	}
	if err := capacityCheck(l, []string{rec.ID}); err != nil {
		return nil, err
	}

	h.snapshot()
	h.State.Personnel[rec.ID] = rec
	l.ItemIDs = append(l.ItemIDs, rec.ID)
	h.refresh(l)
	return rec, nil
}
