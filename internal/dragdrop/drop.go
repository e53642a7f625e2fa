package dragdrop

import (
	"github.com/staffyard/staffyard/internal/board"
)

// DropFromDirectory handles a directory person dropped onto a lane body:
// a fresh position record is appended to the lane's member list.
func (h *Handler) DropFromDirectory(p DirectoryPerson, laneID string) (*board.PositionRecord, error) {
	l, err := h.mutableLane(laneID)
	if err != nil {
		return nil, err
	}
	rec := newRecord(p)
	if err := capacityCheck(l, []string{rec.ID}); err != nil {
		return nil, err
	}

	h.snapshot()
	h.State.Personnel[rec.ID] = rec
	l.ItemIDs = append(l.ItemIDs, rec.ID)

	// Two-way immediate pairing: completing a swap pair cross-references
	// both members in the same transition, so the existing member's
	// record is updated together with the insertion.
	if l.ChainType == board.ChainSwap && len(l.ItemIDs) == 2 {
		h.pairSwap(l)
		h.markDirty()
		return rec, nil
	}

	h.refresh(l)
	return rec, nil
}

// DropFromDirectoryAt handles a directory person dropped onto a specific
// card. A placeholder target is replaced in place: the new record takes
// over the placeholder's slot, destination, and transaction linkage.
// Any other target means insertion at the target's index (below it for a
// bottom-edge drop).
func (h *Handler) DropFromDirectoryAt(p DirectoryPerson, laneID, targetID string, edge Edge) (*board.PositionRecord, error) {
	l, err := h.mutableLane(laneID)
	if err != nil {
		return nil, err
	}
	idx := l.IndexOf(targetID)
	if idx < 0 {
		return nil, ErrRecordNotFound
	}
	target := h.State.Record(targetID)
	if target == nil {
		return nil, ErrRecordNotFound
	}

	if target.IsPlaceholder {
		rec := newRecord(p)
		rec.Destination = target.Destination
		rec.SwapDetailID = target.SwapDetailID
		rec.TransactionID = target.TransactionID
		rec.TransactionType = target.TransactionType

		h.snapshot()
		delete(h.State.Personnel, targetID)
		h.State.Personnel[rec.ID] = rec
		l.ItemIDs[idx] = rec.ID
		h.refresh(l)
		return rec, nil
	}

	rec := newRecord(p)
	if err := capacityCheck(l, []string{rec.ID}); err != nil {
		return nil, err
	}
	if edge == EdgeBottom {
		idx++
	}

	h.snapshot()
	h.State.Personnel[rec.ID] = rec
	l.ItemIDs = insertAt(l.ItemIDs, idx, rec.ID)
	h.refresh(l)
	return rec, nil
}

// pairSwap is the two-way immediate pairing shortcut: both members of a
// just-completed swap pair get each other's current slot and the lane
// title is set, without waiting for a generic recompute pass.
func (h *Handler) pairSwap(l *board.Lane) {
	a := h.State.Record(l.ItemIDs[0])
	b := h.State.Record(l.ItemIDs[1])
	if a == nil || b == nil {
		return
	}
	a.Destination = b.CurrentPosition()
	b.Destination = a.CurrentPosition()
	board.Retitle(l, h.State.Personnel)
}
