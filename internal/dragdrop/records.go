package dragdrop

import "github.com/staffyard/staffyard/internal/board"

// RemoveCard takes a record off the board: it leaves its lane and is
// destroyed. The selection is pruned if it referenced the record.
func (h *Handler) RemoveCard(recordID string) error {
	if h.State.Record(recordID) == nil {
		return ErrRecordNotFound
	}
	l := h.State.LaneOf(recordID)
	if l == nil {
		return ErrRecordNotFound
	}
	if l.IsCompleted {
		return ErrLaneCompleted
	}

	h.snapshot()
	l.ItemIDs = removeID(l.ItemIDs, recordID)
	delete(h.State.Personnel, recordID)
	h.State.SelectedIDs = removeID(h.State.SelectedIDs, recordID)
	h.refresh(l)
	return nil
}

// UpdateAnnotations replaces a record's planner-editable annotation
// fields. Annotations are independent of succession, so no recompute
// runs, but the change is undoable and marks the board dirty.
func (h *Handler) UpdateAnnotations(recordID string, ann board.Annotations) error {
	rec := h.State.Record(recordID)
	if rec == nil {
		return ErrRecordNotFound
	}

	h.snapshot()
	rec.Annotations = ann
	h.markDirty()
	return nil
}

// RenameRecord changes a record's display name and patches the titles
// of lanes that reference it.
func (h *Handler) RenameRecord(recordID, name string) error {
	rec := h.State.Record(recordID)
	if rec == nil {
		return ErrRecordNotFound
	}

	h.snapshot()
	rec.Name = name
	h.State.RetitleFor(recordID)
	h.markDirty()
	return nil
}

// SetSelection replaces the active multi-selection. Selection changes
// are not mutations of record state: they push no snapshot and do not
// dirty the board, but the selection is captured inside snapshots taken
// for real mutations.
func (h *Handler) SetSelection(ids []string) {
	kept := make([]string, 0, len(ids))
	for _, id := range ids {
		if h.State.Record(id) != nil {
			kept = append(kept, id)
		}
	}
	h.State.SelectedIDs = kept
}

// Undo restores the most recent past snapshot. Returns false when there
// is nothing to undo.
func (h *Handler) Undo() bool {
	if h.History == nil {
		return false
	}
	prev := h.History.Undo(h.State)
	if prev == nil {
		return false
	}
	h.restore(prev)
	return true
}

// Redo restores the state prior to the last undo. Returns false when
// there is nothing to redo.
func (h *Handler) Redo() bool {
	if h.History == nil {
		return false
	}
	next := h.History.Redo(h.State)
	if next == nil {
		return false
	}
	h.restore(next)
	return true
}

// restore replaces the live state's contents in place so every holder
// of the *State pointer observes the restored board.
func (h *Handler) restore(st *board.State) {
	year := h.State.Year
	*h.State = *st
	h.State.Year = year
	h.markDirty()
}
