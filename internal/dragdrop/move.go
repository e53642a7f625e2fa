package dragdrop

import "github.com/staffyard/staffyard/internal/board"

// MoveCard handles a card dragged onto a lane body (targetID empty) or
// onto a specific card edge. The move may be a reorder within the same
// lane or a cross-lane move. When a multi-selection is active and the
// dragged card belongs to it, the whole selection moves together in
// board order, landing contiguously at the drop point.
func (h *Handler) MoveCard(cardID, targetLaneID, targetID string, edge Edge) error {
	dest, err := h.mutableLane(targetLaneID)
	if err != nil {
		return err
	}

	moving := h.movingSet(cardID)
	if len(moving) == 0 {
		return ErrRecordNotFound
	}
	movingSet := make(map[string]bool, len(moving))
	for _, id := range moving {
		if h.State.Record(id) == nil {
			return ErrRecordNotFound
		}
		movingSet[id] = true
	}
	if targetID != "" && movingSet[targetID] {
		return ErrInvalidTarget
	}

	// Source lanes must be mutable too: completed lanes are read-only
	// in both directions.
	sources := map[string]*board.Lane{}
	for _, id := range moving {
		src := h.State.LaneOf(id)
		if src == nil {
			return ErrRecordNotFound
		}
		if src.IsCompleted {
			return ErrLaneCompleted
		}
		sources[src.ID] = src
	}

	if err := capacityCheck(dest, moving); err != nil {
		return err
	}

	// Resolve the insertion point against the destination's member list
	// with the moving ids already removed, so indices are stable no
	// matter where the moved cards came from.
	remaining := make([]string, 0, len(dest.ItemIDs))
	for _, id := range dest.ItemIDs {
		if !movingSet[id] {
			remaining = append(remaining, id)
		}
	}
	idx := len(remaining)
	if targetID != "" {
		found := false
		for i, id := range remaining {
			if id == targetID {
				idx = i
				found = true
				break
			}
		}
		if !found {
			return ErrInvalidTarget
		}
		if edge == EdgeBottom {
			idx++
		}
	}

	h.snapshot()
	for _, src := range sources {
		kept := make([]string, 0, len(src.ItemIDs))
		for _, id := range src.ItemIDs {
			if !movingSet[id] {
				kept = append(kept, id)
			}
		}
		src.ItemIDs = kept
	}
	dest.ItemIDs = remaining
	for i, id := range moving {
		dest.ItemIDs = insertAt(dest.ItemIDs, idx+i, id)
	}

	changed := make([]*board.Lane, 0, len(sources)+1)
	for _, src := range sources {
		if src != dest {
			changed = append(changed, src)
		}
	}
	changed = append(changed, dest)
	h.refresh(changed...)
	return nil
}

// movingSet resolves which record ids a drag of cardID carries: the
// active selection when the dragged card is part of it, otherwise just
// the card itself. Selection members are ordered by their position on
// the board so the group keeps its relative order at the drop point.
func (h *Handler) movingSet(cardID string) []string {
	selected := make(map[string]bool, len(h.State.SelectedIDs))
	for _, id := range h.State.SelectedIDs {
		selected[id] = true
	}
	if !selected[cardID] {
		return []string{cardID}
	}
	var out []string
	for _, l := range h.State.Lanes {
		for _, id := range l.ItemIDs {
			if selected[id] {
				out = append(out, id)
			}
		}
	}
	return out
}

// ReorderLanes handles a lane dragged onto another lane's edge: the
// board-level lane ordering changes. Unlike member mutations, the caller
// is expected to persist this immediately rather than wait for the
// autosave debounce.
func (h *Handler) ReorderLanes(laneID, targetLaneID string, edge LaneEdge) error {
	if laneID == targetLaneID {
		return nil
	}
	moving := h.State.Lane(laneID)
	if moving == nil || h.State.Lane(targetLaneID) == nil {
		return ErrLaneNotFound
	}

	h.snapshot()
	kept := make([]*board.Lane, 0, len(h.State.Lanes))
	for _, l := range h.State.Lanes {
		if l.ID != laneID {
			kept = append(kept, l)
		}
	}
	idx := len(kept)
	for i, l := range kept {
		if l.ID == targetLaneID {
			idx = i
			if edge == LaneEdgeRight {
				idx++
			}
			break
		}
	}
	kept = append(kept, nil)
	copy(kept[idx+1:], kept[idx:])
	kept[idx] = moving
	h.State.Lanes = kept
	h.markDirty()
	return nil
}
