// Package succession derives member destinations for a lane. Given the
// lane's chain type and its post-mutation member order, it rewrites each
// member's destination from the other members' current assignments. It
// reads current fields only and writes destination fields only, so
// recomputing an unchanged lane is idempotent.
package succession

import "github.com/staffyard/staffyard/internal/board"

// Recompute rewrites the destinations of every member of the lane.
// It must be called on the final membership of the lane after any add,
// remove, reorder, cross-lane move, or placeholder replacement.
//
// Inconsistent input (a member id that resolves to no record, or a
// placeholder with nothing to hand down) clears the affected
// destinations to nil rather than leaving them stale.
func Recompute(l *board.Lane, personnel map[string]*board.PositionRecord) {
	members := make([]*board.PositionRecord, len(l.ItemIDs))
	for i, id := range l.ItemIDs {
		members[i] = personnel[id]
	}

	switch {
	case l.ChainsFromAnchor():
		recomputeChain(l, members)
	case l.ChainType == board.ChainSwap:
		recomputeCycle(members, 2)
	case l.ChainType == board.ChainThreeWay:
		recomputeCycle(members, 3)
	default:
		// Custom lanes carry no derived destinations; whatever the
		// planner annotated stays as is.
	}
}

// recomputeChain applies the vacancy-succession rule: the head of the
// chain moves into the lane's anchored vacancy, and every later member
// moves into the slot currently held by the member ahead of them.
func recomputeChain(l *board.Lane, members []*board.PositionRecord) {
	for i, m := range members {
		if m == nil {
			continue
		}
		if i == 0 {
			m.Destination = clonePosition(l.VacancyPosition())
			continue
		}
		prev := members[i-1]
		if prev == nil {
			m.Destination = nil
			continue
		}
		m.Destination = prev.CurrentPosition()
	}
}

// recomputeCycle applies the circular rule for swap (n=2) and three-way
// (n=3) lanes: member i inherits the current slot of member (i+1) mod n.
// The rule only applies at exactly n members; with fewer or more, the
// destinations of present members are cleared.
func recomputeCycle(members []*board.PositionRecord, n int) {
	if len(members) != n || anyNil(members) {
		for _, m := range members {
			if m != nil {
				m.Destination = nil
			}
		}
		return
	}
	// Read all current slots before writing any destination so the
	// rotation observes pre-move state only.
	currents := make([]*board.Position, n)
	for i, m := range members {
		currents[i] = m.CurrentPosition()
	}
	for i, m := range members {
		m.Destination = clonePosition(currents[(i+1)%n])
	}
}

func anyNil(members []*board.PositionRecord) bool {
	for _, m := range members {
		if m == nil {
			return true
		}
	}
	return false
}

func clonePosition(p *board.Position) *board.Position {
	if p == nil {
		return nil
	}
	out := *p
	return &out
}
