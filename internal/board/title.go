package board

import (
	"fmt"
	"strings"
)

// DeriveTitle computes the display title for the lane from its current
// membership. Swap, three-way, and transfer titles are derived; promotion
// and custom titles are user-supplied at creation and returned unchanged.
func DeriveTitle(l *Lane, personnel map[string]*PositionRecord) string {
	name := func(i int) string {
		if i >= len(l.ItemIDs) {
			return "?"
		}
		r := personnel[l.ItemIDs[i]]
		if r == nil || r.Name == "" {
			return "?"
		}
		return r.Name
	}

	switch l.ChainType {
	case ChainSwap:
		return fmt.Sprintf("Swap: %s ↔ %s", name(0), name(1))
	case ChainThreeWay:
		names := make([]string, 0, len(l.ItemIDs))
		for i := range l.ItemIDs {
			names = append(names, name(i))
		}
		return "Three-way: " + strings.Join(names, " → ")
	case ChainTransfer:
		unit := ""
		if v := l.VacancyPosition(); v != nil {
			unit = v.Unit
		}
		if unit == "" && len(l.ItemIDs) > 0 {
			if r := personnel[l.ItemIDs[0]]; r != nil && r.Destination != nil {
				unit = r.Destination.Unit
			}
		}
		return fmt.Sprintf("Transfer: %s → %s", name(0), unit)
	default:
		return l.Title
	}
}

// Retitle recomputes and writes back the lane's derived title.
func Retitle(l *Lane, personnel map[string]*PositionRecord) {
	l.Title = DeriveTitle(l, personnel)
}

// RetitleFor patches the titles of lanes that reference the given record
// id. This is the targeted update used when a member's display name
// changes; membership changes retitle their lanes directly.
func (s *State) RetitleFor(recordID string) {
	for _, l := range s.Lanes {
		if l.Contains(recordID) {
			Retitle(l, s.Personnel)
		}
	}
}
