package board

import "fmt"

// State is the full board for one planning year: lane ordering, the
// personnel map, and the active card selection. It is the unit of
// persistence and of undo/redo snapshotting. One State instance exists
// per open year session; mutations go through the dragdrop handler.
type State struct {
	Year        int                        `json:"year"`
	Lanes       []*Lane                    `json:"lanes"`
	Personnel   map[string]*PositionRecord `json:"personnel"`
	SelectedIDs []string                   `json:"selectedIds,omitempty"`
}

// NewState returns an empty board for the year.
func NewState(year int) *State {
	return &State{
		Year:      year,
		Lanes:     []*Lane{},
		Personnel: map[string]*PositionRecord{},
	}
}

// Lane returns the lane with the given id, or nil.
func (s *State) Lane(id string) *Lane {
	for _, l := range s.Lanes {
		if l.ID == id {
			return l
		}
	}
	return nil
}

// LaneIndex returns the board-order index of the lane id, or -1.
func (s *State) LaneIndex(id string) int {
	for i, l := range s.Lanes {
		if l.ID == id {
			return i
		}
	}
	return -1
}

// LaneOf returns the lane holding the record id, or nil. Every record in
// the personnel map belongs to exactly one lane.
func (s *State) LaneOf(recordID string) *Lane {
	for _, l := range s.Lanes {
		if l.Contains(recordID) {
			return l
		}
	}
	return nil
}

// Record returns the position record with the given id, or nil.
func (s *State) Record(id string) *PositionRecord {
	return s.Personnel[id]
}

// Members returns the lane's records in member order. Missing ids yield
// nil entries so callers can detect inconsistent state instead of
// silently skipping.
func (s *State) Members(l *Lane) []*PositionRecord {
	out := make([]*PositionRecord, len(l.ItemIDs))
	for i, id := range l.ItemIDs {
		out[i] = s.Personnel[id]
	}
	return out
}

// Clone returns a deep copy of the state. History snapshots and save
// serialization both rely on clones being fully detached from the live
// board.
func (s *State) Clone() *State {
	out := &State{
		Year:      s.Year,
		Lanes:     make([]*Lane, len(s.Lanes)),
		Personnel: make(map[string]*PositionRecord, len(s.Personnel)),
	}
	for i, l := range s.Lanes {
		out.Lanes[i] = l.Clone()
	}
	for id, r := range s.Personnel {
		out.Personnel[id] = r.Clone()
	}
	if s.SelectedIDs != nil {
		out.SelectedIDs = append([]string(nil), s.SelectedIDs...)
	}
	return out
}

// Validate checks the structural invariant: every record in the
// personnel map is referenced by exactly one lane, and every lane member
// id resolves to a record.
func (s *State) Validate() error {
	seen := make(map[string]string, len(s.Personnel))
	for _, l := range s.Lanes {
		for _, id := range l.ItemIDs {
			if prev, ok := seen[id]; ok {
				return fmt.Errorf("board: record %s appears in lanes %s and %s", id, prev, l.ID)
			}
			seen[id] = l.ID
			if s.Personnel[id] == nil {
				return fmt.Errorf("board: lane %s references missing record %s", l.ID, id)
			}
		}
	}
	for id := range s.Personnel {
		if _, ok := seen[id]; !ok {
			return fmt.Errorf("board: record %s is not referenced by any lane", id)
		}
	}
	return nil
}
