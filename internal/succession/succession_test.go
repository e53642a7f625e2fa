package succession

import (
	"testing"

	"github.com/staffyard/staffyard/internal/board"
)

func person(id, name, title, unit, code string) *board.PositionRecord {
	return &board.PositionRecord{
		ID:            id,
		Name:          name,
		PositionTitle: title,
		Unit:          unit,
		PositionCode:  code,
	}
}

func placeholder(id string) *board.PositionRecord {
	return &board.PositionRecord{ID: id, IsPlaceholder: true}
}

func personnelOf(records ...*board.PositionRecord) map[string]*board.PositionRecord {
	out := make(map[string]*board.PositionRecord, len(records))
	for _, r := range records {
		out[r.ID] = r
	}
	return out
}

func wantDest(t *testing.T, r *board.PositionRecord, title, unit string) {
	t.Helper()
	if r.Destination == nil {
		t.Fatalf("record %s: destination = nil, want %s / %s", r.ID, title, unit)
	}
	if r.Destination.Title != title || r.Destination.Unit != unit {
		t.Errorf("record %s: destination = %s / %s, want %s / %s",
			r.ID, r.Destination.Title, r.Destination.Unit, title, unit)
	}
}

func wantNoDest(t *testing.T, r *board.PositionRecord) {
	t.Helper()
	if r.Destination != nil {
		t.Errorf("record %s: destination = %+v, want nil", r.ID, r.Destination)
	}
}

func TestSwapSymmetric(t *testing.T) {
	a := person("a", "Avery Cole", "Analyst", "Plans", "PL-01")
	b := person("b", "Blair Finch", "Planner", "Operations", "OP-02")
	l := &board.Lane{ChainType: board.ChainSwap, ItemIDs: []string{"a", "b"}}

	Recompute(l, personnelOf(a, b))

	wantDest(t, a, "Planner", "Operations")
	wantDest(t, b, "Analyst", "Plans")
}

func TestSwapClearsBelowPair(t *testing.T) {
	a := person("a", "Avery Cole", "Analyst", "Plans", "PL-01")
	a.Destination = &board.Position{Title: "stale"}
	l := &board.Lane{ChainType: board.ChainSwap, ItemIDs: []string{"a"}}

	Recompute(l, personnelOf(a))

	wantNoDest(t, a)
}

func TestThreeWayRotation(t *testing.T) {
	a := person("a", "Avery Cole", "Analyst", "Plans", "PL-01")
	b := person("b", "Blair Finch", "Planner", "Operations", "OP-02")
	c := person("c", "Casey Drum", "Liaison", "Support", "SP-03")
	l := &board.Lane{ChainType: board.ChainThreeWay, ItemIDs: []string{"a", "b", "c"}}

	Recompute(l, personnelOf(a, b, c))

	// Member i inherits the slot of member (i+1) mod 3.
	wantDest(t, a, "Planner", "Operations")
	wantDest(t, b, "Liaison", "Support")
	wantDest(t, c, "Analyst", "Plans")
}

func TestThreeWayClearsWhenIncomplete(t *testing.T) {
	a := person("a", "Avery Cole", "Analyst", "Plans", "PL-01")
	b := person("b", "Blair Finch", "Planner", "Operations", "OP-02")
	a.Destination = &board.Position{Title: "stale"}
	b.Destination = &board.Position{Title: "stale"}
	l := &board.Lane{ChainType: board.ChainThreeWay, ItemIDs: []string{"a", "b"}}

	Recompute(l, personnelOf(a, b))

	wantNoDest(t, a)
	wantNoDest(t, b)
}

func TestPromotionChain(t *testing.T) {
	a := person("a", "Avery Cole", "Deputy Director", "Plans", "PL-02")
	b := person("b", "Blair Finch", "Branch Chief", "Plans", "PL-03")
	c := person("c", "Casey Drum", "Analyst", "Plans", "PL-04")
	l := &board.Lane{
		ChainType: board.ChainPromotion,
		ItemIDs:   []string{"a", "b", "c"},
		Anchor: &board.Anchor{
			Kind:    board.AnchorVacancy,
			Vacancy: &board.VacancyInfo{Position: board.Position{Title: "Director", Unit: "Plans", Code: "PL-01"}},
		},
	}

	Recompute(l, personnelOf(a, b, c))

	// Head fills the vacancy; each later member backfills the slot ahead.
	wantDest(t, a, "Director", "Plans")
	wantDest(t, b, "Deputy Director", "Plans")
	wantDest(t, c, "Branch Chief", "Plans")
}

func TestPromotionReorderRecomputes(t *testing.T) {
	a := person("a", "Avery Cole", "Deputy Director", "Plans", "PL-02")
	b := person("b", "Blair Finch", "Branch Chief", "Plans", "PL-03")
	l := &board.Lane{
		ChainType: board.ChainPromotion,
		ItemIDs:   []string{"b", "a"},
		Anchor: &board.Anchor{
			Kind:    board.AnchorVacancy,
			Vacancy: &board.VacancyInfo{Position: board.Position{Title: "Director", Unit: "Plans"}},
		},
	}

	Recompute(l, personnelOf(a, b))

	wantDest(t, b, "Director", "Plans")
	wantDest(t, a, "Branch Chief", "Plans")
}

func TestPromotionNoAnchorClearsHead(t *testing.T) {
	a := person("a", "Avery Cole", "Deputy Director", "Plans", "PL-02")
	a.Destination = &board.Position{Title: "stale"}
	b := person("b", "Blair Finch", "Branch Chief", "Plans", "PL-03")
	l := &board.Lane{ChainType: board.ChainPromotion, ItemIDs: []string{"a", "b"}}

	Recompute(l, personnelOf(a, b))

	wantNoDest(t, a)
	wantDest(t, b, "Deputy Director", "Plans")
}

func TestPlaceholderHandsDownNothing(t *testing.T) {
	a := person("a", "Avery Cole", "Deputy Director", "Plans", "PL-02")
	ph := placeholder("ph")
	c := person("c", "Casey Drum", "Analyst", "Plans", "PL-04")
	c.Destination = &board.Position{Title: "stale"}
	l := &board.Lane{
		ChainType: board.ChainPromotion,
		ItemIDs:   []string{"a", "ph", "c"},
		Anchor: &board.Anchor{
			Kind:    board.AnchorVacancy,
			Vacancy: &board.VacancyInfo{Position: board.Position{Title: "Director", Unit: "Plans"}},
		},
	}

	Recompute(l, personnelOf(a, ph, c))

	wantDest(t, a, "Director", "Plans")
	// The placeholder inherits the previous member's slot like anyone.
	wantDest(t, ph, "Deputy Director", "Plans")
	// But its successor gets nil: a placeholder has no current slot.
	wantNoDest(t, c)
}

func TestSwapWithPlaceholder(t *testing.T) {
	a := person("a", "Avery Cole", "Analyst", "Plans", "PL-01")
	a.Destination = &board.Position{Title: "stale"}
	ph := placeholder("ph")
	l := &board.Lane{ChainType: board.ChainSwap, ItemIDs: []string{"a", "ph"}}

	Recompute(l, personnelOf(a, ph))

	// The placeholder receives a slot like any member, but hands nothing
	// down: its counterpart's destination is cleared.
	wantNoDest(t, a)
	wantDest(t, ph, "Analyst", "Plans")
}

func TestRecomputeIdempotent(t *testing.T) {
	a := person("a", "Avery Cole", "Analyst", "Plans", "PL-01")
	b := person("b", "Blair Finch", "Planner", "Operations", "OP-02")
	l := &board.Lane{ChainType: board.ChainSwap, ItemIDs: []string{"a", "b"}}
	personnel := personnelOf(a, b)

	Recompute(l, personnel)
	first := *a.Destination
	Recompute(l, personnel)
	Recompute(l, personnel)

	if *a.Destination != first {
		t.Errorf("destination drifted across recomputes: %+v then %+v", first, *a.Destination)
	}
	// Destinations never feed back into the derivation: the swap still
	// reads current slots only.
	wantDest(t, a, "Planner", "Operations")
	wantDest(t, b, "Analyst", "Plans")
}

func TestCustomUntouched(t *testing.T) {
	a := person("a", "Avery Cole", "Analyst", "Plans", "PL-01")
	a.Destination = &board.Position{Title: "Hand-picked", Unit: "Special"}
	l := &board.Lane{ChainType: board.ChainCustom, ItemIDs: []string{"a"}}

	Recompute(l, personnelOf(a))

	wantDest(t, a, "Hand-picked", "Special")
}

func TestMissingRecordClearsSuccessor(t *testing.T) {
	b := person("b", "Blair Finch", "Branch Chief", "Plans", "PL-03")
	b.Destination = &board.Position{Title: "stale"}
	l := &board.Lane{
		ChainType: board.ChainPromotion,
		ItemIDs:   []string{"ghost", "b"},
		Anchor: &board.Anchor{
			Kind:    board.AnchorVacancy,
			Vacancy: &board.VacancyInfo{Position: board.Position{Title: "Director", Unit: "Plans"}},
		},
	}

	Recompute(l, personnelOf(b))

	wantNoDest(t, b)
}
