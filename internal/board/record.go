package board

// Position is one assignable slot: a position code, its title, the unit
// it belongs to, and an optional acting-role qualifier. It is used both
// for vacancy descriptors and for the destination a succession assigns.
type Position struct {
	Code       string `json:"code"`
	Title      string `json:"title"`
	Unit       string `json:"unit"`
	ActingRole string `json:"actingRole,omitempty"`
}

// Annotations are the free-form fields a planner edits directly on a
// card. They are independent of succession logic and survive recomputes.
type Annotations struct {
	RequestedPosition string `json:"requestedPosition,omitempty"`
	Supporter         string `json:"supporter,omitempty"`
	SupportReason     string `json:"supportReason,omitempty"`
	Notes             string `json:"notes,omitempty"`
	Avatar            string `json:"avatar,omitempty"`
}

// PositionRecord is one placement on the board: a person (or a
// placeholder reserving a slot) together with their current assignment
// and the destination the succession engine has derived for them.
type PositionRecord struct {
	// ID is board-local and unique per placement. It is not the
	// directory identity: the same person dropped twice gets two ids.
	ID string `json:"id"`
	// OriginalID references the directory staff record. Zero for
	// placeholders.
	OriginalID uint `json:"originalId,omitempty"`

	Name              string `json:"name"`
	Rank              string `json:"rank,omitempty"`
	PositionTitle     string `json:"positionTitle"`
	Unit              string `json:"unit"`
	PositionCode      string `json:"positionCode,omitempty"`
	PositionCodeLabel string `json:"positionCodeLabel,omitempty"`
	Seniority         string `json:"seniority,omitempty"`

	IsPlaceholder bool `json:"isPlaceholder,omitempty"`

	// Destination is written only by the succession engine. Nil means
	// no destination has been derived (or it was cleared because the
	// chain could not supply one).
	Destination *Position `json:"destination,omitempty"`

	Annotations Annotations `json:"annotations,omitempty"`

	// Transaction linkage correlates this placement with persisted
	// swap-transaction rows.
	SwapDetailID    uint   `json:"swapDetailId,omitempty"`
	TransactionID   uint   `json:"transactionId,omitempty"`
	TransactionType string `json:"transactionType,omitempty"`
}

// CurrentPosition returns the slot this record currently occupies, or
// nil for a placeholder — a placeholder has nothing concrete to hand
// down to a successor.
func (r *PositionRecord) CurrentPosition() *Position {
	if r == nil || r.IsPlaceholder {
		return nil
	}
	return &Position{
		Code:  r.PositionCode,
		Title: r.PositionTitle,
		Unit:  r.Unit,
	}
}

// Clone returns a deep copy of the record.
func (r *PositionRecord) Clone() *PositionRecord {
	if r == nil {
		return nil
	}
	out := *r
	if r.Destination != nil {
		d := *r.Destination
		out.Destination = &d
	}
	return &out
}
