package board

// AnchorKind discriminates what a lane's anchor describes.
type AnchorKind string

const (
	// AnchorVacancy marks an open position the lane is filling.
	AnchorVacancy AnchorKind = "vacancy"
	// AnchorTransaction marks a lane backed by a persisted swap
	// transaction rather than a vacancy.
	AnchorTransaction AnchorKind = "transaction"
)

// VacancyInfo describes the open position a promotion or transfer lane
// feeds into.
type VacancyInfo struct {
	VacancyID uint     `json:"vacancyId,omitempty"`
	Position  Position `json:"position"`
	Label     string   `json:"label,omitempty"`
}

// TransactionInfo describes the persisted transaction backing a
// swap/three-way/transfer lane.
type TransactionInfo struct {
	TransactionID uint   `json:"transactionId,omitempty"`
	Type          string `json:"type"`
}

// Anchor is the lane's vacant-position metadata. Exactly one variant is
// set, keyed by Kind.
type Anchor struct {
	Kind        AnchorKind       `json:"kind"`
	Vacancy     *VacancyInfo     `json:"vacancy,omitempty"`
	Transaction *TransactionInfo `json:"transaction,omitempty"`
}

// Clone returns a deep copy of the anchor.
func (a *Anchor) Clone() *Anchor {
	if a == nil {
		return nil
	}
	out := *a
	if a.Vacancy != nil {
		v := *a.Vacancy
		out.Vacancy = &v
	}
	if a.Transaction != nil {
		t := *a.Transaction
		out.Transaction = &t
	}
	return &out
}

// Lane is one transaction group on the board: an ordered run of position
// records plus the chain-type metadata that governs capacity and
// destination derivation. Member order is the single source of truth for
// succession — index 0 is the head of the chain.
type Lane struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	GroupNumber string    `json:"groupNumber,omitempty"`
	ItemIDs     []string  `json:"itemIds"`
	ChainType   ChainType `json:"chainType"`
	Anchor      *Anchor   `json:"anchor,omitempty"`
	// Level is the nesting depth for promotion chains that span
	// multiple generated lanes.
	Level       int  `json:"level,omitempty"`
	IsCompleted bool `json:"isCompleted,omitempty"`

	// Linked transaction: when set, saves reconcile against the
	// existing backing transaction instead of creating a new one.
	LinkedTransactionID   uint   `json:"linkedTransactionId,omitempty"`
	LinkedTransactionType string `json:"linkedTransactionType,omitempty"`
}

// CanAccept reports whether the lane can take the incoming record ids
// without exceeding its chain type's capacity. Ids already in the lane
// count once (a reorder of existing members is always acceptable).
func (l *Lane) CanAccept(incomingIDs []string) bool {
	capacity := l.ChainType.Capacity()
	if capacity == 0 {
		return true
	}
	overlap := 0
	for _, id := range incomingIDs {
		if l.Contains(id) {
			overlap++
		}
	}
	return len(l.ItemIDs)-overlap+len(incomingIDs) <= capacity
}

// Contains reports whether the record id is a member of the lane.
func (l *Lane) Contains(id string) bool {
	for _, m := range l.ItemIDs {
		if m == id {
			return true
		}
	}
	return false
}

// IndexOf returns the member index of the record id, or -1.
func (l *Lane) IndexOf(id string) int {
	for i, m := range l.ItemIDs {
		if m == id {
			return i
		}
	}
	return -1
}

// ChainsFromAnchor reports whether the lane derives destinations with
// the vacancy-succession rule: promotion and transfer lanes always do,
// and any lane anchored to a vacancy (rather than a transaction) does.
func (l *Lane) ChainsFromAnchor() bool {
	switch l.ChainType {
	case ChainPromotion, ChainTransfer:
		return true
	}
	return l.Anchor != nil && l.Anchor.Kind == AnchorVacancy
}

// VacancyPosition returns the anchored vacancy's position, or nil when
// the lane has no vacancy anchor.
func (l *Lane) VacancyPosition() *Position {
	if l.Anchor == nil || l.Anchor.Kind != AnchorVacancy || l.Anchor.Vacancy == nil {
		return nil
	}
	p := l.Anchor.Vacancy.Position
	return &p
}

// Clone returns a deep copy of the lane.
func (l *Lane) Clone() *Lane {
	out := *l
	out.ItemIDs = append([]string(nil), l.ItemIDs...)
	out.Anchor = l.Anchor.Clone()
	return &out
}
