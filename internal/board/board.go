// Package board defines the planning-board data model: position records,
// lanes, and the per-year board state that the drag-drop handler and
// succession engine operate on.
package board

import "github.com/google/uuid"

// ChainType is the transaction shape of a lane. It governs the lane's
// member capacity and how member destinations are derived.
type ChainType string

const (
	// ChainSwap is a two-way position swap.
	ChainSwap ChainType = "swap"
	// ChainThreeWay is a circular rotation across three people.
	ChainThreeWay ChainType = "three-way"
	// ChainPromotion is a vacancy-driven succession chain.
	ChainPromotion ChainType = "promotion"
	// ChainTransfer moves people into a destination unit without a chain.
	ChainTransfer ChainType = "transfer"
	// ChainCustom is a free-form group with no automatic derivation.
	ChainCustom ChainType = "custom"
)

// ChainTypes lists all valid chain types.
var ChainTypes = []ChainType{ChainSwap, ChainThreeWay, ChainPromotion, ChainTransfer, ChainCustom}

// Valid reports whether c is a known chain type.
func (c ChainType) Valid() bool {
	for _, t := range ChainTypes {
		if c == t {
			return true
		}
	}
	return false
}

// Capacity returns the member limit for the chain type. Zero means unbounded.
func (c ChainType) Capacity() int {
	switch c {
	case ChainSwap:
		return 2
	case ChainThreeWay:
		return 3
	default:
		return 0
	}
}

// GroupPrefix returns the human-readable sequence prefix used when
// generating group numbers for lanes of this type.
func (c ChainType) GroupPrefix() string {
	switch c {
	case ChainSwap:
		return "SWP"
	case ChainThreeWay:
		return "TRI"
	case ChainPromotion:
		return "PRM"
	case ChainTransfer:
		return "TRF"
	default:
		return "GRP"
	}
}

// NewRecordID mints a fresh board-local id for a position record. Each
// placement gets its own id — a person re-entering the board is a new
// record, not a reuse of the old one.
func NewRecordID() string {
	return uuid.NewString()
}

// NewLaneID mints a fresh lane id.
func NewLaneID() string {
	return uuid.NewString()
}
