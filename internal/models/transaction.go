package models

import "time"

// SwapTransaction is a persisted reassignment transaction backing a
// board lane. Details carry the per-person from/to positions.
type SwapTransaction struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"`
	Year        int       `gorm:"index;not null"`
	SwapDate    time.Time `gorm:"index"`
	SwapType    string    `gorm:"size:16;not null;index"` // swap, three-way, transfer
	GroupName   string    `gorm:"size:256"`
	GroupNumber string    `gorm:"size:32;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Details []SwapDetail `gorm:"foreignKey:TransactionID"`
}

// SwapDetail is one person's movement within a transaction. Position is
// the member's index in the lane at save time.
type SwapDetail struct {
	ID            uint   `gorm:"primaryKey;autoIncrement"`
	TransactionID uint   `gorm:"index;not null"`
	StaffID       *uint  `gorm:"index"` // nil for placeholders
	StaffName     string `gorm:"size:128"`
	Position      int    `gorm:"not null"`

	FromPositionTitle string `gorm:"size:128"`
	FromUnit          string `gorm:"size:128"`
	FromPositionCode  string `gorm:"size:32"`

	ToPositionTitle string `gorm:"size:128"`
	ToUnit          string `gorm:"size:128"`
	ToPositionCode  string `gorm:"size:32"`
	ToActingRole    string `gorm:"size:64"`

	Transaction SwapTransaction `gorm:"foreignKey:TransactionID"`
}

// BoardSnapshot is the persisted board for one planning year: lanes and
// the personnel map serialized as JSON, replaced wholesale on save.
type BoardSnapshot struct {
	Year      int    `gorm:"primaryKey"`
	Lanes     string `gorm:"type:json"`
	Personnel string `gorm:"type:json"`
	UpdatedAt time.Time
}

// GroupSequence is the monotonic counter behind human-readable group
// numbers, scoped by chain type and year.
type GroupSequence struct {
	ChainType string `gorm:"primaryKey;size:16"`
	Year      int    `gorm:"primaryKey"`
	Next      int    `gorm:"not null;default:1"`
}
