package models

import "time"

// StaffMember is a directory person eligible for placement on a board.
type StaffMember struct {
	ID                uint   `gorm:"primaryKey;autoIncrement"`
	Year              int    `gorm:"index;not null"`
	Name              string `gorm:"size:128;not null;index"`
	Rank              string `gorm:"size:64"`
	PositionTitle     string `gorm:"size:128;index"`
	Unit              string `gorm:"size:128;index"`
	PositionCode      string `gorm:"size:32;index"`
	PositionCodeLabel string `gorm:"size:128"`
	Seniority         string `gorm:"size:64"`
	Avatar            string `gorm:"size:256"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Vacancy is an open position that promotion and transfer lanes can be
// anchored to.
type Vacancy struct {
	ID                uint   `gorm:"primaryKey;autoIncrement"`
	Year              int    `gorm:"index;not null"`
	PositionTitle     string `gorm:"size:128;not null"`
	Unit              string `gorm:"size:128;index"`
	PositionCode      string `gorm:"size:32;index"`
	PositionCodeLabel string `gorm:"size:128"`
	ActingRole        string `gorm:"size:64"`
	Status            string `gorm:"size:16;default:open;index"` // open, reserved, filled
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Unit is a reference-list entry for organizational units.
type Unit struct {
	ID   uint   `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"size:128;uniqueIndex;not null"`
}

// PositionCode is a reference-list entry mapping a position code to its
// display label.
type PositionCode struct {
	Code  string `gorm:"primaryKey;size:32"`
	Label string `gorm:"size:128;not null"`
}
