// Package store is the persistence gateway between board sessions and
// the database: whole-board snapshots per year, swap-transaction rows
// backing lanes, and the group-number sequences.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/staffyard/staffyard/internal/board"
	"github.com/staffyard/staffyard/internal/models"
)

// Reconciliation carries the authoritative ids a save assigned to a lane
// that had no backing transaction yet. The session absorbs these into
// the live board so the next save updates rather than duplicates.
type Reconciliation struct {
	LaneID        string          `json:"laneId"`
	Title         string          `json:"title"`
	GroupNumber   string          `json:"groupNumber"`
	TransactionID uint            `json:"transactionId"`
	DetailIDs     map[string]uint `json:"detailIds"` // record id → swap detail id
}

// LoadBoard returns the persisted board for the year, or an empty board
// when none has been saved yet. A load failure never yields a partially
// populated state.
func LoadBoard(db *gorm.DB, year int) (*board.State, error) {
	var snap models.BoardSnapshot
	err := db.First(&snap, "year = ?", year).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return board.NewState(year), nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: load board %d: %w", year, err)
	}

	st := board.NewState(year)
	if snap.Lanes != "" {
		if err := json.Unmarshal([]byte(snap.Lanes), &st.Lanes); err != nil {
			return nil, fmt.Errorf("store: decode lanes for %d: %w", year, err)
		}
	}
	if snap.Personnel != "" {
		if err := json.Unmarshal([]byte(snap.Personnel), &st.Personnel); err != nil {
			return nil, fmt.Errorf("store: decode personnel for %d: %w", year, err)
		}
	}
	return st, nil
}

// SaveBoard persists the board state wholesale and creates backing
// transactions for swap, three-way, and transfer lanes that do not have
// one yet. The passed state should be a detached clone; reconciled ids
// are written into it before serialization and returned for the caller
// to absorb into the live board.
func SaveBoard(db *gorm.DB, st *board.State) ([]Reconciliation, error) {
	var recs []Reconciliation

	err := db.Transaction(func(tx *gorm.DB) error {
		for _, l := range st.Lanes {
			if !needsBacking(l) {
				continue
			}
			rec, err := backLane(tx, st, l)
			if err != nil {
				return err
			}
			recs = append(recs, *rec)
		}

		lanes, err := json.Marshal(st.Lanes)
		if err != nil {
			return fmt.Errorf("store: encode lanes: %w", err)
		}
		personnel, err := json.Marshal(st.Personnel)
		if err != nil {
			return fmt.Errorf("store: encode personnel: %w", err)
		}
		snap := models.BoardSnapshot{
			Year:      st.Year,
			Lanes:     string(lanes),
			Personnel: string(personnel),
			UpdatedAt: time.Now(),
		}
		result := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "year"}},
			DoUpdates: clause.AssignmentColumns([]string{"lanes", "personnel", "updated_at"}),
		}).Create(&snap)
		if result.Error != nil {
			return fmt.Errorf("store: save board %d: %w", st.Year, result.Error)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return recs, nil
}

// needsBacking reports whether saving the lane must create a backing
// transaction row: transaction-shaped lanes with members and no linked
// transaction yet.
func needsBacking(l *board.Lane) bool {
	switch l.ChainType {
	case board.ChainSwap, board.ChainThreeWay, board.ChainTransfer:
	default:
		return false
	}
	return l.LinkedTransactionID == 0 && len(l.ItemIDs) > 0
}

// backLane creates the SwapTransaction and SwapDetail rows for a lane
// and writes the assigned ids back into the (detached) state.
func backLane(tx *gorm.DB, st *board.State, l *board.Lane) (*Reconciliation, error) {
	groupNumber := l.GroupNumber
	if groupNumber == "" {
		var err error
		groupNumber, err = NextGroupNumber(tx, l.ChainType, st.Year)
		if err != nil {
			return nil, err
		}
	}

	row := models.SwapTransaction{
		Year:        st.Year,
		SwapDate:    time.Now(),
		SwapType:    string(l.ChainType),
		GroupName:   l.Title,
		GroupNumber: groupNumber,
	}
	for i, id := range l.ItemIDs {
		m := st.Personnel[id]
		if m == nil {
			continue
		}
		detail := models.SwapDetail{
			StaffName:         m.Name,
			Position:          i,
			FromPositionTitle: m.PositionTitle,
			FromUnit:          m.Unit,
			FromPositionCode:  m.PositionCode,
		}
		if m.OriginalID != 0 {
			staffID := m.OriginalID
			detail.StaffID = &staffID
		}
		if d := m.Destination; d != nil {
			detail.ToPositionTitle = d.Title
			detail.ToUnit = d.Unit
			detail.ToPositionCode = d.Code
			detail.ToActingRole = d.ActingRole
		}
		row.Details = append(row.Details, detail)
	}
	if err := tx.Create(&row).Error; err != nil {
		return nil, fmt.Errorf("store: back lane %s: %w", l.ID, err)
	}

	rec := &Reconciliation{
		LaneID:        l.ID,
		Title:         l.Title,
		GroupNumber:   groupNumber,
		TransactionID: row.ID,
		DetailIDs:     map[string]uint{},
	}

	l.GroupNumber = groupNumber
	l.LinkedTransactionID = row.ID
	l.LinkedTransactionType = string(l.ChainType)
	detailIdx := 0
	for _, id := range l.ItemIDs {
		m := st.Personnel[id]
		if m == nil {
			continue
		}
		detail := row.Details[detailIdx]
		detailIdx++
		m.SwapDetailID = detail.ID
		m.TransactionID = row.ID
		m.TransactionType = string(l.ChainType)
		rec.DetailIDs[id] = detail.ID
	}
	return rec, nil
}
