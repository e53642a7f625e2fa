package store

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/staffyard/staffyard/internal/board"
	"github.com/staffyard/staffyard/internal/models"
)

// CreateTransactionOpts holds parameters for creating a transaction
// directly through the API (outside the board save path).
type CreateTransactionOpts struct {
	Year        int
	SwapDate    time.Time
	SwapType    string
	GroupName   string
	GroupNumber string
	Details     []DetailOpts
}

// DetailOpts is one person's movement within a created transaction.
type DetailOpts struct {
	StaffID           *uint
	StaffName         string
	FromPositionTitle string
	FromUnit          string
	FromPositionCode  string
	ToPositionTitle   string
	ToUnit            string
	ToPositionCode    string
	ToActingRole      string
}

// CreateTransaction persists a swap transaction with its details,
// generating a group number when none is supplied.
func CreateTransaction(db *gorm.DB, opts CreateTransactionOpts) (*models.SwapTransaction, error) {
	chain := board.ChainType(opts.SwapType)
	if !chain.Valid() {
		return nil, fmt.Errorf("store: unknown swap type %q", opts.SwapType)
	}
	if opts.SwapDate.IsZero() {
		opts.SwapDate = time.Now()
	}

	row := models.SwapTransaction{
		Year:        opts.Year,
		SwapDate:    opts.SwapDate,
		SwapType:    opts.SwapType,
		GroupName:   opts.GroupName,
		GroupNumber: opts.GroupNumber,
	}
	for i, d := range opts.Details {
		row.Details = append(row.Details, models.SwapDetail{
			StaffID:           d.StaffID,
			StaffName:         d.StaffName,
			Position:          i,
			FromPositionTitle: d.FromPositionTitle,
			FromUnit:          d.FromUnit,
			FromPositionCode:  d.FromPositionCode,
			ToPositionTitle:   d.ToPositionTitle,
			ToUnit:            d.ToUnit,
			ToPositionCode:    d.ToPositionCode,
			ToActingRole:      d.ToActingRole,
		})
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if row.GroupNumber == "" {
			n, err := NextGroupNumber(tx, chain, opts.Year)
			if err != nil {
				return err
			}
			row.GroupNumber = n
		}
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("store: create transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// GetTransaction loads a transaction with its details.
func GetTransaction(db *gorm.DB, id uint) (*models.SwapTransaction, error) {
	var row models.SwapTransaction
	err := db.Preload("Details").First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("store: transaction %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("store: get transaction %d: %w", id, err)
	}
	return &row, nil
}

// ListTransactions returns the transactions for a year, newest first.
func ListTransactions(db *gorm.DB, year int) ([]models.SwapTransaction, error) {
	var rows []models.SwapTransaction
	if err := db.Preload("Details").Where("year = ?", year).
		Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("store: list transactions for %d: %w", year, err)
	}
	return rows, nil
}

// DeleteTransaction removes a transaction and its details. Deleting a
// transaction that no longer exists is success: the target state is
// already achieved.
func DeleteTransaction(db *gorm.DB, id uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.SwapTransaction{}, id)
		if result.Error != nil {
			return fmt.Errorf("store: delete transaction %d: %w", id, result.Error)
		}
		if result.RowsAffected == 0 {
			log.Printf("store: delete transaction %d: already gone", id)
			return nil
		}
		if err := tx.Where("transaction_id = ?", id).Delete(&models.SwapDetail{}).Error; err != nil {
			return fmt.Errorf("store: delete details for transaction %d: %w", id, err)
		}
		return nil
	})
}

// NextGroupNumber returns the next human-readable sequence code for the
// chain type and year, e.g. SWP-2026-004. Numbers are monotonic per
// (type, year).
func NextGroupNumber(db *gorm.DB, chain board.ChainType, year int) (string, error) {
	var n int
	err := db.Transaction(func(tx *gorm.DB) error {
		var seq models.GroupSequence
		err := tx.Where("chain_type = ? AND year = ?", string(chain), year).First(&seq).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			seq = models.GroupSequence{ChainType: string(chain), Year: year, Next: 2}
			if err := tx.Create(&seq).Error; err != nil {
				return fmt.Errorf("store: create sequence %s/%d: %w", chain, year, err)
			}
			n = 1
			return nil
		}
		if err != nil {
			return fmt.Errorf("store: read sequence %s/%d: %w", chain, year, err)
		}
		n = seq.Next
		if err := tx.Model(&models.GroupSequence{}).
			Where("chain_type = ? AND year = ?", string(chain), year).
			Update("next", seq.Next+1).Error; err != nil {
			return fmt.Errorf("store: bump sequence %s/%d: %w", chain, year, err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%d-%03d", chain.GroupPrefix(), year, n), nil
}
