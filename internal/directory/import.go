package directory

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"gorm.io/gorm"

	"github.com/staffyard/staffyard/internal/models"
)

// importColumns is the expected CSV header, in order.
var importColumns = []string{
	"name", "rank", "position_title", "unit",
	"position_code", "position_code_label", "seniority",
}

// ImportStaff loads staff members for a year from CSV. The first row
// must be the header; rows are inserted as new directory entries.
// Returns the number of imported rows.
func ImportStaff(db *gorm.DB, year int, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("directory: read csv header: %w", err)
	}
	cols := map[string]int{}
	for i, h := range header {
		cols[strings.TrimSpace(strings.ToLower(h))] = i
	}
	for _, c := range []string{"name", "position_title", "unit"} {
		if _, ok := cols[c]; !ok {
			return 0, fmt.Errorf("directory: csv is missing required column %q", c)
		}
	}

	field := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	count := 0
	err = db.Transaction(func(tx *gorm.DB) error {
		for {
			row, err := reader.Read()
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return fmt.Errorf("directory: read csv row %d: %w", count+2, err)
			}
			member := models.StaffMember{
				Year:              year,
				Name:              field(row, "name"),
				Rank:              field(row, "rank"),
				PositionTitle:     field(row, "position_title"),
				Unit:              field(row, "unit"),
				PositionCode:      field(row, "position_code"),
				PositionCodeLabel: field(row, "position_code_label"),
				Seniority:         field(row, "seniority"),
			}
			if member.Name == "" {
				return fmt.Errorf("directory: csv row %d has no name", count+2)
			}
			if err := tx.Create(&member).Error; err != nil {
				return fmt.Errorf("directory: import %q: %w", member.Name, err)
			}
			count++
		}
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}
