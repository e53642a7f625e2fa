// Package directory provides the read side of the planning board: the
// searchable candidate list, open vacancies, and reference lists of
// units and position codes.
package directory

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/staffyard/staffyard/internal/models"
)

// defaultPerPage caps unpaginated queries.
const defaultPerPage = 20

// CandidateFilters narrows a candidate search. Zero values are ignored.
type CandidateFilters struct {
	Year         int
	Search       string // matches name and current position title
	Unit         string
	PositionCode string
	Page         int // 1-based
	PerPage      int
}

// SearchCandidates returns a page of staff members matching the filters
// and the total match count.
func SearchCandidates(db *gorm.DB, f CandidateFilters) ([]models.StaffMember, int64, error) {
	q := db.Model(&models.StaffMember{}).Where("year = ?", f.Year)
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("name LIKE ? OR position_title LIKE ?", like, like)
	}
	if f.Unit != "" {
		q = q.Where("unit = ?", f.Unit)
	}
	if f.PositionCode != "" {
		q = q.Where("position_code = ?", f.PositionCode)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("directory: count candidates: %w", err)
	}

	var rows []models.StaffMember
	if err := q.Order("name ASC").
		Offset(offset(f.Page, f.PerPage)).Limit(perPage(f.PerPage)).
		Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("directory: search candidates: %w", err)
	}
	return rows, total, nil
}

// GetStaff returns one staff member by id.
func GetStaff(db *gorm.DB, id uint) (*models.StaffMember, error) {
	var row models.StaffMember
	if err := db.First(&row, id).Error; err != nil {
		return nil, fmt.Errorf("directory: staff %d: %w", id, err)
	}
	return &row, nil
}

// GetVacancy returns one vacancy by id.
func GetVacancy(db *gorm.DB, id uint) (*models.Vacancy, error) {
	var row models.Vacancy
	if err := db.First(&row, id).Error; err != nil {
		return nil, fmt.Errorf("directory: vacancy %d: %w", id, err)
	}
	return &row, nil
}

// VacancyFilters narrows a vacancy listing. Zero values are ignored.
type VacancyFilters struct {
	Year         int
	Unit         string
	PositionCode string
	Status       string
	Page         int
	PerPage      int
}

// ListVacancies returns a page of vacancies matching the filters and the
// total match count.
func ListVacancies(db *gorm.DB, f VacancyFilters) ([]models.Vacancy, int64, error) {
	q := db.Model(&models.Vacancy{}).Where("year = ?", f.Year)
	if f.Unit != "" {
		q = q.Where("unit = ?", f.Unit)
	}
	if f.PositionCode != "" {
		q = q.Where("position_code = ?", f.PositionCode)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("directory: count vacancies: %w", err)
	}

	var rows []models.Vacancy
	if err := q.Order("unit ASC, position_title ASC").
		Offset(offset(f.Page, f.PerPage)).Limit(perPage(f.PerPage)).
		Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("directory: list vacancies: %w", err)
	}
	return rows, total, nil
}

// Units returns the unit reference list.
func Units(db *gorm.DB) ([]models.Unit, error) {
	var rows []models.Unit
	if err := db.Order("name ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("directory: list units: %w", err)
	}
	return rows, nil
}

// PositionCodes returns the position-code reference list.
func PositionCodes(db *gorm.DB) ([]models.PositionCode, error) {
	var rows []models.PositionCode
	if err := db.Order("code ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("directory: list position codes: %w", err)
	}
	return rows, nil
}

func perPage(n int) int {
	if n <= 0 {
		return defaultPerPage
	}
	return n
}

func offset(page, per int) int {
	if page <= 1 {
		return 0
	}
	return (page - 1) * perPage(per)
}
