package notify

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/staffyard/staffyard/internal/board"
	"github.com/staffyard/staffyard/internal/models"
)

// DailyReport holds computed planning metrics for a 24-hour period.
type DailyReport struct {
	PeriodStart         time.Time
	PeriodEnd           time.Time
	TransactionsCreated int
	BoardsTouched       int
	YearBreakdown       []YearDigest
}

// YearDigest holds per-year board metrics.
type YearDigest struct {
	Year           int
	Lanes          int
	CompletedLanes int
	Personnel      int
	LanesByType    map[board.ChainType]int
}

// BuildDailyDigest queries the last 24 hours of planning activity and
// returns the digest event, or nil when there was no activity.
func BuildDailyDigest(db *gorm.DB) (*Event, error) {
	now := time.Now()
	since := now.Add(-24 * time.Hour)

	report, err := buildDailyReport(db, since, now)
	if err != nil {
		return nil, fmt.Errorf("notify: daily digest: %w", err)
	}

	// Suppress when no activity.
	if report.TransactionsCreated == 0 && report.BoardsTouched == 0 {
		return nil, nil
	}

	ev := Event{
		Title:    "Daily planning digest",
		Severity: SeverityInfo,
		Body: fmt.Sprintf("%d transaction(s) created, %d board(s) updated since %s.",
			report.TransactionsCreated, report.BoardsTouched,
			report.PeriodStart.Format("Jan 2 15:04")),
	}
	for _, y := range report.YearBreakdown {
		ev.Fields = append(ev.Fields, Field{
			Name: fmt.Sprintf("Board %d", y.Year),
			Value: fmt.Sprintf("%d lanes (%d completed), %d people on board",
				y.Lanes, y.CompletedLanes, y.Personnel),
		})
	}
	return &ev, nil
}

func buildDailyReport(db *gorm.DB, since, until time.Time) (*DailyReport, error) {
	report := &DailyReport{PeriodStart: since, PeriodEnd: until}

	var txCount int64
	if err := db.Model(&models.SwapTransaction{}).
		Where("created_at >= ? AND created_at < ?", since, until).
		Count(&txCount).Error; err != nil {
		return nil, err
	}
	report.TransactionsCreated = int(txCount)

	var snaps []models.BoardSnapshot
	if err := db.Where("updated_at >= ?", since).Find(&snaps).Error; err != nil {
		return nil, err
	}
	report.BoardsTouched = len(snaps)

	for _, snap := range snaps {
		digest := YearDigest{Year: snap.Year, LanesByType: map[board.ChainType]int{}}
		var lanes []*board.Lane
		if snap.Lanes != "" {
			if err := json.Unmarshal([]byte(snap.Lanes), &lanes); err != nil {
				return nil, fmt.Errorf("decode lanes for %d: %w", snap.Year, err)
			}
		}
		digest.Lanes = len(lanes)
		for _, l := range lanes {
			digest.LanesByType[l.ChainType]++
			if l.IsCompleted {
				digest.CompletedLanes++
			}
			digest.Personnel += len(l.ItemIDs)
		}
		report.YearBreakdown = append(report.YearBreakdown, digest)
	}
	return report, nil
}

// LaneCompleted builds the event announcing a finalized lane.
func LaneCompleted(l *board.Lane, memberCount int) Event {
	ev := Event{
		Title:    fmt.Sprintf("Transaction finalized: %s", l.Title),
		Severity: SeveritySuccess,
		Fields: []Field{
			{Name: "Type", Value: string(l.ChainType), Short: true},
			{Name: "Members", Value: fmt.Sprintf("%d", memberCount), Short: true},
		},
	}
	if l.GroupNumber != "" {
		ev.Fields = append(ev.Fields, Field{Name: "Group", Value: l.GroupNumber, Short: true})
	}
	return ev
}
