package store

import (
	"path/filepath"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/staffyard/staffyard/internal/board"
	"github.com/staffyard/staffyard/internal/config"
	sydb "github.com/staffyard/staffyard/internal/db"
	"github.com/staffyard/staffyard/internal/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gormDB, err := sydb.Connect(config.DBConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "store_test.db"),
	})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := sydb.AutoMigrate(gormDB); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gormDB
}

func TestNextGroupNumberFormat(t *testing.T) {
	gormDB := openTestDB(t)

	n, err := NextGroupNumber(gormDB, board.ChainSwap, 2026)
	if err != nil {
		t.Fatalf("NextGroupNumber: %v", err)
	}
	if n != "SWP-2026-001" {
		t.Errorf("first number = %q, want SWP-2026-001", n)
	}
}

func TestNextGroupNumberMonotonic(t *testing.T) {
	gormDB := openTestDB(t)

	want := []string{"PRM-2026-001", "PRM-2026-002", "PRM-2026-003"}
	for i, w := range want {
		n, err := NextGroupNumber(gormDB, board.ChainPromotion, 2026)
		if err != nil {
			t.Fatalf("NextGroupNumber %d: %v", i, err)
		}
		if n != w {
			t.Errorf("number %d = %q, want %q", i, n, w)
		}
	}

	// Sequences are independent per chain type and year.
	n, err := NextGroupNumber(gormDB, board.ChainPromotion, 2027)
	if err != nil {
		t.Fatalf("NextGroupNumber other year: %v", err)
	}
	if n != "PRM-2027-001" {
		t.Errorf("other-year number = %q, want PRM-2027-001", n)
	}
	n, err = NextGroupNumber(gormDB, board.ChainThreeWay, 2026)
	if err != nil {
		t.Fatalf("NextGroupNumber other type: %v", err)
	}
	if n != "TRI-2026-001" {
		t.Errorf("other-type number = %q, want TRI-2026-001", n)
	}
}

func TestLoadBoardEmptyYear(t *testing.T) {
	gormDB := openTestDB(t)

	st, err := LoadBoard(gormDB, 2031)
	if err != nil {
		t.Fatalf("LoadBoard: %v", err)
	}
	if st.Year != 2031 {
		t.Errorf("Year = %d, want 2031", st.Year)
	}
	if len(st.Lanes) != 0 || len(st.Personnel) != 0 {
		t.Errorf("unsaved year not empty: %d lanes, %d people", len(st.Lanes), len(st.Personnel))
	}
}

func swapBoard(year int) *board.State {
	st := board.NewState(year)
	a := &board.PositionRecord{
		ID: "a", OriginalID: 11, Name: "Avery Cole",
		PositionTitle: "Analyst", Unit: "Plans", PositionCode: "PL-01",
		Destination: &board.Position{Title: "Planner", Unit: "Operations", Code: "OP-02"},
	}
	b := &board.PositionRecord{
		ID: "b", OriginalID: 12, Name: "Blair Finch",
		PositionTitle: "Planner", Unit: "Operations", PositionCode: "OP-02",
		Destination: &board.Position{Title: "Analyst", Unit: "Plans", Code: "PL-01"},
	}
	st.Personnel["a"] = a
	st.Personnel["b"] = b
	st.Lanes = append(st.Lanes, &board.Lane{
		ID:        "l1",
		Title:     "Swap: Avery Cole ↔ Blair Finch",
		ChainType: board.ChainSwap,
		ItemIDs:   []string{"a", "b"},
	})
	return st
}

func TestSaveBoardBacksTransactionLanes(t *testing.T) {
	gormDB := openTestDB(t)
	st := swapBoard(2026)

	recs, err := SaveBoard(gormDB, st)
	if err != nil {
		t.Fatalf("SaveBoard: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("reconciliations = %d, want 1", len(recs))
	}
	rec := recs[0]
	if rec.LaneID != "l1" || rec.TransactionID == 0 {
		t.Errorf("reconciliation = %+v, want lane l1 with transaction id", rec)
	}
	if rec.GroupNumber != "SWP-2026-001" {
		t.Errorf("GroupNumber = %q, want SWP-2026-001", rec.GroupNumber)
	}
	if len(rec.DetailIDs) != 2 || rec.DetailIDs["a"] == 0 || rec.DetailIDs["b"] == 0 {
		t.Errorf("DetailIDs = %v, want ids for both members", rec.DetailIDs)
	}

	// The ids are written into the saved state before serialization.
	if st.Lanes[0].LinkedTransactionID != rec.TransactionID {
		t.Error("lane not linked to backing transaction in saved state")
	}
	if st.Personnel["a"].SwapDetailID != rec.DetailIDs["a"] {
		t.Error("record not linked to its detail row in saved state")
	}

	// The persisted transaction carries the from/to movement.
	tx, err := GetTransaction(gormDB, rec.TransactionID)
	if err != nil {
		t.Fatalf("GetTransaction: %v", err)
	}
	if len(tx.Details) != 2 {
		t.Fatalf("details = %d, want 2", len(tx.Details))
	}
	d := tx.Details[0]
	if d.StaffName != "Avery Cole" || d.FromPositionTitle != "Analyst" || d.ToPositionTitle != "Planner" {
		t.Errorf("detail = %+v, want Avery Cole Analyst→Planner", d)
	}
	if d.StaffID == nil || *d.StaffID != 11 {
		t.Errorf("detail StaffID = %v, want 11", d.StaffID)
	}
}

func TestSaveBoardRoundTrip(t *testing.T) {
	gormDB := openTestDB(t)
	st := swapBoard(2026)

	if _, err := SaveBoard(gormDB, st); err != nil {
		t.Fatalf("SaveBoard: %v", err)
	}

	loaded, err := LoadBoard(gormDB, 2026)
	if err != nil {
		t.Fatalf("LoadBoard: %v", err)
	}
	if len(loaded.Lanes) != 1 || len(loaded.Personnel) != 2 {
		t.Fatalf("loaded board: %d lanes, %d people", len(loaded.Lanes), len(loaded.Personnel))
	}
	l := loaded.Lanes[0]
	if l.Title != "Swap: Avery Cole ↔ Blair Finch" || l.ChainType != board.ChainSwap {
		t.Errorf("loaded lane = %+v", l)
	}
	if l.LinkedTransactionID == 0 {
		t.Error("loaded lane lost its transaction linkage")
	}
	rec := loaded.Personnel["a"]
	if rec == nil || rec.Destination == nil || rec.Destination.Title != "Planner" {
		t.Errorf("loaded record = %+v, want destination preserved", rec)
	}
}

func TestSaveBoardIdempotentBacking(t *testing.T) {
	gormDB := openTestDB(t)
	st := swapBoard(2026)

	if _, err := SaveBoard(gormDB, st); err != nil {
		t.Fatalf("first save: %v", err)
	}
	// Second save of the already-linked board creates nothing new.
	recs, err := SaveBoard(gormDB, st)
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("second save reconciliations = %d, want 0", len(recs))
	}

	rows, err := ListTransactions(gormDB, 2026)
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("transactions = %d after two saves, want 1", len(rows))
	}
}

func TestSaveBoardSkipsNonTransactionLanes(t *testing.T) {
	gormDB := openTestDB(t)
	st := board.NewState(2026)
	st.Personnel["a"] = &board.PositionRecord{ID: "a", Name: "Avery Cole"}
	st.Lanes = append(st.Lanes,
		&board.Lane{ID: "l1", ChainType: board.ChainPromotion, ItemIDs: []string{"a"}},
		&board.Lane{ID: "l2", ChainType: board.ChainSwap},
	)

	recs, err := SaveBoard(gormDB, st)
	if err != nil {
		t.Fatalf("SaveBoard: %v", err)
	}
	// Promotion lanes and empty swap lanes get no backing transaction.
	if len(recs) != 0 {
		t.Errorf("reconciliations = %d, want 0", len(recs))
	}
}

func TestCreateTransaction(t *testing.T) {
	gormDB := openTestDB(t)

	row, err := CreateTransaction(gormDB, CreateTransactionOpts{
		Year:     2026,
		SwapDate: time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		SwapType: "transfer",
		Details: []DetailOpts{
			{StaffName: "Casey Drum", FromPositionTitle: "Liaison", FromUnit: "Support",
				ToPositionTitle: "Liaison", ToUnit: "Plans"},
		},
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	if row.GroupNumber != "TRF-2026-001" {
		t.Errorf("GroupNumber = %q, want TRF-2026-001", row.GroupNumber)
	}
	if len(row.Details) != 1 || row.Details[0].Position != 0 {
		t.Errorf("details = %+v", row.Details)
	}

	if _, err := CreateTransaction(gormDB, CreateTransactionOpts{Year: 2026, SwapType: "sideways"}); err == nil {
		t.Error("CreateTransaction accepted an unknown swap type")
	}
}

func TestDeleteTransactionIdempotent(t *testing.T) {
	gormDB := openTestDB(t)

	row, err := CreateTransaction(gormDB, CreateTransactionOpts{
		Year:     2026,
		SwapType: "swap",
		Details:  []DetailOpts{{StaffName: "Avery Cole"}, {StaffName: "Blair Finch"}},
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}

	if err := DeleteTransaction(gormDB, row.ID); err != nil {
		t.Fatalf("DeleteTransaction: %v", err)
	}
	if _, err := GetTransaction(gormDB, row.ID); err == nil {
		t.Error("transaction still readable after delete")
	}
	var detailCount int64
	if err := gormDB.Model(&models.SwapDetail{}).
		Where("transaction_id = ?", row.ID).Count(&detailCount).Error; err != nil {
		t.Fatalf("count details: %v", err)
	}
	if detailCount != 0 {
		t.Errorf("details remaining = %d, want 0", detailCount)
	}

	// Deleting again is success, not an error.
	if err := DeleteTransaction(gormDB, row.ID); err != nil {
		t.Errorf("second delete: %v, want success", err)
	}
	if err := DeleteTransaction(gormDB, 99999); err != nil {
		t.Errorf("delete of never-existing id: %v, want success", err)
	}
}

func TestListTransactionsNewestFirst(t *testing.T) {
	gormDB := openTestDB(t)

	for _, name := range []string{"first", "second"} {
		if _, err := CreateTransaction(gormDB, CreateTransactionOpts{
			Year: 2026, SwapType: "swap", GroupName: name,
		}); err != nil {
			t.Fatalf("CreateTransaction %s: %v", name, err)
		}
		time.Sleep(5 * time.Millisecond)
	}

	rows, err := ListTransactions(gormDB, 2026)
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("transactions = %d, want 2", len(rows))
	}
	if rows[0].GroupName != "second" {
		t.Errorf("first row = %q, want newest first", rows[0].GroupName)
	}
}
