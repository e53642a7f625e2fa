package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/staffyard/staffyard/internal/models"
)

func testRouter(t *testing.T) (*gin.Engine, *deps) {
	t.Helper()
	gormDB := openTestDB(t)
	gin.SetMode(gin.TestMode)
	router := gin.New()
	d := &deps{
		db:       gormDB,
		sessions: NewSessions(gormDB, 0, time.Hour),
	}
	registerRoutes(router, d)
	return router, d
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, map[string]json.RawMessage) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	out := map[string]json.RawMessage{}
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
			t.Fatalf("decode response %q: %v", w.Body.String(), err)
		}
	}
	return w, out
}

type boardPayload struct {
	Lanes []struct {
		ID        string   `json:"id"`
		Title     string   `json:"title"`
		ChainType string   `json:"chainType"`
		ItemIDs   []string `json:"itemIds"`
	} `json:"lanes"`
	Personnel map[string]struct {
		Name        string `json:"name"`
		Destination *struct {
			Title string `json:"title"`
			Unit  string `json:"unit"`
		} `json:"destination"`
	} `json:"personnel"`
}

func decodeBoard(t *testing.T, raw json.RawMessage) boardPayload {
	t.Helper()
	var b boardPayload
	if err := json.Unmarshal(raw, &b); err != nil {
		t.Fatalf("decode board: %v", err)
	}
	return b
}

func seedDirectory(t *testing.T, d *deps) (avery, blair, casey uint) {
	t.Helper()
	rows := []*models.StaffMember{
		{Year: 2026, Name: "Avery Cole", PositionTitle: "Analyst", Unit: "Plans", PositionCode: "PL-01"},
		{Year: 2026, Name: "Blair Finch", PositionTitle: "Planner", Unit: "Operations", PositionCode: "OP-02"},
		{Year: 2026, Name: "Casey Drum", PositionTitle: "Liaison", Unit: "Support", PositionCode: "SP-03"},
	}
	for _, r := range rows {
		if err := d.db.Create(r).Error; err != nil {
			t.Fatalf("seed %s: %v", r.Name, err)
		}
	}
	return rows[0].ID, rows[1].ID, rows[2].ID
}

func TestHealthz(t *testing.T) {
	router, _ := testRouter(t)
	w, _ := doJSON(t, router, http.MethodGet, "/healthz", nil)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestBoardInvalidYear(t *testing.T) {
	router, _ := testRouter(t)
	w, _ := doJSON(t, router, http.MethodGet, "/api/years/bogus/board", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestSwapFlowOverHTTP(t *testing.T) {
	router, d := testRouter(t)
	averyID, blairID, caseyID := seedDirectory(t, d)

	// Create a swap lane.
	w, resp := doJSON(t, router, http.MethodPost, "/api/years/2026/lanes",
		gin.H{"chainType": "swap"})
	if w.Code != http.StatusOK {
		t.Fatalf("create lane: status = %d, body %s", w.Code, w.Body.String())
	}
	b := decodeBoard(t, resp["board"])
	if len(b.Lanes) != 1 {
		t.Fatalf("lanes = %d, want 1", len(b.Lanes))
	}
	laneID := b.Lanes[0].ID

	// Drop two directory people into it.
	for _, staffID := range []uint{averyID, blairID} {
		w, resp = doJSON(t, router, http.MethodPost, "/api/years/2026/drop",
			gin.H{"source": "directory", "staffId": staffID, "laneId": laneID})
		if w.Code != http.StatusOK {
			t.Fatalf("drop %d: status = %d, body %s", staffID, w.Code, w.Body.String())
		}
	}
	b = decodeBoard(t, resp["board"])
	if got := len(b.Lanes[0].ItemIDs); got != 2 {
		t.Fatalf("members = %d, want 2", got)
	}
	if b.Lanes[0].Title != "Swap: Avery Cole ↔ Blair Finch" {
		t.Errorf("lane title = %q", b.Lanes[0].Title)
	}
	for _, rec := range b.Personnel {
		if rec.Destination == nil {
			t.Errorf("record %q has no destination after pairing", rec.Name)
		}
	}

	// A third member exceeds the swap capacity.
	w, resp = doJSON(t, router, http.MethodPost, "/api/years/2026/drop",
		gin.H{"source": "directory", "staffId": caseyID, "laneId": laneID})
	if w.Code != http.StatusConflict {
		t.Fatalf("over-capacity drop: status = %d, want 409", w.Code)
	}
	var limit int
	if err := json.Unmarshal(resp["limit"], &limit); err != nil || limit != 2 {
		t.Errorf("limit = %v (%v), want 2", string(resp["limit"]), err)
	}

	// Undo unwinds the second drop.
	w, resp = doJSON(t, router, http.MethodPost, "/api/years/2026/undo", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("undo: status = %d", w.Code)
	}
	var applied bool
	if err := json.Unmarshal(resp["applied"], &applied); err != nil || !applied {
		t.Fatalf("applied = %v, want true", string(resp["applied"]))
	}
	b = decodeBoard(t, resp["board"])
	if got := len(b.Lanes[0].ItemIDs); got != 1 {
		t.Errorf("members after undo = %d, want 1", got)
	}

	// Redo restores it.
	w, resp = doJSON(t, router, http.MethodPost, "/api/years/2026/redo", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("redo: status = %d", w.Code)
	}
	b = decodeBoard(t, resp["board"])
	if got := len(b.Lanes[0].ItemIDs); got != 2 {
		t.Errorf("members after redo = %d, want 2", got)
	}
}

func TestManualSaveBacksLane(t *testing.T) {
	router, d := testRouter(t)
	averyID, blairID, _ := seedDirectory(t, d)

	_, resp := doJSON(t, router, http.MethodPost, "/api/years/2026/lanes", gin.H{"chainType": "swap"})
	laneID := decodeBoard(t, resp["board"]).Lanes[0].ID
	for _, staffID := range []uint{averyID, blairID} {
		doJSON(t, router, http.MethodPost, "/api/years/2026/drop",
			gin.H{"source": "directory", "staffId": staffID, "laneId": laneID})
	}

	w, resp := doJSON(t, router, http.MethodPost, "/api/years/2026/board/save", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("save: status = %d, body %s", w.Code, w.Body.String())
	}
	var lanes []struct {
		LaneID        string `json:"laneId"`
		TransactionID uint   `json:"transactionId"`
	}
	if err := json.Unmarshal(resp["lanes"], &lanes); err != nil {
		t.Fatalf("decode reconciliations: %v", err)
	}
	if len(lanes) != 1 || lanes[0].TransactionID == 0 {
		t.Fatalf("reconciliations = %+v, want one backed lane", lanes)
	}

	// Deleting the lane also deletes its backing transaction.
	w, _ = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/years/2026/lanes/%s", laneID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete lane: status = %d", w.Code)
	}
	var count int64
	if err := d.db.Model(&models.SwapTransaction{}).Count(&count).Error; err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("transactions = %d after lane delete, want 0", count)
	}
}

func TestCandidatesEndpoint(t *testing.T) {
	router, d := testRouter(t)
	seedDirectory(t, d)

	w, resp := doJSON(t, router, http.MethodGet, "/api/candidates?year=2026&search=Analyst", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var total int64
	if err := json.Unmarshal(resp["total"], &total); err != nil {
		t.Fatalf("decode total: %v", err)
	}
	if total != 1 {
		t.Errorf("total = %d, want 1 (Avery Cole)", total)
	}
}

func TestDropUnknownStaff(t *testing.T) {
	router, _ := testRouter(t)

	_, resp := doJSON(t, router, http.MethodPost, "/api/years/2026/lanes", gin.H{"chainType": "custom"})
	laneID := decodeBoard(t, resp["board"]).Lanes[0].ID

	w, _ := doJSON(t, router, http.MethodPost, "/api/years/2026/drop",
		gin.H{"source": "directory", "staffId": 999, "laneId": laneID})
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}

	w, _ = doJSON(t, router, http.MethodPost, "/api/years/2026/drop",
		gin.H{"source": "elsewhere", "laneId": laneID})
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown source status = %d, want 400", w.Code)
	}
}

func TestTransactionEndpoints(t *testing.T) {
	router, d := testRouter(t)

	w, resp := doJSON(t, router, http.MethodPost, "/api/transactions", gin.H{
		"year":     2026,
		"swapType": "swap",
		"swapDate": "2026-03-15",
		"swapDetails": []gin.H{
			{"staffName": "Avery Cole", "fromPositionTitle": "Analyst", "toPositionTitle": "Planner"},
			{"staffName": "Blair Finch", "fromPositionTitle": "Planner", "toPositionTitle": "Analyst"},
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("create: status = %d, body %s", w.Code, w.Body.String())
	}
	var row struct {
		ID          uint   `json:"ID"`
		GroupNumber string `json:"GroupNumber"`
	}
	if err := json.Unmarshal(resp["data"], &row); err != nil {
		t.Fatalf("decode transaction: %v", err)
	}
	if row.GroupNumber != "SWP-2026-001" {
		t.Errorf("GroupNumber = %q, want SWP-2026-001", row.GroupNumber)
	}

	w, _ = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/transactions/%d", row.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete: status = %d", w.Code)
	}
	var count int64
	if err := d.db.Model(&models.SwapTransaction{}).Count(&count).Error; err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("transactions = %d after delete, want 0", count)
	}

	// Bad date is rejected up front.
	w, _ = doJSON(t, router, http.MethodPost, "/api/transactions",
		gin.H{"year": 2026, "swapType": "swap", "swapDate": "15/03/2026"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad date status = %d, want 400", w.Code)
	}
}
