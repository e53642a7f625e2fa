package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/staffyard/staffyard/internal/board"
	"github.com/staffyard/staffyard/internal/directory"
	"github.com/staffyard/staffyard/internal/dragdrop"
	"github.com/staffyard/staffyard/internal/notify"
	"github.com/staffyard/staffyard/internal/store"
)

// registerRoutes sets up all API routes on the Gin router.
func registerRoutes(router *gin.Engine, d *deps) {
	api := router.Group("/api")

	years := api.Group("/years/:year")
	years.GET("/board", d.handleBoard)
	years.POST("/board/save", d.handleSave)
	years.POST("/lanes", d.handleCreateLane)
	years.DELETE("/lanes/:id", d.handleDeleteLane)
	years.POST("/lanes/:id/complete", d.handleCompleteLane)
	years.POST("/lanes/:id/placeholder", d.handlePlaceholder)
	years.POST("/drop", d.handleDrop)
	years.POST("/reorder-lanes", d.handleReorderLanes)
	years.POST("/records/:id/annotations", d.handleAnnotations)
	years.POST("/records/:id/rename", d.handleRename)
	years.DELETE("/records/:id", d.handleRemoveRecord)
	years.POST("/selection", d.handleSelection)
	years.POST("/undo", d.handleUndo)
	years.POST("/redo", d.handleRedo)

	api.GET("/candidates", d.handleCandidates)
	api.GET("/vacancies", d.handleVacancies)
	api.GET("/units", d.handleUnits)
	api.GET("/position-codes", d.handlePositionCodes)
	api.POST("/transactions", d.handleCreateTransaction)
	api.DELETE("/transactions/:id", d.handleDeleteTransaction)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// session resolves the year param into its board session.
func (d *deps) session(c *gin.Context) (*Session, bool) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
		return nil, false
	}
	sess, err := d.sessions.Get(year)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return nil, false
	}
	return sess, true
}

// respondBoard replies with a detached copy of the session's board.
func respondBoard(c *gin.Context, sess *Session) {
	st, canUndo, canRedo := sess.Board()
	c.JSON(http.StatusOK, gin.H{
		"board":   st,
		"canUndo": canUndo,
		"canRedo": canRedo,
	})
}

// apiError maps core errors onto HTTP statuses. Capacity violations are
// user-input corrections, reported with the lane type and its limit.
func apiError(c *gin.Context, err error) {
	var capErr *dragdrop.CapacityError
	switch {
	case errors.As(err, &capErr):
		c.JSON(http.StatusConflict, gin.H{
			"error":     capErr.Error(),
			"chainType": capErr.ChainType,
			"limit":     capErr.Limit,
		})
	case errors.Is(err, dragdrop.ErrLaneNotFound), errors.Is(err, dragdrop.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, dragdrop.ErrLaneCompleted):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, dragdrop.ErrInvalidTarget):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	}
}

func (d *deps) handleBoard(c *gin.Context) {
	sess, ok := d.session(c)
	if !ok {
		return
	}
	respondBoard(c, sess)
}

func (d *deps) handleSave(c *gin.Context) {
	sess, ok := d.session(c)
	if !ok {
		return
	}
	recs, err := sess.SaveNow()
	if err != nil {
		apiError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lanes": recs})
}

type createLaneRequest struct {
	ChainType string `json:"chainType" binding:"required"`
	Title     string `json:"title"`
	VacancyID uint   `json:"vacancyId"`
	Level     int    `json:"level"`
}

func (d *deps) handleCreateLane(c *gin.Context) {
	sess, ok := d.session(c)
	if !ok {
		return
	}
	var req createLaneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	chain := board.ChainType(req.ChainType)
	if !chain.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown chain type %q", req.ChainType)})
		return
	}

	opts := dragdrop.CreateLaneOpts{ChainType: chain, Title: req.Title, Level: req.Level}
	if req.VacancyID != 0 {
		var err error
		opts.Anchor, err = d.vacancyAnchor(req.VacancyID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
	}
	groupNumber, err := store.NextGroupNumber(d.db, chain, sess.Year)
	if err != nil {
		apiError(c, err)
		return
	}
	opts.GroupNumber = groupNumber

	err = sess.Do(func(h *dragdrop.Handler, _ *board.State) error {
		_, err := h.CreateLane(opts)
		return err
	})
	if err != nil {
		apiError(c, err)
		return
	}
	respondBoard(c, sess)
}

// vacancyAnchor loads a vacancy row into a lane anchor.
func (d *deps) vacancyAnchor(id uint) (*board.Anchor, error) {
	row, err := directory.GetVacancy(d.db, id)
	if err != nil {
		return nil, err
	}
	return &board.Anchor{
		Kind: board.AnchorVacancy,
		Vacancy: &board.VacancyInfo{
			VacancyID: row.ID,
			Position: board.Position{
				Code:       row.PositionCode,
				Title:      row.PositionTitle,
				Unit:       row.Unit,
				ActingRole: row.ActingRole,
			},
			Label: fmt.Sprintf("%s / %s", row.PositionTitle, row.Unit),
		},
	}, nil
}

func (d *deps) handleDeleteLane(c *gin.Context) {
	sess, ok := d.session(c)
	if !ok {
		return
	}
	laneID := c.Param("id")

	var txID uint
	err := sess.Do(func(h *dragdrop.Handler, _ *board.State) error {
		var err error
		txID, err = h.DeleteLane(laneID)
		return err
	})
	if err != nil {
		apiError(c, err)
		return
	}
	if txID != 0 {
		if err := store.DeleteTransaction(d.db, txID); err != nil {
			log.Printf("server: delete backing transaction %d: %v", txID, err)
		}
	}
	respondBoard(c, sess)
}

func (d *deps) handleCompleteLane(c *gin.Context) {
	sess, ok := d.session(c)
	if !ok {
		return
	}
	laneID := c.Param("id")

	var completed *board.Lane
	var memberCount int
	err := sess.Do(func(h *dragdrop.Handler, st *board.State) error {
		l, err := h.CompleteLane(laneID)
		if err != nil {
			return err
		}
		completed = l.Clone()
		memberCount = len(l.ItemIDs)
		return nil
	})
	if err != nil {
		apiError(c, err)
		return
	}

	if d.notifier != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := d.notifier.Send(ctx, notify.LaneCompleted(completed, memberCount)); err != nil {
				log.Printf("server: notify lane completed: %v", err)
			}
		}()
	}
	respondBoard(c, sess)
}

func (d *deps) handlePlaceholder(c *gin.Context) {
	sess, ok := d.session(c)
	if !ok {
		return
	}
	laneID := c.Param("id")
	err := sess.Do(func(h *dragdrop.Handler, _ *board.State) error {
		_, err := h.InsertPlaceholder(laneID)
		return err
	})
	if err != nil {
		apiError(c, err)
		return
	}
	respondBoard(c, sess)
}

type dropRequest struct {
	Source   string `json:"source" binding:"required"` // directory or card
	StaffID  uint   `json:"staffId"`
	CardID   string `json:"cardId"`
	LaneID   string `json:"laneId" binding:"required"`
	TargetID string `json:"targetId"`
	Edge     string `json:"edge"` // top or bottom
}

func (d *deps) handleDrop(c *gin.Context) {
	sess, ok := d.session(c)
	if !ok {
		return
	}
	var req dropRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	edge := dragdrop.Edge(req.Edge)

	var err error
	switch req.Source {
	case "directory":
		var staff *dragdrop.DirectoryPerson
		staff, err = d.directoryPerson(req.StaffID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		err = sess.Do(func(h *dragdrop.Handler, _ *board.State) error {
			if req.TargetID == "" {
				_, err := h.DropFromDirectory(*staff, req.LaneID)
				return err
			}
			_, err := h.DropFromDirectoryAt(*staff, req.LaneID, req.TargetID, edge)
			return err
		})
	case "card":
		if req.CardID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cardId is required for card drops"})
			return
		}
		err = sess.Do(func(h *dragdrop.Handler, _ *board.State) error {
			return h.MoveCard(req.CardID, req.LaneID, req.TargetID, edge)
		})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown drop source %q", req.Source)})
		return
	}
	if err != nil {
		apiError(c, err)
		return
	}
	respondBoard(c, sess)
}

// directoryPerson loads a staff row into the shape the handler mints
// records from.
func (d *deps) directoryPerson(staffID uint) (*dragdrop.DirectoryPerson, error) {
	row, err := directory.GetStaff(d.db, staffID)
	if err != nil {
		return nil, err
	}
	return &dragdrop.DirectoryPerson{
		StaffID:           row.ID,
		Name:              row.Name,
		Rank:              row.Rank,
		PositionTitle:     row.PositionTitle,
		Unit:              row.Unit,
		PositionCode:      row.PositionCode,
		PositionCodeLabel: row.PositionCodeLabel,
		Seniority:         row.Seniority,
		Avatar:            row.Avatar,
	}, nil
}

type reorderLanesRequest struct {
	LaneID       string `json:"laneId" binding:"required"`
	TargetLaneID string `json:"targetLaneId" binding:"required"`
	Edge         string `json:"edge"` // left or right
}

func (d *deps) handleReorderLanes(c *gin.Context) {
	sess, ok := d.session(c)
	if !ok {
		return
	}
	var req reorderLanesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := sess.Do(func(h *dragdrop.Handler, _ *board.State) error {
		return h.ReorderLanes(req.LaneID, req.TargetLaneID, dragdrop.LaneEdge(req.Edge))
	})
	if err != nil {
		apiError(c, err)
		return
	}
	// Lane order is persisted immediately, not left to the debounce.
	if _, err := sess.SaveNow(); err != nil {
		apiError(c, err)
		return
	}
	respondBoard(c, sess)
}

func (d *deps) handleAnnotations(c *gin.Context) {
	sess, ok := d.session(c)
	if !ok {
		return
	}
	recordID := c.Param("id")
	var ann board.Annotations
	if err := c.ShouldBindJSON(&ann); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := sess.Do(func(h *dragdrop.Handler, _ *board.State) error {
		return h.UpdateAnnotations(recordID, ann)
	})
	if err != nil {
		apiError(c, err)
		return
	}
	respondBoard(c, sess)
}

type renameRequest struct {
	Name string `json:"name" binding:"required"`
}

func (d *deps) handleRename(c *gin.Context) {
	sess, ok := d.session(c)
	if !ok {
		return
	}
	recordID := c.Param("id")
	var req renameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := sess.Do(func(h *dragdrop.Handler, _ *board.State) error {
		return h.RenameRecord(recordID, req.Name)
	})
	if err != nil {
		apiError(c, err)
		return
	}
	respondBoard(c, sess)
}

func (d *deps) handleRemoveRecord(c *gin.Context) {
	sess, ok := d.session(c)
	if !ok {
		return
	}
	recordID := c.Param("id")
	err := sess.Do(func(h *dragdrop.Handler, _ *board.State) error {
		return h.RemoveCard(recordID)
	})
	if err != nil {
		apiError(c, err)
		return
	}
	respondBoard(c, sess)
}

type selectionRequest struct {
	IDs []string `json:"ids"`
}

func (d *deps) handleSelection(c *gin.Context) {
	sess, ok := d.session(c)
	if !ok {
		return
	}
	var req selectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sess.Do(func(h *dragdrop.Handler, _ *board.State) error {
		h.SetSelection(req.IDs)
		return nil
	})
	respondBoard(c, sess)
}

func (d *deps) handleUndo(c *gin.Context) {
	sess, ok := d.session(c)
	if !ok {
		return
	}
	applied := false
	sess.Do(func(h *dragdrop.Handler, _ *board.State) error {
		applied = h.Undo()
		return nil
	})
	st, canUndo, canRedo := sess.Board()
	c.JSON(http.StatusOK, gin.H{"applied": applied, "board": st, "canUndo": canUndo, "canRedo": canRedo})
}

func (d *deps) handleRedo(c *gin.Context) {
	sess, ok := d.session(c)
	if !ok {
		return
	}
	applied := false
	sess.Do(func(h *dragdrop.Handler, _ *board.State) error {
		applied = h.Redo()
		return nil
	})
	st, canUndo, canRedo := sess.Board()
	c.JSON(http.StatusOK, gin.H{"applied": applied, "board": st, "canUndo": canUndo, "canRedo": canRedo})
}

func (d *deps) handleCandidates(c *gin.Context) {
	f := directory.CandidateFilters{
		Year:         queryInt(c, "year"),
		Search:       c.Query("search"),
		Unit:         c.Query("unit"),
		PositionCode: c.Query("positionCode"),
		Page:         queryInt(c, "page"),
		PerPage:      queryInt(c, "perPage"),
	}
	rows, total, err := directory.SearchCandidates(d.db, f)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows, "total": total})
}

func (d *deps) handleVacancies(c *gin.Context) {
	f := directory.VacancyFilters{
		Year:         queryInt(c, "year"),
		Unit:         c.Query("unit"),
		PositionCode: c.Query("positionCode"),
		Status:       c.Query("status"),
		Page:         queryInt(c, "page"),
		PerPage:      queryInt(c, "perPage"),
	}
	rows, total, err := directory.ListVacancies(d.db, f)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows, "total": total})
}

func (d *deps) handleUnits(c *gin.Context) {
	rows, err := directory.Units(d.db)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}

func (d *deps) handlePositionCodes(c *gin.Context) {
	rows, err := directory.PositionCodes(d.db)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}

type createTransactionRequest struct {
	Year        int                  `json:"year" binding:"required"`
	SwapDate    string               `json:"swapDate"`
	SwapType    string               `json:"swapType" binding:"required"`
	GroupName   string               `json:"groupName"`
	GroupNumber string               `json:"groupNumber"`
	SwapDetails []transactionDetails `json:"swapDetails"`
}

type transactionDetails struct {
	StaffID           *uint  `json:"staffId"`
	StaffName         string `json:"staffName"`
	FromPositionTitle string `json:"fromPositionTitle"`
	FromUnit          string `json:"fromUnit"`
	FromPositionCode  string `json:"fromPositionCode"`
	ToPositionTitle   string `json:"toPositionTitle"`
	ToUnit            string `json:"toUnit"`
	ToPositionCode    string `json:"toPositionCode"`
	ToActingRole      string `json:"toActingRole"`
}

func (d *deps) handleCreateTransaction(c *gin.Context) {
	var req createTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	opts := store.CreateTransactionOpts{
		Year:        req.Year,
		SwapType:    req.SwapType,
		GroupName:   req.GroupName,
		GroupNumber: req.GroupNumber,
	}
	if req.SwapDate != "" {
		t, err := time.Parse("2006-01-02", req.SwapDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid swapDate %q", req.SwapDate)})
			return
		}
		opts.SwapDate = t
	}
	for _, det := range req.SwapDetails {
		opts.Details = append(opts.Details, store.DetailOpts{
			StaffID:           det.StaffID,
			StaffName:         det.StaffName,
			FromPositionTitle: det.FromPositionTitle,
			FromUnit:          det.FromUnit,
			FromPositionCode:  det.FromPositionCode,
			ToPositionTitle:   det.ToPositionTitle,
			ToUnit:            det.ToUnit,
			ToPositionCode:    det.ToPositionCode,
			ToActingRole:      det.ToActingRole,
		})
	}
	row, err := store.CreateTransaction(d.db, opts)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": row})
}

func (d *deps) handleDeleteTransaction(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction id"})
		return
	}
	if err := store.DeleteTransaction(d.db, uint(id)); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func queryInt(c *gin.Context, name string) int {
	n, _ := strconv.Atoi(c.Query(name))
	return n
}
