// Package server exposes the planning board over a JSON HTTP API. Each
// planning year is an in-memory session; mutations arrive as drag-drop
// events and board operations, and are persisted with a debounced
// autosave.
package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/staffyard/staffyard/internal/notify"
)

// StartOpts holds configuration for the API server.
type StartOpts struct {
	DB           *gorm.DB
	Port         int
	HistoryLimit int
	// AutosaveDelay is the debounce after the last mutation before the
	// board is written back.
	AutosaveDelay time.Duration
	// Notifier announces finalized transactions. May be nil.
	Notifier notify.Notifier
	Out      io.Writer
}

// Start launches the API server. It blocks until ctx is cancelled, then
// shuts down gracefully.
func Start(ctx context.Context, opts StartOpts) error {
	if opts.DB == nil {
		return fmt.Errorf("server: db is required")
	}
	if opts.Port <= 0 {
		opts.Port = 8080
	}
	if opts.AutosaveDelay <= 0 {
		opts.AutosaveDelay = 2 * time.Second
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	sessions := NewSessions(opts.DB, opts.HistoryLimit, opts.AutosaveDelay)
	registerRoutes(router, &deps{
		db:       opts.DB,
		sessions: sessions,
		notifier: opts.Notifier,
	})

	addr := fmt.Sprintf(":%d", opts.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Graceful shutdown on context cancellation.
	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	if opts.Out != nil {
		fmt.Fprintf(opts.Out, "Staffyard API running at http://localhost:%d\n", opts.Port)
	}

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}

// deps bundles what the route handlers need.
type deps struct {
	db       *gorm.DB
	sessions *Sessions
	notifier notify.Notifier
}
