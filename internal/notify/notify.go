// Package notify announces planning-board events (finalized
// transactions, daily digests) to chat platforms. Adapters implement a
// small send-only interface; failures are logged by callers and never
// interrupt board flow.
package notify

import "context"

// Severity levels for events.
const (
	SeverityInfo    = "info"
	SeverityWarning = "warning"
	SeverityError   = "error"
	SeveritySuccess = "success"
)

// Event is one notification formatted for chat display.
type Event struct {
	Title    string  // headline (e.g. "Transaction SWP-2026-004 finalized")
	Body     string  // detail text
	Severity string  // info, warning, error, success
	Fields   []Field // key-value metadata pairs
}

// Field is a key-value pair displayed alongside an event.
type Field struct {
	Name  string
	Value string
	Short bool // hint: render side-by-side with another field
}

// Notifier delivers events to one chat platform.
type Notifier interface {
	Send(ctx context.Context, ev Event) error
	Close() error
}

// SeverityColor returns the sidebar color hint for a severity.
func SeverityColor(severity string) string {
	switch severity {
	case SeveritySuccess:
		return "#36a64f"
	case SeverityWarning:
		return "#f2c744"
	case SeverityError:
		return "#d00000"
	default:
		return "#439fe0"
	}
}

// Multi fans an event out to several notifiers, returning the first
// error after attempting all of them.
type Multi []Notifier

// Send delivers the event to every notifier.
func (m Multi) Send(ctx context.Context, ev Event) error {
	var firstErr error
	for _, n := range m {
		if err := n.Send(ctx, ev); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Close closes every notifier.
func (m Multi) Close() error {
	var firstErr error
	for _, n := range m {
		if err := n.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
