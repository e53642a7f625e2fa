package notify

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// cronParser uses standard 5-field cron expressions (minute, hour, dom, month, dow).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidSchedule reports whether expr parses as a 5-field cron expression.
func ValidSchedule(expr string) bool {
	_, err := cronParser.Parse(expr)
	return err == nil
}

// nextCronDuration parses a 5-field cron expression and returns the
// duration until the next fire time. Returns 0 on parse error.
func nextCronDuration(expr string) time.Duration {
	sched, err := cronParser.Parse(expr)
	if err != nil {
		return 0
	}
	next := sched.Next(time.Now())
	d := time.Until(next)
	if d < 0 {
		return 0
	}
	return d
}

// RunDigestLoop sends the daily digest on the given cron schedule until
// ctx is cancelled. Digest failures are logged and the loop continues.
func RunDigestLoop(ctx context.Context, db *gorm.DB, n Notifier, expr string) {
	for {
		d := nextCronDuration(expr)
		if d == 0 {
			log.Printf("notify: digest schedule %q did not parse, digest disabled", expr)
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(d):
		}

		ev, err := BuildDailyDigest(db)
		if err != nil {
			log.Printf("notify: build digest: %v", err)
			continue
		}
		if ev == nil {
			continue
		}
		if err := n.Send(ctx, *ev); err != nil {
			log.Printf("notify: send digest: %v", err)
		}
	}
}
