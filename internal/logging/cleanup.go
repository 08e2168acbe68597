package logging

import (
	"context"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/disaster-report/internal/models"
	"gorm.io/gorm"
)

const cleanupInterval = 24 * time.Hour

// StartCleanup deletes system_logs older than retention once at startup and
// then daily, until done is closed.
func StartCleanup(db *gorm.DB, retention time.Duration, done chan struct{}) {
	go func() {
		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()

		purge := func() {
			deleted, err := PurgeOlderThan(context.Background(), db, time.Now().Add(-retention))
			if err != nil {
				slog.Error("log cleanup failed", "error", err)
			} else if deleted > 0 {
				slog.Info("log cleanup completed", "deleted", deleted)
			}
		}

		purge()
		for {
			select {
			case <-ticker.C:
				purge()
			case <-done:
				return
			}
		}
	}()
}

// PurgeOlderThan removes system_logs with a timestamp before cutoff.
func PurgeOlderThan(ctx context.Context, db *gorm.DB, cutoff time.Time) (int64, error) {
	result := db.WithContext(ctx).Where("timestamp < ?", cutoff).Delete(&models.SystemLog{})
	return result.RowsAffected, result.Error
}
