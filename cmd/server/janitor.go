package main

import (
	"context"
	"time"

	"github.com/TrueSergey/websitewishlist/internal/logging"
)

type notificationCleaner interface {
	CleanupOld(ctx context.Context, olderThan time.Duration) (int64, error)
}

// runNotificationJanitor deletes notifications past the retention window
// once at startup and then every interval until ctx is done.
func runNotificationJanitor(ctx context.Context, cleaner notificationCleaner, retention, interval time.Duration) {
	log := logging.Default.WithField("component", "notification-janitor")
	if retention <= 0 || interval <= 0 {
		log.Info("Notification cleanup disabled")
		return
	}

	sweep := func() {
		deleted, err := cleaner.CleanupOld(ctx, retention)
		if err != nil {
			log.Warn("Notification cleanup failed", map[string]interface{}{"error": err})
			return
		}
		if deleted > 0 {
			log.Info("Deleted old notifications", map[string]interface{}{
				"deleted":   deleted,
				"retention": retention.String(),
			})
		}
	}

	sweep()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweep()
		}
	}
}
