package vault

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// StartAutoLock re-locks the vault once the session has been idle for
// idleAfter, checking every interval. It is the stand-in for the mobile
// backgrounding event: losing the user's attention closes the exposure
// window. The watcher stops when ctx is cancelled.
func StartAutoLock(
	ctx context.Context,
	c *Controller,
	interval time.Duration,
	idleAfter time.Duration,
	log *zap.Logger,
) {
	if log == nil {
		log = zap.NewNop()
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.mu.Lock()
				idle := time.Since(c.lastUsed)
				unlocked := c.unlocked
				c.mu.Unlock()
				if unlocked && idle >= idleAfter {
					c.Lock()
					log.Info("vault auto-locked", zap.Duration("idle", idle))
				}
			}
		}
	}()
}
