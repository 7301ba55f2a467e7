package vault

import (
	"context"
	"testing"
	"time"

	"github.com/goodhackers/passkeeper/internal/biometric"
)

func TestStartAutoLock_LocksIdleVault(t *testing.T) {
	st := newMemStore()
	c := NewController(st, biometric.Unavailable(), nil)
	if err := c.Setup(context.Background(), validSetup()); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	StartAutoLock(ctx, c, 10*time.Millisecond, 30*time.Millisecond, nil)

	time.Sleep(200 * time.Millisecond)
	if c.Unlocked() {
		t.Error("expected vault to auto-lock after idling")
	}
}

func TestStartAutoLock_ActivityDefersLock(t *testing.T) {
	st := newMemStore()
	c := NewController(st, biometric.Unavailable(), nil)
	if err := c.Setup(context.Background(), validSetup()); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	StartAutoLock(ctx, c, 10*time.Millisecond, 500*time.Millisecond, nil)

	for i := 0; i < 5; i++ {
		time.Sleep(30 * time.Millisecond)
		c.Touch()
	}
	if !c.Unlocked() {
		t.Error("active vault must not auto-lock")
	}
}
