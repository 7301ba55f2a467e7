// Package vault implements the access-control core of the credential vault:
// the state machine gating read/write access behind the master password,
// the optional biometric unlock, and the security-question recovery flow.
package vault

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/goodhackers/passkeeper/internal/biometric"
	"github.com/goodhackers/passkeeper/internal/digest"
	"github.com/goodhackers/passkeeper/internal/models"
	"github.com/goodhackers/passkeeper/internal/store"
)

const (
	// MinPasswordLength is the minimum master password length.
	MinPasswordLength = 6
	// MinAnswerLength is the minimum security-answer length after trimming.
	MinAnswerLength = 4
)

// unlockPrompt is the text shown by the biometric challenge.
const unlockPrompt = "Unlock Good Hackers"

// Controller decides whether the vault is uninitialized, locked, or
// unlocked, and owns every transition between those states.
type Controller struct {
	store store.RecordStore
	gate  biometric.Gate
	log   *zap.Logger

	mu       sync.Mutex
	unlocked bool
	verified bool
	lastUsed time.Time
}

// NewController constructs a Controller over the given record store and
// biometric gate. The vault starts locked.
func NewController(st store.RecordStore, gate biometric.Gate, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{store: st, gate: gate, log: log, lastUsed: time.Now()}
}

// SetupParams carries the first-time setup input.
type SetupParams struct {
	Password  string
	Confirm   string
	Question1 string
	Answer1   string
	Question2 string
	Answer2   string
	// EnableBiometric asks for fingerprint unlock; it is persisted only
	// when the device actually has the capability.
	EnableBiometric bool
}

// Status reports the current vault state. An unlocked session reports
// Unlocked without touching the store; otherwise the state depends on
// whether a master password exists.
func (c *Controller) Status(ctx context.Context) (models.VaultState, error) {
	if c.Unlocked() {
		return models.Unlocked, nil
	}
	_, ok, err := c.store.Get(ctx, store.KeyMasterPassword)
	if err != nil {
		return models.Locked, persistf("read master password", err)
	}
	if !ok {
		return models.Uninitialized, nil
	}
	return models.Locked, nil
}

// Unlocked reports whether the current session is authenticated.
func (c *Controller) Unlocked() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.unlocked
}

// Touch records session activity for the auto-lock watcher.
func (c *Controller) Touch() {
	c.mu.Lock()
	c.lastUsed = time.Now()
	c.mu.Unlock()
}

// Setup validates the first-time setup input, persists the master-password
// digest and both security questions in one commit, optionally stores the
// biometric preference, and unlocks the vault.
func (c *Controller) Setup(ctx context.Context, p SetupParams) error {
	if len(p.Password) < MinPasswordLength {
		return invalidf("master password must be at least %d characters", MinPasswordLength)
	}
	if p.Password != p.Confirm {
		return invalidf("passwords do not match")
	}
	q1 := strings.TrimSpace(p.Question1)
	q2 := strings.TrimSpace(p.Question2)
	if q1 == "" || q2 == "" {
		return invalidf("both security questions are required")
	}
	if len(strings.TrimSpace(p.Answer1)) < MinAnswerLength ||
		len(strings.TrimSpace(p.Answer2)) < MinAnswerLength {
		return invalidf("security answers must be at least %d characters", MinAnswerLength)
	}
	if q1 == q2 {
		return invalidf("security questions must be different")
	}

	ops := []store.Op{
		store.SetOp(store.KeyMasterPassword, digest.Sum(p.Password)),
		store.SetOp(store.KeySecurityQuestion1, q1),
		store.SetOp(store.KeySecurityAnswer1, digest.SumAnswer(p.Answer1)),
		store.SetOp(store.KeySecurityQuestion2, q2),
		store.SetOp(store.KeySecurityAnswer2, digest.SumAnswer(p.Answer2)),
	}
	if err := c.store.Apply(ctx, ops); err != nil {
		return persistf("save setup data", err)
	}

	// The preference is non-critical: a failed write is logged and setup
	// continues, per the propagation policy.
	supported, err := biometric.Supported(ctx, c.gate)
	if err != nil {
		c.log.Warn("biometric capability check failed", zap.Error(err))
	} else if supported {
		value := strconv.FormatBool(p.EnableBiometric)
		if err := c.store.Set(ctx, store.KeyBiometricEnabled, value); err != nil {
			c.log.Warn("failed to save biometric preference", zap.Error(err))
		}
	}

	c.mu.Lock()
	c.unlocked = true
	c.verified = false
	c.lastUsed = time.Now()
	c.mu.Unlock()
	c.log.Info("vault setup complete")
	return nil
}

// UnlockWithPassword hashes the supplied password and compares it to the
// stored master digest. A mismatch leaves the vault locked.
func (c *Controller) UnlockWithPassword(ctx context.Context, password string) error {
	stored, ok, err := c.store.Get(ctx, store.KeyMasterPassword)
	if err != nil {
		return persistf("read master password", err)
	}
	if !ok {
		return invalidf("vault is not set up")
	}
	if digest.Sum(password) != stored {
		return wrapf(ErrAuthFailed, "master password mismatch")
	}
	c.mu.Lock()
	c.unlocked = true
	c.lastUsed = time.Now()
	c.mu.Unlock()
	c.log.Info("vault unlocked", zap.String("method", "password"))
	return nil
}

// BiometricSupported reports whether the device can perform fingerprint
// authentication at all, regardless of preference or vault state.
func (c *Controller) BiometricSupported(ctx context.Context) (bool, error) {
	return biometric.Supported(ctx, c.gate)
}

// BiometricUnlockAvailable reports whether the biometric path may be
// offered: the device supports fingerprints, the preference is enabled,
// and a master password exists.
func (c *Controller) BiometricUnlockAvailable(ctx context.Context) (bool, error) {
	supported, err := biometric.Supported(ctx, c.gate)
	if err != nil || !supported {
		return false, err
	}
	pref, ok, err := c.store.Get(ctx, store.KeyBiometricEnabled)
	if err != nil {
		return false, persistf("read biometric preference", err)
	}
	if !ok || pref != "true" {
		return false, nil
	}
	_, ok, err = c.store.Get(ctx, store.KeyMasterPassword)
	if err != nil {
		return false, persistf("read master password", err)
	}
	return ok, nil
}

// UnlockWithBiometric runs one biometric challenge. Failure or dismissal
// leaves the vault locked without penalty; the password path stays open.
func (c *Controller) UnlockWithBiometric(ctx context.Context) error {
	available, err := c.BiometricUnlockAvailable(ctx)
	if err != nil {
		return err
	}
	if !available {
		return invalidf("biometric unlock is not available")
	}
	outcome, err := c.gate.Authenticate(ctx, unlockPrompt)
	if err != nil {
		return wrapf(ErrAuthFailed, "biometric challenge error: %v", err)
	}
	switch outcome {
	case biometric.OutcomeSuccess:
		c.mu.Lock()
		c.unlocked = true
		c.lastUsed = time.Now()
		c.mu.Unlock()
		c.log.Info("vault unlocked", zap.String("method", "biometric"))
		return nil
	case biometric.OutcomeCancelled:
		return wrapf(ErrAuthFailed, "biometric challenge cancelled")
	default:
		return wrapf(ErrAuthFailed, "biometric challenge failed")
	}
}

// Lock transitions the vault back to Locked. Called on explicit logout and
// when the application loses the foreground.
func (c *Controller) Lock() {
	c.mu.Lock()
	was := c.unlocked
	c.unlocked = false
	c.mu.Unlock()
	if was {
		c.log.Info("vault locked")
	}
}

// SecurityQuestions returns both recovery prompts for display. Returns
// ErrNotFound when the vault has no security questions.
func (c *Controller) SecurityQuestions(ctx context.Context) (string, string, error) {
	q1, ok1, err := c.store.Get(ctx, store.KeySecurityQuestion1)
	if err != nil {
		return "", "", persistf("read security question", err)
	}
	q2, ok2, err := c.store.Get(ctx, store.KeySecurityQuestion2)
	if err != nil {
		return "", "", persistf("read security question", err)
	}
	if !ok1 || !ok2 {
		return "", "", wrapf(ErrNotFound, "security questions are not set")
	}
	return q1, q2, nil
}

// VerifyRecovery hashes both normalized answers and compares them to the
// stored digests. Both must match to mark the session verified-for-reset.
func (c *Controller) VerifyRecovery(ctx context.Context, answer1, answer2 string) error {
	if len(strings.TrimSpace(answer1)) < MinAnswerLength ||
		len(strings.TrimSpace(answer2)) < MinAnswerLength {
		return invalidf("answer both questions with at least %d characters", MinAnswerLength)
	}
	stored1, ok1, err := c.store.Get(ctx, store.KeySecurityAnswer1)
	if err != nil {
		return persistf("read security answer", err)
	}
	stored2, ok2, err := c.store.Get(ctx, store.KeySecurityAnswer2)
	if err != nil {
		return persistf("read security answer", err)
	}
	if !ok1 || !ok2 {
		return wrapf(ErrNotFound, "security questions are not set")
	}
	if digest.SumAnswer(answer1) != stored1 || digest.SumAnswer(answer2) != stored2 {
		c.mu.Lock()
		c.verified = false
		c.mu.Unlock()
		return wrapf(ErrAuthFailed, "security answers do not match")
	}
	c.mu.Lock()
	c.verified = true
	c.mu.Unlock()
	return nil
}

// RecoveryVerified reports whether the session may reset the password.
func (c *Controller) RecoveryVerified() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.verified
}

// ResetPassword replaces the master password after a verified recovery.
// One commit removes the old master digest together with both security
// questions and writes the new digest, so the vault is left with a
// password but no recovery questions until setup is re-run.
func (c *Controller) ResetPassword(ctx context.Context, newPassword, confirm string) error {
	if !c.RecoveryVerified() {
		return wrapf(ErrNotVerified, "verify security answers first")
	}
	if len(newPassword) < MinPasswordLength {
		return invalidf("new password must be at least %d characters", MinPasswordLength)
	}
	if newPassword != confirm {
		return invalidf("new passwords do not match")
	}

	ops := []store.Op{
		store.DeleteOp(store.KeyMasterPassword),
		store.DeleteOp(store.KeySecurityQuestion1),
		store.DeleteOp(store.KeySecurityAnswer1),
		store.DeleteOp(store.KeySecurityQuestion2),
		store.DeleteOp(store.KeySecurityAnswer2),
		store.SetOp(store.KeyMasterPassword, digest.Sum(newPassword)),
	}
	if err := c.store.Apply(ctx, ops); err != nil {
		return persistf("reset master password", err)
	}

	c.mu.Lock()
	c.verified = false
	c.unlocked = false
	c.mu.Unlock()
	c.log.Info("master password reset; security questions cleared")
	return nil
}
