// Package credentials manages the stored credential collection: CRUD over
// the list of records once the vault is unlocked, with filter and search.
package credentials

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goodhackers/passkeeper/internal/models"
	"github.com/goodhackers/passkeeper/internal/store"
	"github.com/goodhackers/passkeeper/internal/vault"
)

// Session is the access-control surface the manager needs from the vault
// controller.
type Session interface {
	// Unlocked reports whether the vault is open for credential access.
	Unlocked() bool
	// Touch records activity so the session does not auto-lock mid-use.
	Touch()
}

// Manager owns the in-memory credential collection and keeps it in sync
// with the serialized blob in the record store. The whole collection is
// replaced on every save; there are no partial writes.
type Manager struct {
	store   store.RecordStore
	session Session
	log     *zap.Logger

	mu      sync.Mutex
	loaded  bool
	records []models.CredentialRecord
}

// NewManager constructs a Manager bound to the given store and session.
func NewManager(st store.RecordStore, session Session, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{store: st, session: session, log: log}
}

// require fails with ErrLocked unless the vault is unlocked, and marks
// session activity otherwise.
func (m *Manager) require() error {
	if !m.session.Unlocked() {
		return fmt.Errorf("%w: unlock the vault first", vault.ErrLocked)
	}
	m.session.Touch()
	return nil
}

// load deserializes the persisted blob into memory once per session of
// use. An absent blob means an empty collection; an undecodable blob is a
// corruption error, never silently discarded.
func (m *Manager) load(ctx context.Context) error {
	if m.loaded {
		return nil
	}
	blob, ok, err := m.store.Get(ctx, store.KeyCredentials)
	if err != nil {
		return fmt.Errorf("%w: load credentials: %v", vault.ErrPersistence, err)
	}
	if !ok {
		m.records = []models.CredentialRecord{}
		m.loaded = true
		return nil
	}
	var records []models.CredentialRecord
	if err := json.Unmarshal([]byte(blob), &records); err != nil {
		return fmt.Errorf("%w: credential collection: %v", vault.ErrCorrupt, err)
	}
	m.records = records
	m.loaded = true
	return nil
}

// persist serializes and writes the candidate collection, then installs it
// in memory. The in-memory state only changes after the write succeeds.
func (m *Manager) persist(ctx context.Context, candidate []models.CredentialRecord) error {
	blob, err := json.Marshal(candidate)
	if err != nil {
		return fmt.Errorf("%w: encode credentials: %v", vault.ErrPersistence, err)
	}
	if err := m.store.Set(ctx, store.KeyCredentials, string(blob)); err != nil {
		return fmt.Errorf("%w: save credentials: %v", vault.ErrPersistence, err)
	}
	m.records = candidate
	return nil
}

// validate checks the caller-supplied fields shared by Add and Update.
func validate(f models.CredentialFields) (models.CredentialFields, error) {
	f.Account = strings.TrimSpace(f.Account)
	if f.Account == "" {
		return f, fmt.Errorf("%w: account is required", vault.ErrInvalidInput)
	}
	if strings.TrimSpace(f.Password) == "" {
		return f, fmt.Errorf("%w: password is required", vault.ErrInvalidInput)
	}
	if f.Category == "" {
		f.Category = models.CategoryGeneral
	}
	if !models.ValidCategory(f.Category) {
		return f, fmt.Errorf("%w: unknown category %q", vault.ErrInvalidInput, f.Category)
	}
	return f, nil
}

// List returns a copy of the full collection in stored order.
func (m *Manager) List(ctx context.Context) ([]models.CredentialRecord, error) {
	return m.Search(ctx, "", models.CategoryAll)
}

// Search returns the records matching a case-insensitive substring query
// against account, username, and website, narrowed by an exact category
// filter. CategoryAll (or empty) bypasses the filter. The result is a
// copy; the stored collection is never mutated.
func (m *Manager) Search(ctx context.Context, query string, category models.Category) ([]models.CredentialRecord, error) {
	if err := m.require(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.load(ctx); err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]models.CredentialRecord, 0, len(m.records))
	for _, rec := range m.records {
		if category != "" && category != models.CategoryAll && rec.Category != category {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(rec.Account), q) &&
			!strings.Contains(strings.ToLower(rec.Username), q) &&
			!strings.Contains(strings.ToLower(rec.Website), q) {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// Add validates the fields, assigns a unique id and timestamps, appends
// the record, and persists the updated collection.
func (m *Manager) Add(ctx context.Context, fields models.CredentialFields) (models.CredentialRecord, error) {
	if err := m.require(); err != nil {
		return models.CredentialRecord{}, err
	}
	fields, err := validate(fields)
	if err != nil {
		return models.CredentialRecord{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.load(ctx); err != nil {
		return models.CredentialRecord{}, err
	}

	now := time.Now().UTC()
	rec := models.CredentialRecord{
		ID:        uuid.NewString(),
		Account:   fields.Account,
		Username:  fields.Username,
		Password:  fields.Password,
		Website:   fields.Website,
		Notes:     fields.Notes,
		Category:  fields.Category,
		CreatedAt: now,
		UpdatedAt: now,
	}
	candidate := append(append([]models.CredentialRecord{}, m.records...), rec)
	if err := m.persist(ctx, candidate); err != nil {
		return models.CredentialRecord{}, err
	}
	m.log.Info("credential added", zap.String("id", rec.ID))
	return rec, nil
}

// Update replaces the caller-supplied fields of an existing record,
// refreshes UpdatedAt, and persists the full collection. ID and CreatedAt
// never change.
func (m *Manager) Update(ctx context.Context, id string, fields models.CredentialFields) (models.CredentialRecord, error) {
	if err := m.require(); err != nil {
		return models.CredentialRecord{}, err
	}
	fields, err := validate(fields)
	if err != nil {
		return models.CredentialRecord{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.load(ctx); err != nil {
		return models.CredentialRecord{}, err
	}

	idx := -1
	for i, rec := range m.records {
		if rec.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return models.CredentialRecord{}, fmt.Errorf("%w: credential %s", vault.ErrNotFound, id)
	}

	candidate := append([]models.CredentialRecord{}, m.records...)
	rec := candidate[idx]
	rec.Account = fields.Account
	rec.Username = fields.Username
	rec.Password = fields.Password
	rec.Website = fields.Website
	rec.Notes = fields.Notes
	rec.Category = fields.Category
	rec.UpdatedAt = time.Now().UTC()
	candidate[idx] = rec

	if err := m.persist(ctx, candidate); err != nil {
		return models.CredentialRecord{}, err
	}
	m.log.Info("credential updated", zap.String("id", rec.ID))
	return rec, nil
}

// Remove deletes a record and persists the collection. The caller is
// responsible for confirming the destructive action with the user first.
func (m *Manager) Remove(ctx context.Context, id string) error {
	if err := m.require(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.load(ctx); err != nil {
		return err
	}

	candidate := make([]models.CredentialRecord, 0, len(m.records))
	found := false
	for _, rec := range m.records {
		if rec.ID == id {
			found = true
			continue
		}
		candidate = append(candidate, rec)
	}
	if !found {
		return fmt.Errorf("%w: credential %s", vault.ErrNotFound, id)
	}
	if err := m.persist(ctx, candidate); err != nil {
		return err
	}
	m.log.Info("credential removed", zap.String("id", id))
	return nil
}

// Reset drops the in-memory collection so the next operation reloads from
// the store. Used after the vault is re-locked.
func (m *Manager) Reset() {
	m.mu.Lock()
	m.loaded = false
	m.records = nil
	m.mu.Unlock()
}
