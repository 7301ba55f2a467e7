package store

import (
	"context"
	"crypto/cipher"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS records (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// SQLStore implements RecordStore on top of a SQL database, sealing every
// value with an AEAD before it touches disk.
type SQLStore struct {
	// DB is the database handle for executing queries.
	DB   *sql.DB
	aead cipher.AEAD
}

// New wraps an existing database handle. db must already have the records
// schema; Open is the usual entry point.
func New(db *sql.DB, aead cipher.AEAD) *SQLStore {
	return &SQLStore{DB: db, aead: aead}
}

// Open opens (creating if necessary) the SQLite database at path and
// returns a store sealing values with a key derived from the device key.
func Open(path string, deviceKey []byte) (*SQLStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}
	aead, err := NewAEAD(deviceKey)
	if err != nil {
		return nil, err
	}
	return New(db, aead), nil
}

// Close releases the underlying database handle.
func (s *SQLStore) Close() error {
	return s.DB.Close()
}

// Get returns the decrypted value stored under key, or ok=false when the
// key is absent.
func (s *SQLStore) Get(ctx context.Context, key string) (string, bool, error) {
	var sealed string
	err := s.DB.QueryRowContext(ctx, `SELECT value FROM records WHERE key = $1`, key).Scan(&sealed)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}
	plain, err := openValue(s.aead, sealed)
	if err != nil {
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}
	return plain, true, nil
}

// Set writes value under key, replacing any existing value.
func (s *SQLStore) Set(ctx context.Context, key, value string) error {
	sealed, err := sealValue(s.aead, value)
	if err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	_, err = s.DB.ExecContext(ctx, `
		INSERT INTO records (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value
	`, key, sealed)
	if err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting an absent key succeeds.
func (s *SQLStore) Delete(ctx context.Context, key string) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM records WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

// Apply commits the staged operations inside a single transaction, so a
// multi-key write either lands completely or not at all.
func (s *SQLStore) Apply(ctx context.Context, ops []Op) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, op := range ops {
		switch op.Kind {
		case OpSet:
			sealed, err := sealValue(s.aead, op.Value)
			if err != nil {
				return fmt.Errorf("set %q: %w", op.Key, err)
			}
			_, err = tx.ExecContext(ctx, `
				INSERT INTO records (key, value) VALUES ($1, $2)
				ON CONFLICT (key) DO UPDATE SET value = excluded.value
			`, op.Key, sealed)
			if err != nil {
				return fmt.Errorf("set %q: %w", op.Key, err)
			}
		case OpDelete:
			if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE key = $1`, op.Key); err != nil {
				return fmt.Errorf("delete %q: %w", op.Key, err)
			}
		default:
			return fmt.Errorf("unknown op kind %d for %q", op.Kind, op.Key)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
