package store

import (
	"context"
	"encoding/base64"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

// fakeAEAD is a dummy AEAD that returns plaintext as-is and never errors.
type fakeAEAD struct{}

func (f fakeAEAD) NonceSize() int { return 12 }
func (f fakeAEAD) Overhead() int  { return 0 }
func (f fakeAEAD) Seal(dst, nonce, plaintext, aad []byte) []byte {
	return append(dst, plaintext...)
}
func (f fakeAEAD) Open(dst, nonce, ciphertext, aad []byte) ([]byte, error) {
	return append(dst, ciphertext...), nil
}

// sealedFake builds the on-disk encoding of value as fakeAEAD would store it.
func sealedFake(value string) string {
	nonce := make([]byte, fakeAEAD{}.NonceSize())
	return base64.StdEncoding.EncodeToString(append(nonce, []byte(value)...))
}

func setupStoreMock(t *testing.T) (*SQLStore, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	store := New(db, fakeAEAD{})
	cleanup := func() { db.Close() }
	return store, mock, cleanup
}

func TestGet_Found(t *testing.T) {
	store, mock, cleanup := setupStoreMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM records WHERE key = $1`)).
		WithArgs(KeyMasterPassword).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(sealedFake("digest123")))

	value, ok, err := store.Get(context.Background(), KeyMasterPassword)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected key to be present")
	}
	if value != "digest123" {
		t.Errorf("value = %q; want %q", value, "digest123")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestGet_Absent(t *testing.T) {
	store, mock, cleanup := setupStoreMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM records WHERE key = $1`)).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	_, ok, err := store.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected absent key to report ok=false")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestGet_QueryError(t *testing.T) {
	store, mock, cleanup := setupStoreMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM records WHERE key = $1`)).
		WithArgs("boom").
		WillReturnError(errors.New("disk I/O error"))

	_, _, err := store.Get(context.Background(), "boom")
	if err == nil {
		t.Error("expected error, got nil")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestSet_Upsert(t *testing.T) {
	store, mock, cleanup := setupStoreMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO records (key, value) VALUES ($1, $2)`)).
		WithArgs(KeyBiometricEnabled, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := store.Set(context.Background(), KeyBiometricEnabled, "true"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestDelete(t *testing.T) {
	store, mock, cleanup := setupStoreMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM records WHERE key = $1`)).
		WithArgs(KeyMasterPassword).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := store.Delete(context.Background(), KeyMasterPassword); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestApply_CommitsAllOps(t *testing.T) {
	store, mock, cleanup := setupStoreMock(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM records WHERE key = $1`)).
		WithArgs(KeyMasterPassword).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO records (key, value) VALUES ($1, $2)`)).
		WithArgs(KeyMasterPassword, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	ops := []Op{
		DeleteOp(KeyMasterPassword),
		SetOp(KeyMasterPassword, "newdigest"),
	}
	if err := store.Apply(context.Background(), ops); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestApply_RollsBackOnFailure(t *testing.T) {
	store, mock, cleanup := setupStoreMock(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO records (key, value) VALUES ($1, $2)`)).
		WithArgs(KeySecurityQuestion1, sqlmock.AnyArg()).
		WillReturnError(errors.New("database is locked"))
	mock.ExpectRollback()

	ops := []Op{
		SetOp(KeySecurityQuestion1, "Pet name?"),
		SetOp(KeySecurityQuestion2, "City?"),
	}
	if err := store.Apply(context.Background(), ops); err == nil {
		t.Error("expected error, got nil")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}
