// Package store provides the encrypted key/value record store that backs
// the vault: master-password digest, security questions and answer digests,
// the biometric preference, and the serialized credential collection.
package store

import "context"

// Persisted record keys. The vault owns exactly one value per key.
const (
	KeyMasterPassword    = "goodhackers_master_password"
	KeySecurityQuestion1 = "goodhackers_security_question_1"
	KeySecurityAnswer1   = "goodhackers_security_answer_1"
	KeySecurityQuestion2 = "goodhackers_security_question_2"
	KeySecurityAnswer2   = "goodhackers_security_answer_2"
	KeyBiometricEnabled  = "goodhackers_biometric_enabled"
	KeyCredentials       = "goodhackers_passwords"
)

// OpKind identifies the kind of a staged store operation.
type OpKind int

const (
	// OpSet writes a value under a key, replacing any existing value.
	OpSet OpKind = iota
	// OpDelete removes a key. Deleting an absent key is not an error.
	OpDelete
)

// Op is one staged operation of a multi-key commit.
type Op struct {
	Kind  OpKind
	Key   string
	Value string
}

// SetOp stages a write of value under key.
func SetOp(key, value string) Op {
	return Op{Kind: OpSet, Key: key, Value: value}
}

// DeleteOp stages a removal of key.
func DeleteOp(key string) Op {
	return Op{Kind: OpDelete, Key: key}
}

// RecordStore is the persistence abstraction consumed by the vault core.
// Values are small strings, encrypted at rest by the implementation.
type RecordStore interface {
	// Get returns the value stored under key. The second return value is
	// false when the key is absent; absence is not an error.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set writes value under key, replacing any existing value.
	Set(ctx context.Context, key, value string) error
	// Delete removes key. Deleting an absent key succeeds.
	Delete(ctx context.Context, key string) error
	// Apply commits the staged operations in order. Implementations backed
	// by a transactional store apply them atomically; others apply them
	// best-effort in order and stop at the first failure.
	Apply(ctx context.Context, ops []Op) error
}
