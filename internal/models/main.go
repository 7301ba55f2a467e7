// Package models defines the core data structures for the credential vault.
package models

import "time"

// VaultState describes the process-local access state of the vault.
// It is never persisted; transitions happen only through the vault controller.
type VaultState int

const (
	// Uninitialized means no master password has been set up yet.
	Uninitialized VaultState = iota
	// Locked means a master password exists but the session is not authenticated.
	Locked
	// Unlocked means the current session has authenticated successfully.
	Unlocked
)

// String returns a human-readable name for the state.
func (s VaultState) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Locked:
		return "locked"
	case Unlocked:
		return "unlocked"
	default:
		return "unknown"
	}
}

// Category classifies a credential record. Records carry one category from
// the fixed set below; CategoryAll exists only as a search filter value.
type Category string

const (
	CategoryAll           Category = "All"
	CategoryGeneral       Category = "General"
	CategorySocialMedia   Category = "Social Media"
	CategoryBanking       Category = "Banking"
	CategoryWork          Category = "Work"
	CategoryShopping      Category = "Shopping"
	CategoryEntertainment Category = "Entertainment"
	CategoryEmail         Category = "Email"
	CategoryGaming        Category = "Gaming"
)

// Categories lists every category a record may carry, in display order.
// CategoryAll is deliberately absent.
var Categories = []Category{
	CategoryGeneral,
	CategorySocialMedia,
	CategoryBanking,
	CategoryWork,
	CategoryShopping,
	CategoryEntertainment,
	CategoryEmail,
	CategoryGaming,
}

// ValidCategory reports whether c may be assigned to a record.
func ValidCategory(c Category) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// CredentialRecord is one stored account entry. ID and CreatedAt are
// immutable after creation; UpdatedAt changes on every edit.
type CredentialRecord struct {
	// ID is the unique, generator-assigned identifier of the record.
	ID string `json:"id"`
	// Account is the name of the service or account the credential belongs to.
	Account string `json:"account"`
	// Username is the login name for the account.
	Username string `json:"username"`
	// Password is the stored secret. It is plaintext in memory; the record
	// store encrypts the serialized collection at rest.
	Password string `json:"password"`
	// Website is the optional URL of the service.
	Website string `json:"website,omitempty"`
	// Notes holds optional free-form text.
	Notes string `json:"notes,omitempty"`
	// Category is one of the fixed set in Categories.
	Category Category `json:"category"`
	// CreatedAt is the creation timestamp.
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is the timestamp of the last edit.
	UpdatedAt time.Time `json:"updatedAt"`
}

// CredentialFields carries the caller-supplied fields of a record for
// add and update operations. The manager assigns everything else.
type CredentialFields struct {
	Account  string
	Username string
	Password string
	Website  string
	Notes    string
	Category Category
}
