// Package biometric abstracts the device biometric authenticator consumed
// by the vault controller. The real adapter is platform glue supplied by
// the host application; this package defines the contract and a default
// gate for devices without biometric hardware.
package biometric

import "context"

// AuthType identifies a class of biometric sensor.
type AuthType int

const (
	TypeFingerprint AuthType = iota
	TypeFace
	TypeOther
)

// Outcome is the result of one authentication challenge.
type Outcome int

const (
	// OutcomeSuccess means the user passed the challenge.
	OutcomeSuccess Outcome = iota
	// OutcomeFailure means the challenge completed without a match.
	OutcomeFailure
	// OutcomeCancelled means the user dismissed the prompt.
	OutcomeCancelled
)

// Gate is the device biometric capability consumed by the vault.
type Gate interface {
	// HasHardware reports whether the device has a biometric sensor.
	HasHardware(ctx context.Context) (bool, error)
	// IsEnrolled reports whether the user has enrolled biometric data.
	IsEnrolled(ctx context.Context) (bool, error)
	// SupportedTypes lists the sensor classes the device offers.
	SupportedTypes(ctx context.Context) ([]AuthType, error)
	// Authenticate performs a single challenge with the given prompt text.
	Authenticate(ctx context.Context, prompt string) (Outcome, error)
}

// Supported reports whether g can offer fingerprint unlock: hardware
// present, user enrolled, and a fingerprint-class sensor available.
func Supported(ctx context.Context, g Gate) (bool, error) {
	hw, err := g.HasHardware(ctx)
	if err != nil || !hw {
		return false, err
	}
	enrolled, err := g.IsEnrolled(ctx)
	if err != nil || !enrolled {
		return false, err
	}
	types, err := g.SupportedTypes(ctx)
	if err != nil {
		return false, err
	}
	for _, t := range types {
		if t == TypeFingerprint {
			return true, nil
		}
	}
	return false, nil
}

// Unavailable returns a Gate for environments without biometric hardware.
// Every capability check reports false and challenges always fail.
func Unavailable() Gate {
	return unavailableGate{}
}

type unavailableGate struct{}

func (unavailableGate) HasHardware(context.Context) (bool, error) { return false, nil }
func (unavailableGate) IsEnrolled(context.Context) (bool, error)  { return false, nil }
func (unavailableGate) SupportedTypes(context.Context) ([]AuthType, error) {
	return nil, nil
}
func (unavailableGate) Authenticate(context.Context, string) (Outcome, error) {
	return OutcomeFailure, nil
}
