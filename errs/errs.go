// Package errs defines the sentinel error kinds propagated by the core, as
// enumerated in spec §7. Complaints are not modeled here: they are a
// first-class protocol outcome (dkg.ComplaintResult), not an error.
package errs

import "errors"

var (
	// ErrInvalidState is returned when a DKG round is invoked out of order
	// or after the session reached a terminal state.
	ErrInvalidState = errors.New("frost: invalid state")

	// ErrInvalidProof names a Round-1 proof-of-possession that fails
	// Schnorr verification. dkg.Session.Round2 does not return it: it
	// disqualifies the peer and continues.
	ErrInvalidProof = errors.New("frost: invalid proof of possession")

	// ErrInconsistentShare names a share that fails the Round-3 Feldman
	// check. dkg.Session.Round3 does not return it: callers observe the
	// failure as a ComplaintResult, not as a returned error.
	ErrInconsistentShare = errors.New("frost: inconsistent share")

	// ErrDecryptAuth is returned when a peer-to-peer envelope's MAC or
	// version tag fails to authenticate.
	ErrDecryptAuth = errors.New("frost: envelope authentication failed")

	// ErrPointNotOnCurve is returned when a decoded public key is off-curve.
	ErrPointNotOnCurve = errors.New("frost: point not on curve")

	// ErrScalarOutOfRange is returned when a scalar is zero where
	// non-zero is required, or is not reduced mod N.
	ErrScalarOutOfRange = errors.New("frost: scalar out of range")

	// ErrNonceAlreadyUsed is returned on a double-take of a nonce pair from
	// the nonce store.
	ErrNonceAlreadyUsed = errors.New("frost: nonce already used")

	// ErrSubsetSizeMismatch is returned when a signing subset's size does
	// not equal the DKG threshold.
	ErrSubsetSizeMismatch = errors.New("frost: signing subset size mismatch")

	// ErrSignatureShareInvalid is returned when a coordinator-side
	// signature share verification fails.
	ErrSignatureShareInvalid = errors.New("frost: signature share invalid")
)
