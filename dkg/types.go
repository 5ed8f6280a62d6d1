// Package dkg implements the three-round Distributed Key Generation state
// machine from spec §4.3: Round-1 broadcast with proofs of possession,
// Round-2 targeted encrypted shares, and Round-3 finalization or complaint.
// One Session is owned exclusively by its creating participant and must be
// driven through rounds 1, 2, 3 in strict order (spec §5).
package dkg

import (
	"fmt"
	"math/big"

	"github.com/rs/zerolog"

	"github.com/frostnet/tss-core/curve"
	"github.com/frostnet/tss-core/errs"
)

// Status is the DKG session lifecycle state (spec §3).
type Status int

const (
	StatusStarted Status = iota
	StatusRound1
	StatusRound2
	StatusRound3
	StatusComplaint
	StatusCompleted
)

func (s Status) String() string {
	switch s {
	case StatusStarted:
		return "STARTED"
	case StatusRound1:
		return "ROUND1"
	case StatusRound2:
		return "ROUND2"
	case StatusRound3:
		return "ROUND3"
	case StatusComplaint:
		return "COMPLAINT"
	case StatusCompleted:
		return "COMPLETED"
	default:
		return "UNKNOWN"
	}
}

// KeyType tags the signing profile the resulting share will be used under.
// It is opaque to the DKG itself and simply threaded through to the sign
// package (spec §4.4).
type KeyType string

const (
	KeyTypeETH KeyType = "ETH"
	KeyTypeBTC KeyType = "BTC"
)

// ParseIdentifier parses a caller-supplied identity string as a base-10
// decimal integer and validates it is non-zero, per spec §3: "a nonzero
// scalar derived from a caller-supplied identity string (base-10 decimal
// interpreted as an integer)".
func ParseIdentifier(s string) (*big.Int, error) {
	id, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("dkg: identifier %q is not a base-10 integer", s)
	}
	if id.Sign() == 0 {
		return nil, fmt.Errorf("dkg: identifier must be non-zero: %w", errs.ErrScalarOutOfRange)
	}
	return id, nil
}

// proof is a Schnorr proof of possession: a public nonce and the scalar
// response, per spec §4.3's PoP construction.
type proof struct {
	Nonce     *curve.Point `json:"nonce"`
	Signature *big.Int     `json:"signature"`
}

// Round1Broadcast is the message every participant sends to every other
// participant in Round 1 (spec §4.3).
type Round1Broadcast struct {
	SenderID            *big.Int
	PublicCommitments   []*curve.Point
	CoefficientZeroPoP  proof
	SecretKeyPoP        proof
	PublicKey           *curve.Point
	KeyType             KeyType
}

// EncryptedShare is the Round-2 point-to-point message: sender i's share of
// the polynomial evaluated at receiver j's identifier, authenticated-
// encrypted under the pairwise HKDF key (spec §4.3).
type EncryptedShare struct {
	SenderID   *big.Int
	ReceiverID *big.Int
	Ciphertext string
}

// shareEnvelope is the plaintext JSON payload carried inside an
// EncryptedShare's Fernet ciphertext.
type shareEnvelope struct {
	ReceiverID string `json:"receiver_id"`
	F          string `json:"f"`
}

// ShareResult is the successful output of Round 3 (spec §3's "Share
// Package"): the participant's final secret share, the group verifying
// key, and the participant's public share.
type ShareResult struct {
	Share          *big.Int
	GroupPublicKey *curve.Point
	PublicShare    *curve.Point
	KeyType        KeyType
}

// ComplaintResult is the terminal Round-3 outcome when one or more peers
// sent an inconsistent share (spec §4.3.1).
type ComplaintResult struct {
	Complaints []*Complaint
}

// NewSessionLogger returns a no-op logger, the default for a Session created
// without an explicit logger.
func NewSessionLogger() zerolog.Logger {
	return zerolog.Nop()
}
