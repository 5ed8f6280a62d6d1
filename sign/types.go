// Package sign implements the two-round FROST signing protocol of spec
// §4.4: nonce pre-generation, per-message binding factors, per-participant
// signature shares, aggregation, and group verification under both the
// Ethereum (keccak-challenge) and Bitcoin Taproot (BIP340) profiles.
// Grounded on the teacher's frost/ subpackage (ciphersuite.go, hash.go,
// bip340.go, signer.go, coordinator.go), generalized from the teacher's
// single-ciphersuite design to a KeyType-dispatched Profile.
package sign

import (
	"math/big"

	"github.com/frostnet/tss-core/curve"
	"github.com/frostnet/tss-core/dkg"
)

// NoncePair is a single-use pair of private nonce scalars (spec §3).
type NoncePair struct {
	D *big.Int
	E *big.Int
}

// PublicCommitments derives the public nonce commitments (D, E) = (d·G, e·G).
func (p *NoncePair) PublicCommitments() NonceCommitment {
	return NonceCommitment{D: curve.BaseMul(p.D), E: curve.BaseMul(p.E)}
}

// NonceCommitment is the public half of a NoncePair, safe to publish to the
// coordinator in advance of a signing session (spec §4.4).
type NonceCommitment struct {
	D *curve.Point
	E *curve.Point
}

// SubsetEntry is one participant's published commitment entry in the
// coordinator-chosen, order-agreed list L (spec §4.4).
type SubsetEntry struct {
	ID *big.Int
	D  *curve.Point
	E  *curve.Point
}

// SignatureShare is one participant's contribution to a group signature
// (spec §3).
type SignatureShare struct {
	ID          *big.Int
	Z           *big.Int
	D           *curve.Point
	E           *curve.Point
	AggregatedR *curve.Point
	KeyType     dkg.KeyType
}

// GroupSignature is the final aggregated Schnorr signature over a message
// (spec §3).
type GroupSignature struct {
	R        *curve.Point
	Z        *big.Int
	Message  []byte
	KeyType  dkg.KeyType
	GroupKey *curve.Point
}

// Serialize renders the signature as `0x` ∥ hex(x(R),64) ∥ hex(z,64), 130
// characters, for both profiles. The first 64 hex digits are always the
// x-coordinate of R; the challenge is not included, for ETH either.
// Verification in this package goes through VerifyGroupSignature, not this
// string.
func (g *GroupSignature) Serialize() string {
	rx := make([]byte, 32)
	xb := g.R.X.Bytes()
	copy(rx[32-len(xb):], xb)

	zb := make([]byte, 32)
	sb := g.Z.Bytes()
	copy(zb[32-len(sb):], sb)

	out := make([]byte, 0, 2+64+64)
	out = append(out, '0', 'x')
	out = appendHex(out, rx)
	out = appendHex(out, zb)
	return string(out)
}

const hexDigits = "0123456789abcdef"

func appendHex(dst, src []byte) []byte {
	for _, b := range src {
		dst = append(dst, hexDigits[b>>4], hexDigits[b&0x0f])
	}
	return dst
}
