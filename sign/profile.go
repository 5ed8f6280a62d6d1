package sign

import (
	"math/big"

	"github.com/frostnet/tss-core/curve"
	"github.com/frostnet/tss-core/dkg"
)

// Profile is the capability that differs between the ETH and BTC signing
// profiles: the challenge hash and the even-y tweak conventions BIP340
// requires. Everything else — binding factors, nonce aggregation, the
// signature-share combine/verify equations, and signature aggregation — is
// shared (spec §9: "factor them as two implementations of a Profile
// capability").
type Profile interface {
	KeyType() dkg.KeyType

	// ChallengeSign is the coefficient (+1 or -1) applied to λ·c·share in
	// both the share-combine and share-verify equations (spec §4.4: ETH
	// subtracts, BTC adds).
	ChallengeSign() int

	// PrepareChallenge computes the profile's Schnorr challenge for the
	// aggregated nonce rawR against groupKey. It returns the canonical
	// (possibly negated) nonce point, the effective group key to verify
	// against, and whether the nonce and/or key had to be negated to
	// satisfy the profile's convention — both always false for ETH, which
	// has no x-only parity requirement.
	PrepareChallenge(rawR, groupKey *curve.Point, message []byte) (
		challenge *big.Int,
		canonicalR *curve.Point,
		effectiveGroupKey *curve.Point,
		rNegate bool,
		pNegate bool,
		err error,
	)
}

func negateScalarIf(x *big.Int, negate bool) *big.Int {
	if !negate {
		return new(big.Int).Set(x)
	}
	return new(big.Int).Sub(curve.N, curve.Reduce(x))
}

func negatePointIf(p *curve.Point, negate bool) *curve.Point {
	if !negate {
		return p
	}
	return curve.Negate(p)
}
