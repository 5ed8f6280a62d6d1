package dkg

import (
	"crypto/sha256"
	"math/big"

	"github.com/frostnet/tss-core/curve"
)

// popHash computes H(id ∥ dkg_id ∥ SEC1(point) ∥ SEC1(nonce)), the challenge
// binding a proof of possession to both the committed point and the session
// it was produced for (spec §4.3).
func popHash(id *big.Int, dkgID string, point, nonce *curve.Point) *big.Int {
	h := sha256.New()
	h.Write(id.Bytes())
	h.Write([]byte(dkgID))
	h.Write(point.SEC1Compressed())
	h.Write(nonce.SEC1Compressed())
	return new(big.Int).SetBytes(h.Sum(nil))
}

// buildPoP produces a Schnorr proof of possession of secret, the discrete
// log of point. The same construction proves possession of both the
// session authentication key sk_i (point = Pk_i) and the constant
// coefficient a0 (point = C_0^(i)) — spec §4.3 defines both identically.
func buildPoP(secret, id *big.Int, dkgID string, point *curve.Point) (proof, error) {
	r, err := curve.RandomScalar()
	if err != nil {
		return proof{}, err
	}
	nonce := curve.BaseMul(r)
	h := popHash(id, dkgID, point, nonce)
	s := curve.SchnorrSign(secret, r, h)
	return proof{Nonce: nonce, Signature: s}, nil
}

// verifyPoP checks a proof of possession produced by buildPoP.
func verifyPoP(id *big.Int, dkgID string, point *curve.Point, p proof) bool {
	h := popHash(id, dkgID, point, p.Nonce)
	return curve.SchnorrVerifyEq(p.Signature, p.Nonce, h, point)
}
