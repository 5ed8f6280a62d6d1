package sign

import (
	"crypto/sha256"
	"fmt"
	"math/big"

	"github.com/frostnet/tss-core/curve"
	"github.com/frostnet/tss-core/dkg"
)

// BTCProfile implements the Bitcoin Taproot signing profile: a BIP340
// tagged-hash challenge against the taproot-tweaked group key, with the
// even-y corrections BIP340's x-only convention requires (spec §4.1, §4.4).
type BTCProfile struct{}

func (BTCProfile) KeyType() dkg.KeyType { return dkg.KeyTypeBTC }

func (BTCProfile) ChallengeSign() int { return 1 }

func (BTCProfile) PrepareChallenge(rawR, groupKey *curve.Point, message []byte) (
	*big.Int, *curve.Point, *curve.Point, bool, bool, error,
) {
	tweaked, _, err := tweakedGroupKey(groupKey)
	if err != nil {
		return nil, nil, nil, false, false, err
	}

	pNegate := !tweaked.HasEvenY()
	effKey := tweaked
	if pNegate {
		effKey = curve.Negate(tweaked)
	}

	rNegate := !rawR.HasEvenY()
	canonicalR := rawR
	if rNegate {
		canonicalR = curve.Negate(rawR)
	}

	c := bip340Challenge(xOnly(canonicalR), xOnly(effKey), message)
	return c, canonicalR, effKey, rNegate, pNegate, nil
}

// tweakedGroupKey applies the BIP341 taproot tweak to the DKG group key:
// lift the key to its even-y representative P, compute t =
// int(tagged_hash("TapTweak", bytes(P))) mod n, and return Q = P + t·G
// (spec §4.4: "apply BIP341 taproot tweak to the group key to obtain P'").
func tweakedGroupKey(groupKey *curve.Point) (q *curve.Point, tweak *big.Int, err error) {
	if !groupKey.IsOnCurve() {
		return nil, nil, fmt.Errorf("sign: group key is not a valid curve point")
	}
	internal := groupKey
	if !groupKey.HasEvenY() {
		internal = curve.Negate(groupKey)
	}

	t := bip340TaggedHash("TapTweak", xOnly(internal))
	tBig := new(big.Int).SetBytes(t)
	tBig.Mod(tBig, curve.N)

	q = curve.Add(internal, curve.BaseMul(tBig))
	return q, tBig, nil
}

// xOnly returns the 32-byte big-endian x-coordinate of p, BIP340's "bytes(P)"
// encoding for an x-only public key or nonce.
func xOnly(p *curve.Point) []byte {
	out := make([]byte, 32)
	p.X.FillBytes(out)
	return out
}

// bip340TaggedHash implements BIP340's hash_name(x) = SHA256(SHA256(tag) ∥
// SHA256(tag) ∥ x).
func bip340TaggedHash(tag string, msg ...[]byte) []byte {
	tagHash := sha256.Sum256([]byte(tag))
	h := sha256.New()
	h.Write(tagHash[:])
	h.Write(tagHash[:])
	for _, m := range msg {
		h.Write(m)
	}
	return h.Sum(nil)
}

// bip340Challenge computes e = int(hash_BIP0340/challenge(bytes(r) ∥
// bytes(P) ∥ m)) mod n (spec §4.1).
func bip340Challenge(r, p, message []byte) *big.Int {
	digest := bip340TaggedHash("BIP0340/challenge", r, p, message)
	e := new(big.Int).SetBytes(digest)
	return e.Mod(e, curve.N)
}
