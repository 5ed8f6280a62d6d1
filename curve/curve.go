// Package curve implements the scalar and point arithmetic primitives
// shared by the DKG and signing packages: modular arithmetic over the
// secp256k1 group order, affine point operations, SEC1 encoding, and
// the generic Schnorr proof equation used for both the DKG's
// proof-of-possession and its complaint protocol.
package curve

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/btcsuite/btcd/btcec"
	"github.com/ethereum/go-ethereum/crypto/secp256k1"

	"github.com/frostnet/tss-core/errs"
)

// group is the process-wide secp256k1 curve instance. Curve parameters are
// global constants by design (see spec §9: "the curve parameters and the
// order n are process-wide constants").
var group = secp256k1.S256()

// N is the order of the secp256k1 base point.
var N = new(big.Int).Set(group.N)

// Point is an affine point on secp256k1, or the identity when both
// coordinates are zero (which does not lie on the curve, so it is a safe
// sentinel — the same convention the teacher repo uses).
type Point struct {
	X *big.Int
	Y *big.Int
}

// Identity returns the group identity element.
func Identity() *Point {
	return &Point{big.NewInt(0), big.NewInt(0)}
}

// IsIdentity reports whether p is the identity sentinel.
func (p *Point) IsIdentity() bool {
	return p.X.Sign() == 0 && p.Y.Sign() == 0
}

// IsOnCurve reports whether p is a valid non-identity point on secp256k1.
func (p *Point) IsOnCurve() bool {
	if p.IsIdentity() {
		return false
	}
	return group.IsOnCurve(p.X, p.Y)
}

// HasEvenY reports whether the point's Y coordinate is even, as required by
// BIP340's x-only public key convention.
func (p *Point) HasEvenY() bool {
	return p.Y.Bit(0) == 0
}

// Equal reports whether two points represent the same affine coordinates.
func (p *Point) Equal(q *Point) bool {
	return p.X.Cmp(q.X) == 0 && p.Y.Cmp(q.Y) == 0
}

// Copy returns a deep copy of p.
func (p *Point) Copy() *Point {
	return &Point{new(big.Int).Set(p.X), new(big.Int).Set(p.Y)}
}

// BaseMul returns k*G, reducing k mod N internally so callers never need to
// pre-reduce exponents (spec §9: "the binding-factor exponent is used
// without explicit reduction mod n; scalar multiplication must reduce
// internally").
func BaseMul(k *big.Int) *Point {
	kmod := new(big.Int).Mod(k, N)
	x, y := group.ScalarBaseMult(kmod.Bytes())
	return &Point{x, y}
}

// Mul returns k*p.
func Mul(p *Point, k *big.Int) *Point {
	kmod := new(big.Int).Mod(k, N)
	x, y := group.ScalarMult(p.X, p.Y, kmod.Bytes())
	return &Point{x, y}
}

// Add returns a+b.
func Add(a, b *Point) *Point {
	x, y := group.Add(a.X, a.Y, b.X, b.Y)
	return &Point{x, y}
}

// Sub returns a-b.
func Sub(a, b *Point) *Point {
	neg := &Point{b.X, new(big.Int).Sub(group.P, b.Y)}
	return Add(a, neg)
}

// Negate returns -p.
func Negate(p *Point) *Point {
	return &Point{new(big.Int).Set(p.X), new(big.Int).Sub(group.P, p.Y)}
}

// RandomScalar returns a uniformly random non-zero scalar in [1, N).
func RandomScalar() (*big.Int, error) {
	for {
		b := make([]byte, (group.BitSize+7)/8)
		if _, err := rand.Read(b); err != nil {
			return nil, fmt.Errorf("curve: read random bytes: %w", err)
		}
		s := new(big.Int).SetBytes(b)
		if s.Sign() != 0 && s.Cmp(N) < 0 {
			return s, nil
		}
	}
}

// ModInverse returns the modular inverse of x modulo N. It fails if x is
// zero mod N, matching spec §4.1's "extended Euclidean over n; returns the
// unique inverse in [1, n) or fails if input is 0 mod n".
func ModInverse(x *big.Int) (*big.Int, error) {
	xmod := new(big.Int).Mod(x, N)
	if xmod.Sign() == 0 {
		return nil, fmt.Errorf("curve: cannot invert zero scalar")
	}
	return new(big.Int).ModInverse(xmod, N), nil
}

// Reduce returns x mod N, always in [0, N).
func Reduce(x *big.Int) *big.Int {
	return new(big.Int).Mod(x, N)
}

// Zeroize overwrites a secret scalar's value in place. This is a best-effort
// measure: math/big does not guarantee clearing of previously-allocated
// backing arrays, but it does ensure the live value can no longer be read
// through the same pointer once the caller is done with it.
func Zeroize(x *big.Int) {
	if x == nil {
		return
	}
	x.SetInt64(0)
}

// SEC1CompressedLength is the length in bytes of a compressed SEC1 point
// encoding (spec §4.1).
const SEC1CompressedLength = 33

// SEC1Compressed encodes p as a 33-byte SEC1 compressed point:
// 0x02/0x03 parity prefix || 32-byte big-endian X. Delegates to btcec's
// KoblitzCurve point type, which implements the same secp256k1 affine
// coordinates go-ethereum's implementation operates on.
func (p *Point) SEC1Compressed() []byte {
	pub := btcec.PublicKey{Curve: btcec.S256(), X: p.X, Y: p.Y}
	return pub.SerializeCompressed()
}

// DecodeSEC1Compressed decodes a 33-byte SEC1 compressed point, rejecting
// inputs whose length, prefix, or coordinates are invalid (spec §4.1). The
// field-square-root recovery of y from x is delegated to btcec.ParsePubKey
// rather than hand-rolled.
func DecodeSEC1Compressed(b []byte) (*Point, error) {
	if len(b) != SEC1CompressedLength {
		return nil, fmt.Errorf("curve: invalid SEC1 length %d", len(b))
	}
	if b[0] != 0x02 && b[0] != 0x03 {
		return nil, fmt.Errorf("curve: invalid SEC1 prefix 0x%02x", b[0])
	}

	pub, err := btcec.ParsePubKey(b, btcec.S256())
	if err != nil {
		return nil, fmt.Errorf("curve: %w", err)
	}

	p := &Point{pub.X, pub.Y}
	if !p.IsOnCurve() {
		return nil, fmt.Errorf("curve: decoded point: %w", errs.ErrPointNotOnCurve)
	}
	return p, nil
}

// Code returns the SEC1 compressed encoding of p interpreted as a big-endian
// 264-bit integer — the canonical "code" of a public key used throughout the
// wire protocol (spec §4.1).
func (p *Point) Code() *big.Int {
	return new(big.Int).SetBytes(p.SEC1Compressed())
}

// CodeToPoint decodes a public-key "code" integer back into a point.
func CodeToPoint(code *big.Int) (*Point, error) {
	b := code.Bytes()
	if len(b) > SEC1CompressedLength {
		return nil, fmt.Errorf("curve: code too long")
	}
	padded := make([]byte, SEC1CompressedLength)
	copy(padded[SEC1CompressedLength-len(b):], b)
	return DecodeSEC1Compressed(padded)
}

// SchnorrSign implements the generic Schnorr proof equation shared by the
// DKG's proof-of-possession (spec §4.3) and complaint protocol (spec
// §4.3.1): s = r + secret*h mod N.
func SchnorrSign(secret, nonce, h *big.Int) *big.Int {
	sh := new(big.Int).Mul(secret, h)
	s := new(big.Int).Add(nonce, sh)
	return s.Mod(s, N)
}

// SchnorrVerifyEq checks s*G == r + h*Pk, the verification equation dual to
// SchnorrSign.
func SchnorrVerifyEq(s *big.Int, r *Point, h *big.Int, pk *Point) bool {
	lhs := BaseMul(s)
	rhs := Add(r, Mul(pk, h))
	return lhs.Equal(rhs)
}
