// Package poly implements degree-(T-1) polynomials over the secp256k1
// scalar field, their Feldman commitments, and Lagrange interpolation, as
// specified in spec §4.2. Grounded on the teacher's poly.go
// (GenPoly/CalculatePoly) and frost/participant.go
// (deriveInterpolatingValue), generalized to interpolate at an arbitrary x
// rather than only at x=0.
package poly

import (
	"fmt"
	"math/big"

	"github.com/frostnet/tss-core/curve"
)

// Polynomial is an ordered sequence of T coefficients [a0, a1, ..., a_{T-1}]
// defining a degree-(T-1) polynomial over the scalar field (spec §3).
type Polynomial struct {
	Coefficients []*big.Int
}

// New creates a polynomial of degree threshold-1. If coefficient0 is
// non-nil, it is pinned as the constant term a0; the remaining coefficients
// are drawn uniformly at random. Matches pyfrost's Polynomial constructor.
func New(threshold int, coefficient0 *big.Int) (*Polynomial, error) {
	if threshold < 1 {
		return nil, fmt.Errorf("poly: threshold must be >= 1, got %d", threshold)
	}

	coeffs := make([]*big.Int, threshold)
	start := 0
	if coefficient0 != nil {
		coeffs[0] = curve.Reduce(coefficient0)
		start = 1
	}
	for i := start; i < threshold; i++ {
		c, err := curve.RandomScalar()
		if err != nil {
			return nil, fmt.Errorf("poly: generate coefficient %d: %w", i, err)
		}
		coeffs[i] = c
	}

	return &Polynomial{Coefficients: coeffs}, nil
}

// Degree returns the polynomial's degree, T-1.
func (p *Polynomial) Degree() int {
	return len(p.Coefficients) - 1
}

// Evaluate returns f(x) = Σ a_i · x^i mod N using Horner's method. It is an
// error to evaluate a polynomial with zero coefficients (spec §3: "attempts
// to evaluate with fewer than T coefficients are an error").
func (p *Polynomial) Evaluate(x *big.Int) (*big.Int, error) {
	if len(p.Coefficients) == 0 {
		return nil, fmt.Errorf("poly: cannot evaluate empty polynomial")
	}

	result := new(big.Int)
	for i := len(p.Coefficients) - 1; i >= 0; i-- {
		result.Mul(result, x)
		result.Add(result, p.Coefficients[i])
		result.Mod(result, curve.N)
	}
	return result, nil
}

// Commitments returns the Feldman commitment to each coefficient: C_i =
// a_i·G, as required by spec §4.2.
func (p *Polynomial) Commitments() []*curve.Point {
	commitments := make([]*curve.Point, len(p.Coefficients))
	for i, c := range p.Coefficients {
		commitments[i] = curve.BaseMul(c)
	}
	return commitments
}

// Zeroize clears every coefficient in place (spec §9: secret hygiene).
func (p *Polynomial) Zeroize() {
	for _, c := range p.Coefficients {
		curve.Zeroize(c)
	}
}

// EvaluateCommitment computes Σ_k x^k · C_k for a set of public commitments,
// the right-hand side of the Feldman check f_j(i)·G == Σ_k i^k · C_k^(j)
// (spec §4.2).
func EvaluateCommitment(commitments []*curve.Point, x *big.Int) (*curve.Point, error) {
	if len(commitments) == 0 {
		return nil, fmt.Errorf("poly: cannot evaluate empty commitment set")
	}

	result := curve.Identity()
	xPow := big.NewInt(1)
	for _, c := range commitments {
		result = curve.Add(result, curve.Mul(c, xPow))
		xPow = new(big.Int).Mul(xPow, x)
		xPow.Mod(xPow, curve.N)
	}
	return result, nil
}

// VerifyShare checks the Feldman condition for a share sent by the owner of
// commitments for evaluation point x: share·G == Σ_k x^k · C_k.
func VerifyShare(share *big.Int, x *big.Int, commitments []*curve.Point) (bool, error) {
	lhs := curve.BaseMul(share)
	rhs, err := EvaluateCommitment(commitments, x)
	if err != nil {
		return false, err
	}
	return lhs.Equal(rhs), nil
}

// LagrangeCoefficient computes λ_j(x) = Π_{k≠j} (x - x_k) · (x_j - x_k)^-1
// mod N for participant identifier xj interpolating over the ordered subset
// identifiers (spec §4.2). The coordinator must pass identifiers in a
// deterministic, agreed order across all participants.
func LagrangeCoefficient(x *big.Int, xj *big.Int, identifiers []*big.Int) (*big.Int, error) {
	found := false
	num := big.NewInt(1)
	den := big.NewInt(1)

	for _, xk := range identifiers {
		if xk.Cmp(xj) == 0 {
			found = true
			continue
		}

		diffNum := new(big.Int).Sub(x, xk)
		num.Mul(num, diffNum)
		num.Mod(num, curve.N)

		diffDen := new(big.Int).Sub(xj, xk)
		den.Mul(den, diffDen)
		den.Mod(den, curve.N)
	}

	if !found {
		return nil, fmt.Errorf("poly: identifier not present in interpolation set")
	}

	denInv, err := curve.ModInverse(den)
	if err != nil {
		return nil, fmt.Errorf("poly: degenerate interpolation set: %w", err)
	}

	res := new(big.Int).Mul(num, denInv)
	return res.Mod(res, curve.N), nil
}
