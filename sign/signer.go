package sign

import (
	"fmt"
	"math/big"

	"github.com/frostnet/tss-core/curve"
	"github.com/frostnet/tss-core/poly"
)

// findEntry locates id's published commitment entry within the subset.
func findEntry(subset []SubsetEntry, id *big.Int) (SubsetEntry, error) {
	for _, e := range subset {
		if e.ID.Cmp(id) == 0 {
			return e, nil
		}
	}
	return SubsetEntry{}, fmt.Errorf("sign: identifier %s not in signing subset", id)
}

// Sign produces selfID's signature share for ctx using the DKG share and a
// freshly-taken nonce pair (spec §4.4, §6: `Key.sign(...)`). The caller
// must have already taken pair from its NonceStore — Sign never touches
// the store itself, so double-use protection lives entirely at the take
// site.
func Sign(ctx *Context, selfID *big.Int, share *big.Int, pair NoncePair) (*SignatureShare, error) {
	entry, err := findEntry(ctx.Subset, selfID)
	if err != nil {
		return nil, err
	}

	rho, err := ctx.BindingFactor(selfID)
	if err != nil {
		return nil, err
	}
	rhoMod := curve.Reduce(rho)

	lambda, err := poly.LagrangeCoefficient(big.NewInt(0), selfID, sortedIdentifiers(ctx.Subset))
	if err != nil {
		return nil, fmt.Errorf("sign: lagrange coefficient for %s: %w", selfID, err)
	}

	effD := negateScalarIf(pair.D, ctx.RNegate)
	effE := negateScalarIf(pair.E, ctx.RNegate)
	effShare := negateScalarIf(share, ctx.PNegate)

	sign := big.NewInt(int64(ctx.Profile.ChallengeSign()))

	term := new(big.Int).Mul(lambda, ctx.Challenge)
	term.Mul(term, effShare)
	term.Mul(term, sign)

	z := new(big.Int).Mul(rhoMod, effE)
	z.Add(z, effD)
	z.Add(z, term)
	z.Mod(z, curve.N)

	return &SignatureShare{
		ID:          new(big.Int).Set(selfID),
		Z:           z,
		D:           entry.D,
		E:           entry.E,
		AggregatedR: ctx.R,
		KeyType:     ctx.Profile.KeyType(),
	}, nil
}
