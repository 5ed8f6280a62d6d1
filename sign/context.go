package sign

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/rs/zerolog"

	"github.com/frostnet/tss-core/curve"
	"github.com/frostnet/tss-core/errs"
)

// NewContextLogger returns a no-op logger, the default for a Context created
// without an explicit logger (mirrors dkg.NewSessionLogger).
func NewContextLogger() zerolog.Logger {
	return zerolog.Nop()
}

// wireCommitment is the JSON shape hashed into h_L (spec §4.4). Field
// names and the subset's iteration order must match byte-for-byte across
// every participant computing the same binding factors.
type wireCommitment struct {
	ID string `json:"id"`
	D  string `json:"D"`
	E  string `json:"E"`
}

// Context is the shared per-signing-session state every qualified
// participant and the coordinator derive identically from the ordered
// subset commitment list L: binding factors, the aggregated nonce, and the
// profile challenge (spec §4.4).
type Context struct {
	Message []byte
	Profile Profile
	Subset  []SubsetEntry

	bindingFactors map[string]*big.Int // id string -> ρ_k, unreduced digest

	RawR      *curve.Point // Σ (D_k + ρ_k·E_k), pre profile correction
	R         *curve.Point // canonical signature R (profile-negated if required)
	Challenge *big.Int
	GroupKey  *curve.Point // original, untweaked DKG group key
	EffKey    *curve.Point // profile's effective group key (tweaked for BTC)
	RNegate   bool
	PNegate   bool

	logger zerolog.Logger
}

// NewContext builds a signing Context for message over the ordered subset,
// validating the subset size against threshold (spec §4.4, §7:
// SubsetSizeMismatch) and computing binding factors, the aggregated nonce,
// and the profile challenge. logger's zero value is zerolog.Nop(), mirroring
// dkg.Session's optional-logger convention.
func NewContext(profile Profile, threshold int, message []byte, subset []SubsetEntry, groupKey *curve.Point, logger zerolog.Logger) (*Context, error) {
	if len(subset) != threshold {
		return nil, errs.ErrSubsetSizeMismatch
	}

	hL, err := commitmentListHash(subset)
	if err != nil {
		return nil, err
	}

	bindingFactors := make(map[string]*big.Int, len(subset))
	rawR := curve.Identity()
	for _, entry := range subset {
		rho := bindingFactor(entry.ID, message, hL)
		bindingFactors[entry.ID.String()] = rho

		contribution := curve.Add(entry.D, curve.Mul(entry.E, rho))
		rawR = curve.Add(rawR, contribution)
	}

	challenge, canonicalR, effKey, rNegate, pNegate, err := profile.PrepareChallenge(rawR, groupKey, message)
	if err != nil {
		return nil, err
	}

	logger.Debug().Int("subset_size", len(subset)).Msg("signing context accepted subset")

	return &Context{
		Message:        message,
		Profile:        profile,
		Subset:         subset,
		bindingFactors: bindingFactors,
		RawR:           rawR,
		R:              canonicalR,
		Challenge:      challenge,
		GroupKey:       groupKey,
		EffKey:         effKey,
		RNegate:        rNegate,
		PNegate:        pNegate,
		logger:         logger,
	}, nil
}

// BindingFactor returns ρ for participant id, or an error if id is not a
// member of this context's subset.
func (c *Context) BindingFactor(id *big.Int) (*big.Int, error) {
	rho, ok := c.bindingFactors[id.String()]
	if !ok {
		return nil, fmt.Errorf("sign: identifier %s not in signing subset", id)
	}
	return rho, nil
}

// AggregateNonces computes the aggregated public nonce R = Σ(D_k + ρ_k·E_k)
// for message over subset, independent of any signing profile (spec §6:
// `aggregate_nonces(message, commitments) → R`). NewContext calls the same
// logic internally; this entry point exists for callers that only need the
// raw aggregated nonce, e.g. to cross-check every signer derived the same
// R before a profile challenge is computed.
func AggregateNonces(message []byte, subset []SubsetEntry) (*curve.Point, error) {
	hL, err := commitmentListHash(subset)
	if err != nil {
		return nil, err
	}

	r := curve.Identity()
	for _, entry := range subset {
		rho := curve.Reduce(bindingFactor(entry.ID, message, hL))
		r = curve.Add(r, curve.Add(entry.D, curve.Mul(entry.E, rho)))
	}
	return r, nil
}

// commitmentListHash computes h_L = SHA256(JSON(L)) over the subset in its
// given order (spec §4.4). The subset is NOT re-sorted here: callers must
// agree on the same order out-of-band, exactly as spec §5 requires.
func commitmentListHash(subset []SubsetEntry) ([]byte, error) {
	wire := make([]wireCommitment, len(subset))
	for i, e := range subset {
		wire[i] = wireCommitment{
			ID: e.ID.String(),
			D:  e.D.Code().String(),
			E:  e.E.Code().String(),
		}
	}
	blob, err := json.Marshal(wire)
	if err != nil {
		return nil, fmt.Errorf("sign: marshal commitment list: %w", err)
	}
	sum := sha256.Sum256(blob)
	return sum[:], nil
}

// bindingFactor computes ρ_k = SHA256(be32(id_k) ∥ m ∥ h_L), returned
// un-reduced as the full 256-bit digest (spec §9: the reference does not
// reduce the exponent; every consumer below reduces mod n internally
// before use in scalar multiplication or modular arithmetic).
func bindingFactor(id *big.Int, message, hL []byte) *big.Int {
	idBytes := make([]byte, 32)
	ib := id.Bytes()
	copy(idBytes[32-len(ib):], ib)

	h := sha256.New()
	h.Write(idBytes)
	h.Write(message)
	h.Write(hL)
	return new(big.Int).SetBytes(h.Sum(nil))
}

// sortedIdentifiers returns the subset's identifiers in their given order,
// the deterministic order the coordinator must have agreed with every
// participant (spec §4.2's Lagrange coefficient requirement).
func sortedIdentifiers(subset []SubsetEntry) []*big.Int {
	ids := make([]*big.Int, len(subset))
	for i, e := range subset {
		ids[i] = e.ID
	}
	return ids
}
