package sign

import (
	"sync"

	"github.com/frostnet/tss-core/curve"
	"github.com/frostnet/tss-core/errs"
)

// CreateNoncePool generates count fresh, independent nonce pairs for
// pre-generation (spec §4.4, §6: `create_nonces(id, n) → (publics,
// privates)`). Callers persist the private pairs locally and publish the
// public commitments to the coordinator.
func CreateNoncePool(count int) (publics []NonceCommitment, privates []NoncePair, err error) {
	publics = make([]NonceCommitment, 0, count)
	privates = make([]NoncePair, 0, count)

	for i := 0; i < count; i++ {
		d, err := curve.RandomScalar()
		if err != nil {
			return nil, nil, err
		}
		e, err := curve.RandomScalar()
		if err != nil {
			return nil, nil, err
		}
		pair := NoncePair{D: d, E: e}
		privates = append(privates, pair)
		publics = append(publics, pair.PublicCommitments())
	}
	return publics, privates, nil
}

// NonceStore is the only concurrency-sensitive store in the core (spec §5):
// a mapping from a nonce commitment to its private pair, guaranteeing
// atomic "take" (read-then-delete) semantics so a pair can never sign
// twice.
type NonceStore struct {
	mu    sync.Mutex
	pairs map[string]NoncePair
}

// NewNonceStore returns an empty store.
func NewNonceStore() *NonceStore {
	return &NonceStore{pairs: make(map[string]NoncePair)}
}

func commitmentKey(c NonceCommitment) string {
	return c.D.Code().String() + "|" + c.E.Code().String()
}

// Put registers a nonce pair under its public commitment. Pre-generation
// time only; never called concurrently with Take for the same commitment
// in correct usage.
func (s *NonceStore) Put(commitment NonceCommitment, pair NoncePair) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pairs[commitmentKey(commitment)] = pair
}

// Take atomically reads and deletes the pair registered under commitment.
// A second call for the same commitment — the double-take spec §5 and §7
// single out as security-fatal — fails with errs.ErrNonceAlreadyUsed.
func (s *NonceStore) Take(commitment NonceCommitment) (NoncePair, error) {
	key := commitmentKey(commitment)

	s.mu.Lock()
	defer s.mu.Unlock()

	pair, ok := s.pairs[key]
	if !ok {
		return NoncePair{}, errs.ErrNonceAlreadyUsed
	}
	delete(s.pairs, key)
	return pair, nil
}

// Remaining reports how many untaken nonce pairs are left in the pool, so
// callers can detect pool exhaustion before a signing round stalls on a
// Take failure (reference `create_nonces` pre-generates a fixed-size pool
// with no replenishment signal of its own).
func (s *NonceStore) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pairs)
}
