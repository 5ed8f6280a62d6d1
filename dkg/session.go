package dkg

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/rs/zerolog"

	"github.com/frostnet/tss-core/aead"
	"github.com/frostnet/tss-core/curve"
	"github.com/frostnet/tss-core/errs"
	"github.com/frostnet/tss-core/poly"
)

// Session is one participant's exclusively-owned view of a single DKG run,
// identified by dkgID. It must be driven through Round1, Round2, and Round3
// in strict order (spec §5); calling a round out of sequence, or after a
// terminal state, fails with errs.ErrInvalidState.
type Session struct {
	dkgID     string
	threshold int
	keyType   KeyType

	selfIDStr  string
	selfID     *big.Int
	partnerIDs map[string]*big.Int // other participants' id string -> parsed id, excludes self

	status Status
	logger zerolog.Logger

	sk           *big.Int
	pk           *curve.Point
	poly         *poly.Polynomial
	commitments  []*curve.Point
	ownBroadcast *Round1Broadcast

	peerBroadcasts map[string]*Round1Broadcast // keyed by sender id string
	qualified      map[string]bool             // keyed by id string, includes self

	receivedShares map[string]*big.Int // sender id string -> f_sender(self)
	complaints     []*Complaint
}

// New creates a DKG session for dkgID among threshold and the given
// partners (every participant other than self_id). coefficient0, if
// non-nil, pins the session polynomial's constant term — used to derive a
// predictable group key in tests (spec §4.3).
func New(
	dkgID string,
	threshold int,
	selfIDStr string,
	partners []string,
	coefficient0 *big.Int,
	keyType KeyType,
	logger zerolog.Logger,
) (*Session, error) {
	selfID, err := ParseIdentifier(selfIDStr)
	if err != nil {
		return nil, err
	}

	partnerIDs := make(map[string]*big.Int, len(partners))
	for _, p := range partners {
		if p == selfIDStr {
			continue
		}
		id, err := ParseIdentifier(p)
		if err != nil {
			return nil, err
		}
		partnerIDs[p] = id
	}

	n := len(partnerIDs) + 1
	if threshold < 1 || threshold > n {
		return nil, fmt.Errorf("dkg: threshold %d invalid for %d participants", threshold, n)
	}

	s := &Session{
		dkgID:          dkgID,
		threshold:      threshold,
		keyType:        keyType,
		selfIDStr:      selfIDStr,
		selfID:         selfID,
		partnerIDs:     partnerIDs,
		status:         StatusStarted,
		logger:         logger,
		peerBroadcasts: make(map[string]*Round1Broadcast),
		qualified:      make(map[string]bool),
		receivedShares: make(map[string]*big.Int),
	}

	p, err := poly.New(threshold, coefficient0)
	if err != nil {
		return nil, err
	}
	s.poly = p

	return s, nil
}

// Status reports the session's current lifecycle state.
func (s *Session) Status() Status { return s.status }

// Round1 generates this participant's authentication keypair, session
// polynomial, and both proofs of possession, returning the broadcast to
// send to every other participant (spec §4.3, Round 1).
func (s *Session) Round1() (*Round1Broadcast, error) {
	if s.status != StatusStarted {
		return nil, errs.ErrInvalidState
	}

	sk, err := curve.RandomScalar()
	if err != nil {
		return nil, fmt.Errorf("dkg: generate session key: %w", err)
	}
	pk := curve.BaseMul(sk)

	commitments := s.poly.Commitments()
	c0 := commitments[0]

	skPoP, err := buildPoP(sk, s.selfID, s.dkgID, pk)
	if err != nil {
		return nil, fmt.Errorf("dkg: build sk PoP: %w", err)
	}
	c0PoP, err := buildPoP(s.poly.Coefficients[0], s.selfID, s.dkgID, c0)
	if err != nil {
		return nil, fmt.Errorf("dkg: build coefficient0 PoP: %w", err)
	}

	s.sk = sk
	s.pk = pk
	s.commitments = commitments

	broadcast := &Round1Broadcast{
		SenderID:           new(big.Int).Set(s.selfID),
		PublicCommitments:  commitments,
		CoefficientZeroPoP: c0PoP,
		SecretKeyPoP:       skPoP,
		PublicKey:          pk,
		KeyType:            s.keyType,
	}
	s.ownBroadcast = broadcast
	s.qualified[s.selfIDStr] = true
	s.status = StatusRound1

	s.logger.Debug().Str("dkg_id", s.dkgID).Str("self", s.selfIDStr).Msg("round1 complete")
	return broadcast, nil
}

// Round2 verifies every peer's Round-1 proofs of possession — disqualifying
// (without error) any peer whose proof fails — then derives the pairwise
// HKDF key with each qualified peer and returns this participant's
// encrypted share for each of them (spec §4.3, Round 2).
func (s *Session) Round2(broadcasts map[string]*Round1Broadcast) (map[string]*EncryptedShare, error) {
	if s.status != StatusRound1 {
		return nil, errs.ErrInvalidState
	}

	for idStr, partnerID := range s.partnerIDs {
		bc, ok := broadcasts[idStr]
		if !ok {
			return nil, fmt.Errorf("dkg: missing round1 broadcast from %q: %w", idStr, errs.ErrInvalidState)
		}
		s.peerBroadcasts[idStr] = bc

		if !verifyPoP(partnerID, s.dkgID, bc.PublicKey, bc.SecretKeyPoP) {
			s.logger.Warn().Str("peer", idStr).Msg("secret key PoP failed, disqualifying peer")
			continue
		}
		if !verifyPoP(partnerID, s.dkgID, bc.PublicCommitments[0], bc.CoefficientZeroPoP) {
			s.logger.Warn().Str("peer", idStr).Msg("coefficient0 PoP failed, disqualifying peer")
			continue
		}
		s.qualified[idStr] = true
	}

	out := make(map[string]*EncryptedShare, len(s.qualified)-1)
	for idStr := range s.qualified {
		if idStr == s.selfIDStr {
			continue
		}
		partnerID := s.partnerIDs[idStr]
		peerPK := s.peerBroadcasts[idStr].PublicKey

		key, err := aead.DeriveKey(s.sk, peerPK)
		if err != nil {
			return nil, fmt.Errorf("dkg: derive pairwise key with %q: %w", idStr, err)
		}

		fShare, err := s.poly.Evaluate(partnerID)
		if err != nil {
			return nil, fmt.Errorf("dkg: evaluate share for %q: %w", idStr, err)
		}

		plaintext, err := json.Marshal(shareEnvelope{ReceiverID: idStr, F: fShare.String()})
		if err != nil {
			return nil, fmt.Errorf("dkg: marshal share envelope: %w", err)
		}

		token, err := aead.Encrypt(key, plaintext)
		if err != nil {
			return nil, fmt.Errorf("dkg: encrypt share for %q: %w", idStr, err)
		}

		out[idStr] = &EncryptedShare{
			SenderID:   new(big.Int).Set(s.selfID),
			ReceiverID: new(big.Int).Set(partnerID),
			Ciphertext: token,
		}
	}

	s.status = StatusRound2
	s.logger.Debug().Str("dkg_id", s.dkgID).Int("qualified", len(s.qualified)).Msg("round2 complete")
	return out, nil
}

// Round3 decrypts every qualified peer's targeted share, checks it against
// that peer's Feldman commitments, and either finalizes this participant's
// secret share and the group verifying key, or — if any peer's share is
// inconsistent — builds a complaint against each such peer and enters the
// terminal COMPLAINT state (spec §4.3, Round 3).
func (s *Session) Round3(encShares map[string]*EncryptedShare) (*ShareResult, *ComplaintResult, error) {
	if s.status != StatusRound2 {
		return nil, nil, errs.ErrInvalidState
	}

	ownFShare, err := s.poly.Evaluate(s.selfID)
	if err != nil {
		return nil, nil, fmt.Errorf("dkg: evaluate own share: %w", err)
	}
	s.receivedShares[s.selfIDStr] = ownFShare

	var complaints []*Complaint

	for idStr := range s.qualified {
		if idStr == s.selfIDStr {
			continue
		}
		enc, ok := encShares[idStr]
		if !ok {
			return nil, nil, fmt.Errorf("dkg: missing round2 share from %q: %w", idStr, errs.ErrInvalidState)
		}

		peerID := s.partnerIDs[idStr]
		peerBroadcast := s.peerBroadcasts[idStr]
		peerPK := peerBroadcast.PublicKey

		key, err := aead.DeriveKey(s.sk, peerPK)
		if err != nil {
			return nil, nil, fmt.Errorf("dkg: derive pairwise key with %q: %w", idStr, err)
		}

		plaintext, err := aead.Decrypt(key, enc.Ciphertext)
		if err != nil {
			return nil, nil, err
		}

		var env shareEnvelope
		if err := json.Unmarshal(plaintext, &env); err != nil {
			return nil, nil, fmt.Errorf("dkg: unmarshal share envelope from %q: %w", idStr, err)
		}
		fShare, ok := new(big.Int).SetString(env.F, 10)
		if !ok {
			return nil, nil, fmt.Errorf("dkg: malformed share value from %q", idStr)
		}

		valid, err := poly.VerifyShare(fShare, s.selfID, peerBroadcast.PublicCommitments)
		if err != nil {
			return nil, nil, fmt.Errorf("dkg: verify share from %q: %w", idStr, err)
		}
		if !valid {
			s.logger.Warn().Str("peer", idStr).Msg("feldman check failed, building complaint")
			complaint, err := buildComplaint(s.selfID, peerID, s.sk, s.pk, peerPK)
			if err != nil {
				return nil, nil, fmt.Errorf("dkg: build complaint against %q: %w", idStr, err)
			}
			complaints = append(complaints, complaint)
			continue
		}

		s.receivedShares[idStr] = fShare
	}

	if len(complaints) > 0 {
		s.complaints = complaints
		s.status = StatusComplaint
		return nil, &ComplaintResult{Complaints: complaints}, nil
	}

	share := new(big.Int)
	groupKey := curve.Identity()
	for idStr := range s.qualified {
		f, ok := s.receivedShares[idStr]
		if !ok {
			return nil, nil, fmt.Errorf("dkg: missing verified share from %q", idStr)
		}
		share.Add(share, f)
		share.Mod(share, curve.N)

		var c0 *curve.Point
		if idStr == s.selfIDStr {
			c0 = s.commitments[0]
		} else {
			c0 = s.peerBroadcasts[idStr].PublicCommitments[0]
		}
		groupKey = curve.Add(groupKey, c0)
	}

	s.status = StatusCompleted
	s.logger.Debug().Str("dkg_id", s.dkgID).Msg("round3 complete")

	return &ShareResult{
		Share:          share,
		GroupPublicKey: groupKey,
		PublicShare:    curve.BaseMul(share),
		KeyType:        s.keyType,
	}, nil, nil
}

// Close zeroizes this session's secret material. Callers must not use the
// session afterward (spec §5: "secret scalars are zeroed on drop").
func (s *Session) Close() {
	curve.Zeroize(s.sk)
	if s.poly != nil {
		s.poly.Zeroize()
	}
	for _, f := range s.receivedShares {
		curve.Zeroize(f)
	}
}
