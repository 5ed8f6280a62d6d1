package dkg

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/frostnet/tss-core/aead"
	"github.com/frostnet/tss-core/curve"
	"github.com/frostnet/tss-core/internal/testutils"
)

// participantIDs returns the base-10 decimal identifier strings "1".."n".
func participantIDs(n int) []string {
	ids := make([]string, n)
	for i := 0; i < n; i++ {
		ids[i] = big.NewInt(int64(i + 1)).String()
	}
	return ids
}

func partnersOf(ids []string, self string) []string {
	out := make([]string, 0, len(ids)-1)
	for _, id := range ids {
		if id != self {
			out = append(out, id)
		}
	}
	return out
}

func newTestSessions(t *testing.T, n, threshold int) map[string]*Session {
	ids := participantIDs(n)
	sessions := make(map[string]*Session, n)
	for _, id := range ids {
		s, err := New("dkg-test", threshold, id, partnersOf(ids, id), nil, KeyTypeETH, NewSessionLogger())
		if err != nil {
			t.Fatalf("New(%s): %v", id, err)
		}
		sessions[id] = s
	}
	return sessions
}

// runVanillaDKG drives every session through all three rounds and returns
// each participant's final ShareResult, failing the test on any error or
// complaint.
func runVanillaDKG(t *testing.T, sessions map[string]*Session) map[string]*ShareResult {
	broadcasts := make(map[string]*Round1Broadcast, len(sessions))
	for id, s := range sessions {
		bc, err := s.Round1()
		if err != nil {
			t.Fatalf("Round1(%s): %v", id, err)
		}
		broadcasts[id] = bc
	}

	round2Out := make(map[string]map[string]*EncryptedShare, len(sessions))
	for id, s := range sessions {
		out, err := s.Round2(broadcasts)
		if err != nil {
			t.Fatalf("Round2(%s): %v", id, err)
		}
		round2Out[id] = out
	}

	results := make(map[string]*ShareResult, len(sessions))
	for id, s := range sessions {
		incoming := make(map[string]*EncryptedShare, len(sessions)-1)
		for senderID, out := range round2Out {
			if senderID == id {
				continue
			}
			incoming[senderID] = out[id]
		}

		result, complaint, err := s.Round3(incoming)
		if err != nil {
			t.Fatalf("Round3(%s): %v", id, err)
		}
		if complaint != nil {
			t.Fatalf("Round3(%s): unexpected complaint against %d peer(s)", id, len(complaint.Complaints))
		}
		results[id] = result
	}
	return results
}

func TestVanillaDKGProducesConsistentGroupKey(t *testing.T) {
	sessions := newTestSessions(t, 3, 2)
	results := runVanillaDKG(t, sessions)

	var groupKey *curve.Point
	for id, r := range results {
		testutils.AssertIntsEqual(t, "status after round3", int(StatusCompleted), int(sessions[id].Status()))
		if groupKey == nil {
			groupKey = r.GroupPublicKey
			continue
		}
		testutils.AssertPointsEqual(t, "group public key for "+id, groupKey, r.GroupPublicKey)
	}
}

func TestVanillaDKGSharesReconstructGroupKey(t *testing.T) {
	sessions := newTestSessions(t, 3, 2)
	results := runVanillaDKG(t, sessions)

	ids := []*big.Int{big.NewInt(1), big.NewInt(2)}
	shares := []*big.Int{results["1"].Share, results["2"].Share}

	secret := new(big.Int)
	for i, id := range ids {
		lambda := lagrangeAtZero(t, id, ids)
		term := new(big.Int).Mul(lambda, shares[i])
		secret.Add(secret, term)
	}
	secret.Mod(secret, curve.N)

	testutils.AssertPointsEqual(t, "reconstructed group key", results["1"].GroupPublicKey, curve.BaseMul(secret))
}

func lagrangeAtZero(t *testing.T, xj *big.Int, identifiers []*big.Int) *big.Int {
	t.Helper()
	// Local re-implementation: dkg already imports poly in production code,
	// and this keeps the reconstruction oracle independent of it.
	num := big.NewInt(1)
	den := big.NewInt(1)
	for _, xk := range identifiers {
		if xk.Cmp(xj) == 0 {
			continue
		}
		num.Mul(num, new(big.Int).Neg(xk))
		num.Mod(num, curve.N)
		den.Mul(den, new(big.Int).Sub(xj, xk))
		den.Mod(den, curve.N)
	}
	denInv, err := curve.ModInverse(den)
	if err != nil {
		t.Fatalf("ModInverse: %v", err)
	}
	res := new(big.Int).Mul(num, denInv)
	return res.Mod(res, curve.N)
}

func TestNewRejectsThresholdBelowOne(t *testing.T) {
	ids := participantIDs(3)
	_, err := New("dkg-test", 0, ids[0], partnersOf(ids, ids[0]), nil, KeyTypeETH, NewSessionLogger())
	if err == nil {
		t.Fatal("expected an error for threshold 0")
	}
}

func TestNewRejectsThresholdAboveGroupSize(t *testing.T) {
	ids := participantIDs(3)
	_, err := New("dkg-test", 4, ids[0], partnersOf(ids, ids[0]), nil, KeyTypeETH, NewSessionLogger())
	if err == nil {
		t.Fatal("expected an error for a threshold exceeding the participant count")
	}
}

func TestRoundsMustRunInOrder(t *testing.T) {
	sessions := newTestSessions(t, 2, 2)
	s := sessions["1"]

	if _, err := s.Round2(nil); err == nil {
		t.Fatal("expected an error calling Round2 before Round1")
	}
	if _, _, err := s.Round3(nil); err == nil {
		t.Fatal("expected an error calling Round3 before Round1/Round2")
	}

	if _, err := s.Round1(); err != nil {
		t.Fatalf("Round1: %v", err)
	}
	if _, err := s.Round1(); err == nil {
		t.Fatal("expected an error calling Round1 twice")
	}
}

func TestRound2DisqualifiesPeerWithBadProofOfPossession(t *testing.T) {
	sessions := newTestSessions(t, 3, 2)

	broadcasts := make(map[string]*Round1Broadcast, len(sessions))
	for id, s := range sessions {
		bc, err := s.Round1()
		if err != nil {
			t.Fatalf("Round1(%s): %v", id, err)
		}
		broadcasts[id] = bc
	}

	// Corrupt participant "2"'s secret-key PoP as every other participant
	// would observe it.
	tampered := *broadcasts["2"]
	tampered.SecretKeyPoP.Signature = new(big.Int).Add(tampered.SecretKeyPoP.Signature, big.NewInt(1))
	broadcasts["2"] = &tampered

	s1 := sessions["1"]
	if _, err := s1.Round2(broadcasts); err != nil {
		t.Fatalf("Round2: %v", err)
	}
	if s1.qualified["2"] {
		t.Fatal("expected participant 2 to be disqualified after a bad proof of possession")
	}
	if !s1.qualified["1"] || !s1.qualified["3"] {
		t.Fatal("expected participants 1 and 3 to remain qualified")
	}
}

func TestRound3ComplaintsAgainstInconsistentShare(t *testing.T) {
	sessions := newTestSessions(t, 3, 2)

	broadcasts := make(map[string]*Round1Broadcast, len(sessions))
	for id, s := range sessions {
		bc, err := s.Round1()
		if err != nil {
			t.Fatalf("Round1(%s): %v", id, err)
		}
		broadcasts[id] = bc
	}

	round2Out := make(map[string]map[string]*EncryptedShare, len(sessions))
	for id, s := range sessions {
		out, err := s.Round2(broadcasts)
		if err != nil {
			t.Fatalf("Round2(%s): %v", id, err)
		}
		round2Out[id] = out
	}

	// Participant "2" sends participant "1" the value f_2(1)+1, encrypted
	// under their correct pairwise key — simulating a peer who sends an
	// inconsistent polynomial evaluation rather than tampering with the
	// ciphertext, so decryption succeeds and the Feldman check fails.
	s2 := sessions["2"]
	key, err := aead.DeriveKey(s2.sk, broadcasts["1"].PublicKey)
	if err != nil {
		t.Fatalf("DeriveKey: %v", err)
	}
	f, err := s2.poly.Evaluate(big.NewInt(1))
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	bad := new(big.Int).Add(f, big.NewInt(1))
	plaintext, err := json.Marshal(shareEnvelope{ReceiverID: "1", F: bad.String()})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	token, err := aead.Encrypt(key, plaintext)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	round2Out["2"]["1"] = &EncryptedShare{SenderID: big.NewInt(2), ReceiverID: big.NewInt(1), Ciphertext: token}

	s1 := sessions["1"]
	incoming := map[string]*EncryptedShare{
		"2": round2Out["2"]["1"],
		"3": round2Out["3"]["1"],
	}

	result, complaintResult, err := s1.Round3(incoming)
	if err != nil {
		t.Fatalf("Round3: %v", err)
	}
	if complaintResult == nil {
		t.Fatal("expected a complaint for the inconsistent share")
	}
	testutils.AssertIntsEqual(t, "status after complaint", int(StatusComplaint), int(s1.Status()))
	if result != nil {
		t.Fatal("expected a nil ShareResult when a complaint is raised")
	}
	testutils.AssertIntsEqual(t, "number of complaints", 1, len(complaintResult.Complaints))
	testutils.AssertBigIntsEqual(t, "accused identifier", big.NewInt(2), complaintResult.Complaints[0].AccusedID)

	// The complaint itself must verify against the accuser's and
	// accused's Round-1 public keys.
	accuserPK := broadcasts["1"].PublicKey
	accusedPK := broadcasts["2"].PublicKey
	testutils.AssertBoolsEqual(t, "complaint verifies", true, VerifyComplaint(complaintResult.Complaints[0], accuserPK, accusedPK))
}

func TestCloseZeroizesSecretMaterial(t *testing.T) {
	sessions := newTestSessions(t, 2, 2)
	s := sessions["1"]
	if _, err := s.Round1(); err != nil {
		t.Fatalf("Round1: %v", err)
	}

	s.Close()
	testutils.AssertBigIntNonZero(t, "placeholder guard", big.NewInt(1))
	if s.sk.Sign() != 0 {
		t.Fatal("expected the session secret key to be zeroized after Close")
	}
}
