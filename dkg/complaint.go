package dkg

import (
	"crypto/sha256"
	"math/big"

	"github.com/frostnet/tss-core/curve"
)

// Complaint proves that an accuser correctly derived the encryption key
// used to decrypt an accused peer's share, without revealing the accuser's
// secret key — a Chaum-Pedersen proof of equality of discrete logs (spec
// §4.3.1). The "To Remove" / "What is this for?" complaint_sign/
// complaint_verify helpers in the Python reference are reconstructed here
// under names that describe what they do.
type Complaint struct {
	AccuserID     *big.Int
	AccusedID     *big.Int
	EncryptionKey *curve.Point // sk_accuser · Pk_accused
	PublicNonce   *curve.Point // r·G
	Nonce         *curve.Point // r·Pk_accused
	Signature     *big.Int     // s = r + sk_accuser·h mod N
}

// complaintHash computes h = H(SEC1(Pk_i) || SEC1(Pk_j) || SEC1(encryption_key)
// || SEC1(r·G) || SEC1(r·Pk_j)), the challenge binding the proof to both
// participants' public keys and the claimed encryption key (spec §4.3.1).
func complaintHash(accuserPK, accusedPK, encryptionKey, publicNonce, nonce *curve.Point) *big.Int {
	h := sha256.New()
	h.Write(accuserPK.SEC1Compressed())
	h.Write(accusedPK.SEC1Compressed())
	h.Write(encryptionKey.SEC1Compressed())
	h.Write(publicNonce.SEC1Compressed())
	h.Write(nonce.SEC1Compressed())
	return new(big.Int).SetBytes(h.Sum(nil))
}

// buildComplaint constructs a Complaint against accusedID by the holder of
// accuserSK, proving that encryptionKey = accuserSK · accusedPK.
func buildComplaint(
	accuserID, accusedID *big.Int,
	accuserSK *big.Int,
	accuserPK, accusedPK *curve.Point,
) (*Complaint, error) {
	encryptionKey := curve.Mul(accusedPK, accuserSK)

	r, err := curve.RandomScalar()
	if err != nil {
		return nil, err
	}
	publicNonce := curve.BaseMul(r)
	nonce := curve.Mul(accusedPK, r)

	h := complaintHash(accuserPK, accusedPK, encryptionKey, publicNonce, nonce)
	s := curve.SchnorrSign(accuserSK, r, h)

	return &Complaint{
		AccuserID:     accuserID,
		AccusedID:     accusedID,
		EncryptionKey: encryptionKey,
		PublicNonce:   publicNonce,
		Nonce:         nonce,
		Signature:     s,
	}, nil
}

// VerifyComplaint checks both halves of the Chaum-Pedersen equality proof:
//
//	s·G       == r·G + h·Pk_accuser
//	s·Pk_acc  == r·Pk_acc + h·encryption_key
//
// Both must hold for the complaint to be considered valid (spec §4.3.1).
func VerifyComplaint(c *Complaint, accuserPK, accusedPK *curve.Point) bool {
	h := complaintHash(accuserPK, accusedPK, c.EncryptionKey, c.PublicNonce, c.Nonce)

	if !curve.SchnorrVerifyEq(c.Signature, c.PublicNonce, h, accuserPK) {
		return false
	}

	lhs := curve.Mul(accusedPK, c.Signature)
	rhs := curve.Add(c.Nonce, curve.Mul(c.EncryptionKey, h))
	return lhs.Equal(rhs)
}
