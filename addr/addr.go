// Package addr derives Ethereum-style addresses from secp256k1 public keys,
// as required by the ETH signing profile's nonce identity and on-chain
// challenge hashing (spec §4.1).
package addr

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/frostnet/tss-core/curve"
)

// FromPoint computes the 20-byte Ethereum address of a public key point:
// keccak256(X(32 bytes) || Y(32 bytes))[12:], matching spec §4.1.
func FromPoint(p *curve.Point) common.Address {
	xb := make([]byte, 32)
	p.X.FillBytes(xb)
	yb := make([]byte, 32)
	p.Y.FillBytes(yb)

	hash := ethcrypto.Keccak256(append(append([]byte{}, xb...), yb...))
	return common.BytesToAddress(hash[12:])
}

// Hex returns the EIP-55 mixed-case checksum hex encoding of addr, with the
// "0x" prefix, exactly as spec §4.1 requires for wire serialization.
func Hex(a common.Address) string {
	return a.Hex()
}

// AsBigEndianInt interprets the 20-byte address as a big-endian integer.
// The ETH profile's challenge does not call it; it hashes the address bytes
// (or, under the legacy encoding, its hex digits) directly.
func AsBigEndianInt(a common.Address) *big.Int {
	return new(big.Int).SetBytes(a.Bytes())
}
