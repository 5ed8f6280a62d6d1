package addr

import (
	"math/big"
	"testing"

	"github.com/frostnet/tss-core/curve"
	"github.com/frostnet/tss-core/internal/testutils"
)

func TestFromPointIsDeterministic(t *testing.T) {
	p := curve.BaseMul(big.NewInt(123456))
	a1 := FromPoint(p)
	a2 := FromPoint(p)
	testutils.AssertStringsEqual(t, "address", a1.Hex(), a2.Hex())
}

func TestFromPointDiffersByPoint(t *testing.T) {
	a := FromPoint(curve.BaseMul(big.NewInt(1)))
	b := FromPoint(curve.BaseMul(big.NewInt(2)))
	testutils.AssertBoolsEqual(t, "addresses for different points collide", false, a.Hex() == b.Hex())
}

func TestHexHasPrefix(t *testing.T) {
	a := FromPoint(curve.BaseMul(big.NewInt(7)))
	h := Hex(a)
	testutils.AssertStringsEqual(t, "hex prefix", "0x", h[:2])
}

func TestAsBigEndianIntRoundTrip(t *testing.T) {
	a := FromPoint(curve.BaseMul(big.NewInt(99)))
	i := AsBigEndianInt(a)
	testutils.AssertBytesEqual(t, a.Bytes(), i.Bytes())
}
