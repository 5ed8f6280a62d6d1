package sign

import (
	"math/big"
	"testing"

	"github.com/frostnet/tss-core/curve"
	"github.com/frostnet/tss-core/internal/testutils"
)

func TestTweakedGroupKeyInternalKeyIsEvenY(t *testing.T) {
	for _, k := range []int64{3, 4, 17, 256} {
		groupKey := curve.BaseMul(big.NewInt(k))
		q, tweak, err := tweakedGroupKey(groupKey)
		if err != nil {
			t.Fatalf("k=%d: tweakedGroupKey: %v", k, err)
		}
		// Q = P + t·G, so the internal key P tweakedGroupKey used is Q - t·G.
		internal := curve.Sub(q, curve.BaseMul(tweak))
		if !internal.HasEvenY() {
			t.Fatalf("k=%d: internal key lift did not produce an even-y point", k)
		}
	}
}

func TestPrepareChallengeProducesEvenYEffectiveKeyAndNonce(t *testing.T) {
	for _, k := range []int64{3, 4, 17, 256} {
		groupKey := curve.BaseMul(big.NewInt(k))
		rawR := curve.BaseMul(big.NewInt(k + 1000))

		_, canonicalR, effKey, _, _, err := BTCProfile{}.PrepareChallenge(rawR, groupKey, []byte("msg"))
		if err != nil {
			t.Fatalf("k=%d: PrepareChallenge: %v", k, err)
		}
		if !canonicalR.HasEvenY() {
			t.Fatalf("k=%d: canonical R has odd y", k)
		}
		if !effKey.HasEvenY() {
			t.Fatalf("k=%d: effective group key has odd y", k)
		}
	}
}

func TestTweakedGroupKeyIsDeterministic(t *testing.T) {
	groupKey := curve.BaseMul(big.NewInt(99))
	q1, t1, err := tweakedGroupKey(groupKey)
	if err != nil {
		t.Fatalf("tweakedGroupKey: %v", err)
	}
	q2, t2, err := tweakedGroupKey(groupKey)
	if err != nil {
		t.Fatalf("tweakedGroupKey: %v", err)
	}
	testutils.AssertPointsEqual(t, "tweaked key", q1, q2)
	testutils.AssertBigIntsEqual(t, "tweak scalar", t1, t2)
}

func TestBIP340TaggedHashDiffersByTag(t *testing.T) {
	msg := []byte("some message bytes")
	a := bip340TaggedHash("TapTweak", msg)
	b := bip340TaggedHash("BIP0340/challenge", msg)
	testutils.AssertBoolsEqual(t, "different tags collide", false, string(a) == string(b))
}

func TestXOnlyIs32Bytes(t *testing.T) {
	p := curve.BaseMul(big.NewInt(12345))
	testutils.AssertIntsEqual(t, "x-only length", 32, len(xOnly(p)))
}

func TestBTCChallengeSign(t *testing.T) {
	testutils.AssertIntsEqual(t, "btc challenge sign", 1, BTCProfile{}.ChallengeSign())
}
