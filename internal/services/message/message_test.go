package message

import "testing"

func TestOrderPairIsSymmetric(t *testing.T) {
	cases := []struct {
		a, b   int64
		lo, hi int64
	}{
		{5, 7, 5, 7},
		{7, 5, 5, 7},
		{3, 3, 3, 3},
		{1, 42, 1, 42},
	}
	for _, tc := range cases {
		lo, hi := orderPair(tc.a, tc.b)
		if lo != tc.lo || hi != tc.hi {
			t.Fatalf("orderPair(%d, %d) = (%d, %d), want (%d, %d)", tc.a, tc.b, lo, hi, tc.lo, tc.hi)
		}
		rlo, rhi := orderPair(tc.b, tc.a)
		if rlo != lo || rhi != hi {
			t.Fatalf("orderPair must not depend on argument order: (%d,%d) vs (%d,%d)", lo, hi, rlo, rhi)
		}
	}
}
