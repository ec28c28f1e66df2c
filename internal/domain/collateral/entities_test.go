package collateral

import "testing"

func TestRatioTruncates(t *testing.T) {
	cases := []struct {
		totalValue, referenceValue, want uint64
	}{
		{150, 100, 150},
		{149, 100, 149},
		{1, 3, 33},     // 100/3 truncates
		{2, 3, 66},     // never rounds up
		{1_000, 1, 100_000},
	}
	for _, tc := range cases {
		if got := Ratio(tc.totalValue, tc.referenceValue); got != tc.want {
			t.Errorf("Ratio(%d, %d) = %d, want %d", tc.totalValue, tc.referenceValue, got, tc.want)
		}
	}
}
