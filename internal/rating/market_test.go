package rating

import "testing"

func TestMarketTier(t *testing.T) {
	m := NewMarketMapper(DefaultConfig())

	tests := []struct {
		rating float64
		grade  string
		label  string
	}{
		{1700, "S", "prime"},
		{1650, "S", "prime"},
		{1649.9, "A", "blue chip"},
		{1450, "A", "blue chip"},
		{1400, "B", "growth"},
		{1250, "C", "volatile"},
		{1100, "D", "high risk"},
		{0, "D", "high risk"},
		{-50, "D", "high risk"},
	}
	for _, tt := range tests {
		got := m.Tier(tt.rating)
		if got.Grade != tt.grade || got.Label != tt.label {
			t.Errorf("Tier(%v) = %+v, want {%s %s}", tt.rating, got, tt.grade, tt.label)
		}
	}
}

func TestMarketTierScaled(t *testing.T) {
	m := NewMarketMapper(DefaultConfig())

	// The compressed display scale maps through the same ladder: 165.0 on
	// the display scale is 1650 raw.
	if got := m.TierScaled(165); got.Label != "prime" {
		t.Errorf("TierScaled(165) = %+v, want prime", got)
	}
	if got := m.TierScaled(120); got.Label != "volatile" {
		t.Errorf("TierScaled(120) = %+v, want volatile", got)
	}
}
