package rating

import "github.com/itsvladii/owcs-nexus-sub000/internal/domain"

// MarketMapper maps a rating value, read as a share price by the fantasy
// market, to a discrete risk-tier grade. One canonical ladder lives on the
// raw rating scale; the site's legacy ×10-compressed display scale goes
// through TierScaled with the configured DisplayScale divisor so the two
// scales can never drift apart again.
type MarketMapper struct {
	cfg *Config
}

func NewMarketMapper(cfg *Config) *MarketMapper {
	return &MarketMapper{cfg: cfg}
}

// Tier grades a raw-scale rating against the descending threshold ladder.
// The bottom rung is a catch-all, so every rating gets a grade.
func (m *MarketMapper) Tier(rating float64) domain.PriceTier {
	for _, t := range m.cfg.Tiers {
		if rating >= t.Min {
			return domain.PriceTier{Grade: t.Grade, Label: t.Label}
		}
	}
	last := m.cfg.Tiers[len(m.cfg.Tiers)-1]
	return domain.PriceTier{Grade: last.Grade, Label: last.Label}
}

// TierScaled grades a value on the compressed display scale by converting it
// back to the raw scale first.
func (m *MarketMapper) TierScaled(displayValue float64) domain.PriceTier {
	return m.Tier(displayValue * m.cfg.DisplayScale)
}
