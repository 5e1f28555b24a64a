package rating

import "strings"

// KFactorPolicy picks the per-match adjustment magnitude. Base K follows a
// three-phase model: marquee events always use the Major constant, teams
// still calibrating (few matches on record) converge fast, and everyone else
// runs at the steady-state constant.
type KFactorPolicy struct {
	cfg *Config
}

func NewKFactorPolicy(cfg *Config) *KFactorPolicy {
	return &KFactorPolicy{cfg: cfg}
}

// Base returns the phase K for one side of a match. gamesPlayed is the
// team's decided-match count before this match.
func (p *KFactorPolicy) Base(gamesPlayed int, major bool) float64 {
	if major {
		return p.cfg.KMajor
	}
	if gamesPlayed < p.cfg.CalibrationGames {
		return p.cfg.KCalibration
	}
	return p.cfg.KStability
}

// MovMultiplier scales K by the map-score differential: a 3+ map gap is a
// stomp, a 2 map gap is par, anything tighter is a close series. Missing
// scores get the neutral multiplier.
func (p *KFactorPolicy) MovMultiplier(scoreA, scoreB *int) float64 {
	if scoreA == nil || scoreB == nil {
		return 1.0
	}
	diff := *scoreA - *scoreB
	if diff < 0 {
		diff = -diff
	}
	switch {
	case diff >= 3:
		return 1.2
	case diff == 2:
		return 1.0
	default:
		return 0.8
	}
}

// EffectiveK is the full per-side K: phase K scaled by the shared MoV
// multiplier, with upset protection halving a loser's K when the phase K
// carries major-tier weight. The protection trigger reads the phase K, not
// the post-MoV value: a calibration-phase stomp is not a marquee event, and
// one bad day at a marquee event should not crater a rating.
func (p *KFactorPolicy) EffectiveK(gamesPlayed int, major bool, mov float64, lost bool) float64 {
	base := p.Base(gamesPlayed, major)
	k := base * mov
	if lost && base >= p.cfg.UpsetProtectionK {
		k /= 2
	}
	return k
}

// IsMajor reports whether the tournament name marks a marquee event.
func (p *KFactorPolicy) IsMajor(tournament string) bool {
	t := strings.ToLower(tournament)
	for _, kw := range p.cfg.MajorKeywords {
		if strings.Contains(t, kw) {
			return true
		}
	}
	return false
}

// IsQualifier reports whether the tournament is qualifier-tier, which keeps
// its matches out of the biggest-upsets list.
func (p *KFactorPolicy) IsQualifier(tournament string) bool {
	t := strings.ToLower(tournament)
	for _, kw := range p.cfg.QualifierKeywords {
		if strings.Contains(t, kw) {
			return true
		}
	}
	return false
}
