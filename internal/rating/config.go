package rating

import (
	"time"

	"github.com/itsvladii/owcs-nexus-sub000/internal/domain"
)

// RosterReset snaps a team's rating to Rating on the first match played on or
// after Date. Used when an org replaces its roster wholesale and the old
// rating no longer describes the players on stage.
type RosterReset struct {
	Team   string
	Date   time.Time
	Rating float64
}

// TierThreshold is one rung of the market price ladder. A rating maps to the
// first rung whose Min it meets, scanning top down.
type TierThreshold struct {
	Min   float64
	Grade string
	Label string
}

// Config carries every table the engine reads. All fields are read-only for
// the duration of a Compute call; sharing one Config across concurrent runs
// is safe as long as nobody mutates it.
type Config struct {
	// Aliases maps former/alternate team names to the current canonical one.
	Aliases map[string]string

	// TeamRegions pre-classifies known orgs; teams not listed fall back to
	// inference from their first match's tournament name.
	TeamRegions map[string]domain.Region

	// RegionSeeds is the initial rating per region; SeedDefault covers teams
	// whose region cannot be inferred from their first match.
	RegionSeeds map[domain.Region]float64
	SeedDefault float64

	// SeasonStart dates the synthetic first history entry of every team.
	SeasonStart time.Time

	// Off-season decay: rating' = DecayBaseline + (rating-DecayBaseline)*DecayRetention,
	// applied to every team once per year boundary in the replay order.
	DecayBaseline  float64
	DecayRetention float64

	// K-factor phases.
	KMajor           float64
	KCalibration     float64
	KStability       float64
	CalibrationGames int

	// Upset-protection: a loser whose effective K is at or above this gets
	// that K halved for the match.
	UpsetProtectionK float64

	// MajorKeywords mark a tournament as a marquee event (case-insensitive
	// substring match).
	MajorKeywords []string
	// QualifierKeywords exclude an event from the biggest-upsets list.
	QualifierKeywords []string

	// UpsetThreshold is the winner win-probability below which a match is an
	// upset candidate. UpsetCount is how many make the final stats block.
	UpsetThreshold float64
	UpsetCount     int

	// Derived-stats windows.
	MoversWindow    time.Duration
	RankDeltaWindow time.Duration

	// Final ranking filter.
	MinGames         int
	MinRating        float64
	InactivityWindow time.Duration

	// Resets is the roster-continuity table, Partners the partner-org
	// allow-list (display only).
	Resets   []RosterReset
	Partners map[string]bool

	// Market price ladder on the raw rating scale. The site's legacy
	// compressed display scale is handled by multiplying by DisplayScale
	// back to the raw scale before lookup, never by a second table.
	Tiers        []TierThreshold
	DisplayScale float64
}

// DefaultConfig is the production table set for the current circuit.
func DefaultConfig() *Config {
	return &Config{
		Aliases: map[string]string{
			"Luminosity Gaming KR":  "Luminosity Gaming",
			"O2 Blast":              "T1",
			"Students of the Game":  "NTMR",
			"SSG":                   "Spacestation Gaming",
			"Toronto Defiant Core":  "Toronto Defiant",
			"Vancouver Titans Blue": "Vancouver Titans",
			"Poker Face Community":  "Poker Face",
			"FTG Esports":           "From The Gamer",
			"Team Falcons Green":    "Team Falcons",
			"ZETA DIVISION Academy": "ZETA DIVISION",
			"Crazy Raccoon CR":      "Crazy Raccoon",
			"Virtus Pro":            "Virtus.pro",
			"Gen G":                 "Gen.G",
			"Weibo":                 "Weibo Gaming",
		},
		TeamRegions: map[string]domain.Region{
			"T1":                  domain.RegionKorea,
			"Gen.G":               domain.RegionKorea,
			"Poker Face":          domain.RegionKorea,
			"From The Gamer":      domain.RegionKorea,
			"Crazy Raccoon":       domain.RegionJapan,
			"VARREL":              domain.RegionJapan,
			"ZETA DIVISION":       domain.RegionJapan,
			"Spacestation Gaming": domain.RegionNorthAmerica,
			"NTMR":                domain.RegionNorthAmerica,
			"Toronto Defiant":     domain.RegionNorthAmerica,
			"Vancouver Titans":    domain.RegionNorthAmerica,
			"Luminosity Gaming":   domain.RegionNorthAmerica,
			"Team Falcons":        domain.RegionEMEA,
			"Twisted Minds":       domain.RegionEMEA,
			"Virtus.pro":          domain.RegionEMEA,
			"Weibo Gaming":        domain.RegionChina,
			"Team CC":             domain.RegionChina,
		},
		RegionSeeds: map[domain.Region]float64{
			domain.RegionKorea:        1304,
			domain.RegionNorthAmerica: 1264,
			domain.RegionEMEA:         1274,
			domain.RegionChina:        1284,
			domain.RegionPacific:      1254,
			domain.RegionJapan:        1244,
		},
		SeedDefault: 1250,

		SeasonStart: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),

		DecayBaseline:  1250,
		DecayRetention: 0.75,

		KMajor:           60,
		KCalibration:     50,
		KStability:       30,
		CalibrationGames: 10,
		UpsetProtectionK: 60,

		MajorKeywords:     []string{"world", "major", "midseason", "clash", "ewc", "esports world cup"},
		QualifierKeywords: []string{"qualifier", "open", "trials", "contenders"},

		UpsetThreshold: 0.35,
		UpsetCount:     2,

		MoversWindow:    30 * 24 * time.Hour,
		RankDeltaWindow: 7 * 24 * time.Hour,

		MinGames:         10,
		MinRating:        1000,
		InactivityWindow: 120 * 24 * time.Hour,

		Resets: []RosterReset{
			{Team: "Vancouver Titans", Date: time.Date(2024, time.September, 1, 0, 0, 0, 0, time.UTC), Rating: 1250},
			{Team: "Poker Face", Date: time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC), Rating: 1264},
		},
		Partners: map[string]bool{
			"Crazy Raccoon":       true,
			"Team Falcons":        true,
			"T1":                  true,
			"Gen.G":               true,
			"NTMR":                true,
			"Spacestation Gaming": true,
			"Twisted Minds":       true,
			"Virtus.pro":          true,
			"Weibo Gaming":        true,
			"Team CC":             true,
			"ZETA DIVISION":       true,
			"Toronto Defiant":     true,
		},

		Tiers: []TierThreshold{
			{Min: 1650, Grade: "S", Label: "prime"},
			{Min: 1450, Grade: "A", Label: "blue chip"},
			{Min: 1330, Grade: "B", Label: "growth"},
			{Min: 1200, Grade: "C", Label: "volatile"},
			{Min: 0, Grade: "D", Label: "high risk"},
		},
		DisplayScale: 10,
	}
}
