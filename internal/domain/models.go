package domain

import (
	"time"
)

// Region is a team's competitive region within the circuit.
type Region string

const (
	RegionKorea        Region = "Korea"
	RegionNorthAmerica Region = "North America"
	RegionEMEA         Region = "EMEA"
	RegionChina        Region = "China"
	RegionJapan        Region = "Japan"
	RegionPacific      Region = "Pacific"
	RegionUnknown      Region = "Unknown"
)

// Opponent is one side of a raw match record as it arrives from the feed.
// Score is nil when the feed has no map count for the match.
type Opponent struct {
	Name     string
	Score    *int
	Logo     string
	LogoDark string
}

// Match is a raw match record. Winner is "1" or "2" for a decided match,
// "0" or empty for an unresolved one. Date is day-granular and may carry a
// time component that gets stripped before replay.
type Match struct {
	ID         string
	Opponent1  Opponent
	Opponent2  Opponent
	Winner     string
	Tournament string
	Date       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// RatingPoint is one history snapshot: the team's rating after a match, or
// the synthetic season-start seed entry.
type RatingPoint struct {
	Date   time.Time
	Rating float64
}

// TeamRating is the mutable per-team record held by the rating store for the
// duration of one replay pass. The rating doubles as the team's market price.
type TeamRating struct {
	Name          string
	Region        Region
	Rating        float64
	Wins          int
	Losses        int
	History       []RatingPoint
	Tournaments   []string
	LastResetDate time.Time
	IsPartner     bool
	Logo          string
	LogoDark      string
	RankDelta     int
}

// Games is the team's total decided matches so far.
func (t *TeamRating) Games() int {
	return t.Wins + t.Losses
}

// LastMatchDate is the date of the team's most recent real match, or the
// zero time if the team only has its synthetic seed entry.
func (t *TeamRating) LastMatchDate() time.Time {
	if len(t.History) < 2 {
		return time.Time{}
	}
	return t.History[len(t.History)-1].Date
}

// Upset is a decided match whose winner had a pre-match win probability
// below the upset threshold.
type Upset struct {
	Winner      string
	Loser       string
	Probability float64
	Date        time.Time
	Tournament  string
	RatingGain  float64
}

// Mover is a team's rating movement over the trailing movers window.
type Mover struct {
	Name   string
	Change float64
}

// Reign is the team that has held rank one for the longest accumulated time.
type Reign struct {
	Name string
	Days int
}

// Stats is the derived-statistics block attached to a computed ranking run.
type Stats struct {
	BiggestMover  *Mover
	BiggestLoser  *Mover
	BiggestUpsets []Upset
	LongestReign  *Reign
}

// Result is the full output of one replay pass.
type Result struct {
	Rankings []*TeamRating
	Stats    Stats
}

// PriceTier is the market grade a rating maps to.
type PriceTier struct {
	Grade string
	Label string
}
