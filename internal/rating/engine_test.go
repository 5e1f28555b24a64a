package rating

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/itsvladii/owcs-nexus-sub000/internal/domain"

	"github.com/rs/zerolog"
)

var testNow = time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

// testConfig pins a small table set so tests stay independent of production
// table edits.
func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.Aliases = map[string]string{"Old Alpha": "Alpha"}
	cfg.TeamRegions = map[string]domain.Region{
		"Alpha": domain.RegionKorea,
		"Beta":  domain.RegionNorthAmerica,
	}
	cfg.Resets = nil
	return cfg
}

func newTestEngine(cfg *Config) *Engine {
	return NewEngine(cfg, zerolog.Nop())
}

func mkMatch(a, b string, sa, sb int, winner, tournament, date string) domain.Match {
	return domain.Match{
		Opponent1:  domain.Opponent{Name: a, Score: intPtr(sa)},
		Opponent2:  domain.Opponent{Name: b, Score: intPtr(sb)},
		Winner:     winner,
		Tournament: tournament,
		Date:       date,
	}
}

func TestCalibrationMatchScenario(t *testing.T) {
	e := newTestEngine(testConfig())

	// Non-major, 3-0 stomp, both teams on their regional seeds with zero
	// prior games: K = 50 * 1.2 = 60 for both sides.
	st, _ := e.replay([]domain.Match{
		mkMatch("Alpha", "Beta", 3, 0, "1", "OWCS Stage 1", "2025-03-01"),
	}, testNow)

	alpha := st.teams["Alpha"]
	beta := st.teams["Beta"]
	if alpha == nil || beta == nil {
		t.Fatalf("expected both teams in store, got %v", st.order)
	}

	if math.Abs(alpha.Rating-1330.5613) > 0.01 {
		t.Errorf("alpha rating = %.4f, want ~1330.56", alpha.Rating)
	}
	if math.Abs(beta.Rating-1237.4387) > 0.01 {
		t.Errorf("beta rating = %.4f, want ~1237.44", beta.Rating)
	}
	// Symmetric K means the exchange is zero-sum.
	if d := (alpha.Rating - 1304) + (beta.Rating - 1264); math.Abs(d) > 1e-9 {
		t.Errorf("deltas not zero-sum: %v", d)
	}

	if alpha.Region != domain.RegionKorea || beta.Region != domain.RegionNorthAmerica {
		t.Errorf("regions = %v/%v, want Korea/North America", alpha.Region, beta.Region)
	}
	if alpha.Wins != 1 || alpha.Losses != 0 || beta.Wins != 0 || beta.Losses != 1 {
		t.Errorf("records = %d-%d / %d-%d, want 1-0 / 0-1", alpha.Wins, alpha.Losses, beta.Wins, beta.Losses)
	}
	if len(alpha.History) != 2 || alpha.History[0].Date != e.cfg.SeasonStart || alpha.History[0].Rating != 1304 {
		t.Errorf("alpha history = %+v, want seed entry plus one match", alpha.History)
	}
}

func TestAliasNormalization(t *testing.T) {
	e := newTestEngine(testConfig())

	st, _ := e.replay([]domain.Match{
		mkMatch("Old Alpha", "Beta", 3, 0, "1", "OWCS Stage 1", "2025-03-01"),
	}, testNow)

	if _, ok := st.teams["Alpha"]; !ok {
		t.Fatalf("expected canonical name Alpha in store, got %v", st.order)
	}
	if _, ok := st.teams["Old Alpha"]; ok {
		t.Error("raw alias leaked into the store")
	}
}

func TestSkipsMalformedMatches(t *testing.T) {
	e := newTestEngine(testConfig())

	st, _ := e.replay([]domain.Match{
		mkMatch("", "Beta", 3, 0, "1", "OWCS Stage 1", "2025-03-01"),
		mkMatch("Alpha", "", 3, 0, "1", "OWCS Stage 1", "2025-03-02"),
		mkMatch("Alpha", "Beta", 1, 1, "0", "OWCS Stage 1", "2025-03-03"),
		mkMatch("Alpha", "Beta", 0, 0, "", "OWCS Stage 1", "2025-03-04"),
		mkMatch("Alpha", "Beta", 3, 0, "1", "OWCS Stage 1", "not-a-date"),
	}, testNow)

	if len(st.order) != 0 {
		t.Errorf("expected empty store, got %v", st.order)
	}
}

func circuitMatches() []domain.Match {
	return []domain.Match{
		mkMatch("T1", "Gen.G", 3, 1, "1", "OWCS Korea Stage 1", "2024-02-10"),
		mkMatch("Crazy Raccoon", "ZETA DIVISION", 3, 0, "1", "OWCS Japan Stage 1", "2024-02-15"),
		mkMatch("NTMR", "Toronto Defiant", 3, 2, "1", "OWCS North America Stage 1", "2024-03-01"),
		mkMatch("Team Falcons", "Twisted Minds", 3, 0, "1", "OWCS EMEA Stage 1", "2024-03-05"),
		mkMatch("T1", "Crazy Raccoon", 3, 1, "1", "OWCS Midseason Championship", "2024-06-20"),
		mkMatch("Team Falcons", "T1", 2, 3, "2", "OWCS World Finals", "2024-11-10"),
		mkMatch("Gen.G", "NTMR", 3, 0, "1", "Esports World Cup 2025", "2025-07-05"),
		mkMatch("O2 Blast", "Team Falcons", 3, 1, "1", "OWCS World Finals 2025", "2025-11-15"),
	}
}

func TestDeterminism(t *testing.T) {
	e := newTestEngine(DefaultConfig())

	first := e.Compute(circuitMatches(), testNow)
	second := e.Compute(circuitMatches(), testNow)

	if !reflect.DeepEqual(first, second) {
		t.Error("repeated computation over the same input diverged")
	}
}

func TestOrderIndependence(t *testing.T) {
	e := newTestEngine(DefaultConfig())

	ms := circuitMatches()
	reversed := make([]domain.Match, len(ms))
	for i, m := range ms {
		reversed[len(ms)-1-i] = m
	}

	a, _ := e.replay(ms, testNow)
	b, _ := e.replay(reversed, testNow)

	for name, ta := range a.teams {
		tb, ok := b.teams[name]
		if !ok {
			t.Fatalf("team %s missing from reversed replay", name)
		}
		if math.Abs(ta.Rating-tb.Rating) > 1e-9 {
			t.Errorf("%s: rating %v vs %v", name, ta.Rating, tb.Rating)
		}
	}
}

func TestConservation(t *testing.T) {
	cfg := DefaultConfig()
	e := newTestEngine(cfg)
	norm := NewNormalizer(cfg)

	ms := circuitMatches()
	st, _ := e.replay(ms, testNow)

	decided := map[string]int{}
	for _, m := range ms {
		if m.Winner != "1" && m.Winner != "2" {
			continue
		}
		decided[norm.Normalize(m.Opponent1.Name)]++
		decided[norm.Normalize(m.Opponent2.Name)]++
	}

	for name, team := range st.teams {
		if got := team.Wins + team.Losses; got != decided[name] {
			t.Errorf("%s: wins+losses = %d, want %d", name, got, decided[name])
		}
	}
}

func TestHistoryShape(t *testing.T) {
	cfg := DefaultConfig()
	e := newTestEngine(cfg)

	st, _ := e.replay(circuitMatches(), testNow)

	for name, team := range st.teams {
		if got, want := len(team.History), 1+team.Games(); got != want {
			t.Errorf("%s: history length %d, want %d", name, got, want)
		}
		if team.History[0].Date != cfg.SeasonStart {
			t.Errorf("%s: first history entry at %v, want season start", name, team.History[0].Date)
		}
		for i := 1; i < len(team.History); i++ {
			if team.History[i].Date.Before(team.History[i-1].Date) {
				t.Errorf("%s: history out of order at %d", name, i)
			}
		}
	}
}

func TestSeasonDecayAtYearBoundary(t *testing.T) {
	e := newTestEngine(testConfig())

	// Ceta and Delta only play in 2024, so after the boundary their final
	// ratings are exactly the decayed values.
	st, _ := e.replay([]domain.Match{
		mkMatch("Ceta", "Delta", 2, 0, "1", "Unbranded Invitational", "2024-03-10"),
		mkMatch("Alpha", "Beta", 3, 0, "1", "Unbranded Invitational", "2025-01-15"),
	}, testNow)

	if got := st.teams["Ceta"].Rating; math.Abs(got-1268.75) > 1e-9 {
		t.Errorf("Ceta rating = %v, want 1268.75 (1250 + 25*0.75)", got)
	}
	if got := st.teams["Delta"].Rating; math.Abs(got-1231.25) > 1e-9 {
		t.Errorf("Delta rating = %v, want 1231.25", got)
	}

	// The boundary match itself is scored on post-decay ratings.
	alphaDecayed, betaDecayed := 1290.5, 1260.5
	exp := expectedScore(alphaDecayed, betaDecayed)
	wantAlpha := alphaDecayed + 60*(1-exp)
	if got := st.teams["Alpha"].Rating; math.Abs(got-wantAlpha) > 1e-9 {
		t.Errorf("Alpha rating = %v, want %v (decay applied before scoring)", got, wantAlpha)
	}
}

func TestNoDecayWithinSameYear(t *testing.T) {
	e := newTestEngine(testConfig())

	st, _ := e.replay([]domain.Match{
		mkMatch("Ceta", "Delta", 2, 0, "1", "Unbranded Invitational", "2024-03-10"),
		mkMatch("Alpha", "Beta", 3, 0, "1", "Unbranded Invitational", "2024-11-15"),
	}, testNow)

	if got := st.teams["Ceta"].Rating; math.Abs(got-1275) > 1e-9 {
		t.Errorf("Ceta rating = %v, want 1275 untouched", got)
	}
}

func TestRosterReset(t *testing.T) {
	cfg := testConfig()
	reset := RosterReset{Team: "Gamma", Date: time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC), Rating: 1111}
	cfg.Resets = []RosterReset{reset}
	e := newTestEngine(cfg)

	st, _ := e.replay([]domain.Match{
		mkMatch("Gamma", "Delta", 2, 0, "1", "Unbranded Invitational", "2024-05-01"),
		mkMatch("Gamma", "Delta", 2, 0, "1", "Unbranded Invitational", "2024-07-01"),
		mkMatch("Gamma", "Delta", 2, 0, "1", "Unbranded Invitational", "2024-08-01"),
	}, testNow)

	gamma := st.teams["Gamma"]
	if gamma.LastResetDate != reset.Date {
		t.Errorf("last reset date = %v, want %v", gamma.LastResetDate, reset.Date)
	}

	// Replay the arithmetic by hand: snap before match two, then the reset
	// must not re-apply at match three.
	g, d := 1275.0, 1225.0
	g = reset.Rating
	e2 := expectedScore(g, d)
	g += 50 * (1 - e2)
	d += 50 * (0 - (1 - e2))
	e3 := expectedScore(g, d)
	g += 50 * (1 - e3)

	if math.Abs(gamma.Rating-g) > 1e-9 {
		t.Errorf("Gamma rating = %v, want %v", gamma.Rating, g)
	}
}

func TestUnresolvableRegionGetsDefaultSeed(t *testing.T) {
	e := newTestEngine(testConfig())

	// Japan and Pacific markers together are unresolvable, so both teams
	// seed from the global default rather than a regional table entry.
	st, _ := e.replay([]domain.Match{
		mkMatch("Mystery Org", "Another Org", 2, 0, "1", "OWCS Japan Pacific Crossover", "2024-03-01"),
	}, testNow)

	mystery := st.teams["Mystery Org"]
	if mystery.Region != domain.RegionUnknown {
		t.Errorf("region = %v, want Unknown", mystery.Region)
	}
	if mystery.History[0].Rating != 1250 {
		t.Errorf("seed = %v, want global default 1250", mystery.History[0].Rating)
	}
}

func TestRegionRetainedOnNullInference(t *testing.T) {
	e := newTestEngine(testConfig())

	firstTwo := []domain.Match{
		mkMatch("Wanderers", "Sparring Partner", 2, 0, "1", "OWCS Korea Stage 1", "2024-02-01"),
		mkMatch("Wanderers", "Sparring Partner", 2, 0, "1", "OWCS Japan Pacific Crossover", "2024-03-01"),
	}
	st, _ := e.replay(firstTwo, testNow)
	if got := st.teams["Wanderers"].Region; got != domain.RegionKorea {
		t.Errorf("region after unresolvable event = %v, want Korea retained", got)
	}

	all := append(firstTwo, mkMatch("Wanderers", "Sparring Partner", 2, 0, "1", "OWCS EMEA Stage 2", "2024-04-01"))
	st, _ = e.replay(all, testNow)
	if got := st.teams["Wanderers"].Region; got != domain.RegionEMEA {
		t.Errorf("region after EMEA event = %v, want EMEA", got)
	}
}

func TestNilAndEmptyInput(t *testing.T) {
	e := newTestEngine(testConfig())

	for _, ms := range [][]domain.Match{nil, {}} {
		res := e.Compute(ms, testNow)
		if res.Rankings == nil || len(res.Rankings) != 0 {
			t.Errorf("rankings = %v, want empty non-nil", res.Rankings)
		}
		if res.Stats.BiggestUpsets == nil || len(res.Stats.BiggestUpsets) != 0 {
			t.Errorf("upsets = %v, want empty non-nil", res.Stats.BiggestUpsets)
		}
		if res.Stats.BiggestMover != nil || res.Stats.BiggestLoser != nil || res.Stats.LongestReign != nil {
			t.Errorf("stats = %+v, want nil mover/loser/reign", res.Stats)
		}
	}
}
