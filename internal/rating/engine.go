package rating

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/itsvladii/owcs-nexus-sub000/internal/domain"

	"github.com/rs/zerolog"
)

// Engine replays a raw match list chronologically and produces the final
// rankings plus derived stats. A Compute call is a pure in-memory fold: the
// engine holds no state between calls, so one Engine can serve concurrent
// runs as long as its Config stays immutable.
type Engine struct {
	cfg     *Config
	norm    *Normalizer
	regions *RegionResolver
	kpolicy *KFactorPolicy
	logger  zerolog.Logger
}

func NewEngine(cfg *Config, logger zerolog.Logger) *Engine {
	return &Engine{
		cfg:     cfg,
		norm:    NewNormalizer(cfg),
		regions: NewRegionResolver(),
		kpolicy: NewKFactorPolicy(cfg),
		logger:  logger,
	}
}

// store is the per-run rating store. order records creation order so that
// rating ties sort deterministically.
type store struct {
	teams map[string]*domain.TeamRating
	order []string
}

func newStore() *store {
	return &store{teams: make(map[string]*domain.TeamRating)}
}

func (s *store) all() []*domain.TeamRating {
	out := make([]*domain.TeamRating, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.teams[name])
	}
	return out
}

type replayMatch struct {
	m   domain.Match
	day time.Time
}

// trackers collects the auxiliary state the derived-stats pass needs.
type trackers struct {
	upsets      []domain.Upset
	moverStarts map[string]float64
	latestDay   time.Time
}

// Compute replays matches in date order and returns the final rankings and
// stats. now anchors the trailing movers and rank-delta windows. A nil match
// list yields an empty, well-formed result rather than an error.
func (e *Engine) Compute(matches []domain.Match, now time.Time) domain.Result {
	if matches == nil {
		return domain.Result{Rankings: []*domain.TeamRating{}, Stats: domain.Stats{BiggestUpsets: []domain.Upset{}}}
	}
	st, tr := e.replay(matches, now)
	return e.deriveStats(st, tr, now)
}

// replay is the chronological fold itself, returning the final store and the
// auxiliary trackers the stats pass consumes.
func (e *Engine) replay(matches []domain.Match, now time.Time) (*store, *trackers) {
	replay := make([]replayMatch, 0, len(matches))
	for _, m := range matches {
		day, ok := parseDay(m.Date)
		if !ok {
			e.logger.Debug().Str("date", m.Date).Str("tournament", m.Tournament).Msg("skipping match with unparseable date")
			continue
		}
		replay = append(replay, replayMatch{m: m, day: day})
	}
	// Stable: same-day matches keep their input order.
	sort.SliceStable(replay, func(i, j int) bool { return replay[i].day.Before(replay[j].day) })

	st := newStore()
	tr := &trackers{moverStarts: make(map[string]float64)}
	moversFrom := now.Add(-e.cfg.MoversWindow)

	prevYear := 0
	for _, rm := range replay {
		m := rm.m
		if strings.TrimSpace(m.Opponent1.Name) == "" || strings.TrimSpace(m.Opponent2.Name) == "" {
			e.logger.Debug().Str("tournament", m.Tournament).Msg("skipping match with missing opponent")
			continue
		}
		if m.Winner != "1" && m.Winner != "2" {
			continue
		}

		nameA := e.norm.Normalize(m.Opponent1.Name)
		nameB := e.norm.Normalize(m.Opponent2.Name)

		teamA := e.fetchOrCreate(st, nameA, m.Tournament)
		teamB := e.fetchOrCreate(st, nameB, m.Tournament)

		if region, ok := e.regions.Infer(m.Tournament); ok {
			teamA.Region = region
			teamB.Region = region
		}

		if year := rm.day.Year(); prevYear != 0 && year > prevYear {
			e.applySeasonDecay(st)
		}
		prevYear = rm.day.Year()

		e.applyRosterResets(teamA, rm.day)
		e.applyRosterResets(teamB, rm.day)

		expectA := expectedScore(teamA.Rating, teamB.Rating)
		expectB := 1 - expectA

		var scoreA, scoreB float64
		if m.Winner == "1" {
			scoreA = 1
		} else {
			scoreB = 1
		}

		major := e.kpolicy.IsMajor(m.Tournament)
		mov := e.kpolicy.MovMultiplier(m.Opponent1.Score, m.Opponent2.Score)
		kA := e.kpolicy.EffectiveK(teamA.Games(), major, mov, scoreA == 0)
		kB := e.kpolicy.EffectiveK(teamB.Games(), major, mov, scoreB == 0)

		deltaA := kA * (scoreA - expectA)
		deltaB := kB * (scoreB - expectB)

		// Movers window: capture the pre-match rating the first time a team
		// shows up inside the window.
		if !rm.day.Before(moversFrom) {
			if _, ok := tr.moverStarts[nameA]; !ok {
				tr.moverStarts[nameA] = teamA.Rating
			}
			if _, ok := tr.moverStarts[nameB]; !ok {
				tr.moverStarts[nameB] = teamB.Rating
			}
		}

		teamA.Rating += deltaA
		teamB.Rating += deltaB
		teamA.History = append(teamA.History, domain.RatingPoint{Date: rm.day, Rating: teamA.Rating})
		teamB.History = append(teamB.History, domain.RatingPoint{Date: rm.day, Rating: teamB.Rating})

		winner, loser := teamA, teamB
		winnerExpect, winnerDelta := expectA, deltaA
		if m.Winner == "2" {
			winner, loser = teamB, teamA
			winnerExpect, winnerDelta = expectB, deltaB
		}
		winner.Wins++
		loser.Losses++

		addTournament(teamA, m.Tournament)
		addTournament(teamB, m.Tournament)
		applyLogos(teamA, m.Opponent1)
		applyLogos(teamB, m.Opponent2)

		if winnerExpect < e.cfg.UpsetThreshold {
			tr.upsets = append(tr.upsets, domain.Upset{
				Winner:      winner.Name,
				Loser:       loser.Name,
				Probability: winnerExpect,
				Date:        rm.day,
				Tournament:  m.Tournament,
				RatingGain:  winnerDelta,
			})
		}

		if rm.day.After(tr.latestDay) {
			tr.latestDay = rm.day
		}
	}

	return st, tr
}

// fetchOrCreate returns the team's rating record, creating it with a
// region-seeded rating and a synthetic season-start history entry when the
// team is seen for the first time.
func (e *Engine) fetchOrCreate(st *store, name, tournament string) *domain.TeamRating {
	if t, ok := st.teams[name]; ok {
		return t
	}

	region, known := e.cfg.TeamRegions[name]
	if !known {
		region, known = e.regions.Infer(tournament)
	}
	seed := e.cfg.SeedDefault
	if !known {
		region = domain.RegionUnknown
	} else if s, ok := e.cfg.RegionSeeds[region]; ok {
		seed = s
	}

	t := &domain.TeamRating{
		Name:      name,
		Region:    region,
		Rating:    seed,
		IsPartner: e.cfg.Partners[name],
		History:   []domain.RatingPoint{{Date: e.cfg.SeasonStart, Rating: seed}},
	}
	st.teams[name] = t
	st.order = append(st.order, name)
	return t
}

// applySeasonDecay pulls every rating toward the baseline at a year
// boundary, modelling off-season regression to the mean.
func (e *Engine) applySeasonDecay(st *store) {
	for _, name := range st.order {
		t := st.teams[name]
		t.Rating = e.cfg.DecayBaseline + (t.Rating-e.cfg.DecayBaseline)*e.cfg.DecayRetention
	}
}

// applyRosterResets snaps the team to any configured reset that is effective
// by day and newer than the last reset already applied. Resets are assumed
// to be listed in chronological order.
func (e *Engine) applyRosterResets(t *domain.TeamRating, day time.Time) {
	for _, r := range e.cfg.Resets {
		if r.Team != t.Name {
			continue
		}
		if r.Date.After(day) || !r.Date.After(t.LastResetDate) {
			continue
		}
		t.Rating = r.Rating
		t.LastResetDate = r.Date
		e.logger.Debug().Str("team", t.Name).Time("date", r.Date).Float64("rating", r.Rating).Msg("roster reset applied")
	}
}

func expectedScore(ratingA, ratingB float64) float64 {
	return 1 / (1 + math.Pow(10, (ratingB-ratingA)/400))
}

func addTournament(t *domain.TeamRating, tournament string) {
	if tournament == "" {
		return
	}
	for _, seen := range t.Tournaments {
		if seen == tournament {
			return
		}
	}
	t.Tournaments = append(t.Tournaments, tournament)
}

func applyLogos(t *domain.TeamRating, o domain.Opponent) {
	if o.Logo != "" {
		t.Logo = o.Logo
	}
	if o.LogoDark != "" {
		t.LogoDark = o.LogoDark
	}
}

// parseDay strips any time component and parses a day-granular date.
func parseDay(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, "T "); i > 0 {
		s = s[:i]
	}
	day, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	return day, true
}
