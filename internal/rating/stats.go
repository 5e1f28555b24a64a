package rating

import (
	"sort"
	"time"

	"github.com/itsvladii/owcs-nexus-sub000/internal/domain"
)

// deriveStats post-processes the final rating store and the replay trackers
// into the public result: rank deltas, movers, upsets, longest reign, and
// the filtered leaderboard.
func (e *Engine) deriveStats(st *store, tr *trackers, now time.Time) domain.Result {
	e.computeRankDeltas(st, now)

	mover, loser := e.movers(st, tr.moverStarts)

	result := domain.Result{
		Rankings: e.filterRankings(st, tr.latestDay),
		Stats: domain.Stats{
			BiggestMover:  mover,
			BiggestLoser:  loser,
			BiggestUpsets: e.biggestUpsets(tr.upsets),
			LongestReign:  e.longestReign(st),
		},
	}
	return result
}

// ratingAt is the team's rating as of day under last-known-value semantics:
// the most recent history entry at or before day, or the seed rating when
// the team has no history that old.
func ratingAt(t *domain.TeamRating, day time.Time) float64 {
	for i := len(t.History) - 1; i >= 0; i-- {
		if !t.History[i].Date.After(day) {
			return t.History[i].Rating
		}
	}
	return t.History[0].Rating
}

// byRatingDesc sorts a copy of teams by rating descending. The sort is
// stable over store insertion order, which is the tie-break rule.
func byRatingDesc(teams []*domain.TeamRating, rating func(*domain.TeamRating) float64) []*domain.TeamRating {
	sorted := make([]*domain.TeamRating, len(teams))
	copy(sorted, teams)
	sort.SliceStable(sorted, func(i, j int) bool { return rating(sorted[i]) > rating(sorted[j]) })
	return sorted
}

// computeRankDeltas recomputes every team's RankDelta: its rank as of the
// rank-delta window ago minus its rank now. Positive means the team climbed.
func (e *Engine) computeRankDeltas(st *store, now time.Time) {
	teams := st.all()
	if len(teams) == 0 {
		return
	}
	then := now.Add(-e.cfg.RankDeltaWindow)

	nowRank := make(map[string]int, len(teams))
	for i, t := range byRatingDesc(teams, func(t *domain.TeamRating) float64 { return t.Rating }) {
		nowRank[t.Name] = i + 1
	}
	thenRank := make(map[string]int, len(teams))
	for i, t := range byRatingDesc(teams, func(t *domain.TeamRating) float64 { return ratingAt(t, then) }) {
		thenRank[t.Name] = i + 1
	}

	for _, t := range teams {
		t.RankDelta = thenRank[t.Name] - nowRank[t.Name]
	}
}

// movers resolves the biggest positive and negative rating changes over the
// trailing movers window. Teams with no match inside the window have no
// entry in starts and are ignored.
func (e *Engine) movers(st *store, starts map[string]float64) (*domain.Mover, *domain.Mover) {
	var mover, loser *domain.Mover
	for _, name := range st.order {
		start, ok := starts[name]
		if !ok {
			continue
		}
		change := st.teams[name].Rating - start
		if change > 0 && (mover == nil || change > mover.Change) {
			mover = &domain.Mover{Name: name, Change: change}
		}
		if change < 0 && (loser == nil || change < loser.Change) {
			loser = &domain.Mover{Name: name, Change: change}
		}
	}
	return mover, loser
}

// biggestUpsets keeps marquee-tier upsets only (qualifier-tier events are
// noise) and returns the lowest-probability ones.
func (e *Engine) biggestUpsets(candidates []domain.Upset) []domain.Upset {
	kept := make([]domain.Upset, 0, len(candidates))
	for _, u := range candidates {
		if e.kpolicy.IsQualifier(u.Tournament) {
			continue
		}
		if !e.kpolicy.IsMajor(u.Tournament) {
			continue
		}
		kept = append(kept, u)
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Probability < kept[j].Probability })
	if len(kept) > e.cfg.UpsetCount {
		kept = kept[:e.cfg.UpsetCount]
	}
	return kept
}

// longestReign partitions the full replayed date range into inter-event
// intervals, attributes each interval to whichever team led at its start,
// and returns the team with the most accumulated days at rank one.
func (e *Engine) longestReign(st *store) *domain.Reign {
	teams := st.all()
	if len(teams) == 0 {
		return nil
	}

	seen := make(map[time.Time]bool)
	var days []time.Time
	for _, t := range teams {
		for _, p := range t.History {
			if !seen[p.Date] {
				seen[p.Date] = true
				days = append(days, p.Date)
			}
		}
	}
	if len(days) < 2 {
		return nil
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	held := make(map[string]float64, len(teams))
	for i := 0; i < len(days)-1; i++ {
		leader := teams[0]
		best := ratingAt(teams[0], days[i])
		for _, t := range teams[1:] {
			if r := ratingAt(t, days[i]); r > best {
				best = r
				leader = t
			}
		}
		held[leader.Name] += days[i+1].Sub(days[i]).Hours() / 24
	}

	var bestName string
	var bestDays float64
	found := false
	for _, t := range teams {
		d, ok := held[t.Name]
		if !ok {
			continue
		}
		if !found || d > bestDays {
			bestName, bestDays = t.Name, d
			found = true
		}
	}
	if !found {
		return nil
	}
	return &domain.Reign{Name: bestName, Days: int(bestDays)}
}

// filterRankings applies the public-leaderboard eligibility rules and sorts
// the survivors by rating descending. Inactivity is measured back from the
// newest match in the dataset, not wall clock, so historical datasets stay
// stable.
func (e *Engine) filterRankings(st *store, latestDay time.Time) []*domain.TeamRating {
	cutoff := latestDay.Add(-e.cfg.InactivityWindow)

	eligible := make([]*domain.TeamRating, 0, len(st.order))
	for _, t := range st.all() {
		if t.Games() < e.cfg.MinGames {
			continue
		}
		if t.Rating < e.cfg.MinRating {
			continue
		}
		if t.Wins < 1 {
			continue
		}
		if t.LastMatchDate().Before(cutoff) {
			continue
		}
		eligible = append(eligible, t)
	}
	return byRatingDesc(eligible, func(t *domain.TeamRating) float64 { return t.Rating })
}
