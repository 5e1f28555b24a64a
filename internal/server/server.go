package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/itsvladii/owcs-nexus-sub000/internal/domain"
	"github.com/itsvladii/owcs-nexus-sub000/internal/service"

	"github.com/rs/zerolog"
)

// NexusServer serves the leaderboard, derived stats, and market board as
// JSON for the site frontend.
type NexusServer struct {
	rankingSvc *service.RankingService
	marketSvc  *service.MarketService
	logger     zerolog.Logger
}

func NewNexusServer(rankingSvc *service.RankingService, marketSvc *service.MarketService, logger zerolog.Logger) *NexusServer {
	return &NexusServer{rankingSvc: rankingSvc, marketSvc: marketSvc, logger: logger}
}

// Register wires the API routes onto the mux.
func (s *NexusServer) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/rankings", s.handleRankings)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("GET /api/market", s.handleMarket)
	mux.HandleFunc("POST /api/refresh", s.handleRefresh)
}

type rankingEntry struct {
	Rank        int      `json:"rank"`
	Team        string   `json:"team"`
	Region      string   `json:"region"`
	Rating      float64  `json:"rating"`
	Wins        int      `json:"wins"`
	Losses      int      `json:"losses"`
	RankDelta   int      `json:"rank_delta"`
	IsPartner   bool     `json:"is_partner"`
	Logo        string   `json:"logo,omitempty"`
	LogoDark    string   `json:"logo_dark,omitempty"`
	Tournaments []string `json:"tournaments,omitempty"`
}

type statsResponse struct {
	BiggestMover  *domain.Mover `json:"biggest_mover"`
	BiggestLoser  *domain.Mover `json:"biggest_loser"`
	BiggestUpsets []upsetEntry  `json:"biggest_upsets"`
	LongestReign  *domain.Reign `json:"longest_reign"`
}

type upsetEntry struct {
	Winner      string  `json:"winner"`
	Loser       string  `json:"loser"`
	Probability float64 `json:"probability"`
	Date        string  `json:"date"`
	Tournament  string  `json:"tournament"`
	RatingGain  float64 `json:"rating_gain"`
}

type marketEntry struct {
	Team      string  `json:"team"`
	Region    string  `json:"region"`
	Price     float64 `json:"price"`
	RankDelta int     `json:"rank_delta"`
	Grade     string  `json:"grade"`
	Label     string  `json:"label"`
	IsPartner bool    `json:"is_partner"`
}

func (s *NexusServer) handleRankings(w http.ResponseWriter, r *http.Request) {
	result, err := s.rankingSvc.Get(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	entries := make([]rankingEntry, 0, len(result.Rankings))
	for i, team := range result.Rankings {
		entries = append(entries, rankingEntry{
			Rank:        i + 1,
			Team:        team.Name,
			Region:      string(team.Region),
			Rating:      team.Rating,
			Wins:        team.Wins,
			Losses:      team.Losses,
			RankDelta:   team.RankDelta,
			IsPartner:   team.IsPartner,
			Logo:        team.Logo,
			LogoDark:    team.LogoDark,
			Tournaments: team.Tournaments,
		})
	}
	s.writeJSON(w, map[string]any{"rankings": entries})
}

func (s *NexusServer) handleStats(w http.ResponseWriter, r *http.Request) {
	result, err := s.rankingSvc.Get(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	upsets := make([]upsetEntry, 0, len(result.Stats.BiggestUpsets))
	for _, u := range result.Stats.BiggestUpsets {
		upsets = append(upsets, upsetEntry{
			Winner:      u.Winner,
			Loser:       u.Loser,
			Probability: u.Probability,
			Date:        u.Date.Format(time.DateOnly),
			Tournament:  u.Tournament,
			RatingGain:  u.RatingGain,
		})
	}
	s.writeJSON(w, statsResponse{
		BiggestMover:  result.Stats.BiggestMover,
		BiggestLoser:  result.Stats.BiggestLoser,
		BiggestUpsets: upsets,
		LongestReign:  result.Stats.LongestReign,
	})
}

func (s *NexusServer) handleMarket(w http.ResponseWriter, r *http.Request) {
	listings, err := s.marketSvc.Listings(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	entries := make([]marketEntry, 0, len(listings))
	for _, l := range listings {
		entries = append(entries, marketEntry{
			Team:      l.Team,
			Region:    string(l.Region),
			Price:     l.Price,
			RankDelta: l.RankDelta,
			Grade:     l.Tier.Grade,
			Label:     l.Tier.Label,
			IsPartner: l.IsPartner,
		})
	}
	s.writeJSON(w, map[string]any{"listings": entries})
}

func (s *NexusServer) handleRefresh(w http.ResponseWriter, r *http.Request) {
	result, err := s.rankingSvc.Refresh(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, map[string]any{"ranked": len(result.Rankings)})
}

func (s *NexusServer) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error().Err(err).Msg("failed to encode response")
	}
}

func (s *NexusServer) writeError(w http.ResponseWriter, err error) {
	s.logger.Error().Err(err).Msg("request failed")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
