package service

import (
	"context"

	"github.com/itsvladii/owcs-nexus-sub000/internal/domain"
	"github.com/itsvladii/owcs-nexus-sub000/internal/rating"

	"github.com/rs/zerolog"
)

// Listing is one tradable team on the fantasy market: its current price
// (the rating), the movement since a week ago, and the risk tier.
type Listing struct {
	Team      string
	Region    domain.Region
	Price     float64
	RankDelta int
	Tier      domain.PriceTier
	IsPartner bool
}

// MarketService decorates the current leaderboard with price tiers for the
// fantasy market UI. It never mutates engine state; the external trade
// ledger reads prices from here for settlement.
type MarketService struct {
	rankings *RankingService
	mapper   *rating.MarketMapper
	logger   zerolog.Logger
}

func NewMarketService(rankings *RankingService, mapper *rating.MarketMapper, logger zerolog.Logger) *MarketService {
	return &MarketService{rankings: rankings, mapper: mapper, logger: logger}
}

// Listings returns the tradable board in rank order.
func (s *MarketService) Listings(ctx context.Context) ([]Listing, error) {
	result, err := s.rankings.Get(ctx)
	if err != nil {
		return nil, err
	}

	listings := make([]Listing, 0, len(result.Rankings))
	for _, team := range result.Rankings {
		listings = append(listings, Listing{
			Team:      team.Name,
			Region:    team.Region,
			Price:     team.Rating,
			RankDelta: team.RankDelta,
			Tier:      s.mapper.Tier(team.Rating),
			IsPartner: team.IsPartner,
		})
	}

	s.logger.Debug().Int("count", len(listings)).Msg("market listings built")
	return listings, nil
}
