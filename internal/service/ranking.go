package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/itsvladii/owcs-nexus-sub000/internal/api"
	"github.com/itsvladii/owcs-nexus-sub000/internal/constants"
	"github.com/itsvladii/owcs-nexus-sub000/internal/domain"
	"github.com/itsvladii/owcs-nexus-sub000/internal/rating"
	"github.com/itsvladii/owcs-nexus-sub000/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// RankingService owns the compute pipeline: pull the raw match list, replay
// it through the rating engine, persist the leaderboard, and serve the
// cached result in between.
type RankingService struct {
	feed     *api.FeedClient
	matches  *repository.MatchRepository
	rankings *repository.RankingRepository
	engine   *rating.Engine
	logger   zerolog.Logger

	mu         sync.RWMutex
	cached     *domain.Result
	computedAt time.Time
}

func NewRankingService(
	feed *api.FeedClient,
	matches *repository.MatchRepository,
	rankings *repository.RankingRepository,
	engine *rating.Engine,
	logger zerolog.Logger,
) *RankingService {
	return &RankingService{
		feed:     feed,
		matches:  matches,
		rankings: rankings,
		engine:   engine,
		logger:   logger,
	}
}

// Refresh pulls the feed, stores the raw matches, and recomputes. The
// leaderboard write-back happens in the background; the computed result is
// served immediately.
func (s *RankingService) Refresh(ctx context.Context) (*domain.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	if err := s.syncFeed(ctx); err != nil {
		return nil, fmt.Errorf("failed to sync feed: %w", err)
	}
	return s.recompute(ctx)
}

// Get serves the cached result, recomputing from stored matches when the
// cache is cold or stale.
func (s *RankingService) Get(ctx context.Context) (*domain.Result, error) {
	s.mu.RLock()
	cached, computedAt := s.cached, s.computedAt
	s.mu.RUnlock()

	if cached != nil && time.Since(computedAt) < constants.RankingsCacheTTL {
		s.logger.Debug().Time("computed_at", computedAt).Msg("returning cached rankings")
		return cached, nil
	}

	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()
	return s.recompute(ctx)
}

func (s *RankingService) syncFeed(ctx context.Context) error {
	for page := 1; page <= constants.FeedMaxPages; page++ {
		matches, hasMore, err := s.feed.GetMatchPage(ctx, page)
		if err != nil {
			return fmt.Errorf("failed to fetch feed page %d: %w", page, err)
		}
		if err := s.matches.UpsertBatch(ctx, matches); err != nil {
			return fmt.Errorf("failed to store feed page %d: %w", page, err)
		}
		s.logger.Debug().Int("page", page).Int("count", len(matches)).Msg("feed page stored")
		if !hasMore {
			return nil
		}
	}
	s.logger.Warn().Int("pages", constants.FeedMaxPages).Msg("feed page cap reached, truncating sync")
	return nil
}

func (s *RankingService) recompute(ctx context.Context) (*domain.Result, error) {
	start := time.Now()

	matches, err := s.matches.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load matches: %w", err)
	}

	result := s.engine.Compute(matches, time.Now())

	s.mu.Lock()
	s.cached = &result
	s.computedAt = time.Now()
	s.mu.Unlock()

	g := new(errgroup.Group)
	g.Go(func() error {
		persistCtx, cancel := context.WithTimeout(context.Background(), constants.DatabaseTimeout)
		defer cancel()
		if err := s.rankings.ReplaceAll(persistCtx, result.Rankings); err != nil {
			s.logger.Warn().Err(err).Msg("failed to persist rankings")
			return err
		}
		return nil
	})
	go func() {
		if err := g.Wait(); err != nil {
			s.logger.Error().Err(err).Msg("background persistence failed")
		}
	}()

	s.logger.Info().
		Int("matches", len(matches)).
		Int("ranked", len(result.Rankings)).
		Dur("took", time.Since(start)).
		Msg("rankings recomputed")
	return &result, nil
}
