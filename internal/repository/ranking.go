package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/itsvladii/owcs-nexus-sub000/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

type RankingRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewRankingRepository(sqlDB *sql.DB, logger zerolog.Logger) *RankingRepository {
	return &RankingRepository{
		db:     sqlDB,
		logger: logger,
	}
}

// ReplaceAll swaps the stored leaderboard for a freshly computed one in a
// single transaction. The rating history rows back the price charts on the
// market page.
func (r *RankingRepository) ReplaceAll(ctx context.Context, rankings []*domain.TeamRating) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM rankings`); err != nil {
		return fmt.Errorf("failed to clear rankings: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM rating_history`); err != nil {
		return fmt.Errorf("failed to clear rating history: %w", err)
	}

	const insertRanking = `
		INSERT INTO rankings (
			id, rank, team_name, region, rating, wins, losses,
			rank_delta, is_partner, logo, logo_dark, tournaments, computed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	const insertPoint = `
		INSERT INTO rating_history (id, team_name, point_date, rating)
		VALUES (?, ?, ?, ?)`

	now := time.Now()
	for i, team := range rankings {
		id, err := gonanoid.New()
		if err != nil {
			return fmt.Errorf("failed to generate nanoid: %w", err)
		}

		tournaments, err := json.Marshal(team.Tournaments)
		if err != nil {
			return fmt.Errorf("failed to marshal tournaments: %w", err)
		}

		_, err = tx.ExecContext(ctx, insertRanking,
			id, i+1, team.Name, string(team.Region), team.Rating, team.Wins, team.Losses,
			team.RankDelta, team.IsPartner, team.Logo, team.LogoDark, string(tournaments), now,
		)
		if err != nil {
			return fmt.Errorf("failed to insert ranking: %w", err)
		}

		for _, p := range team.History {
			pointID, err := gonanoid.New()
			if err != nil {
				return fmt.Errorf("failed to generate nanoid: %w", err)
			}
			if _, err := tx.ExecContext(ctx, insertPoint, pointID, team.Name, p.Date, p.Rating); err != nil {
				return fmt.Errorf("failed to insert rating point: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit rankings: %w", err)
	}

	r.logger.Info().Int("teams", len(rankings)).Msg("rankings replaced")
	return nil
}

// List returns the stored leaderboard in rank order.
func (r *RankingRepository) List(ctx context.Context) ([]*domain.TeamRating, error) {
	const query = `
		SELECT team_name, region, rating, wins, losses,
			rank_delta, is_partner, logo, logo_dark, tournaments
		FROM rankings
		ORDER BY rank`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query rankings: %w", err)
	}
	defer rows.Close()

	var rankings []*domain.TeamRating
	for rows.Next() {
		var team domain.TeamRating
		var region, tournaments string
		err := rows.Scan(
			&team.Name, &region, &team.Rating, &team.Wins, &team.Losses,
			&team.RankDelta, &team.IsPartner, &team.Logo, &team.LogoDark, &tournaments,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ranking: %w", err)
		}
		team.Region = domain.Region(region)
		if err := json.Unmarshal([]byte(tournaments), &team.Tournaments); err != nil {
			return nil, fmt.Errorf("failed to unmarshal tournaments: %w", err)
		}
		rankings = append(rankings, &team)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rankings: %w", err)
	}
	return rankings, nil
}

// History returns a team's stored rating curve in date order.
func (r *RankingRepository) History(ctx context.Context, teamName string) ([]domain.RatingPoint, error) {
	const query = `
		SELECT point_date, rating
		FROM rating_history
		WHERE team_name = ?
		ORDER BY point_date`

	rows, err := r.db.QueryContext(ctx, query, teamName)
	if err != nil {
		return nil, fmt.Errorf("failed to query rating history: %w", err)
	}
	defer rows.Close()

	var points []domain.RatingPoint
	for rows.Next() {
		var p domain.RatingPoint
		if err := rows.Scan(&p.Date, &p.Rating); err != nil {
			return nil, fmt.Errorf("failed to scan rating point: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rating history: %w", err)
	}
	return points, nil
}
