package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/itsvladii/owcs-nexus-sub000/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

type MatchRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewMatchRepository(sqlDB *sql.DB, logger zerolog.Logger) *MatchRepository {
	return &MatchRepository{
		db:     sqlDB,
		logger: logger,
	}
}

// UpsertBatch writes a page of feed matches in one transaction. The natural
// key (opponents, tournament, date) dedupes re-fetched pages.
func (r *MatchRepository) UpsertBatch(ctx context.Context, matches []domain.Match) error {
	if len(matches) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	const query = `
		INSERT INTO matches (
			id,
			opponent1_name, opponent1_score, opponent1_logo, opponent1_logo_dark,
			opponent2_name, opponent2_score, opponent2_logo, opponent2_logo_dark,
			winner, tournament, match_date, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (opponent1_name, opponent2_name, tournament, match_date) DO UPDATE SET
			opponent1_score = excluded.opponent1_score,
			opponent1_logo = excluded.opponent1_logo,
			opponent1_logo_dark = excluded.opponent1_logo_dark,
			opponent2_score = excluded.opponent2_score,
			opponent2_logo = excluded.opponent2_logo,
			opponent2_logo_dark = excluded.opponent2_logo_dark,
			winner = excluded.winner,
			updated_at = excluded.updated_at`

	now := time.Now()
	for _, m := range matches {
		id := m.ID
		if id == "" {
			id, err = gonanoid.New()
			if err != nil {
				return fmt.Errorf("failed to generate nanoid: %w", err)
			}
		}

		_, err := tx.ExecContext(ctx, query,
			id,
			m.Opponent1.Name, nullableInt(m.Opponent1.Score), m.Opponent1.Logo, m.Opponent1.LogoDark,
			m.Opponent2.Name, nullableInt(m.Opponent2.Score), m.Opponent2.Logo, m.Opponent2.LogoDark,
			m.Winner, m.Tournament, m.Date, now, now,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert match: %w", err)
		}
	}

	return tx.Commit()
}

// ListAll loads every stored match for a full replay.
func (r *MatchRepository) ListAll(ctx context.Context) ([]domain.Match, error) {
	const query = `
		SELECT id,
			opponent1_name, opponent1_score, opponent1_logo, opponent1_logo_dark,
			opponent2_name, opponent2_score, opponent2_logo, opponent2_logo_dark,
			winner, tournament, match_date, created_at, updated_at
		FROM matches
		ORDER BY match_date, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	var matches []domain.Match
	for rows.Next() {
		var m domain.Match
		var score1, score2 sql.NullInt64
		err := rows.Scan(
			&m.ID,
			&m.Opponent1.Name, &score1, &m.Opponent1.Logo, &m.Opponent1.LogoDark,
			&m.Opponent2.Name, &score2, &m.Opponent2.Logo, &m.Opponent2.LogoDark,
			&m.Winner, &m.Tournament, &m.Date, &m.CreatedAt, &m.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		if score1.Valid {
			s := int(score1.Int64)
			m.Opponent1.Score = &s
		}
		if score2.Valid {
			s := int(score2.Int64)
			m.Opponent2.Score = &s
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate matches: %w", err)
	}

	r.logger.Debug().Int("count", len(matches)).Msg("loaded stored matches")
	return matches, nil
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}
