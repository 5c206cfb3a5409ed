// Package database provides database operations for the Engage matching engine.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"engage-matching-engine/internal/models"
)

// MatchRepository handles match database operations.
type MatchRepository struct {
	db *DB
}

// NewMatchRepository creates a new match repository.
func NewMatchRepository(db *DB) *MatchRepository {
	return &MatchRepository{db: db}
}

// BulkInsert upserts the computed matches for one run. Returns inserted and
// failed counts.
func (r *MatchRepository) BulkInsert(ctx context.Context, matches []*models.MatchCreate) (int, int, error) {
	inserted := 0
	failed := 0

	err := r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		now := time.Now().UTC()

		for _, match := range matches {
			_, err := tx.Exec(ctx, `
				INSERT INTO matches (
					profile_id, need_id, total_score, gift_overlap_count, matching_tags,
					availability_score, status, run_id, created_at, updated_at
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
				ON CONFLICT (profile_id, need_id) DO UPDATE SET
					total_score = EXCLUDED.total_score,
					gift_overlap_count = EXCLUDED.gift_overlap_count,
					matching_tags = EXCLUDED.matching_tags,
					availability_score = EXCLUDED.availability_score,
					run_id = EXCLUDED.run_id,
					updated_at = EXCLUDED.updated_at`,
				match.ProfileID,
				match.NeedID,
				match.TotalScore,
				match.GiftOverlapCount,
				match.MatchingTags,
				match.AvailabilityScore,
				string(match.Status),
				match.RunID,
				now,
			)

			if err != nil {
				failed++
			} else {
				inserted++
			}
		}
		return nil
	})

	return inserted, failed, err
}

// GetByNeed retrieves persisted matches for a need with member details,
// ranked by total score.
func (r *MatchRepository) GetByNeed(ctx context.Context, needID int64, limit int) ([]*models.MatchWithDetails, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT
			m.id, m.profile_id, m.need_id, m.total_score, m.gift_overlap_count, m.matching_tags,
			m.availability_score, m.status, m.run_id, m.created_at, m.updated_at, m.notified_at,
			p.member_id, p.full_name, p.email,
			n.title, n.urgency
		FROM matches m
		JOIN profiles p ON m.profile_id = p.id
		JOIN needs n ON m.need_id = n.id
		WHERE m.need_id = $1
		ORDER BY m.total_score DESC, m.profile_id
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, needID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	return collectMatchDetails(rows)
}

// GetPendingNotifications retrieves suggested matches for a run that have not
// been notified yet.
func (r *MatchRepository) GetPendingNotifications(ctx context.Context, runID string) ([]*models.MatchWithDetails, error) {
	query := `
		SELECT
			m.id, m.profile_id, m.need_id, m.total_score, m.gift_overlap_count, m.matching_tags,
			m.availability_score, m.status, m.run_id, m.created_at, m.updated_at, m.notified_at,
			p.member_id, p.full_name, p.email,
			n.title, n.urgency
		FROM matches m
		JOIN profiles p ON m.profile_id = p.id
		JOIN needs n ON m.need_id = n.id
		WHERE m.run_id = $1 AND m.status = $2 AND m.notified_at IS NULL
		ORDER BY m.total_score DESC, m.profile_id`

	rows, err := r.db.QueryContext(ctx, query, runID, string(models.MatchStatusSuggested))
	if err != nil {
		return nil, fmt.Errorf("failed to query pending notifications: %w", err)
	}
	defer rows.Close()

	return collectMatchDetails(rows)
}

// MarkNotified stamps matches as notified.
func (r *MatchRepository) MarkNotified(ctx context.Context, matchIDs []int64) error {
	if len(matchIDs) == 0 {
		return nil
	}

	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		UPDATE matches
		SET status = $1, notified_at = $2, updated_at = $2
		WHERE id = ANY($3)`,
		string(models.MatchStatusNotified), now, matchIDs)
	if err != nil {
		return fmt.Errorf("failed to mark matches notified: %w", err)
	}
	return nil
}

// DeleteByNeed removes all persisted matches for a need before a recompute.
func (r *MatchRepository) DeleteByNeed(ctx context.Context, needID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM matches WHERE need_id = $1`, needID)
	if err != nil {
		return fmt.Errorf("failed to delete matches: %w", err)
	}
	return nil
}

func collectMatchDetails(rows pgx.Rows) ([]*models.MatchWithDetails, error) {
	var matches []*models.MatchWithDetails
	for rows.Next() {
		var m models.MatchWithDetails
		var status string

		err := rows.Scan(
			&m.ID,
			&m.ProfileID,
			&m.NeedID,
			&m.TotalScore,
			&m.GiftOverlapCount,
			&m.MatchingTags,
			&m.AvailabilityScore,
			&status,
			&m.RunID,
			&m.CreatedAt,
			&m.UpdatedAt,
			&m.NotifiedAt,
			&m.MemberID,
			&m.MemberName,
			&m.MemberEmail,
			&m.NeedTitle,
			&m.NeedUrgency,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}

		m.Status = models.MatchStatus(status)
		matches = append(matches, &m)
	}

	return matches, nil
}
