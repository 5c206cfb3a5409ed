// Package database provides database operations for the Engage matching engine.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"engage-matching-engine/internal/models"
)

// NeedRepository handles need database operations.
type NeedRepository struct {
	db *DB
}

// NewNeedRepository creates a new need repository.
func NewNeedRepository(db *DB) *NeedRepository {
	return &NeedRepository{db: db}
}

// Create inserts a new need, updating on need_id conflict.
func (r *NeedRepository) Create(ctx context.Context, need *models.NeedCreate) (int64, error) {
	if err := models.ValidateNeedCreate(need); err != nil {
		return 0, err
	}

	query := `
		INSERT INTO needs (need_id, title, description, required_tags, urgency, time_preference,
			scheduled_at, is_recurring, recurring_start_time, status, organization_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)
		ON CONFLICT (need_id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			required_tags = EXCLUDED.required_tags,
			urgency = EXCLUDED.urgency,
			time_preference = EXCLUDED.time_preference,
			scheduled_at = EXCLUDED.scheduled_at,
			is_recurring = EXCLUDED.is_recurring,
			recurring_start_time = EXCLUDED.recurring_start_time,
			updated_at = EXCLUDED.updated_at
		RETURNING id`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		need.NeedID,
		need.Title,
		need.Description,
		need.RequiredTags,
		string(need.Urgency),
		string(need.TimePreference),
		need.ScheduledAt,
		need.IsRecurring,
		need.RecurringStartTime,
		string(models.NeedStatusPending),
		need.OrganizationID,
		time.Now().UTC(),
	).Scan(&id)

	if err != nil {
		return 0, fmt.Errorf("failed to create need: %w", err)
	}

	return id, nil
}

const needColumns = `id, need_id, title, description, required_tags, urgency, time_preference,
	scheduled_at, is_recurring, recurring_start_time, status, organization_id, created_at, updated_at`

// GetByID retrieves a need by its database ID.
func (r *NeedRepository) GetByID(ctx context.Context, id int64) (*models.Need, error) {
	query := `SELECT ` + needColumns + ` FROM needs WHERE id = $1`

	need, err := scanNeed(r.db.QueryRowContext(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get need: %w", err)
	}

	return need, nil
}

// GetByNeedID retrieves a need by its external need ID.
func (r *NeedRepository) GetByNeedID(ctx context.Context, needID string) (*models.Need, error) {
	query := `SELECT ` + needColumns + ` FROM needs WHERE need_id = $1`

	need, err := scanNeed(r.db.QueryRowContext(ctx, query, needID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get need: %w", err)
	}

	return need, nil
}

// GetApprovedOpen retrieves approved needs that are not yet filled or closed.
func (r *NeedRepository) GetApprovedOpen(ctx context.Context) ([]models.Need, error) {
	query := `
		SELECT ` + needColumns + `
		FROM needs
		WHERE status = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, string(models.NeedStatusApproved))
	if err != nil {
		return nil, fmt.Errorf("failed to query needs: %w", err)
	}
	defer rows.Close()

	var needs []models.Need
	for rows.Next() {
		need, err := scanNeed(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan need: %w", err)
		}
		needs = append(needs, *need)
	}

	return needs, nil
}

// UpdateStatus sets the lifecycle status of a need.
func (r *NeedRepository) UpdateStatus(ctx context.Context, id int64, status models.NeedStatus) error {
	affected, err := r.db.ExecContext(ctx,
		`UPDATE needs SET status = $1, updated_at = $2 WHERE id = $3`,
		string(status), time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update need status: %w", err)
	}
	if affected == 0 {
		return models.ErrNeedNotFound
	}
	return nil
}

func scanNeed(row pgx.Row) (*models.Need, error) {
	var need models.Need
	var urgency, timePreference, status string

	err := row.Scan(
		&need.ID,
		&need.NeedID,
		&need.Title,
		&need.Description,
		&need.RequiredTags,
		&urgency,
		&timePreference,
		&need.ScheduledAt,
		&need.IsRecurring,
		&need.RecurringStartTime,
		&status,
		&need.OrganizationID,
		&need.CreatedAt,
		&need.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	need.Urgency = models.UrgencyClass(urgency)
	need.TimePreference = models.TimeWindow(timePreference)
	need.Status = models.NeedStatus(status)
	return &need, nil
}
