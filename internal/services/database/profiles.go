// Package database provides database operations for the Engage matching engine.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"engage-matching-engine/internal/models"
)

// ProfileRepository handles member profile database operations.
type ProfileRepository struct {
	db *DB
}

// NewProfileRepository creates a new profile repository.
func NewProfileRepository(db *DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Create inserts a new profile, updating on member_id conflict.
func (r *ProfileRepository) Create(ctx context.Context, profile *models.ProfileCreate) (int64, error) {
	query := `
		INSERT INTO profiles (member_id, full_name, email, gift_tags, availability_windows, status, batch_id, created_at, updated_at, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8, true)
		ON CONFLICT (member_id) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			email = EXCLUDED.email,
			gift_tags = EXCLUDED.gift_tags,
			availability_windows = EXCLUDED.availability_windows,
			batch_id = EXCLUDED.batch_id,
			updated_at = EXCLUDED.updated_at
		RETURNING id`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		profile.MemberID,
		profile.FullName,
		profile.Email,
		profile.GiftTags,
		windowStrings(profile.AvailabilityWindows),
		string(models.ProfileStatusPending),
		profile.BatchID,
		time.Now().UTC(),
	).Scan(&id)

	if err != nil {
		return 0, fmt.Errorf("failed to create profile: %w", err)
	}

	return id, nil
}

// BulkInsert inserts multiple profiles inside one transaction.
func (r *ProfileRepository) BulkInsert(ctx context.Context, profiles []*models.ProfileCreate) (*models.BulkInsertResult, error) {
	result := &models.BulkInsertResult{
		InsertedCount: 0,
		FailedCount:   0,
		Errors:        []string{},
	}

	err := r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		for _, profile := range profiles {
			_, err := tx.Exec(ctx, `
				INSERT INTO profiles (member_id, full_name, email, gift_tags, availability_windows, status, batch_id, created_at, updated_at, is_active)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8, true)
				ON CONFLICT (member_id) DO UPDATE SET
					full_name = EXCLUDED.full_name,
					email = EXCLUDED.email,
					gift_tags = EXCLUDED.gift_tags,
					availability_windows = EXCLUDED.availability_windows,
					batch_id = EXCLUDED.batch_id,
					updated_at = EXCLUDED.updated_at`,
				profile.MemberID,
				profile.FullName,
				profile.Email,
				profile.GiftTags,
				windowStrings(profile.AvailabilityWindows),
				string(models.ProfileStatusPending),
				profile.BatchID,
				time.Now().UTC(),
			)

			if err != nil {
				result.FailedCount++
				result.Errors = append(result.Errors, fmt.Sprintf("member %s: %v", profile.MemberID, err))
			} else {
				result.InsertedCount++
			}
		}
		return nil
	})

	if err != nil {
		return result, fmt.Errorf("bulk insert failed: %w", err)
	}

	return result, nil
}

const profileColumns = `id, member_id, full_name, email, gift_tags, availability_windows, status, batch_id, created_at, updated_at, is_active`

// GetByID retrieves a profile by its database ID.
func (r *ProfileRepository) GetByID(ctx context.Context, id int64) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`

	profile, err := scanProfile(r.db.QueryRowContext(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return profile, nil
}

// GetByMemberID retrieves a profile by its external member ID.
func (r *ProfileRepository) GetByMemberID(ctx context.Context, memberID string) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE member_id = $1 AND is_active = true`

	profile, err := scanProfile(r.db.QueryRowContext(ctx, query, memberID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return profile, nil
}

// GetApprovedActive retrieves the candidate pool: approved, active profiles
// in stable id order so ranking ties stay reproducible.
func (r *ProfileRepository) GetApprovedActive(ctx context.Context) ([]models.Profile, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM profiles
		WHERE status = $1 AND is_active = true
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, string(models.ProfileStatusApproved))
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles: %w", err)
	}
	defer rows.Close()

	return collectProfiles(rows)
}

// GetByBatchID retrieves all profiles from a specific import batch.
func (r *ProfileRepository) GetByBatchID(ctx context.Context, batchID string) ([]models.Profile, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM profiles
		WHERE batch_id = $1 AND is_active = true
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles: %w", err)
	}
	defer rows.Close()

	return collectProfiles(rows)
}

// UpdateStatus sets the approval status of a profile.
func (r *ProfileRepository) UpdateStatus(ctx context.Context, id int64, status models.ProfileStatus) error {
	affected, err := r.db.ExecContext(ctx,
		`UPDATE profiles SET status = $1, updated_at = $2 WHERE id = $3`,
		string(status), time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update profile status: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("profile %d not found", id)
	}
	return nil
}

// CountByBatchID returns the number of profiles in an import batch.
func (r *ProfileRepository) CountByBatchID(ctx context.Context, batchID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM profiles WHERE batch_id = $1", batchID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count profiles: %w", err)
	}
	return count, nil
}

func scanProfile(row pgx.Row) (*models.Profile, error) {
	var profile models.Profile
	var status string
	var windows []string

	err := row.Scan(
		&profile.ID,
		&profile.MemberID,
		&profile.FullName,
		&profile.Email,
		&profile.GiftTags,
		&windows,
		&status,
		&profile.BatchID,
		&profile.CreatedAt,
		&profile.UpdatedAt,
		&profile.IsActive,
	)
	if err != nil {
		return nil, err
	}

	profile.Status = models.ProfileStatus(status)
	profile.AvailabilityWindows = timeWindows(windows)
	return &profile, nil
}

func collectProfiles(rows pgx.Rows) ([]models.Profile, error) {
	var profiles []models.Profile
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, *profile)
	}
	return profiles, nil
}

// windowStrings converts typed windows to text for text[] columns.
func windowStrings(windows []models.TimeWindow) []string {
	out := make([]string, len(windows))
	for i, w := range windows {
		out[i] = string(w)
	}
	return out
}

func timeWindows(raw []string) []models.TimeWindow {
	out := make([]models.TimeWindow, len(raw))
	for i, s := range raw {
		out[i] = models.TimeWindow(s)
	}
	return out
}
