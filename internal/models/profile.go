// Package models defines the data structures for the Engage matching engine.
package models

import (
	"time"
)

// ProfileStatus represents the approval state of a member profile.
type ProfileStatus string

const (
	ProfileStatusPending  ProfileStatus = "pending"
	ProfileStatusApproved ProfileStatus = "approved"
	ProfileStatusRejected ProfileStatus = "rejected"
)

// TimeWindow is a time-of-day availability bucket. The vocabulary is fixed for
// curated data, but survey answers are free text so arbitrary values survive
// parsing and simply never match.
type TimeWindow string

const (
	WindowMornings   TimeWindow = "Mornings"
	WindowAfternoons TimeWindow = "Afternoons"
	WindowNights     TimeWindow = "Nights"
	WindowAnytime    TimeWindow = "Anytime"
)

// KnownTimeWindows returns the curated availability vocabulary.
func KnownTimeWindows() []TimeWindow {
	return []TimeWindow{WindowMornings, WindowAfternoons, WindowNights, WindowAnytime}
}

// IsKnown checks whether the window belongs to the curated vocabulary.
func (w TimeWindow) IsKnown() bool {
	for _, known := range KnownTimeWindows() {
		if w == known {
			return true
		}
	}
	return false
}

// Profile represents a member profile in the system.
type Profile struct {
	ID                  int64         `json:"id" db:"id"`
	MemberID            string        `json:"member_id" db:"member_id"`
	FullName            string        `json:"full_name,omitempty" db:"full_name"`
	Email               string        `json:"email,omitempty" db:"email"`
	GiftTags            []string      `json:"gift_tags" db:"gift_tags"`
	AvailabilityWindows []TimeWindow  `json:"availability_windows" db:"availability_windows"`
	Status              ProfileStatus `json:"status" db:"status"`
	BatchID             string        `json:"batch_id,omitempty" db:"batch_id"`
	CreatedAt           time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time     `json:"updated_at" db:"updated_at"`
	IsActive            bool          `json:"is_active" db:"is_active"`
}

// ProfileCreate represents the data needed to create a new profile.
type ProfileCreate struct {
	MemberID            string       `json:"member_id" validate:"required,min=1,max=64"`
	FullName            string       `json:"full_name,omitempty"`
	Email               string       `json:"email" validate:"required,email"`
	GiftTags            []string     `json:"gift_tags"`
	AvailabilityWindows []TimeWindow `json:"availability_windows"`
	BatchID             string       `json:"batch_id,omitempty"`
}

// CSVMemberRow represents a row from an uploaded member import CSV.
type CSVMemberRow struct {
	MemberID     string `csv:"member_id"`
	FullName     string `csv:"full_name"`
	Email        string `csv:"email"`
	GiftTags     string `csv:"gift_tags"`
	Availability string `csv:"availability"`
}

// ToProfileCreate converts a CSV row to a ProfileCreate model. Tag and
// availability cells may be JSON arrays or comma-separated text.
func (r *CSVMemberRow) ToProfileCreate(batchID string) (*ProfileCreate, error) {
	windows := make([]TimeWindow, 0)
	for _, raw := range DecodeStringList(r.Availability) {
		windows = append(windows, NormalizeTimeWindow(raw))
	}

	p := &ProfileCreate{
		MemberID:            r.MemberID,
		FullName:            r.FullName,
		Email:               r.Email,
		GiftTags:            DecodeStringList(r.GiftTags),
		AvailabilityWindows: windows,
		BatchID:             batchID,
	}

	if err := ValidateProfileCreate(p); err != nil {
		return nil, err
	}

	return p, nil
}

// BulkInsertResult contains the results of a bulk insert operation.
type BulkInsertResult struct {
	InsertedCount int      `json:"inserted_count"`
	FailedCount   int      `json:"failed_count"`
	Errors        []string `json:"errors,omitempty"`
}
