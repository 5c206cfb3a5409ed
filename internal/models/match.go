// Package models defines the data structures for the Engage matching engine.
package models

import (
	"time"
)

// MatchStatus represents the status of a profile-need match.
type MatchStatus string

const (
	MatchStatusSuggested MatchStatus = "suggested"
	MatchStatusNotified  MatchStatus = "notified"
	MatchStatusAccepted  MatchStatus = "accepted"
	MatchStatusDeclined  MatchStatus = "declined"
	MatchStatusExpired   MatchStatus = "expired"
)

// MatchResult is the scoring output for a single candidate against a need.
//
// GiftOverlapCount always equals len(MatchingTags). A result makes it into a
// ranked list only when GiftOverlapCount > 0 and AvailabilityIsCompatible.
type MatchResult struct {
	Candidate                Profile    `json:"candidate"`
	GiftOverlapCount         int        `json:"gift_overlap_count"`
	MatchingTags             []string   `json:"matching_tags"`
	AvailabilityScore        int        `json:"availability_score"`
	AvailabilityIsCompatible bool       `json:"availability_is_compatible"`
	TotalScore               int        `json:"total_score"`
	EffectiveTimePreference  TimeWindow `json:"effective_time_preference"`
}

// MatchCreate represents data needed to persist a computed match.
type MatchCreate struct {
	ProfileID         int64       `json:"profile_id" validate:"required"`
	NeedID            int64       `json:"need_id" validate:"required"`
	TotalScore        int         `json:"total_score" validate:"gte=0"`
	GiftOverlapCount  int         `json:"gift_overlap_count"`
	MatchingTags      []string    `json:"matching_tags"`
	AvailabilityScore int         `json:"availability_score"`
	Status            MatchStatus `json:"status"`
	RunID             string      `json:"run_id,omitempty"`
}

// Match represents a persisted profile-need match.
type Match struct {
	ID                int64       `json:"id" db:"id"`
	ProfileID         int64       `json:"profile_id" db:"profile_id"`
	NeedID            int64       `json:"need_id" db:"need_id"`
	TotalScore        int         `json:"total_score" db:"total_score"`
	GiftOverlapCount  int         `json:"gift_overlap_count" db:"gift_overlap_count"`
	MatchingTags      []string    `json:"matching_tags" db:"matching_tags"`
	AvailabilityScore int         `json:"availability_score" db:"availability_score"`
	Status            MatchStatus `json:"status" db:"status"`
	RunID             string      `json:"run_id,omitempty" db:"run_id"`
	CreatedAt         time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at" db:"updated_at"`
	NotifiedAt        *time.Time  `json:"notified_at,omitempty" db:"notified_at"`
}

// MatchWithDetails contains full match information with profile and need details.
type MatchWithDetails struct {
	Match
	MemberID    string `json:"member_id"`
	MemberName  string `json:"member_name,omitempty"`
	MemberEmail string `json:"member_email"`
	NeedTitle   string `json:"need_title"`
	NeedUrgency string `json:"need_urgency,omitempty"`
}

// NotificationPayload is the per-recipient payload handed to the external
// workflow trigger after a matching run.
type NotificationPayload struct {
	RecipientID             string     `json:"recipient_id"`
	RecipientEmail          string     `json:"recipient_email,omitempty"`
	NeedID                  string     `json:"need_id"`
	NeedTitle               string     `json:"need_title"`
	NeedDescription         string     `json:"need_description,omitempty"`
	MatchedGifts            string     `json:"matched_gifts"`
	EffectiveTimePreference TimeWindow `json:"effective_time_preference"`
	AvailabilityScore       int        `json:"availability_score"`
}

// RunSummary provides summary statistics for one matching run.
type RunSummary struct {
	RunID             string        `json:"run_id"`
	NeedID            string        `json:"need_id"`
	CandidatePoolSize int           `json:"candidate_pool_size"`
	MatchesFound      int           `json:"matches_found"`
	MatchesPersisted  int           `json:"matches_persisted"`
	FromCache         bool          `json:"from_cache"`
	ProcessingTime    time.Duration `json:"processing_time"`
}
