// Package models defines the data structures for the Engage matching engine.
package models

import (
	"time"
)

// NeedStatus represents the lifecycle state of a need.
type NeedStatus string

const (
	NeedStatusPending  NeedStatus = "pending"
	NeedStatusApproved NeedStatus = "approved"
	NeedStatusFilled   NeedStatus = "filled"
	NeedStatusClosed   NeedStatus = "closed"
)

// UrgencyClass tags how a need was scheduled by the leader who created it.
// An empty value means a normal, non-urgent need.
type UrgencyClass string

const (
	UrgencyASAP    UrgencyClass = "asap"
	UrgencyOngoing UrgencyClass = "ongoing"
	UrgencyNormal  UrgencyClass = ""
)

// Need represents a volunteer opportunity posted by a church leader.
//
// Description doubles as the legacy schedule carrier: needs created before
// structured scheduling existed embed an "Ongoing Schedule: ... at HH:MM"
// hint in their description text.
type Need struct {
	ID                 int64        `json:"id" db:"id"`
	NeedID             string       `json:"need_id" db:"need_id"`
	Title              string       `json:"title" db:"title"`
	Description        string       `json:"description,omitempty" db:"description"`
	RequiredTags       []string     `json:"required_tags" db:"required_tags"`
	Urgency            UrgencyClass `json:"urgency,omitempty" db:"urgency"`
	TimePreference     TimeWindow   `json:"time_preference,omitempty" db:"time_preference"`
	ScheduledAt        *time.Time   `json:"scheduled_at,omitempty" db:"scheduled_at"`
	IsRecurring        bool         `json:"is_recurring" db:"is_recurring"`
	RecurringStartTime string       `json:"recurring_start_time,omitempty" db:"recurring_start_time"`
	Status             NeedStatus   `json:"status" db:"status"`
	OrganizationID     string       `json:"organization_id,omitempty" db:"organization_id"`
	CreatedAt          time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at" db:"updated_at"`
}

// NeedCreate represents the data needed to create a new need.
type NeedCreate struct {
	NeedID             string       `json:"need_id" validate:"required"`
	Title              string       `json:"title" validate:"required"`
	Description        string       `json:"description,omitempty"`
	RequiredTags       []string     `json:"required_tags"`
	Urgency            UrgencyClass `json:"urgency,omitempty"`
	TimePreference     TimeWindow   `json:"time_preference,omitempty"`
	ScheduledAt        *time.Time   `json:"scheduled_at,omitempty"`
	IsRecurring        bool         `json:"is_recurring"`
	RecurringStartTime string       `json:"recurring_start_time,omitempty"`
	OrganizationID     string       `json:"organization_id,omitempty"`
}

// ResolvedNeed is a need carrying its derived time-of-day bucket. The matcher
// only accepts resolved needs; resolution happens once, before scoring.
type ResolvedNeed struct {
	Need
	EffectiveTimePreference TimeWindow `json:"effective_time_preference"`
}
