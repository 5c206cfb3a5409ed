// Package models defines the data structures for the Engage matching engine.
package models

import (
	"encoding/json"
	"errors"
	"strings"
)

// Common errors
var (
	ErrEmptyMemberID  = errors.New("member_id cannot be empty")
	ErrInvalidEmail   = errors.New("invalid email address")
	ErrEmptyNeedID    = errors.New("need_id cannot be empty")
	ErrEmptyNeedTitle = errors.New("need title cannot be empty")
	ErrNeedNotFound   = errors.New("need not found")
)

// DecodeStringList parses a field that may arrive as a JSON-encoded array,
// a comma-separated string, or garbage. Survey data is inconsistently shaped,
// so malformed input yields an empty slice rather than an error.
func DecodeStringList(raw string) []string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return []string{}
	}

	if strings.HasPrefix(trimmed, "[") {
		var list []string
		if err := json.Unmarshal([]byte(trimmed), &list); err == nil {
			return compactStrings(list)
		}
		// Fell out of JSON shape, treat as plain text below
	}

	return compactStrings(strings.Split(trimmed, ","))
}

func compactStrings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// NormalizeTimeWindow maps free-text availability answers onto the curated
// window vocabulary where possible.
func NormalizeTimeWindow(raw string) TimeWindow {
	normalized := strings.ToLower(strings.TrimSpace(raw))

	windowMap := map[string]TimeWindow{
		"morning":    WindowMornings,
		"mornings":   WindowMornings,
		"am":         WindowMornings,
		"afternoon":  WindowAfternoons,
		"afternoons": WindowAfternoons,
		"evening":    WindowNights,
		"evenings":   WindowNights,
		"night":      WindowNights,
		"nights":     WindowNights,
		"pm":         WindowNights,
		"anytime":    WindowAnytime,
		"any":        WindowAnytime,
		"flexible":   WindowAnytime,
		"whenever":   WindowAnytime,
	}

	if mapped, ok := windowMap[normalized]; ok {
		return mapped
	}

	// Keep the raw value; unknown windows never match but are preserved for display
	return TimeWindow(strings.TrimSpace(raw))
}

// ValidateProfileCreate validates profile creation data.
func ValidateProfileCreate(p *ProfileCreate) error {
	if strings.TrimSpace(p.MemberID) == "" {
		return ErrEmptyMemberID
	}

	if !isValidEmail(p.Email) {
		return ErrInvalidEmail
	}

	return nil
}

// ValidateNeedCreate validates need creation data.
func ValidateNeedCreate(n *NeedCreate) error {
	if strings.TrimSpace(n.NeedID) == "" {
		return ErrEmptyNeedID
	}

	if strings.TrimSpace(n.Title) == "" {
		return ErrEmptyNeedTitle
	}

	return nil
}

// isValidEmail performs basic email validation.
func isValidEmail(email string) bool {
	if email == "" {
		return false
	}

	// Basic check: must contain @ and have content before and after
	atIndex := strings.Index(email, "@")
	if atIndex <= 0 || atIndex == len(email)-1 {
		return false
	}

	// Must have a dot after @
	dotIndex := strings.LastIndex(email, ".")
	if dotIndex <= atIndex+1 || dotIndex == len(email)-1 {
		return false
	}

	return true
}
