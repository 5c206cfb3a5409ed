// Package matcher implements the profile-need scoring and ranking core.
package matcher

import (
	"regexp"
	"strconv"
	"strings"

	"engage-matching-engine/internal/models"
)

// ongoingScheduleMarker prefixes the schedule hint embedded in descriptions of
// needs created before structured scheduling fields existed.
const ongoingScheduleMarker = "Ongoing Schedule:"

var clockHintPattern = regexp.MustCompile(`at (\d{1,2}):(\d{2})`)

// ResolveEffectiveTimePreference derives the single time-of-day bucket for a
// need. Rules apply in strict precedence order so a manually curated
// preference is never overridden by auto-detection:
//
//  1. asap needs trust the leader's explicit preference completely.
//  2. A fixed scheduled timestamp buckets by its local hour.
//  3. A recurring start time ("HH:MM") buckets the same way.
//  4. A legacy "Ongoing Schedule: ... at HH:MM" description hint buckets the
//     same way.
//  5. Otherwise the explicit preference if set, else Anytime.
//
// Parsing failures never raise; they fall through to the next rule, so a
// valid bucket is always returned.
func ResolveEffectiveTimePreference(need models.Need) models.TimeWindow {
	if need.Urgency == models.UrgencyASAP {
		if need.TimePreference != "" {
			return need.TimePreference
		}
		return models.WindowAnytime
	}

	if need.ScheduledAt != nil {
		return windowForHour(need.ScheduledAt.Hour())
	}

	if need.IsRecurring && need.RecurringStartTime != "" {
		if hour, ok := parseClockHour(need.RecurringStartTime); ok {
			return windowForHour(hour)
		}
	}

	if window, ok := windowFromScheduleHint(need.Description); ok {
		return window
	}

	if need.TimePreference != "" {
		return need.TimePreference
	}
	return models.WindowAnytime
}

// windowForHour buckets an hour of day. A concrete hour never yields Anytime.
func windowForHour(hour int) models.TimeWindow {
	switch {
	case hour >= 5 && hour < 12:
		return models.WindowMornings
	case hour >= 12 && hour < 17:
		return models.WindowAfternoons
	default:
		return models.WindowNights
	}
}

// parseClockHour extracts the hour from an "HH:MM" string.
func parseClockHour(clock string) (int, bool) {
	hourPart, minutePart, found := strings.Cut(strings.TrimSpace(clock), ":")
	if !found {
		return 0, false
	}

	hour, err := strconv.Atoi(strings.TrimSpace(hourPart))
	if err != nil || hour < 0 || hour > 23 {
		return 0, false
	}

	minute, err := strconv.Atoi(strings.TrimSpace(minutePart))
	if err != nil || minute < 0 || minute > 59 {
		return 0, false
	}

	return hour, true
}

// windowFromScheduleHint scans a legacy description for an
// "Ongoing Schedule: ... at HH:MM" fragment.
func windowFromScheduleHint(description string) (models.TimeWindow, bool) {
	idx := strings.Index(description, ongoingScheduleMarker)
	if idx < 0 {
		return "", false
	}

	groups := clockHintPattern.FindStringSubmatch(description[idx:])
	if groups == nil {
		return "", false
	}

	if hour, ok := parseClockHour(groups[1] + ":" + groups[2]); ok {
		return windowForHour(hour), true
	}
	return "", false
}
