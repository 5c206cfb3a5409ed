package matcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"engage-matching-engine/internal/models"
)

func scheduledAt(hour int) *time.Time {
	t := time.Date(2026, 3, 14, hour, 30, 0, 0, time.UTC)
	return &t
}

func TestResolve_ASAPUsesExplicitPreference(t *testing.T) {
	need := models.Need{
		Urgency:        models.UrgencyASAP,
		TimePreference: models.WindowAfternoons,
		ScheduledAt:    scheduledAt(8), // would bucket to Mornings if consulted
	}

	result := ResolveEffectiveTimePreference(need)

	assert.Equal(t, models.WindowAfternoons, result, "asap should trust the leader's preference over the schedule")
}

func TestResolve_ASAPWithoutPreferenceIsAnytime(t *testing.T) {
	need := models.Need{Urgency: models.UrgencyASAP}

	result := ResolveEffectiveTimePreference(need)

	assert.Equal(t, models.WindowAnytime, result)
}

func TestResolve_ScheduledAtHourBuckets(t *testing.T) {
	cases := []struct {
		hour     int
		expected models.TimeWindow
	}{
		{4, models.WindowNights},
		{5, models.WindowMornings},
		{11, models.WindowMornings},
		{12, models.WindowAfternoons},
		{16, models.WindowAfternoons},
		{17, models.WindowNights},
		{23, models.WindowNights},
		{0, models.WindowNights},
	}

	for _, tc := range cases {
		need := models.Need{ScheduledAt: scheduledAt(tc.hour)}
		result := ResolveEffectiveTimePreference(need)
		assert.Equal(t, tc.expected, result, "hour %d should bucket to %s", tc.hour, tc.expected)
	}
}

func TestResolve_ScheduledAtOverridesPreference(t *testing.T) {
	need := models.Need{
		TimePreference: models.WindowNights,
		ScheduledAt:    scheduledAt(9),
	}

	result := ResolveEffectiveTimePreference(need)

	assert.Equal(t, models.WindowMornings, result, "a fixed schedule should beat the stated preference")
}

func TestResolve_RecurringStartTime(t *testing.T) {
	need := models.Need{
		IsRecurring:        true,
		RecurringStartTime: "19:00",
	}

	result := ResolveEffectiveTimePreference(need)

	assert.Equal(t, models.WindowNights, result)
}

func TestResolve_MalformedRecurringFallsThrough(t *testing.T) {
	need := models.Need{
		IsRecurring:        true,
		RecurringStartTime: "noon",
		TimePreference:     models.WindowMornings,
	}

	result := ResolveEffectiveTimePreference(need)

	assert.Equal(t, models.WindowMornings, result, "an unparseable start time should fall through, not fail")
}

func TestResolve_OutOfRangeRecurringFallsThrough(t *testing.T) {
	need := models.Need{
		IsRecurring:        true,
		RecurringStartTime: "25:00",
	}

	result := ResolveEffectiveTimePreference(need)

	assert.Equal(t, models.WindowAnytime, result)
}

func TestResolve_LegacyDescriptionHint(t *testing.T) {
	need := models.Need{
		Description: "Youth band rehearsals. Ongoing Schedule: every Thursday at 14:30 in the main hall.",
	}

	result := ResolveEffectiveTimePreference(need)

	assert.Equal(t, models.WindowAfternoons, result)
}

func TestResolve_HintRequiresMarker(t *testing.T) {
	need := models.Need{
		Description:    "Rehearsals every Thursday at 14:30 in the main hall.",
		TimePreference: models.WindowNights,
	}

	result := ResolveEffectiveTimePreference(need)

	assert.Equal(t, models.WindowNights, result, "a clock time without the schedule marker should be ignored")
}

func TestResolve_HintWithBadClockFallsThrough(t *testing.T) {
	need := models.Need{
		Description: "Ongoing Schedule: meets at 99:99 sharp.",
	}

	result := ResolveEffectiveTimePreference(need)

	assert.Equal(t, models.WindowAnytime, result)
}

func TestResolve_ExplicitPreferenceFallback(t *testing.T) {
	need := models.Need{TimePreference: models.WindowAfternoons}

	result := ResolveEffectiveTimePreference(need)

	assert.Equal(t, models.WindowAfternoons, result)
}

func TestResolve_DefaultIsAnytime(t *testing.T) {
	result := ResolveEffectiveTimePreference(models.Need{})

	assert.Equal(t, models.WindowAnytime, result)
}

func TestParseClockHour(t *testing.T) {
	cases := []struct {
		clock string
		hour  int
		ok    bool
	}{
		{"09:30", 9, true},
		{"0:00", 0, true},
		{"23:59", 23, true},
		{" 7:15 ", 7, true},
		{"24:00", 0, false},
		{"12:60", 0, false},
		{"noon", 0, false},
		{"", 0, false},
		{"12", 0, false},
	}

	for _, tc := range cases {
		hour, ok := parseClockHour(tc.clock)
		assert.Equal(t, tc.ok, ok, "clock %q", tc.clock)
		if tc.ok {
			assert.Equal(t, tc.hour, hour, "clock %q", tc.clock)
		}
	}
}
