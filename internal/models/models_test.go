package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeStringList_JSONArray(t *testing.T) {
	result := DecodeStringList(`["Music", "Hospitality", "Teaching"]`)

	assert.Equal(t, []string{"Music", "Hospitality", "Teaching"}, result)
}

func TestDecodeStringList_CommaSeparated(t *testing.T) {
	result := DecodeStringList("Music, Hospitality , Teaching")

	assert.Equal(t, []string{"Music", "Hospitality", "Teaching"}, result)
}

func TestDecodeStringList_MalformedJSONFallsBack(t *testing.T) {
	// Looks like JSON but isn't; treated as plain comma-separated text.
	result := DecodeStringList(`["Music", "Hospitality"`)

	assert.Equal(t, []string{`["Music"`, `"Hospitality"`}, result)
}

func TestDecodeStringList_Empty(t *testing.T) {
	assert.Empty(t, DecodeStringList(""))
	assert.Empty(t, DecodeStringList("   "))
	assert.Empty(t, DecodeStringList("[]"))
	assert.Empty(t, DecodeStringList(" , , "))
}

func TestDecodeStringList_TrimsEntries(t *testing.T) {
	result := DecodeStringList(`[" Music ", "", "Teaching"]`)

	assert.Equal(t, []string{"Music", "Teaching"}, result)
}

func TestNormalizeTimeWindow(t *testing.T) {
	cases := []struct {
		raw      string
		expected TimeWindow
	}{
		{"morning", WindowMornings},
		{"Mornings", WindowMornings},
		{"AM", WindowMornings},
		{"afternoons", WindowAfternoons},
		{"evening", WindowNights},
		{"PM", WindowNights},
		{"nights", WindowNights},
		{"flexible", WindowAnytime},
		{"ANYTIME", WindowAnytime},
		{"  whenever  ", WindowAnytime},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.expected, NormalizeTimeWindow(tc.raw), "raw %q", tc.raw)
	}
}

func TestNormalizeTimeWindow_UnknownKeptVerbatim(t *testing.T) {
	result := NormalizeTimeWindow(" Third Tuesdays ")

	assert.Equal(t, TimeWindow("Third Tuesdays"), result)
	assert.False(t, result.IsKnown())
}

func TestTimeWindowIsKnown(t *testing.T) {
	for _, w := range KnownTimeWindows() {
		assert.True(t, w.IsKnown())
	}
	assert.False(t, TimeWindow("Weekends").IsKnown())
}

func TestCSVMemberRow_ToProfileCreate(t *testing.T) {
	row := CSVMemberRow{
		MemberID:     "MEM001",
		FullName:     "Dana Example",
		Email:        "dana@example.com",
		GiftTags:     `["Music", "Teaching"]`,
		Availability: "mornings, evenings",
	}

	profile, err := row.ToProfileCreate("batch-001")

	assert.NoError(t, err)
	assert.Equal(t, "MEM001", profile.MemberID)
	assert.Equal(t, []string{"Music", "Teaching"}, profile.GiftTags)
	assert.Equal(t, []TimeWindow{WindowMornings, WindowNights}, profile.AvailabilityWindows)
	assert.Equal(t, "batch-001", profile.BatchID)
}

func TestCSVMemberRow_MissingMemberID(t *testing.T) {
	row := CSVMemberRow{Email: "dana@example.com"}

	_, err := row.ToProfileCreate("batch-001")

	assert.ErrorIs(t, err, ErrEmptyMemberID)
}

func TestCSVMemberRow_InvalidEmail(t *testing.T) {
	row := CSVMemberRow{MemberID: "MEM001", Email: "not-an-email"}

	_, err := row.ToProfileCreate("batch-001")

	assert.ErrorIs(t, err, ErrInvalidEmail)
}

func TestValidateNeedCreate(t *testing.T) {
	assert.NoError(t, ValidateNeedCreate(&NeedCreate{NeedID: "need-001", Title: "Welcome Team"}))
	assert.ErrorIs(t, ValidateNeedCreate(&NeedCreate{Title: "Welcome Team"}), ErrEmptyNeedID)
	assert.ErrorIs(t, ValidateNeedCreate(&NeedCreate{NeedID: "need-001", Title: "  "}), ErrEmptyNeedTitle)
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{"a@b.co", "dana.example@church.org"}
	invalid := []string{"", "plain", "@b.co", "a@", "a@b", "a@.co", "a@b."}

	for _, email := range valid {
		assert.True(t, isValidEmail(email), "email %q should be valid", email)
	}
	for _, email := range invalid {
		assert.False(t, isValidEmail(email), "email %q should be invalid", email)
	}
}
