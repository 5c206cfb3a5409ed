package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"engage-matching-engine/internal/models"
)

func TestParseMembers_ValidCSV(t *testing.T) {
	csv := `member_id,full_name,email,gift_tags,availability
MEM001,Dana Example,dana@example.com,"Music, Teaching","mornings, evenings"
MEM002,Sam Example,sam@example.com,Hospitality,anytime`

	parser := NewCSVParser()
	profiles, errs := parser.ParseMembers(csv, "batch-001")

	require.Len(t, profiles, 2)
	assert.Empty(t, errs)

	assert.Equal(t, "MEM001", profiles[0].MemberID)
	assert.Equal(t, []string{"Music", "Teaching"}, profiles[0].GiftTags)
	assert.Equal(t, []models.TimeWindow{models.WindowMornings, models.WindowNights}, profiles[0].AvailabilityWindows)
	assert.Equal(t, "batch-001", profiles[0].BatchID)

	assert.Equal(t, []models.TimeWindow{models.WindowAnytime}, profiles[1].AvailabilityWindows)
}

func TestParseMembers_ColumnAliases(t *testing.T) {
	csv := `User_ID,Name,Mail,Skills,Serving_Times
MEM001,Dana Example,dana@example.com,Music,mornings`

	parser := NewCSVParser()
	profiles, errs := parser.ParseMembers(csv, "batch-001")

	require.Len(t, profiles, 1)
	assert.Empty(t, errs)
	assert.Equal(t, "MEM001", profiles[0].MemberID)
	assert.Equal(t, "Dana Example", profiles[0].FullName)
	assert.Equal(t, "dana@example.com", profiles[0].Email)
}

func TestParseMembers_MissingRequiredColumns(t *testing.T) {
	csv := `member_id,full_name
MEM001,Dana Example`

	parser := NewCSVParser()
	profiles, errs := parser.ParseMembers(csv, "batch-001")

	assert.Nil(t, profiles)
	require.NotEmpty(t, errs)
	assert.ErrorIs(t, errs[0], ErrMissingColumns)
}

func TestParseMembers_BadRowsCollected(t *testing.T) {
	csv := `member_id,email,gift_tags,availability
MEM001,dana@example.com,Music,mornings
,missing-id@example.com,Music,mornings
MEM003,not-an-email,Music,mornings`

	parser := NewCSVParser()
	profiles, errs := parser.ParseMembers(csv, "batch-001")

	require.Len(t, profiles, 1)
	assert.Len(t, errs, 2, "Invalid rows should be reported, not abort the import")
	assert.Equal(t, "MEM001", profiles[0].MemberID)
}

func TestParseMembers_EmptyContent(t *testing.T) {
	parser := NewCSVParser()
	profiles, errs := parser.ParseMembers("   ", "batch-001")

	assert.Nil(t, profiles)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrEmptyCSV)
}

func TestParseMembers_OnlyBadRows(t *testing.T) {
	csv := `member_id,email,gift_tags,availability
,bad@example.com,Music,mornings`

	parser := NewCSVParser()
	profiles, errs := parser.ParseMembers(csv, "batch-001")

	assert.Nil(t, profiles)
	require.NotEmpty(t, errs)
	assert.ErrorIs(t, errs[0], ErrNoDataRows)
}

func TestParseMembers_ShortRowTolerated(t *testing.T) {
	// A row missing trailing cells parses with empty values for them.
	csv := `member_id,email,gift_tags,availability
MEM001,dana@example.com,Music`

	parser := NewCSVParser()
	profiles, errs := parser.ParseMembers(csv, "batch-001")

	require.Len(t, profiles, 1)
	assert.Empty(t, errs)
	assert.Empty(t, profiles[0].AvailabilityWindows)
}
