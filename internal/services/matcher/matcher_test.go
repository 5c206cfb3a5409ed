package matcher

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"engage-matching-engine/internal/models"
)

// mockProfile creates a test profile with default values
func mockProfile(overrides map[string]interface{}) models.Profile {
	profile := models.Profile{
		ID:                  1,
		MemberID:            "MEM001",
		FullName:            "Test Member",
		Email:               "member@example.com",
		GiftTags:            []string{"Music", "Hospitality"},
		AvailabilityWindows: []models.TimeWindow{models.WindowMornings},
		Status:              models.ProfileStatusApproved,
		IsActive:            true,
	}

	if v, ok := overrides["id"]; ok {
		profile.ID = v.(int64)
	}
	if v, ok := overrides["member_id"]; ok {
		profile.MemberID = v.(string)
	}
	if v, ok := overrides["gift_tags"]; ok {
		profile.GiftTags = v.([]string)
	}
	if v, ok := overrides["availability_windows"]; ok {
		profile.AvailabilityWindows = v.([]models.TimeWindow)
	}

	return profile
}

// mockNeed creates a resolved test need with default values
func mockNeed(overrides map[string]interface{}) models.ResolvedNeed {
	need := models.ResolvedNeed{
		Need: models.Need{
			ID:           1,
			NeedID:       "need-001",
			Title:        "Sunday Welcome Team",
			RequiredTags: []string{"Hospitality"},
		},
		EffectiveTimePreference: models.WindowMornings,
	}

	if v, ok := overrides["required_tags"]; ok {
		need.RequiredTags = v.([]string)
	}
	if v, ok := overrides["effective_time_preference"]; ok {
		need.EffectiveTimePreference = v.(models.TimeWindow)
	}

	return need
}

func TestScoreCandidate_PerfectMatch(t *testing.T) {
	candidate := mockProfile(map[string]interface{}{
		"gift_tags":            []string{"Hospitality"},
		"availability_windows": []models.TimeWindow{models.WindowMornings},
	})
	need := mockNeed(nil)

	result := ScoreCandidate(candidate, need)

	assert.Equal(t, 1, result.GiftOverlapCount, "One gift tag should overlap")
	assert.Equal(t, []string{"Hospitality"}, result.MatchingTags)
	assert.Equal(t, 3, result.AvailabilityScore, "Exact window match should score 3")
	assert.True(t, result.AvailabilityIsCompatible)
	assert.Equal(t, 5, result.TotalScore, "Total should be overlap*2 + availability")
	assert.Equal(t, models.WindowMornings, result.EffectiveTimePreference)
}

func TestScoreCandidate_FlexibleMember(t *testing.T) {
	candidate := mockProfile(map[string]interface{}{
		"gift_tags":            []string{"Hospitality"},
		"availability_windows": []models.TimeWindow{models.WindowAnytime},
	})
	need := mockNeed(nil)

	result := ScoreCandidate(candidate, need)

	assert.Equal(t, 2, result.AvailabilityScore, "Anytime member should score 2")
	assert.True(t, result.AvailabilityIsCompatible)
	assert.Equal(t, 4, result.TotalScore)
}

func TestScoreCandidate_FlexibleNeed(t *testing.T) {
	candidate := mockProfile(map[string]interface{}{
		"gift_tags":            []string{"Hospitality"},
		"availability_windows": []models.TimeWindow{models.WindowNights},
	})
	need := mockNeed(map[string]interface{}{
		"effective_time_preference": models.WindowAnytime,
	})

	result := ScoreCandidate(candidate, need)

	assert.Equal(t, 1, result.AvailabilityScore, "Anytime need should score 1")
	assert.True(t, result.AvailabilityIsCompatible)
	assert.Equal(t, 3, result.TotalScore)
}

func TestScoreCandidate_IncompatibleAvailability(t *testing.T) {
	candidate := mockProfile(map[string]interface{}{
		"gift_tags":            []string{"Hospitality"},
		"availability_windows": []models.TimeWindow{models.WindowNights},
	})
	need := mockNeed(nil) // Mornings

	result := ScoreCandidate(candidate, need)

	assert.Equal(t, 0, result.AvailabilityScore)
	assert.False(t, result.AvailabilityIsCompatible)
	assert.Equal(t, 2, result.TotalScore, "Gift overlap still counts in the breakdown")
}

func TestScoreCandidate_ExactWindowBeatsAnytime(t *testing.T) {
	// A member listing both the exact window and Anytime gets the exact score.
	candidate := mockProfile(map[string]interface{}{
		"gift_tags":            []string{"Hospitality"},
		"availability_windows": []models.TimeWindow{models.WindowAnytime, models.WindowMornings},
	})
	need := mockNeed(nil)

	result := ScoreCandidate(candidate, need)

	assert.Equal(t, 3, result.AvailabilityScore)
}

func TestScoreCandidate_NoGiftOverlap(t *testing.T) {
	candidate := mockProfile(map[string]interface{}{
		"gift_tags": []string{"Accounting"},
	})
	need := mockNeed(nil)

	result := ScoreCandidate(candidate, need)

	assert.Equal(t, 0, result.GiftOverlapCount)
	assert.Empty(t, result.MatchingTags)
}

func TestScoreCandidate_EmptyRequiredTags(t *testing.T) {
	candidate := mockProfile(nil)
	need := mockNeed(map[string]interface{}{
		"required_tags": []string{},
	})

	result := ScoreCandidate(candidate, need)

	assert.Equal(t, 0, result.GiftOverlapCount, "A need without required tags should match nothing")
}

func TestScoreCandidate_CaseInsensitiveSubstringTags(t *testing.T) {
	candidate := mockProfile(map[string]interface{}{
		"gift_tags": []string{"Meal Prep/Cooking", "MUSIC"},
	})
	need := mockNeed(map[string]interface{}{
		"required_tags": []string{"cooking", "Worship Music Team"},
	})

	result := ScoreCandidate(candidate, need)

	assert.Equal(t, 2, result.GiftOverlapCount, "Substring matching should work in both directions, ignoring case")
	assert.Equal(t, []string{"Meal Prep/Cooking", "MUSIC"}, result.MatchingTags)
}

func TestScoreCandidate_GiftTagCountedOnce(t *testing.T) {
	candidate := mockProfile(map[string]interface{}{
		"gift_tags": []string{"Music"},
	})
	need := mockNeed(map[string]interface{}{
		"required_tags": []string{"Music", "music ministry"},
	})

	result := ScoreCandidate(candidate, need)

	assert.Equal(t, 1, result.GiftOverlapCount, "A gift tag hitting multiple required tags counts once")
}

func TestFindMatches_ExcludesNonMatching(t *testing.T) {
	candidates := []models.Profile{
		mockProfile(map[string]interface{}{
			"id":        int64(1),
			"gift_tags": []string{"Accounting"}, // no overlap
		}),
		mockProfile(map[string]interface{}{
			"id":                   int64(2),
			"availability_windows": []models.TimeWindow{models.WindowNights}, // incompatible
		}),
		mockProfile(map[string]interface{}{
			"id": int64(3), // matches
		}),
	}

	results := FindMatches(candidates, mockNeed(nil), 10)

	assert.Len(t, results, 1)
	assert.Equal(t, int64(3), results[0].Candidate.ID)
}

func TestFindMatches_SortedByScoreDescending(t *testing.T) {
	candidates := []models.Profile{
		mockProfile(map[string]interface{}{
			"id":                   int64(1),
			"gift_tags":            []string{"Hospitality"},
			"availability_windows": []models.TimeWindow{models.WindowAnytime}, // 1*2+2 = 4
		}),
		mockProfile(map[string]interface{}{
			"id":                   int64(2),
			"gift_tags":            []string{"Hospitality", "Greeting"},
			"availability_windows": []models.TimeWindow{models.WindowMornings}, // 2*2+3 = 7
		}),
		mockProfile(map[string]interface{}{
			"id": int64(3), // 1*2+3 = 5
		}),
	}
	need := mockNeed(map[string]interface{}{
		"required_tags": []string{"Hospitality", "Greeting"},
	})

	results := FindMatches(candidates, need, 10)

	assert.Len(t, results, 3)
	assert.Equal(t, int64(2), results[0].Candidate.ID)
	assert.Equal(t, 7, results[0].TotalScore)
	assert.Equal(t, int64(3), results[1].Candidate.ID)
	assert.Equal(t, int64(1), results[2].Candidate.ID)
}

func TestFindMatches_StableOrderOnTies(t *testing.T) {
	// Three identical candidates; ties must keep the pool's input order.
	candidates := []models.Profile{
		mockProfile(map[string]interface{}{"id": int64(10)}),
		mockProfile(map[string]interface{}{"id": int64(20)}),
		mockProfile(map[string]interface{}{"id": int64(30)}),
	}

	results := FindMatches(candidates, mockNeed(nil), 10)

	assert.Len(t, results, 3)
	assert.Equal(t, int64(10), results[0].Candidate.ID)
	assert.Equal(t, int64(20), results[1].Candidate.ID)
	assert.Equal(t, int64(30), results[2].Candidate.ID)
}

func TestFindMatches_TruncatesToMaxResults(t *testing.T) {
	candidates := make([]models.Profile, 0, 15)
	for i := 0; i < 15; i++ {
		candidates = append(candidates, mockProfile(map[string]interface{}{
			"id":        int64(i + 1),
			"member_id": fmt.Sprintf("MEM%03d", i+1),
		}))
	}

	results := FindMatches(candidates, mockNeed(nil), 5)

	assert.Len(t, results, 5)
}

func TestFindMatches_DefaultMaxResults(t *testing.T) {
	candidates := make([]models.Profile, 0, 15)
	for i := 0; i < 15; i++ {
		candidates = append(candidates, mockProfile(map[string]interface{}{
			"id":        int64(i + 1),
			"member_id": fmt.Sprintf("MEM%03d", i+1),
		}))
	}

	results := FindMatches(candidates, mockNeed(nil), 0)

	assert.Len(t, results, DefaultMaxResults, "Non-positive maxResults should fall back to the default cap")
}

func TestFindMatches_EmptyPool(t *testing.T) {
	results := FindMatches(nil, mockNeed(nil), 10)

	assert.NotNil(t, results)
	assert.Empty(t, results)
}
