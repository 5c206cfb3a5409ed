package ses

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"engage-matching-engine/internal/models"
)

func digestNeed() models.ResolvedNeed {
	return models.ResolvedNeed{
		Need: models.Need{
			NeedID: "need-001",
			Title:  "Sunday Welcome Team",
		},
		EffectiveTimePreference: models.WindowMornings,
	}
}

func TestBuildMatchDigestParams(t *testing.T) {
	results := []models.MatchResult{
		{
			Candidate: models.Profile{
				MemberID:            "MEM001",
				FullName:            "Dana Example",
				AvailabilityWindows: []models.TimeWindow{models.WindowMornings},
			},
			MatchingTags: []string{"Hospitality", "Greeting"},
			TotalScore:   7,
		},
		{
			Candidate:    models.Profile{MemberID: "MEM002"},
			MatchingTags: []string{"Hospitality"},
			TotalScore:   4,
		},
	}

	params := BuildMatchDigestParams("Pastor Kim", "kim@church.org", digestNeed(), results, "https://engage.example/needs/need-001")

	assert.Equal(t, "Pastor Kim", params.LeaderName)
	assert.Equal(t, "kim@church.org", params.LeaderEmail)
	assert.Equal(t, "Sunday Welcome Team", params.NeedTitle)
	assert.Equal(t, 2, params.MatchCount)
	require.Len(t, params.TopMatches, 2)

	assert.Equal(t, "Dana Example", params.TopMatches[0].MemberName)
	assert.Equal(t, "Hospitality, Greeting", params.TopMatches[0].MatchedGifts)
	assert.Equal(t, "Mornings", params.TopMatches[0].Availability)
	assert.Equal(t, 7, params.TopMatches[0].TotalScore)

	// Missing name falls back to the member ID, missing windows read as flexible
	assert.Equal(t, "MEM002", params.TopMatches[1].MemberName)
	assert.Equal(t, "flexible", params.TopMatches[1].Availability)
}

func TestRenderMatchDigestText(t *testing.T) {
	svc := &Service{}
	params := MatchDigestParams{
		LeaderName: "Pastor Kim",
		NeedTitle:  "Sunday Welcome Team",
		MatchCount: 1,
		TopMatches: []MatchLine{
			{MemberName: "Dana Example", MatchedGifts: "Hospitality", Availability: "Mornings", TotalScore: 5},
		},
		DashboardURL: "https://engage.example/needs/need-001",
	}

	text := svc.renderMatchDigestText(params)

	assert.Contains(t, text, "Hi Pastor Kim")
	assert.Contains(t, text, "Sunday Welcome Team")
	assert.Contains(t, text, "Matched gifts: Hospitality")
	assert.Contains(t, text, "https://engage.example/needs/need-001")
}

func TestRenderMatchDigestHTML(t *testing.T) {
	svc := &Service{}
	params := MatchDigestParams{
		LeaderName: "Pastor Kim",
		NeedTitle:  "Sunday Welcome Team",
		MatchCount: 1,
		TopMatches: []MatchLine{
			{MemberName: "Dana Example", MatchedGifts: "Hospitality", Availability: "Mornings", TotalScore: 5},
		},
	}

	html, err := svc.renderMatchDigestHTML(params)

	require.NoError(t, err)
	assert.Contains(t, html, "Dana Example")
	assert.Contains(t, html, "Hospitality")
}
