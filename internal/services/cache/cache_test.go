package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"engage-matching-engine/internal/models"
)

func newTestCache(t *testing.T) (*MatchCache, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewWithClient(client, 5*time.Minute), mr
}

func sampleResults() []models.MatchResult {
	return []models.MatchResult{
		{
			Candidate:                models.Profile{ID: 1, MemberID: "MEM001"},
			GiftOverlapCount:         2,
			MatchingTags:             []string{"Music", "Teaching"},
			AvailabilityScore:        3,
			AvailabilityIsCompatible: true,
			TotalScore:               7,
			EffectiveTimePreference:  models.WindowMornings,
		},
		{
			Candidate:                models.Profile{ID: 2, MemberID: "MEM002"},
			GiftOverlapCount:         1,
			MatchingTags:             []string{"Music"},
			AvailabilityScore:        2,
			AvailabilityIsCompatible: true,
			TotalScore:               4,
			EffectiveTimePreference:  models.WindowMornings,
		},
	}
}

func TestMatchCache_RoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetMatches(ctx, "need-001", sampleResults()))

	cached, hit := c.GetMatches(ctx, "need-001")
	require.True(t, hit)
	require.Len(t, cached, 2)
	assert.Equal(t, "MEM001", cached[0].Candidate.MemberID)
	assert.Equal(t, 7, cached[0].TotalScore)
	assert.Equal(t, models.WindowMornings, cached[0].EffectiveTimePreference)
}

func TestMatchCache_Miss(t *testing.T) {
	c, _ := newTestCache(t)

	cached, hit := c.GetMatches(context.Background(), "need-unknown")

	assert.False(t, hit)
	assert.Nil(t, cached)
}

func TestMatchCache_Invalidate(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetMatches(ctx, "need-001", sampleResults()))
	require.NoError(t, c.Invalidate(ctx, "need-001"))

	_, hit := c.GetMatches(ctx, "need-001")
	assert.False(t, hit)
}

func TestMatchCache_InvalidateMissingKey(t *testing.T) {
	c, _ := newTestCache(t)

	assert.NoError(t, c.Invalidate(context.Background(), "need-unknown"))
}

func TestMatchCache_CorruptEntrySelfHeals(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, mr.Set("engage:matches:need-001", "not json"))

	_, hit := c.GetMatches(ctx, "need-001")
	assert.False(t, hit, "Corrupt entries should read as misses")

	assert.False(t, mr.Exists("engage:matches:need-001"), "Corrupt entries should be deleted on read")
}

func TestMatchCache_EntriesExpire(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetMatches(ctx, "need-001", sampleResults()))

	mr.FastForward(6 * time.Minute)

	_, hit := c.GetMatches(ctx, "need-001")
	assert.False(t, hit)
}
