// Package matcher implements the profile-need scoring and ranking core.
package matcher

import (
	"sort"
	"strings"

	"engage-matching-engine/internal/models"
)

// DefaultMaxResults is the suggested cap for a ranked match list.
const DefaultMaxResults = 10

// Availability scores. Evaluated as an ordered cascade; the first matching
// condition wins.
const (
	availabilityPerfect      = 3 // need's window is in the candidate's windows
	availabilityFlexMember   = 2 // candidate selected Anytime
	availabilityFlexNeed     = 1 // need resolves to Anytime
	availabilityIncompatible = 0
)

// Gift overlap counts double relative to availability when ranking: skill
// match matters more than scheduling convenience.
const giftOverlapWeight = 2

// FindMatches ranks a candidate pool against one resolved need and returns at
// most maxResults top matches.
//
// Candidates are scored independently, filtered to those with at least one
// matching gift tag and a compatible availability window, then sorted by total
// score descending. The sort is stable, so ties keep the input pool's order.
func FindMatches(candidates []models.Profile, need models.ResolvedNeed, maxResults int) []models.MatchResult {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	results := make([]models.MatchResult, 0, len(candidates))
	for _, candidate := range candidates {
		result := ScoreCandidate(candidate, need)
		if result.GiftOverlapCount == 0 || !result.AvailabilityIsCompatible {
			continue
		}
		results = append(results, result)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].TotalScore > results[j].TotalScore
	})

	if len(results) > maxResults {
		results = results[:maxResults]
	}

	return results
}

// ScoreCandidate computes the full score breakdown for a single candidate.
// It never fails: missing or malformed tags and windows degrade to a
// non-match.
func ScoreCandidate(candidate models.Profile, need models.ResolvedNeed) models.MatchResult {
	matchingTags := matchGiftTags(candidate.GiftTags, need.RequiredTags)
	availScore := availabilityScore(candidate.AvailabilityWindows, need.EffectiveTimePreference)
	compatible := availabilityCompatible(candidate.AvailabilityWindows, need.EffectiveTimePreference)

	return models.MatchResult{
		Candidate:                candidate,
		GiftOverlapCount:         len(matchingTags),
		MatchingTags:             matchingTags,
		AvailabilityScore:        availScore,
		AvailabilityIsCompatible: compatible,
		TotalScore:               len(matchingTags)*giftOverlapWeight + availScore,
		EffectiveTimePreference:  need.EffectiveTimePreference,
	}
}

// matchGiftTags collects the candidate tags that match at least one required
// tag. Matching is a case-insensitive substring relation in both directions,
// which tolerates free-text drift like "Cooking" vs "Meal Prep/Cooking".
// A need with zero required tags matches nothing.
func matchGiftTags(giftTags, requiredTags []string) []string {
	matching := make([]string, 0)
	for _, gift := range giftTags {
		for _, required := range requiredTags {
			if tagsOverlap(gift, required) {
				matching = append(matching, gift)
				break
			}
		}
	}
	return matching
}

// tagsOverlap reports whether either lower-cased tag contains the other.
func tagsOverlap(a, b string) bool {
	la := strings.ToLower(a)
	lb := strings.ToLower(b)
	return strings.Contains(la, lb) || strings.Contains(lb, la)
}

// availabilityScore rates how well the candidate's windows fit the need's
// effective time preference.
func availabilityScore(windows []models.TimeWindow, pref models.TimeWindow) int {
	switch {
	case containsWindow(windows, pref):
		return availabilityPerfect
	case containsWindow(windows, models.WindowAnytime):
		return availabilityFlexMember
	case pref == models.WindowAnytime:
		return availabilityFlexNeed
	default:
		return availabilityIncompatible
	}
}

// availabilityCompatible is the hard inclusion filter. It holds exactly when
// the availability score is at least 1, but it is a named predicate of its
// own because ranking weight and inclusion are separate concerns.
func availabilityCompatible(windows []models.TimeWindow, pref models.TimeWindow) bool {
	return containsWindow(windows, pref) ||
		containsWindow(windows, models.WindowAnytime) ||
		pref == models.WindowAnytime
}

func containsWindow(windows []models.TimeWindow, w models.TimeWindow) bool {
	for _, candidate := range windows {
		if candidate == w {
			return true
		}
	}
	return false
}
