// Package matcher implements the profile-need scoring and ranking core.
package matcher

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"engage-matching-engine/internal/config"
	"engage-matching-engine/internal/metrics"
	"engage-matching-engine/internal/models"
	"engage-matching-engine/internal/services/cache"
	"engage-matching-engine/internal/services/database"
	"engage-matching-engine/internal/services/notify"
	"engage-matching-engine/internal/utils"
)

// Service orchestrates matching runs: it loads the need and candidate pool,
// resolves the need's time preference, runs the scoring core, persists and
// caches the ranked list, and hands notification payloads to the workflow
// trigger.
type Service struct {
	db          *database.DB
	profileRepo *database.ProfileRepository
	needRepo    *database.NeedRepository
	matchRepo   *database.MatchRepository
	matchCache  *cache.MatchCache
	notifier    *notify.Service
	config      *config.Config
}

// NewService creates a new matcher service. The cache is optional; a nil
// cache disables caching without changing results.
func NewService(db *database.DB, matchCache *cache.MatchCache) (*Service, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return &Service{
		db:          db,
		profileRepo: database.NewProfileRepository(db),
		needRepo:    database.NewNeedRepository(db),
		matchRepo:   database.NewMatchRepository(db),
		matchCache:  matchCache,
		notifier:    notify.NewService(cfg.N8NNotificationWebhookURL),
		config:      cfg,
	}, nil
}

// ProcessNeed runs the full matching pipeline for one need, identified by its
// external need ID. The returned ResolvedNeed carries the exact time
// preference the results were scored against.
func (s *Service) ProcessNeed(ctx context.Context, needID string) (*models.RunSummary, *models.ResolvedNeed, []models.MatchResult, error) {
	startTime := time.Now()
	logger := utils.GetLogger()

	need, err := s.needRepo.GetByNeedID(ctx, needID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load need: %w", err)
	}
	if need == nil {
		return nil, nil, nil, models.ErrNeedNotFound
	}

	resolved := &models.ResolvedNeed{
		Need:                    *need,
		EffectiveTimePreference: ResolveEffectiveTimePreference(*need),
	}

	// Cache hit short-circuits the pool load and recompute
	if s.matchCache != nil {
		if cached, ok := s.matchCache.GetMatches(ctx, needID); ok {
			metrics.MatchingRunsTotal.WithLabelValues("cached").Inc()
			return &models.RunSummary{
				NeedID:         needID,
				MatchesFound:   len(cached),
				FromCache:      true,
				ProcessingTime: time.Since(startTime),
			}, resolved, cached, nil
		}
	}

	candidates, err := s.profileRepo.GetApprovedActive(ctx)
	if err != nil {
		metrics.MatchingRunsTotal.WithLabelValues("failed").Inc()
		return nil, nil, nil, fmt.Errorf("failed to load candidate pool: %w", err)
	}
	metrics.CandidatePoolSize.Set(float64(len(candidates)))

	logger.Info("Starting matching run",
		utils.String("needID", needID),
		utils.String("effectiveTimePreference", string(resolved.EffectiveTimePreference)),
		utils.Int("candidates", len(candidates)))

	results := FindMatches(candidates, *resolved, s.config.MatchMaxResults)

	runID := uuid.New().String()
	summary := &models.RunSummary{
		RunID:             runID,
		NeedID:            needID,
		CandidatePoolSize: len(candidates),
		MatchesFound:      len(results),
	}

	inserted, failed, err := s.matchRepo.BulkInsert(ctx, s.toMatchCreates(need.ID, runID, results))
	if err != nil {
		metrics.MatchingRunsTotal.WithLabelValues("failed").Inc()
		return nil, nil, nil, fmt.Errorf("failed to save matches: %w", err)
	}
	summary.MatchesPersisted = inserted

	if failed > 0 {
		logger.Warn("Some matches failed to persist",
			utils.String("runID", runID),
			utils.Int("failed", failed))
	}

	if s.matchCache != nil {
		if err := s.matchCache.SetMatches(ctx, needID, results); err != nil {
			logger.Warn("Failed to cache matches", utils.Error(err))
		}
	}

	summary.ProcessingTime = time.Since(startTime)
	metrics.MatchingRunsTotal.WithLabelValues("computed").Inc()
	metrics.MatchesFoundTotal.Add(float64(len(results)))
	metrics.MatchingDuration.Observe(summary.ProcessingTime.Seconds())

	logger.Info("Matching run complete",
		utils.String("runID", runID),
		utils.Int("matches", len(results)),
		utils.Duration("processingTime", summary.ProcessingTime))

	return summary, resolved, results, nil
}

// NotifyRun hands pending notification payloads for a run to the workflow
// trigger and stamps the matches as notified.
func (s *Service) NotifyRun(ctx context.Context, runID string) error {
	pending, err := s.matchRepo.GetPendingNotifications(ctx, runID)
	if err != nil {
		return fmt.Errorf("failed to load pending notifications: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	// All matches in a run share the same need
	need, err := s.needRepo.GetByID(ctx, pending[0].NeedID)
	if err != nil {
		return fmt.Errorf("failed to load need: %w", err)
	}
	if need == nil {
		return models.ErrNeedNotFound
	}

	resolved := models.ResolvedNeed{
		Need:                    *need,
		EffectiveTimePreference: ResolveEffectiveTimePreference(*need),
	}

	results := make([]models.MatchResult, 0, len(pending))
	matchIDs := make([]int64, 0, len(pending))
	for _, m := range pending {
		results = append(results, models.MatchResult{
			Candidate: models.Profile{
				MemberID: m.MemberID,
				FullName: m.MemberName,
				Email:    m.MemberEmail,
			},
			GiftOverlapCount:  m.GiftOverlapCount,
			MatchingTags:      m.MatchingTags,
			AvailabilityScore: m.AvailabilityScore,
			TotalScore:        m.TotalScore,
		})
		matchIDs = append(matchIDs, m.ID)
	}
	payloads := notify.BuildPayloads(resolved, results)

	if err := s.notifier.TriggerBatch(ctx, runID, payloads); err != nil {
		return err
	}

	return s.matchRepo.MarkNotified(ctx, matchIDs)
}

// InvalidateNeed drops the cached ranked list after a need or its pool
// changes.
func (s *Service) InvalidateNeed(ctx context.Context, needID string) error {
	if s.matchCache == nil {
		return nil
	}
	return s.matchCache.Invalidate(ctx, needID)
}

// toMatchCreates converts ranked results to persistence models.
func (s *Service) toMatchCreates(needDBID int64, runID string, results []models.MatchResult) []*models.MatchCreate {
	matches := make([]*models.MatchCreate, len(results))

	for i, r := range results {
		matches[i] = &models.MatchCreate{
			ProfileID:         r.Candidate.ID,
			NeedID:            needDBID,
			TotalScore:        r.TotalScore,
			GiftOverlapCount:  r.GiftOverlapCount,
			MatchingTags:      r.MatchingTags,
			AvailabilityScore: r.AvailabilityScore,
			Status:            models.MatchStatusSuggested,
			RunID:             runID,
		}
	}

	return matches
}
