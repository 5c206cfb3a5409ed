// Package notify builds notification payloads for matched members and hands
// them to the external n8n workflow trigger. Delivery itself is the
// workflow's job; this package only produces and posts the data it needs.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"engage-matching-engine/internal/metrics"
	"engage-matching-engine/internal/models"
	"engage-matching-engine/internal/utils"
)

// Service posts match notification batches to the n8n webhook.
type Service struct {
	webhookURL string
	client     *http.Client
}

// NewService creates a notification service for the given webhook URL.
func NewService(webhookURL string) *Service {
	return &Service{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 30 * time.Second},
	}
}

// BuildPayloads converts a ranked match list into per-recipient workflow
// payloads.
func BuildPayloads(need models.ResolvedNeed, results []models.MatchResult) []models.NotificationPayload {
	payloads := make([]models.NotificationPayload, 0, len(results))

	for _, result := range results {
		payloads = append(payloads, models.NotificationPayload{
			RecipientID:             result.Candidate.MemberID,
			RecipientEmail:          result.Candidate.Email,
			NeedID:                  need.NeedID,
			NeedTitle:               need.Title,
			NeedDescription:         need.Description,
			MatchedGifts:            strings.Join(result.MatchingTags, ", "),
			EffectiveTimePreference: need.EffectiveTimePreference,
			AvailabilityScore:       result.AvailabilityScore,
		})
	}

	return payloads
}

// TriggerBatch posts a batch of payloads to the notification workflow.
// A missing webhook URL is a no-op so local development works without n8n.
func (s *Service) TriggerBatch(ctx context.Context, runID string, payloads []models.NotificationPayload) error {
	logger := utils.GetLogger()

	if len(payloads) == 0 {
		return nil
	}

	if s.webhookURL == "" {
		logger.Warn("Notification webhook not configured, skipping",
			utils.String("runID", runID),
			utils.Int("payloads", len(payloads)))
		return nil
	}

	body := map[string]interface{}{
		"run_id":        runID,
		"source":        "matching_engine",
		"timestamp":     time.Now().UTC().Format(time.RFC3339),
		"notifications": payloads,
	}

	if err := s.post(ctx, body); err != nil {
		logger.Error("Failed to trigger notification workflow",
			utils.String("runID", runID),
			utils.Error(err))
		return err
	}

	metrics.NotificationsTriggeredTotal.Add(float64(len(payloads)))

	logger.Info("Notification workflow triggered",
		utils.String("runID", runID),
		utils.Int("recipients", len(payloads)))

	return nil
}

// post sends a JSON POST to the n8n webhook.
func (s *Service) post(ctx context.Context, payload map[string]interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return nil
}
