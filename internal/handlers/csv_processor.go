// Package handlers provides HTTP handlers for the Engage matching engine.
package handlers

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/aws/aws-lambda-go/events"

	appConfig "engage-matching-engine/internal/config"
	"engage-matching-engine/internal/services/database"
	s3service "engage-matching-engine/internal/services/s3"
	"engage-matching-engine/internal/utils"
)

// CSVProcessorHandler handles S3 events for member import CSV processing.
type CSVProcessorHandler struct {
	s3Service   *s3service.Service
	db          *database.DB
	profileRepo *database.ProfileRepository
	webhookURL  string
}

// NewCSVProcessorHandler creates a new CSV processor handler.
func NewCSVProcessorHandler() (*CSVProcessorHandler, error) {
	s3Svc, err := s3service.NewService(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 service: %w", err)
	}

	cfg, err := appConfig.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load app config: %w", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &CSVProcessorHandler{
		s3Service:   s3Svc,
		db:          db,
		profileRepo: database.NewProfileRepository(db),
		webhookURL:  cfg.N8NWebhookURL,
	}, nil
}

// CSVProcessResult is the result of processing a member import CSV.
type CSVProcessResult struct {
	Message  string   `json:"message"`
	BatchID  string   `json:"batch_id"`
	Inserted int      `json:"inserted"`
	Failed   int      `json:"failed"`
	Errors   []string `json:"errors,omitempty"`
}

// Handle processes S3 events for uploaded member import CSVs.
func (h *CSVProcessorHandler) Handle(ctx context.Context, s3Event events.S3Event) (CSVProcessResult, error) {
	logger := utils.GetLogger()

	if len(s3Event.Records) == 0 {
		return CSVProcessResult{Message: "No records to process"}, nil
	}

	record := s3Event.Records[0]
	bucket := record.S3.Bucket.Name
	key, err := url.QueryUnescape(record.S3.Object.Key)
	if err != nil {
		return CSVProcessResult{}, fmt.Errorf("failed to decode S3 key: %w", err)
	}

	logger.Info("Processing member import CSV",
		utils.String("bucket", bucket),
		utils.String("key", key))

	// Download CSV from S3
	data, err := h.s3Service.DownloadFile(ctx, key)
	if err != nil {
		logger.Error("Failed to download CSV", utils.Error(err))
		return CSVProcessResult{}, fmt.Errorf("failed to download CSV: %w", err)
	}
	csvContent := string(data)
	if csvContent == "" {
		return CSVProcessResult{}, fmt.Errorf("CSV file is empty")
	}

	// Generate batch ID
	batchID := generateBatchID(key)

	// Parse CSV
	parser := utils.NewCSVParser()
	profiles, parseErrors := parser.ParseMembers(csvContent, batchID)

	if len(profiles) == 0 {
		errMsgs := make([]string, len(parseErrors))
		for i, e := range parseErrors {
			errMsgs[i] = e.Error()
		}
		return CSVProcessResult{
			Message: "No valid members found in CSV",
			BatchID: batchID,
			Errors:  errMsgs,
		}, nil
	}

	logger.Info("Parsed CSV",
		utils.String("batchID", batchID),
		utils.Int("validMembers", len(profiles)),
		utils.Int("parseErrors", len(parseErrors)))

	// Insert profiles into database
	result, err := h.profileRepo.BulkInsert(ctx, profiles)
	if err != nil {
		logger.Error("Failed to insert profiles", utils.Error(err))
		return CSVProcessResult{}, fmt.Errorf("failed to insert profiles: %w", err)
	}

	logger.Info("Inserted profiles",
		utils.String("batchID", batchID),
		utils.Int("inserted", result.InsertedCount),
		utils.Int("failed", result.FailedCount))

	// Trigger n8n webhook if profiles were inserted
	if result.InsertedCount > 0 && h.webhookURL != "" {
		if err := h.triggerWebhook(ctx, batchID, result.InsertedCount); err != nil {
			logger.Warn("Failed to trigger n8n webhook", utils.Error(err))
		}
	}

	// Remove the processed import file
	if err := h.s3Service.DeleteFile(ctx, key); err != nil {
		logger.Warn("Failed to delete processed import", utils.String("key", key), utils.Error(err))
	}

	// Combine parse errors with insert errors
	allErrors := make([]string, 0)
	for _, e := range parseErrors {
		allErrors = append(allErrors, e.Error())
	}
	allErrors = append(allErrors, result.Errors...)

	// Limit errors in response
	if len(allErrors) > 10 {
		allErrors = allErrors[:10]
	}

	return CSVProcessResult{
		Message:  "CSV processed successfully",
		BatchID:  batchID,
		Inserted: result.InsertedCount,
		Failed:   result.FailedCount + len(parseErrors),
		Errors:   allErrors,
	}, nil
}

// generateBatchID generates a unique batch ID for this upload.
func generateBatchID(key string) string {
	timestamp := time.Now().UTC().Format(time.RFC3339)
	hash := sha256.Sum256([]byte(key + timestamp))
	return hex.EncodeToString(hash[:])[:16]
}

// triggerWebhook notifies the review workflow that a new batch arrived.
func (h *CSVProcessorHandler) triggerWebhook(ctx context.Context, batchID string, memberCount int) error {
	payload := map[string]interface{}{
		"batch_id":     batchID,
		"member_count": memberCount,
		"trigger_type": "csv_upload",
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", h.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return nil
}
