// Package handlers provides HTTP handlers for the Engage matching engine.
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	appConfig "engage-matching-engine/internal/config"
	"engage-matching-engine/internal/models"
	"engage-matching-engine/internal/services/database"
	"engage-matching-engine/internal/services/matcher"
	"engage-matching-engine/internal/services/ses"
	"engage-matching-engine/internal/utils"
)

// MatchDigestHandler emails a need's ranked match list to its leader.
type MatchDigestHandler struct {
	matcherSvc *matcher.Service
	sesService *ses.Service
}

// NewMatchDigestHandler creates a new match digest handler.
func NewMatchDigestHandler() (*MatchDigestHandler, error) {
	cfg, err := appConfig.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load app config: %w", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	matcherSvc, err := matcher.NewService(db, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create matcher service: %w", err)
	}

	sesService, err := ses.NewService(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to create SES service: %w", err)
	}

	return &MatchDigestHandler{
		matcherSvc: matcherSvc,
		sesService: sesService,
	}, nil
}

// MatchDigestRequest is the request body for sending a match digest.
type MatchDigestRequest struct {
	NeedID       string `json:"need_id"`
	LeaderName   string `json:"leader_name"`
	LeaderEmail  string `json:"leader_email"`
	DashboardURL string `json:"dashboard_url,omitempty"`
}

// MatchDigestResponse is the response for a digest request.
type MatchDigestResponse struct {
	Message      string `json:"message"`
	NeedID       string `json:"need_id"`
	MatchesFound int    `json:"matches_found"`
	MessageID    string `json:"message_id,omitempty"`
}

// Handle processes API Gateway requests to send a match digest email.
func (h *MatchDigestHandler) Handle(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	logger := utils.GetLogger()

	// CORS headers
	headers := map[string]string{
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Headers": "Content-Type,Authorization",
		"Access-Control-Allow-Methods": "POST,OPTIONS",
		"Content-Type":                 "application/json",
	}

	// Handle CORS preflight
	if request.HTTPMethod == "OPTIONS" {
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusOK,
			Headers:    headers,
		}, nil
	}

	var req MatchDigestRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return errorResponse(headers, http.StatusBadRequest, "Invalid JSON in request body")
	}

	if req.NeedID == "" {
		return errorResponse(headers, http.StatusBadRequest, "Missing required field: need_id")
	}
	if req.LeaderEmail == "" {
		return errorResponse(headers, http.StatusBadRequest, "Missing required field: leader_email")
	}

	// The pipeline returns the resolved need it scored against, so the digest
	// cannot drift from the computed results.
	_, resolved, results, err := h.matcherSvc.ProcessNeed(ctx, req.NeedID)
	if err != nil {
		if err == models.ErrNeedNotFound {
			return errorResponse(headers, http.StatusNotFound, "Need not found")
		}
		logger.Error("Matching failed", utils.String("needID", req.NeedID), utils.Error(err))
		return errorResponse(headers, http.StatusInternalServerError, "Matching failed")
	}

	response := MatchDigestResponse{
		NeedID:       req.NeedID,
		MatchesFound: len(results),
	}

	if len(results) == 0 {
		response.Message = "No matches found, digest not sent"
		body, _ := json.Marshal(response)
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusOK,
			Headers:    headers,
			Body:       string(body),
		}, nil
	}

	params := ses.BuildMatchDigestParams(req.LeaderName, req.LeaderEmail, *resolved, results, req.DashboardURL)

	sent, err := h.sesService.SendMatchDigest(ctx, params)
	if err != nil {
		logger.Error("Failed to send match digest",
			utils.String("needID", req.NeedID),
			utils.Error(err))
		return errorResponse(headers, http.StatusInternalServerError, "Failed to send digest email")
	}

	response.Message = "Match digest sent"
	response.MessageID = sent.MessageID

	body, _ := json.Marshal(response)

	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers:    headers,
		Body:       string(body),
	}, nil
}
