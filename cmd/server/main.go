// Package main provides a local HTTP server for development and testing.
// It exposes the matching, import, and notification-trigger endpoints the
// Engage admin frontend talks to, plus Prometheus metrics.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"engage-matching-engine/internal/config"
	"engage-matching-engine/internal/metrics"
	"engage-matching-engine/internal/models"
	"engage-matching-engine/internal/services/cache"
	"engage-matching-engine/internal/services/database"
	"engage-matching-engine/internal/services/matcher"
	"engage-matching-engine/internal/utils"

	"github.com/google/uuid"
	"github.com/rs/cors"
)

// Server holds all dependencies
type Server struct {
	db          *database.DB
	profileRepo *database.ProfileRepository
	needRepo    *database.NeedRepository
	matchRepo   *database.MatchRepository
	matcher     *matcher.Service
	config      *config.Config
}

// Response represents a standard API response
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// UploadResponse contains CSV import processing results
type UploadResponse struct {
	BatchID      string `json:"batch_id"`
	TotalRows    int    `json:"total_rows"`
	ValidMembers int    `json:"valid_members"`
	Errors       int    `json:"errors"`
	ProcessingMs int64  `json:"processing_ms"`
}

func main() {
	// Initialize logger first
	if err := utils.InitLogger(getEnvOrDefault("LOG_LEVEL", "info")); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer utils.Sync()

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Printf("Warning: Could not load config from environment: %v", err)
		cfg = &config.Config{}
	}

	// Initialize database
	db, err := database.New(cfg)
	if err != nil {
		log.Printf("Warning: Could not connect to database: %v", err)
		log.Println("Server will run in demo mode without database")
	}

	server := &Server{
		db:     db,
		config: cfg,
	}

	if db != nil {
		server.profileRepo = database.NewProfileRepository(db)
		server.needRepo = database.NewNeedRepository(db)
		server.matchRepo = database.NewMatchRepository(db)

		matchCache := cache.New(cfg)
		if err := matchCache.Ping(context.Background()); err != nil {
			log.Printf("Warning: Could not connect to Redis, match caching disabled: %v", err)
			matchCache = nil
		}

		matcherSvc, err := matcher.NewService(db, matchCache)
		if err != nil {
			log.Printf("Warning: Could not initialize matcher service: %v", err)
		}
		server.matcher = matcherSvc
	}

	// Setup routes
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", server.healthHandler)
	mux.HandleFunc("/api/health", server.healthHandler)

	// Prometheus metrics
	mux.Handle("/metrics", metrics.Handler())

	// Needs
	mux.HandleFunc("/api/needs", server.needsHandler)
	mux.HandleFunc("/api/needs/approve", server.approveNeedHandler)

	// Profiles
	mux.HandleFunc("/api/profiles/approve", server.approveProfileHandler)

	// Matching
	mux.HandleFunc("/api/matching/run", server.runMatchingHandler)
	mux.HandleFunc("/api/matches", server.matchesHandler)

	// Notification workflow trigger
	mux.HandleFunc("/api/trigger/notification", server.triggerNotificationHandler)

	// Member CSV import (for local testing without S3)
	mux.HandleFunc("/api/upload", server.uploadHandler)

	// Setup CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	handler := c.Handler(mux)

	port := getEnvOrDefault("PORT", "8080")
	addr := fmt.Sprintf("0.0.0.0:%s", port)

	log.Printf("Engage Matching Engine API Server")
	log.Printf("Listening on http://localhost:%s", port)
	log.Printf("Health: http://localhost:%s/health", port)
	log.Printf("Metrics: http://localhost:%s/metrics", port)
	log.Println("")

	// Start server (this blocks until error)
	log.Printf("Starting HTTP server on %s...", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	dbStatus := "disconnected"
	if s.db != nil {
		if err := s.db.HealthCheck(r.Context()); err == nil {
			dbStatus = "connected"
		}
	}

	response := Response{
		Success: true,
		Message: "Engage Matching Engine API is running",
		Data: map[string]interface{}{
			"status":    "healthy",
			"database":  dbStatus,
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   "1.0.0",
		},
	}

	writeJSON(w, http.StatusOK, response)
}

// needsHandler lists approved open needs (GET) or creates a need (POST).
func (s *Server) needsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if s.needRepo == nil {
			writeJSON(w, http.StatusOK, Response{Success: true, Data: []models.Need{}})
			return
		}

		needs, err := s.needRepo.GetApprovedOpen(r.Context())
		if err != nil {
			log.Printf("Error fetching needs: %v", err)
			writeJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to fetch needs"})
			return
		}

		writeJSON(w, http.StatusOK, Response{Success: true, Data: needs})

	case http.MethodPost:
		if s.needRepo == nil {
			writeJSON(w, http.StatusServiceUnavailable, Response{Success: false, Error: "Database not available"})
			return
		}

		var req models.NeedCreate
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
			return
		}
		if req.NeedID == "" {
			req.NeedID = uuid.New().String()
		}

		id, err := s.needRepo.Create(r.Context(), &req)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, Response{Success: false, Error: err.Error()})
			return
		}

		writeJSON(w, http.StatusOK, Response{
			Success: true,
			Message: "Need created",
			Data:    map[string]interface{}{"id": id, "need_id": req.NeedID},
		})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// approveNeedHandler flips a need to approved so it becomes matchable.
func (s *Server) approveNeedHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if s.needRepo == nil {
		writeJSON(w, http.StatusServiceUnavailable, Response{Success: false, Error: "Database not available"})
		return
	}

	var req struct {
		ID     int64  `json:"id"`
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == 0 {
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}
	if req.Status == "" {
		req.Status = string(models.NeedStatusApproved)
	}

	if err := s.needRepo.UpdateStatus(r.Context(), req.ID, models.NeedStatus(req.Status)); err != nil {
		writeJSON(w, http.StatusNotFound, Response{Success: false, Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, Response{Success: true, Message: "Need status updated"})
}

// approveProfileHandler flips a profile's approval status.
func (s *Server) approveProfileHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if s.profileRepo == nil {
		writeJSON(w, http.StatusServiceUnavailable, Response{Success: false, Error: "Database not available"})
		return
	}

	var req struct {
		ID     int64  `json:"id"`
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == 0 {
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}
	if req.Status == "" {
		req.Status = string(models.ProfileStatusApproved)
	}

	if err := s.profileRepo.UpdateStatus(r.Context(), req.ID, models.ProfileStatus(req.Status)); err != nil {
		writeJSON(w, http.StatusNotFound, Response{Success: false, Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, Response{Success: true, Message: "Profile status updated"})
}

// runMatchingHandler computes the ranked match list for one need.
func (s *Server) runMatchingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if s.matcher == nil {
		writeJSON(w, http.StatusServiceUnavailable, Response{Success: false, Error: "Matcher not available"})
		return
	}

	var req struct {
		NeedID string `json:"need_id"`
		Notify bool   `json:"notify"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.NeedID == "" {
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Missing required field: need_id"})
		return
	}

	summary, _, results, err := s.matcher.ProcessNeed(r.Context(), req.NeedID)
	if err != nil {
		if err == models.ErrNeedNotFound {
			writeJSON(w, http.StatusNotFound, Response{Success: false, Error: "Need not found"})
			return
		}
		log.Printf("Matching failed for need %s: %v", req.NeedID, err)
		writeJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Matching failed: " + err.Error()})
		return
	}

	if req.Notify && summary.RunID != "" {
		if err := s.matcher.NotifyRun(r.Context(), summary.RunID); err != nil {
			log.Printf("Warning: Notification trigger failed for run %s: %v", summary.RunID, err)
		}
	}

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Matching completed",
		Data: map[string]interface{}{
			"summary": summary,
			"matches": results,
		},
	})
}

// matchesHandler lists persisted matches for a need with member details.
func (s *Server) matchesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if s.matchRepo == nil {
		writeJSON(w, http.StatusOK, Response{Success: true, Data: []models.MatchWithDetails{}})
		return
	}

	needID, err := strconv.ParseInt(r.URL.Query().Get("need_id"), 10, 64)
	if err != nil || needID <= 0 {
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Missing or invalid need_id"})
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	matches, err := s.matchRepo.GetByNeed(r.Context(), needID, limit)
	if err != nil {
		log.Printf("Error fetching matches: %v", err)
		writeJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to fetch matches"})
		return
	}

	writeJSON(w, http.StatusOK, Response{Success: true, Data: matches})
}

// triggerNotificationHandler hands a run's pending payloads to the n8n
// workflow.
func (s *Server) triggerNotificationHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if s.matcher == nil {
		writeJSON(w, http.StatusServiceUnavailable, Response{Success: false, Error: "Matcher not available"})
		return
	}

	var req struct {
		RunID string `json:"run_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RunID == "" {
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Missing required field: run_id"})
		return
	}

	if err := s.matcher.NotifyRun(r.Context(), req.RunID); err != nil {
		log.Printf("Notification trigger failed for run %s: %v", req.RunID, err)
		writeJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Notification trigger failed: " + err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, Response{Success: true, Message: "Notification workflow triggered"})
}

// uploadHandler accepts a member import CSV directly (local alternative to
// the S3 upload path).
func (s *Server) uploadHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	startTime := time.Now()

	if err := r.ParseMultipartForm(10 << 20); err != nil { // 10MB max
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Failed to parse form: " + err.Error()})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Error: "No file provided"})
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".csv") {
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Only CSV files are allowed"})
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Failed to read file"})
		return
	}

	batchID := "batch_" + uuid.New().String()[:8]
	log.Printf("Processing member import: %s (BatchID: %s)", header.Filename, batchID)

	parser := utils.NewCSVParser()
	profiles, parseErrors := parser.ParseMembers(string(content), batchID)

	log.Printf("Parsed: %d valid members, %d errors", len(profiles), len(parseErrors))

	response := &UploadResponse{
		BatchID:      batchID,
		TotalRows:    len(profiles) + len(parseErrors),
		ValidMembers: len(profiles),
		Errors:       len(parseErrors),
	}

	if s.profileRepo != nil && len(profiles) > 0 {
		result, err := s.profileRepo.BulkInsert(r.Context(), profiles)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, Response{Success: false, Error: err.Error()})
			return
		}
		response.ValidMembers = result.InsertedCount
		response.Errors += result.FailedCount
	}

	response.ProcessingMs = time.Since(startTime).Milliseconds()

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "CSV processed successfully",
		Data:    response,
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
