package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Without a database every repo-backed handler must answer cleanly instead of
// dereferencing a nil repository.

func TestApproveNeedHandler_DemoMode(t *testing.T) {
	server := &Server{}

	req := httptest.NewRequest("POST", "/api/needs/approve", strings.NewReader(`{"id":1}`))
	rec := httptest.NewRecorder()

	server.approveNeedHandler(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestApproveProfileHandler_DemoMode(t *testing.T) {
	server := &Server{}

	req := httptest.NewRequest("POST", "/api/profiles/approve", strings.NewReader(`{"id":1}`))
	rec := httptest.NewRecorder()

	server.approveProfileHandler(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRunMatchingHandler_DemoMode(t *testing.T) {
	server := &Server{}

	req := httptest.NewRequest("POST", "/api/matching/run", strings.NewReader(`{"need_id":"need-001"}`))
	rec := httptest.NewRecorder()

	server.runMatchingHandler(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestNeedsHandler_DemoModeListsEmpty(t *testing.T) {
	server := &Server{}

	req := httptest.NewRequest("GET", "/api/needs", nil)
	rec := httptest.NewRecorder()

	server.needsHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
