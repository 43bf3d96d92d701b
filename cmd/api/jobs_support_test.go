package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/page-forge/internal/jobs"
	"github.com/yourusername/page-forge/internal/pdf"
)

type stubJobs struct {
	record    *jobs.Record
	messages  []pdf.StatusMessage
	cancelled []string
	err       error
}

func (s *stubJobs) Get(string) (*jobs.Record, error) {
	return s.record, s.err
}

func (s *stubJobs) Messages(_ string, offset int) ([]pdf.StatusMessage, int, error) {
	if s.err != nil {
		return nil, 0, s.err
	}
	if offset > len(s.messages) {
		offset = len(s.messages)
	}
	return s.messages[offset:], len(s.messages), nil
}

func (s *stubJobs) Cancel(id string) error {
	if s.err != nil {
		return s.err
	}
	s.cancelled = append(s.cancelled, id)
	return nil
}

func newJobRouter(manager jobReader) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/api/jobs/:id", jobStatusHandler(manager))
	router.POST("/api/jobs/:id/cancel", jobCancelHandler(manager))
	return router
}

func TestJobStatusHandler(t *testing.T) {
	manager := &stubJobs{
		record: &jobs.Record{JobID: "job-1", Operation: pdf.OperationSplit, Status: jobs.StatusRunning},
		messages: []pdf.StatusMessage{
			{Kind: pdf.KindInfo, Text: "Starting split."},
			{Kind: pdf.KindWarning, Text: "Invalid page number: 'x'. Please use integers only.", IsError: true},
		},
	}
	router := newJobRouter(manager)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/jobs/job-1?offset=1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", rec.Code, rec.Body.String())
	}

	var body struct {
		Status     string              `json:"status"`
		Messages   []pdf.StatusMessage `json:"messages"`
		NextOffset int                 `json:"nextOffset"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body.Status != string(jobs.StatusRunning) {
		t.Fatalf("unexpected status field: %q", body.Status)
	}
	if len(body.Messages) != 1 || body.Messages[0].Kind != pdf.KindWarning {
		t.Fatalf("unexpected messages: %#v", body.Messages)
	}
	if body.NextOffset != 2 {
		t.Fatalf("unexpected nextOffset: %d", body.NextOffset)
	}
}

func TestJobStatusHandlerInvalidOffset(t *testing.T) {
	router := newJobRouter(&stubJobs{record: &jobs.Record{}})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/jobs/job-1?offset=-3", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
}

func TestJobHandlersNotFound(t *testing.T) {
	router := newJobRouter(&stubJobs{err: jobs.ErrJobNotFound})

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodGet, "/api/jobs/nope", nil),
		httptest.NewRequest(http.MethodPost, "/api/jobs/nope/cancel", nil),
	} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("%s %s: unexpected status %d", req.Method, req.URL.Path, rec.Code)
		}
	}
}

func TestJobCancelHandler(t *testing.T) {
	manager := &stubJobs{}
	router := newJobRouter(manager)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/jobs/job-9/cancel", nil))
	if rec.Code != http.StatusAccepted {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if len(manager.cancelled) != 1 || manager.cancelled[0] != "job-9" {
		t.Fatalf("unexpected cancel calls: %#v", manager.cancelled)
	}
}
