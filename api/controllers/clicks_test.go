package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/jihowes/free-trial-snetinal-sub000/api/middleware"
	"github.com/jihowes/free-trial-snetinal-sub000/internal/clicks"
)

type testClicksService struct {
	recordFn func(ctx context.Context, input clicks.RecordInput) error
}

func (s *testClicksService) Record(ctx context.Context, input clicks.RecordInput) error {
	if s.recordFn != nil {
		return s.recordFn(ctx, input)
	}
	return nil
}

func TestTrackClickAnonymous(t *testing.T) {
	curatedID := uuid.New()
	var gotInput clicks.RecordInput
	svc := &testClicksService{
		recordFn: func(ctx context.Context, input clicks.RecordInput) error {
			gotInput = input
			return nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/track-click", strings.NewReader(`{"trial_id":"`+curatedID.String()+`"}`))
	req.Header.Set("User-Agent", "sentinel-test/1.0")
	req = req.WithContext(middleware.WithSessionID(req.Context(), "session-9"))
	resp := httptest.NewRecorder()
	TrackClick(svc, newTestLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if gotInput.CuratedTrialID != curatedID {
		t.Fatalf("curated trial = %s", gotInput.CuratedTrialID)
	}
	if gotInput.UserID != nil {
		t.Fatal("anonymous click should have nil user")
	}
	if gotInput.SessionID != "session-9" {
		t.Fatalf("session id = %q", gotInput.SessionID)
	}
	if gotInput.UserAgent != "sentinel-test/1.0" {
		t.Fatalf("user agent = %q", gotInput.UserAgent)
	}

	var envelope struct {
		Data map[string]bool `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !envelope.Data["success"] {
		t.Fatal("response missing success flag")
	}
}

func TestTrackClickAttributesUser(t *testing.T) {
	userID := uuid.New()
	var gotInput clicks.RecordInput
	svc := &testClicksService{
		recordFn: func(ctx context.Context, input clicks.RecordInput) error {
			gotInput = input
			return nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/track-click", strings.NewReader(`{"trial_id":"`+uuid.NewString()+`"}`))
	req = req.WithContext(middleware.WithUserID(req.Context(), userID.String()))
	resp := httptest.NewRecorder()
	TrackClick(svc, newTestLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if gotInput.UserID == nil || *gotInput.UserID != userID {
		t.Fatalf("user id = %v, want %s", gotInput.UserID, userID)
	}
}

func TestTrackClickMissingTrialID(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/track-click", strings.NewReader(`{}`))
	resp := httptest.NewRecorder()
	TrackClick(&testClicksService{}, newTestLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestTrackClickInvalidTrialID(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/track-click", strings.NewReader(`{"trial_id":"nope"}`))
	resp := httptest.NewRecorder()
	TrackClick(&testClicksService{}, newTestLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
