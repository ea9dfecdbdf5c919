package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/jihowes/free-trial-snetinal-sub000/api/middleware"
	"github.com/jihowes/free-trial-snetinal-sub000/internal/stats"
	"github.com/jihowes/free-trial-snetinal-sub000/internal/trials"
	"github.com/jihowes/free-trial-snetinal-sub000/pkg/enums"
)

type testTrialsService struct {
	createFn     func(ctx context.Context, userID uuid.UUID, input trials.CreateInput) (trials.TrialDTO, error)
	getFn        func(ctx context.Context, userID, trialID uuid.UUID) (trials.TrialDTO, error)
	listFn       func(ctx context.Context, userID uuid.UUID, params trials.ListParams) ([]trials.TrialDTO, error)
	updateFn     func(ctx context.Context, userID, trialID uuid.UUID, input trials.UpdateInput) (trials.TrialDTO, error)
	setOutcomeFn func(ctx context.Context, userID, trialID uuid.UUID, outcome enums.Outcome, sessionID string) (trials.TrialDTO, error)
	setLikedFn   func(ctx context.Context, userID, trialID uuid.UUID, liked bool) error
	deleteFn     func(ctx context.Context, userID, trialID uuid.UUID) error
	summaryFn    func(ctx context.Context, userID uuid.UUID) (stats.Summary, error)
}

func (s *testTrialsService) Create(ctx context.Context, userID uuid.UUID, input trials.CreateInput) (trials.TrialDTO, error) {
	if s.createFn != nil {
		return s.createFn(ctx, userID, input)
	}
	return trials.TrialDTO{}, nil
}

func (s *testTrialsService) Get(ctx context.Context, userID, trialID uuid.UUID) (trials.TrialDTO, error) {
	if s.getFn != nil {
		return s.getFn(ctx, userID, trialID)
	}
	return trials.TrialDTO{}, nil
}

func (s *testTrialsService) List(ctx context.Context, userID uuid.UUID, params trials.ListParams) ([]trials.TrialDTO, error) {
	if s.listFn != nil {
		return s.listFn(ctx, userID, params)
	}
	return nil, nil
}

func (s *testTrialsService) Update(ctx context.Context, userID, trialID uuid.UUID, input trials.UpdateInput) (trials.TrialDTO, error) {
	if s.updateFn != nil {
		return s.updateFn(ctx, userID, trialID, input)
	}
	return trials.TrialDTO{}, nil
}

func (s *testTrialsService) SetOutcome(ctx context.Context, userID, trialID uuid.UUID, outcome enums.Outcome, sessionID string) (trials.TrialDTO, error) {
	if s.setOutcomeFn != nil {
		return s.setOutcomeFn(ctx, userID, trialID, outcome, sessionID)
	}
	return trials.TrialDTO{}, nil
}

func (s *testTrialsService) SetLiked(ctx context.Context, userID, trialID uuid.UUID, liked bool) error {
	if s.setLikedFn != nil {
		return s.setLikedFn(ctx, userID, trialID, liked)
	}
	return nil
}

func (s *testTrialsService) Delete(ctx context.Context, userID, trialID uuid.UUID) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, userID, trialID)
	}
	return nil
}

func (s *testTrialsService) Summary(ctx context.Context, userID uuid.UUID) (stats.Summary, error) {
	if s.summaryFn != nil {
		return s.summaryFn(ctx, userID)
	}
	return stats.Summary{}, nil
}

func authedRequest(method, target, body string, userID uuid.UUID) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	return req.WithContext(middleware.WithUserID(req.Context(), userID.String()))
}

func TestTrialsCreateSuccess(t *testing.T) {
	userID := uuid.New()
	var gotInput trials.CreateInput
	svc := &testTrialsService{
		createFn: func(ctx context.Context, uid uuid.UUID, input trials.CreateInput) (trials.TrialDTO, error) {
			if uid != userID {
				t.Fatalf("unexpected user %s", uid)
			}
			gotInput = input
			return trials.TrialDTO{ID: uuid.New(), ServiceName: input.ServiceName}, nil
		},
	}

	body := `{"service_name":"Netflix","end_date":"2025-07-01","billing_frequency":"monthly"}`
	req := authedRequest(http.MethodPost, "/api/v1/trials", body, userID)
	resp := httptest.NewRecorder()
	TrialsCreate(svc, newTestLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if gotInput.ServiceName != "Netflix" {
		t.Fatalf("service name = %q", gotInput.ServiceName)
	}
	want := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	if !gotInput.EndDate.Equal(want) {
		t.Fatalf("end date = %v, want %v", gotInput.EndDate, want)
	}
	if gotInput.BillingFrequency != enums.BillingFrequencyMonthly {
		t.Fatalf("billing frequency = %q", gotInput.BillingFrequency)
	}
}

func TestTrialsCreateRejectsBadDate(t *testing.T) {
	req := authedRequest(http.MethodPost, "/api/v1/trials", `{"service_name":"Netflix","end_date":"July 1st"}`, uuid.New())
	resp := httptest.NewRecorder()
	TrialsCreate(&testTrialsService{}, newTestLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestTrialsCreateRequiresAuth(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/trials", strings.NewReader(`{}`))
	resp := httptest.NewRecorder()
	TrialsCreate(&testTrialsService{}, newTestLogger())(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestTrialsListPassesFilters(t *testing.T) {
	userID := uuid.New()
	var gotParams trials.ListParams
	svc := &testTrialsService{
		listFn: func(ctx context.Context, uid uuid.UUID, params trials.ListParams) ([]trials.TrialDTO, error) {
			gotParams = params
			return []trials.TrialDTO{}, nil
		},
	}

	req := authedRequest(http.MethodGet, "/api/v1/trials?view=overdue&expiring_soon=true&search=netflix", "", userID)
	req = req.WithContext(middleware.WithSessionID(req.Context(), "session-1"))
	resp := httptest.NewRecorder()
	TrialsList(svc, newTestLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if gotParams.View != trials.ViewOverdue {
		t.Fatalf("view = %q", gotParams.View)
	}
	if !gotParams.ExpiringSoon {
		t.Fatal("expiring_soon not set")
	}
	if gotParams.Search != "netflix" {
		t.Fatalf("search = %q", gotParams.Search)
	}
	if gotParams.SessionID != "session-1" {
		t.Fatalf("session id = %q", gotParams.SessionID)
	}
}

func TestTrialsListRejectsUnknownView(t *testing.T) {
	req := authedRequest(http.MethodGet, "/api/v1/trials?view=bogus", "", uuid.New())
	resp := httptest.NewRecorder()
	TrialsList(&testTrialsService{}, newTestLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestTrialsSetOutcomeSuccess(t *testing.T) {
	userID := uuid.New()
	trialID := uuid.New()
	var gotOutcome enums.Outcome
	svc := &testTrialsService{
		setOutcomeFn: func(ctx context.Context, uid, tid uuid.UUID, outcome enums.Outcome, sessionID string) (trials.TrialDTO, error) {
			if tid != trialID {
				t.Fatalf("unexpected trial %s", tid)
			}
			gotOutcome = outcome
			return trials.TrialDTO{ID: tid, Outcome: outcome}, nil
		},
	}

	req := authedRequest(http.MethodPost, "/api/v1/trials/"+trialID.String()+"/outcome", `{"outcome":"cancelled"}`, userID)
	req = addRouteParam(req, "trialID", trialID.String())
	resp := httptest.NewRecorder()
	TrialsSetOutcome(svc, newTestLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if gotOutcome != enums.OutcomeCancelled {
		t.Fatalf("outcome = %q", gotOutcome)
	}
}

func TestTrialsSetOutcomeRejectsUnknownValue(t *testing.T) {
	trialID := uuid.New()
	req := authedRequest(http.MethodPost, "/api/v1/trials/"+trialID.String()+"/outcome", `{"outcome":"maybe"}`, uuid.New())
	req = addRouteParam(req, "trialID", trialID.String())
	resp := httptest.NewRecorder()
	TrialsSetOutcome(&testTrialsService{}, newTestLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestTrialsDeleteInvalidID(t *testing.T) {
	req := authedRequest(http.MethodDelete, "/api/v1/trials/not-a-uuid", "", uuid.New())
	req = addRouteParam(req, "trialID", "not-a-uuid")
	resp := httptest.NewRecorder()
	TrialsDelete(&testTrialsService{}, newTestLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestTrialsSummarySuccess(t *testing.T) {
	userID := uuid.New()
	svc := &testTrialsService{
		summaryFn: func(ctx context.Context, uid uuid.UUID) (stats.Summary, error) {
			if uid != userID {
				t.Fatalf("unexpected user %s", uid)
			}
			return stats.Summary{KeptCount: 2, ActiveCount: 1}, nil
		},
	}

	req := authedRequest(http.MethodGet, "/api/v1/trials/summary", "", userID)
	resp := httptest.NewRecorder()
	TrialsSummary(svc, newTestLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	var envelope struct {
		Data stats.Summary `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data.KeptCount != 2 {
		t.Fatalf("kept count = %d", envelope.Data.KeptCount)
	}
}
