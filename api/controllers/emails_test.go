package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/jihowes/free-trial-snetinal-sub000/internal/emails"
)

type testEmailsService struct {
	sendWelcomeFn  func(ctx context.Context, userID uuid.UUID, recipient, displayName string) (emails.WelcomeResult, error)
	sendReminderFn func(ctx context.Context, userID uuid.UUID, recipient string, data emails.ReminderData) (string, error)
}

func (s *testEmailsService) SendWelcome(ctx context.Context, userID uuid.UUID, recipient, displayName string) (emails.WelcomeResult, error) {
	if s.sendWelcomeFn != nil {
		return s.sendWelcomeFn(ctx, userID, recipient, displayName)
	}
	return emails.WelcomeResult{}, nil
}

func (s *testEmailsService) SendReminder(ctx context.Context, userID uuid.UUID, recipient string, data emails.ReminderData) (string, error) {
	if s.sendReminderFn != nil {
		return s.sendReminderFn(ctx, userID, recipient, data)
	}
	return "", nil
}

func TestSendWelcomeEmailSuccess(t *testing.T) {
	userID := uuid.New()
	logID := uuid.New()
	svc := &testEmailsService{
		sendWelcomeFn: func(ctx context.Context, uid uuid.UUID, recipient, displayName string) (emails.WelcomeResult, error) {
			if uid != userID {
				t.Fatalf("unexpected user %s", uid)
			}
			if recipient != "ada@example.com" {
				t.Fatalf("recipient = %q", recipient)
			}
			if displayName != "Ada" {
				t.Fatalf("display name = %q", displayName)
			}
			return emails.WelcomeResult{
				Message:           "welcome email sent",
				LogID:             logID,
				ProviderMessageID: "msg-123",
			}, nil
		},
	}

	body := `{"user_id":"` + userID.String() + `","email":"ada@example.com","user_metadata":{"name":"Ada"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/send-welcome-email", strings.NewReader(body))
	resp := httptest.NewRecorder()
	SendWelcomeEmail(svc, newTestLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data welcomeEmailResponse `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data.Message != "welcome email sent" {
		t.Fatalf("message = %q", envelope.Data.Message)
	}
	if envelope.Data.EmailID != "msg-123" {
		t.Fatalf("email id = %q", envelope.Data.EmailID)
	}
	if envelope.Data.LogID != logID.String() {
		t.Fatalf("log id = %q", envelope.Data.LogID)
	}
}

func TestSendWelcomeEmailIdempotent(t *testing.T) {
	svc := &testEmailsService{
		sendWelcomeFn: func(ctx context.Context, uid uuid.UUID, recipient, displayName string) (emails.WelcomeResult, error) {
			return emails.WelcomeResult{
				AlreadySent: true,
				Message:     "welcome email already sent",
				LogID:       uuid.New(),
			}, nil
		},
	}

	body := `{"user_id":"` + uuid.NewString() + `","email":"ada@example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/api/send-welcome-email", strings.NewReader(body))
	resp := httptest.NewRecorder()
	SendWelcomeEmail(svc, newTestLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	var envelope struct {
		Data welcomeEmailResponse `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data.Message != "welcome email already sent" {
		t.Fatalf("message = %q", envelope.Data.Message)
	}
	if envelope.Data.EmailID != "" {
		t.Fatalf("email id = %q, want empty", envelope.Data.EmailID)
	}
}

func TestSendWelcomeEmailRejectsBadEmail(t *testing.T) {
	body := `{"user_id":"` + uuid.NewString() + `","email":"not-an-email"}`
	req := httptest.NewRequest(http.MethodPost, "/api/send-welcome-email", strings.NewReader(body))
	resp := httptest.NewRecorder()
	SendWelcomeEmail(&testEmailsService{}, newTestLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestSendWelcomeEmailRejectsBadUserID(t *testing.T) {
	body := `{"user_id":"abc","email":"ada@example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/api/send-welcome-email", strings.NewReader(body))
	resp := httptest.NewRecorder()
	SendWelcomeEmail(&testEmailsService{}, newTestLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
