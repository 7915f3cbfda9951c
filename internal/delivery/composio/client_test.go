package composio

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/attache-ai/attache/internal/delivery"
	"github.com/attache-ai/attache/internal/testutil"
)

func TestSendEmailReplaysRecordedExchange(t *testing.T) {
	r, cleanup := testutil.NewRecorder(t, "send_email")
	defer cleanup()

	client := NewClient("test-key", "user-7", WithHTTPClient(testutil.HTTPClient(r)))

	result, err := client.SendEmail(context.Background(), delivery.EmailParams{
		RecipientEmail: "bob@example.com",
		Subject:        "Lunch",
		Body:           "Noon?",
	})
	if err != nil {
		t.Fatalf("SendEmail: %v", err)
	}
	if !result.Successful {
		t.Errorf("result = %+v, want successful", result)
	}
}

func TestCreateEventRequestShape(t *testing.T) {
	var gotPath, gotAPIKey string
	var gotBody struct {
		UserID    string `json:"user_id"`
		Arguments struct {
			Summary   string `json:"summary"`
			StartTime string `json:"start_time"`
		} `json:"arguments"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAPIKey = r.Header.Get("X-API-Key")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"successful": true}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", "user-7", WithBaseURL(srv.URL))

	result, err := client.CreateEvent(context.Background(), delivery.EventParams{
		Summary:   "Planning",
		StartTime: "2026-09-01T09:00:00Z",
		EndTime:   "2026-09-01T10:00:00Z",
	})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	if !result.Successful {
		t.Errorf("result = %+v", result)
	}
	if gotPath != "/actions/GOOGLECALENDAR_CREATE_EVENT/execute" {
		t.Errorf("path = %q", gotPath)
	}
	if gotAPIKey != "test-key" {
		t.Errorf("X-API-Key = %q", gotAPIKey)
	}
	if gotBody.UserID != "user-7" || gotBody.Arguments.Summary != "Planning" {
		t.Errorf("body = %+v", gotBody)
	}
}

func TestExecuteNon200IsFailureNotError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient("test-key", "user-7", WithBaseURL(srv.URL))

	result, err := client.SendEmail(context.Background(), delivery.EmailParams{
		RecipientEmail: "bob@example.com",
		Body:           "Hello",
	})
	if err != nil {
		t.Fatalf("non-200 must come back as a failed Result, not an error: %v", err)
	}
	if result.Successful {
		t.Error("result should not be successful")
	}
	if result.Detail == "" {
		t.Error("detail should carry the status and body")
	}
}

func TestExecuteUnsuccessfulEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"successful": false, "error": "gmail quota exceeded"}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", "user-7", WithBaseURL(srv.URL))

	result, err := client.SendEmail(context.Background(), delivery.EmailParams{
		RecipientEmail: "bob@example.com",
		Body:           "Hello",
	})
	if err != nil {
		t.Fatalf("SendEmail: %v", err)
	}
	if result.Successful {
		t.Error("result should not be successful")
	}
	if result.Detail != "gmail quota exceeded" {
		t.Errorf("Detail = %q", result.Detail)
	}
}
