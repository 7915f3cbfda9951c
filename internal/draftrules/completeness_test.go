package draftrules

import (
	"reflect"
	"testing"

	"github.com/attache-ai/attache/internal/domain"
)

func strptr(s string) *string { return &s }

func TestCompletenessEmail(t *testing.T) {
	tests := []struct {
		name        string
		draft       *domain.Draft
		wantOK      bool
		wantMissing []string
	}{
		{
			name:        "empty draft missing everything",
			draft:       &domain.Draft{DraftType: domain.DraftTypeEmail},
			wantOK:      false,
			wantMissing: []string{"to_emails", "subject", "body"},
		},
		{
			name: "recipient and subject but no body",
			draft: &domain.Draft{
				DraftType: domain.DraftTypeEmail,
				ToEmails:  []domain.Recipient{{Email: "bob@example.com"}},
				Subject:   strptr("Quarterly report"),
			},
			wantOK:      false,
			wantMissing: []string{"body"},
		},
		{
			name: "all fields set",
			draft: &domain.Draft{
				DraftType: domain.DraftTypeEmail,
				ToEmails:  []domain.Recipient{{Email: "bob@example.com"}},
				Subject:   strptr("Quarterly report"),
				Body:      strptr("Attached."),
			},
			wantOK: true,
		},
		{
			name: "reply does not require subject",
			draft: &domain.Draft{
				DraftType:         domain.DraftTypeEmail,
				ToEmails:          []domain.Recipient{{Email: "bob@example.com"}},
				Body:              strptr("Sounds good."),
				ReplyToMessageRef: "msg-42",
			},
			wantOK: true,
		},
		{
			name: "fresh email without reply ref still requires subject",
			draft: &domain.Draft{
				DraftType: domain.DraftTypeEmail,
				ToEmails:  []domain.Recipient{{Email: "bob@example.com"}},
				Body:      strptr("Hello."),
			},
			wantOK:      false,
			wantMissing: []string{"subject"},
		},
		{
			name: "empty-string subject counts as set",
			draft: &domain.Draft{
				DraftType: domain.DraftTypeEmail,
				ToEmails:  []domain.Recipient{{Email: "bob@example.com"}},
				Subject:   strptr(""),
				Body:      strptr("Hello."),
			},
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := Completeness(tt.draft)
			if report.IsComplete != tt.wantOK {
				t.Errorf("IsComplete = %v, want %v", report.IsComplete, tt.wantOK)
			}
			if !reflect.DeepEqual(report.MissingFields, tt.wantMissing) {
				t.Errorf("MissingFields = %v, want %v", report.MissingFields, tt.wantMissing)
			}
		})
	}
}

func TestCompletenessCalendar(t *testing.T) {
	draft := &domain.Draft{
		DraftType: domain.DraftTypeCalendarEvent,
		Summary:   strptr("Standup"),
		StartTime: strptr("2026-09-01T09:00:00Z"),
	}

	report := Completeness(draft)
	if report.IsComplete {
		t.Fatal("event without end_time should be incomplete")
	}
	if !reflect.DeepEqual(report.MissingFields, []string{"end_time"}) {
		t.Errorf("MissingFields = %v, want [end_time]", report.MissingFields)
	}

	draft.EndTime = strptr("2026-09-01T09:15:00Z")
	report = Completeness(draft)
	if !report.IsComplete {
		t.Errorf("complete event reported incomplete, missing %v", report.MissingFields)
	}

	// Attendees and location are optional.
	if len(report.MissingFields) != 0 {
		t.Errorf("unexpected missing fields %v", report.MissingFields)
	}
}

func TestCompletenessIsPure(t *testing.T) {
	draft := &domain.Draft{
		DraftType: domain.DraftTypeEmail,
		ToEmails:  []domain.Recipient{{Email: "bob@example.com"}},
	}

	first := Completeness(draft)
	second := Completeness(draft)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated check diverged: %+v vs %+v", first, second)
	}
}
