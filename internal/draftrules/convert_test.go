package draftrules

import (
	"errors"
	"reflect"
	"testing"

	"github.com/attache-ai/attache/internal/domain"
)

func TestToEmailParamsFoldsRecipients(t *testing.T) {
	draft := &domain.Draft{
		ID:        "d1",
		DraftType: domain.DraftTypeEmail,
		ToEmails: []domain.Recipient{
			{Email: "primary@example.com"},
			{Email: "second@example.com"},
		},
		CcEmails:  []domain.Recipient{{Email: "cc@example.com"}},
		BccEmails: []domain.Recipient{{Email: "bcc@example.com"}},
		Subject:   strptr("Hello"),
		Body:      strptr("Body text"),
		Attachments: []domain.Attachment{
			{ID: "att-1", Filename: "report.pdf"},
		},
	}

	params, err := ToEmailParams(draft)
	if err != nil {
		t.Fatalf("ToEmailParams: %v", err)
	}
	if params.RecipientEmail != "primary@example.com" {
		t.Errorf("RecipientEmail = %q", params.RecipientEmail)
	}
	if params.Cc != "second@example.com,cc@example.com" {
		t.Errorf("Cc = %q", params.Cc)
	}
	if params.Bcc != "bcc@example.com" {
		t.Errorf("Bcc = %q", params.Bcc)
	}
	if params.Subject != "Hello" || params.Body != "Body text" {
		t.Errorf("subject/body = %q/%q", params.Subject, params.Body)
	}
	if !reflect.DeepEqual(params.AttachmentIDs, []string{"att-1"}) {
		t.Errorf("AttachmentIDs = %v", params.AttachmentIDs)
	}
}

func TestToEmailParamsReplyCarriesRefs(t *testing.T) {
	draft := &domain.Draft{
		ID:                   "d1",
		DraftType:            domain.DraftTypeEmail,
		ToEmails:             []domain.Recipient{{Email: "bob@example.com"}},
		Body:                 strptr("Sounds good."),
		OriginatingThreadRef: "gmail-thread-7",
		ReplyToMessageRef:    "gmail-msg-42",
	}

	params, err := ToEmailParams(draft)
	if err != nil {
		t.Fatalf("ToEmailParams: %v", err)
	}
	if params.ThreadRef != "gmail-thread-7" || params.ReplyToMessageRef != "gmail-msg-42" {
		t.Errorf("refs = %q/%q", params.ThreadRef, params.ReplyToMessageRef)
	}
	if params.Subject != "" {
		t.Errorf("reply should not synthesize a subject, got %q", params.Subject)
	}
}

func TestToEmailParamsRejectsIncomplete(t *testing.T) {
	draft := &domain.Draft{
		ID:        "d1",
		DraftType: domain.DraftTypeEmail,
		ToEmails:  []domain.Recipient{{Email: "bob@example.com"}},
	}

	_, err := ToEmailParams(draft)
	var incomplete *domain.IncompleteDraftError
	if !errors.As(err, &incomplete) {
		t.Fatalf("want *IncompleteDraftError, got %v", err)
	}
	if incomplete.DraftID != "d1" {
		t.Errorf("DraftID = %q", incomplete.DraftID)
	}
	if len(incomplete.MissingFields) == 0 {
		t.Error("missing fields should be reported")
	}
}

func TestToEventParams(t *testing.T) {
	draft := &domain.Draft{
		ID:        "d2",
		DraftType: domain.DraftTypeCalendarEvent,
		Summary:   strptr("Planning"),
		StartTime: strptr("2026-09-01T09:00:00Z"),
		EndTime:   strptr("2026-09-01T10:00:00Z"),
		Location:  strptr("Room 4"),
		Attendees: []domain.Attendee{{Email: "ann@example.com", Name: "Ann"}},
	}

	params, err := ToEventParams(draft)
	if err != nil {
		t.Fatalf("ToEventParams: %v", err)
	}
	if params.Summary != "Planning" {
		t.Errorf("Summary = %q", params.Summary)
	}
	if params.StartTime != "2026-09-01T09:00:00Z" || params.EndTime != "2026-09-01T10:00:00Z" {
		t.Errorf("times = %q/%q", params.StartTime, params.EndTime)
	}
	if params.Location != "Room 4" {
		t.Errorf("Location = %q", params.Location)
	}
	if len(params.Attendees) != 1 || params.Attendees[0].Email != "ann@example.com" {
		t.Errorf("Attendees = %+v", params.Attendees)
	}
}

func TestToEventParamsRejectsIncomplete(t *testing.T) {
	draft := &domain.Draft{
		ID:        "d2",
		DraftType: domain.DraftTypeCalendarEvent,
		Summary:   strptr("Planning"),
	}

	_, err := ToEventParams(draft)
	var incomplete *domain.IncompleteDraftError
	if !errors.As(err, &incomplete) {
		t.Fatalf("want *IncompleteDraftError, got %v", err)
	}
}
