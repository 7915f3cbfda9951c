package draftrules

import (
	"strings"

	"github.com/attache-ai/attache/internal/delivery"
	"github.com/attache-ai/attache/internal/domain"
)

// ToEmailParams maps a complete email draft onto the external
// send-email parameter shape. The first to_emails entry becomes the
// primary recipient; the remaining entries and any cc_emails are
// folded into the comma-joined CC string. Conversion never defaults a
// missing field: incompleteness is rejected here with
// *domain.IncompleteDraftError so the gate cannot be bypassed.
func ToEmailParams(d *domain.Draft) (delivery.EmailParams, error) {
	if report := Completeness(d); !report.IsComplete {
		return delivery.EmailParams{}, &domain.IncompleteDraftError{
			DraftID:       d.ID,
			MissingFields: report.MissingFields,
		}
	}

	params := delivery.EmailParams{
		RecipientEmail:    d.ToEmails[0].Email,
		Body:              *d.Body,
		ThreadRef:         d.OriginatingThreadRef,
		ReplyToMessageRef: d.ReplyToMessageRef,
	}
	if d.Subject != nil {
		params.Subject = *d.Subject
	}

	var cc []string
	for _, r := range d.ToEmails[1:] {
		cc = append(cc, r.Email)
	}
	for _, r := range d.CcEmails {
		cc = append(cc, r.Email)
	}
	params.Cc = strings.Join(cc, ",")

	var bcc []string
	for _, r := range d.BccEmails {
		bcc = append(bcc, r.Email)
	}
	params.Bcc = strings.Join(bcc, ",")

	for _, a := range d.Attachments {
		params.AttachmentIDs = append(params.AttachmentIDs, a.ID)
	}

	return params, nil
}

// ToEventParams maps a complete calendar draft onto the external
// create-event parameter shape. Fields map directly; completeness has
// already guaranteed summary and both times are present, so no
// defaulting happens here.
func ToEventParams(d *domain.Draft) (delivery.EventParams, error) {
	if report := Completeness(d); !report.IsComplete {
		return delivery.EventParams{}, &domain.IncompleteDraftError{
			DraftID:       d.ID,
			MissingFields: report.MissingFields,
		}
	}

	params := delivery.EventParams{
		Summary:   *d.Summary,
		StartTime: *d.StartTime,
		EndTime:   *d.EndTime,
	}
	if d.Location != nil {
		params.Location = *d.Location
	}
	if d.Description != nil {
		params.Description = *d.Description
	}
	for _, a := range d.Attendees {
		params.Attendees = append(params.Attendees, delivery.EventAttendee{
			Email: a.Email,
			Name:  a.Name,
		})
	}

	return params, nil
}
