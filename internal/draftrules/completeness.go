package draftrules

import "github.com/attache-ai/attache/internal/domain"

// CompletenessReport says whether a draft has enough information to
// hand to the delivery collaborator, and which fields are still
// missing. is_complete=false is "keep collecting fields", never an
// error.
type CompletenessReport struct {
	IsComplete    bool     `json:"is_complete"`
	MissingFields []string `json:"missing_fields,omitempty"`
}

// Completeness computes the delivery-readiness of a draft. The rules
// by draft type:
//
//   - email: to_emails non-empty, body set; subject required unless
//     the draft is a reply (the transport supplies "Re: ...").
//   - calendar_event: summary, start_time and end_time set.
//
// The check is pure: calling it twice without a mutation in between
// yields the same report.
func Completeness(d *domain.Draft) CompletenessReport {
	var missing []string

	switch d.DraftType {
	case domain.DraftTypeEmail:
		if len(d.ToEmails) == 0 {
			missing = append(missing, "to_emails")
		}
		if d.Subject == nil && !d.IsReply() {
			missing = append(missing, "subject")
		}
		if d.Body == nil {
			missing = append(missing, "body")
		}
	case domain.DraftTypeCalendarEvent:
		if d.Summary == nil {
			missing = append(missing, "summary")
		}
		if d.StartTime == nil {
			missing = append(missing, "start_time")
		}
		if d.EndTime == nil {
			missing = append(missing, "end_time")
		}
	}

	return CompletenessReport{
		IsComplete:    len(missing) == 0,
		MissingFields: missing,
	}
}
