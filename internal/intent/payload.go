package intent

import (
	"encoding/json"
	"strings"

	"github.com/attache-ai/attache/internal/domain"
)

// fieldPayload is the structured field shape the NLP collaborator is
// asked to produce, for both creation and update extraction. Unknown
// or extra keys in the raw JSON are ignored rather than merged.
type fieldPayload struct {
	// Recipients come in two accepted spellings: bare address lists
	// (to_contacts) and structured entries (to_emails).
	ToContacts []string           `json:"to_contacts"`
	ToEmails   []domain.Recipient `json:"to_emails"`
	CcEmails   []domain.Recipient `json:"cc_emails"`
	BccEmails  []domain.Recipient `json:"bcc_emails"`

	Subject     *string             `json:"subject"`
	Body        *string             `json:"body"`
	Attachments []domain.Attachment `json:"attachments"`

	Summary     *string           `json:"summary"`
	StartTime   *string           `json:"start_time"`
	EndTime     *string           `json:"end_time"`
	Attendees   []domain.Attendee `json:"attendees"`
	Location    *string           `json:"location"`
	Description *string           `json:"description"`
}

// toPatch normalizes the payload into a FieldPatch. to_contacts
// entries are folded into to_emails.
func (p *fieldPayload) toPatch() domain.FieldPatch {
	patch := domain.FieldPatch{
		CcEmails:    p.CcEmails,
		BccEmails:   p.BccEmails,
		Subject:     p.Subject,
		Body:        p.Body,
		Attachments: p.Attachments,
		Summary:     p.Summary,
		StartTime:   p.StartTime,
		EndTime:     p.EndTime,
		Attendees:   p.Attendees,
		Location:    p.Location,
		Description: p.Description,
	}

	if p.ToEmails != nil || p.ToContacts != nil {
		recipients := append([]domain.Recipient(nil), p.ToEmails...)
		for _, addr := range p.ToContacts {
			addr = strings.TrimSpace(addr)
			if addr == "" {
				continue
			}
			recipients = append(recipients, domain.Recipient{Email: addr})
		}
		patch.ToEmails = recipients
	}

	return patch
}

// creationPayload is the classifier's answer for an unanchored turn.
type creationPayload struct {
	Intent    string `json:"intent"`
	DraftType string `json:"draft_type"`

	// Reply linking when the user asked to reply to an existing email.
	OriginatingThreadRef string `json:"originating_thread_ref"`
	ReplyToMessageRef    string `json:"reply_to_message_ref"`

	fieldPayload
}

// categoryPayload is the update classifier's answer for an anchored
// turn.
type categoryPayload struct {
	Category string `json:"category"`
}

func parseJSON(raw json.RawMessage, out any) bool {
	if len(raw) == 0 {
		return false
	}
	return json.Unmarshal(raw, out) == nil
}
