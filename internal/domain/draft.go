// Package domain holds the core entities of the drafting subsystem:
// the Draft, the anchor references supplied by the conversation layer,
// field patches, and the error taxonomy shared across packages.
package domain

import "time"

// DraftType identifies what kind of artifact a draft will become.
type DraftType string

const (
	DraftTypeEmail         DraftType = "email"
	DraftTypeCalendarEvent DraftType = "calendar_event"
)

// DraftStatus is the lifecycle state of a draft.
//
// active is the initial state. closed is terminal. composio_error is
// recoverable: the next successful field update resets it to active as
// part of the same store operation.
type DraftStatus string

const (
	DraftStatusActive        DraftStatus = "active"
	DraftStatusClosed        DraftStatus = "closed"
	DraftStatusComposioError DraftStatus = "composio_error"
)

// Recipient is an email address with an optional display name.
type Recipient struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Attendee is a calendar event participant. Email may be empty for an
// attendee the user referred to only by name.
type Attendee struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// Attachment is an opaque attachment descriptor passed through to the
// delivery collaborator unmodified.
type Attachment struct {
	ID       string `json:"id,omitempty"`
	Filename string `json:"filename,omitempty"`
	MimeType string `json:"mime_type,omitempty"`
}

// Draft is one in-progress email or calendar event. It belongs to
// exactly one conversation thread; ThreadID never changes after
// creation. DraftType is likewise immutable.
type Draft struct {
	ID        string      `json:"draft_id"`
	ThreadID  string      `json:"thread_id"`
	MessageID string      `json:"message_id"`
	DraftType DraftType   `json:"draft_type"`
	Status    DraftStatus `json:"status"`

	// Email fields
	ToEmails    []Recipient  `json:"to_emails,omitempty"`
	CcEmails    []Recipient  `json:"cc_emails,omitempty"`
	BccEmails   []Recipient  `json:"bcc_emails,omitempty"`
	Subject     *string      `json:"subject,omitempty"`
	Body        *string      `json:"body,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`

	// Reply linking, set only when the draft is a reply to an existing
	// email thread. A draft with ReplyToMessageRef set does not require
	// a subject; the transport supplies "Re: ..." itself.
	OriginatingThreadRef string `json:"originating_thread_ref,omitempty"`
	ReplyToMessageRef    string `json:"reply_to_message_ref,omitempty"`

	// Calendar fields. Times are ISO-8601 strings as produced by the
	// NLP collaborator; they are not parsed here.
	Summary     *string    `json:"summary,omitempty"`
	StartTime   *string    `json:"start_time,omitempty"`
	EndTime     *string    `json:"end_time,omitempty"`
	Attendees   []Attendee `json:"attendees,omitempty"`
	Location    *string    `json:"location,omitempty"`
	Description *string    `json:"description,omitempty"`

	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}

// IsActive reports whether the draft accepts field updates without a
// status reset. Drafts in composio_error also accept updates; see
// FieldPatch and the store's ApplyPatch contract.
func (d *Draft) IsActive() bool {
	return d.Status == DraftStatusActive
}

// IsReply reports whether the draft is a reply to an existing email
// thread, which relaxes the subject requirement.
func (d *Draft) IsReply() bool {
	return d.ReplyToMessageRef != "" || d.OriginatingThreadRef != ""
}

// Touch refreshes UpdatedAt.
func (d *Draft) Touch(now time.Time) {
	d.UpdatedAt = now.Unix()
}

// Clone returns a deep copy so callers can hand out snapshots without
// exposing store-owned state.
func (d *Draft) Clone() *Draft {
	if d == nil {
		return nil
	}
	out := *d
	out.ToEmails = append([]Recipient(nil), d.ToEmails...)
	out.CcEmails = append([]Recipient(nil), d.CcEmails...)
	out.BccEmails = append([]Recipient(nil), d.BccEmails...)
	out.Attachments = append([]Attachment(nil), d.Attachments...)
	out.Attendees = append([]Attendee(nil), d.Attendees...)
	out.Subject = cloneString(d.Subject)
	out.Body = cloneString(d.Body)
	out.Summary = cloneString(d.Summary)
	out.StartTime = cloneString(d.StartTime)
	out.EndTime = cloneString(d.EndTime)
	out.Location = cloneString(d.Location)
	out.Description = cloneString(d.Description)
	return &out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
