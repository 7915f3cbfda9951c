package domain

// FieldPatch is a narrow write against a draft: only the fields the
// user's utterance implicated are set, everything else stays nil. The
// store applies a patch atomically together with the implicit
// composio_error -> active reactivation.
//
// Slice fields replace the draft's value wholesale when non-nil;
// pointer fields replace the scalar. A nil field is "not mentioned",
// never "clear".
type FieldPatch struct {
	ToEmails    []Recipient  `json:"to_emails,omitempty"`
	CcEmails    []Recipient  `json:"cc_emails,omitempty"`
	BccEmails   []Recipient  `json:"bcc_emails,omitempty"`
	Subject     *string      `json:"subject,omitempty"`
	Body        *string      `json:"body,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`

	Summary     *string    `json:"summary,omitempty"`
	StartTime   *string    `json:"start_time,omitempty"`
	EndTime     *string    `json:"end_time,omitempty"`
	Attendees   []Attendee `json:"attendees,omitempty"`
	Location    *string    `json:"location,omitempty"`
	Description *string    `json:"description,omitempty"`
}

// IsEmpty reports whether the patch carries no changes at all.
func (p FieldPatch) IsEmpty() bool {
	return p.ToEmails == nil &&
		p.CcEmails == nil &&
		p.BccEmails == nil &&
		p.Subject == nil &&
		p.Body == nil &&
		p.Attachments == nil &&
		p.Summary == nil &&
		p.StartTime == nil &&
		p.EndTime == nil &&
		p.Attendees == nil &&
		p.Location == nil &&
		p.Description == nil
}

// Apply copies the patch's set fields onto the draft. It does not
// touch status or timestamps; that is the store's job so the whole
// update stays one atomic operation.
func (p FieldPatch) Apply(d *Draft) {
	if p.ToEmails != nil {
		d.ToEmails = p.ToEmails
	}
	if p.CcEmails != nil {
		d.CcEmails = p.CcEmails
	}
	if p.BccEmails != nil {
		d.BccEmails = p.BccEmails
	}
	if p.Subject != nil {
		d.Subject = p.Subject
	}
	if p.Body != nil {
		d.Body = p.Body
	}
	if p.Attachments != nil {
		d.Attachments = p.Attachments
	}
	if p.Summary != nil {
		d.Summary = p.Summary
	}
	if p.StartTime != nil {
		d.StartTime = p.StartTime
	}
	if p.EndTime != nil {
		d.EndTime = p.EndTime
	}
	if p.Attendees != nil {
		d.Attendees = p.Attendees
	}
	if p.Location != nil {
		d.Location = p.Location
	}
	if p.Description != nil {
		d.Description = p.Description
	}
}
