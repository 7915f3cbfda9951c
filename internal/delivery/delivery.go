// Package delivery defines the port to the external collaborator that
// actually sends emails and creates calendar events. Adapters live in
// subpackages (composio).
package delivery

import "context"

// EmailParams is the parameter shape of the external send-email action.
type EmailParams struct {
	RecipientEmail string `json:"recipient_email"`
	Subject        string `json:"subject,omitempty"`
	Body           string `json:"body"`
	Cc             string `json:"cc,omitempty"`
	Bcc            string `json:"bcc,omitempty"`
	// Reply linking: when set, the transport threads the message into
	// the referenced conversation and supplies the "Re:" subject.
	ThreadRef         string   `json:"thread_ref,omitempty"`
	ReplyToMessageRef string   `json:"reply_to_message_ref,omitempty"`
	AttachmentIDs     []string `json:"attachment_ids,omitempty"`
}

// EventAttendee mirrors a calendar attendee in the external action's
// shape.
type EventAttendee struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// EventParams is the parameter shape of the external create-event
// action.
type EventParams struct {
	Summary     string          `json:"summary"`
	StartTime   string          `json:"start_time"`
	EndTime     string          `json:"end_time"`
	Attendees   []EventAttendee `json:"attendees,omitempty"`
	Location    string          `json:"location,omitempty"`
	Description string          `json:"description,omitempty"`
}

// Result is the collaborator's outcome. The router inspects only
// Successful plus the opaque error detail for logging.
type Result struct {
	Successful bool
	Detail     string
}

// Collaborator is the external send/create integration. A returned
// error means the action could not be attempted (transport failure);
// a Result with Successful=false means the action ran and failed.
// The router treats both as delivery failure.
type Collaborator interface {
	SendEmail(ctx context.Context, params EmailParams) (Result, error)
	CreateEvent(ctx context.Context, params EventParams) (Result, error)
}
