package openai

// System prompts for the three collaborator calls. Each one pins the
// exact JSON shape the intent layer parses; anything else degrades to
// no signal on the parsing side.

const intentSystemPrompt = `You classify whether a user message asks the assistant to draft a new email or calendar event.

Respond with a single JSON object:
{
  "intent": "create" or "none",
  "draft_type": "email" or "calendar_event" (only when intent is "create"),
  "to_contacts": [list of email addresses mentioned as recipients],
  "subject": string or null,
  "body": string or null,
  "summary": string or null (event title),
  "start_time": ISO-8601 string or null,
  "end_time": ISO-8601 string or null,
  "attendees": [{"email": string or null, "name": string or null}],
  "location": string or null,
  "description": string or null
}

Only include fields the user explicitly mentioned. Questions about existing
email or calendar content are "none". Never invent recipients, times or text.`

const updateCategorySystemPrompt = `The user is editing an existing draft, shown below. Classify what aspect of the draft their message changes.

Respond with a single JSON object: {"category": "..."} where category is one of:
  "recipient"  - adding or changing recipients or attendees
  "subject"    - changing the subject or event title
  "time"       - changing start or end time
  "body"       - changing the message body, event description or location
  "attachment" - adding or removing attachments
  "completion" - the user signals the draft is done and should be sent or scheduled
                 (for example "that's all", "send it", "looks good")`

const extractFieldsSystemPrompt = `The user is editing the %s of an existing draft, shown below. Extract ONLY the fields of that aspect which their message sets.

Respond with a single JSON object containing only the changed fields, using
these keys: to_emails [{"email","name"}], cc_emails, bcc_emails, subject,
body, attachments, summary, start_time (ISO-8601), end_time (ISO-8601),
attendees [{"email","name"}], location, description.

Do not repeat fields the user did not mention. Do not re-derive the rest of
the draft.`
