package domain

import "encoding/json"

// AnchorType classifies what entity the conversation layer currently
// has focused.
type AnchorType string

const (
	AnchorTypeDraft AnchorType = "draft"
)

// AnchoredItem is the transient reference the conversation layer
// attaches to a turn. The embedded Data is a client-side snapshot and
// is never trusted for mutation; its only legitimate use is extracting
// the draft and thread identifiers for the isolation check and the
// authoritative store lookup.
type AnchoredItem struct {
	Type AnchorType      `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// DraftRef is the pair of identifiers pulled out of an anchored draft
// snapshot.
type DraftRef struct {
	DraftID  string `json:"draft_id"`
	ThreadID string `json:"thread_id"`
}

// DraftRef extracts the draft and thread ids from the embedded
// snapshot. Returns false when the anchor is not a draft or the
// snapshot does not carry both identifiers.
func (a *AnchoredItem) DraftRef() (DraftRef, bool) {
	if a == nil || a.Type != AnchorTypeDraft || len(a.Data) == 0 {
		return DraftRef{}, false
	}
	var ref DraftRef
	if err := json.Unmarshal(a.Data, &ref); err != nil {
		return DraftRef{}, false
	}
	if ref.DraftID == "" || ref.ThreadID == "" {
		return DraftRef{}, false
	}
	return ref, true
}
