package domain

import (
	"encoding/json"
	"testing"
)

func TestAnchoredItemDraftRef(t *testing.T) {
	tests := []struct {
		name   string
		anchor *AnchoredItem
		want   DraftRef
		wantOK bool
	}{
		{
			name: "valid draft anchor",
			anchor: &AnchoredItem{
				Type: AnchorTypeDraft,
				Data: json.RawMessage(`{"draft_id": "d1", "thread_id": "thread-a", "subject": "stale"}`),
			},
			want:   DraftRef{DraftID: "d1", ThreadID: "thread-a"},
			wantOK: true,
		},
		{
			name: "non-draft anchor",
			anchor: &AnchoredItem{
				Type: "document",
				Data: json.RawMessage(`{"draft_id": "d1", "thread_id": "thread-a"}`),
			},
		},
		{
			name:   "nil anchor",
			anchor: nil,
		},
		{
			name:   "missing thread id",
			anchor: &AnchoredItem{Type: AnchorTypeDraft, Data: json.RawMessage(`{"draft_id": "d1"}`)},
		},
		{
			name:   "malformed snapshot",
			anchor: &AnchoredItem{Type: AnchorTypeDraft, Data: json.RawMessage(`nope`)},
		},
		{
			name:   "empty snapshot",
			anchor: &AnchoredItem{Type: AnchorTypeDraft},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.anchor.DraftRef()
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("ref = %+v, want %+v", got, tt.want)
			}
		})
	}
}
