package redis

import "testing"

func TestDraftKey(t *testing.T) {
	tests := []struct {
		slot string
		want string
	}{
		{"", "folio:draft"},
		{"preview", "folio:draft:preview"},
	}
	for _, tt := range tests {
		if got := DraftKey(tt.slot); got != tt.want {
			t.Errorf("DraftKey(%q) = %q, want %q", tt.slot, got, tt.want)
		}
	}
}

func TestWithSlotCopies(t *testing.T) {
	base := NewStore(nil, 10)
	slotted := base.WithSlot("preview")

	if base.slot != "" {
		t.Errorf("WithSlot mutated the original store: slot=%q", base.slot)
	}
	if slotted.slot != "preview" || slotted.quota != 10 {
		t.Errorf("unexpected copy: %+v", slotted)
	}
}
