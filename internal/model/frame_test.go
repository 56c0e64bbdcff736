package model

import "testing"

func TestFrameAppend(t *testing.T) {
	f := NewFrame("federal_funds", "date", "rate")

	if err := f.Append("2024-01-12", 5.33); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if f.Len() != 1 {
		t.Errorf("Len = %d, want 1", f.Len())
	}

	if err := f.Append("2024-01-13"); err == nil {
		t.Error("expected error for short row")
	}
	if f.Len() != 1 {
		t.Errorf("Len = %d after rejected row, want 1", f.Len())
	}
}
