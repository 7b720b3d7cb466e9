package core

import "testing"

func TestOTPInput_TypeAdvancesFocus(t *testing.T) {
	in := NewOTPInput()
	for i, r := range "123456" {
		if in.Focus() != i {
			t.Fatalf("expected focus %d, got %d", i, in.Focus())
		}
		in.Type(r)
	}
	if !in.Complete() {
		t.Fatal("expected complete input")
	}
	if in.Code() != "123456" {
		t.Fatalf("expected code 123456, got %q", in.Code())
	}
	// Focus stays on the last cell.
	if in.Focus() != OTPLength-1 {
		t.Fatalf("expected focus on last cell, got %d", in.Focus())
	}
}

func TestOTPInput_NonDigitDropped(t *testing.T) {
	in := NewOTPInput()
	in.Type('a')
	if in.Cell(0) != "" || in.Focus() != 0 {
		t.Fatalf("non-digit must not fill a cell or move focus: cell=%q focus=%d", in.Cell(0), in.Focus())
	}
}

func TestOTPInput_BackspaceSemantics(t *testing.T) {
	in := NewOTPInput()
	in.Type('1')
	in.Type('2')
	// Focus is on empty cell 2; first backspace moves back.
	in.Backspace()
	if in.Focus() != 1 {
		t.Fatalf("expected focus 1, got %d", in.Focus())
	}
	// Cell 1 holds "2"; backspace clears it without moving.
	in.Backspace()
	if in.Cell(1) != "" || in.Focus() != 1 {
		t.Fatalf("expected cleared cell 1, got cell=%q focus=%d", in.Cell(1), in.Focus())
	}
	// Empty again: move back to 0.
	in.Backspace()
	if in.Focus() != 0 {
		t.Fatalf("expected focus 0, got %d", in.Focus())
	}
	// At the first cell with content, clear it; further backspace is a no-op.
	in.Backspace()
	in.Backspace()
	if in.Focus() != 0 || in.Cell(0) != "" {
		t.Fatalf("expected empty input at focus 0, got cell=%q focus=%d", in.Cell(0), in.Focus())
	}
}

func TestOTPInput_PastePreservesPositions(t *testing.T) {
	in := NewOTPInput()
	in.Paste("12a456")

	want := []string{"1", "2", "", "4", "5", "6"}
	for i, w := range want {
		if in.Cell(i) != w {
			t.Fatalf("cell %d: expected %q, got %q", i, w, in.Cell(i))
		}
	}
	if in.Complete() {
		t.Fatal("input with a hole must not be complete")
	}
}

func TestOTPInput_PasteTruncatesToLength(t *testing.T) {
	in := NewOTPInput()
	in.Paste("1234567890")
	if !in.Complete() || in.Code() != "123456" {
		t.Fatalf("expected 123456, got %q", in.Code())
	}
}

func TestOTPInput_Reset(t *testing.T) {
	in := NewOTPInput()
	in.Paste("123456")
	in.Reset()
	if in.Complete() || in.Focus() != 0 || in.Code() != "" {
		t.Fatalf("expected pristine input after reset, got code=%q focus=%d", in.Code(), in.Focus())
	}
}
