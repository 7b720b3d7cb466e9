package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/AKASH-DEV-23/taskctl/internal/core"
	"github.com/AKASH-DEV-23/taskctl/pkg/models"
)

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeInto(t *testing.T, m verifyModel, input string) verifyModel {
	t.Helper()
	for _, r := range input {
		next, _ := m.Update(keyRunes(string(r)))
		m = next.(verifyModel)
	}
	return m
}

func TestVerifyModel_TypingFillsCells(t *testing.T) {
	m := newVerifyModel("ada@example.com")
	m = typeInto(t, m, "123456")

	if !m.otp.Complete() {
		t.Fatal("expected complete code")
	}
	if m.otp.Code() != "123456" {
		t.Fatalf("expected 123456, got %q", m.otp.Code())
	}
}

func TestVerifyModel_NonDigitsIgnored(t *testing.T) {
	m := newVerifyModel("ada@example.com")
	m = typeInto(t, m, "1a2b")

	if m.otp.Complete() {
		t.Fatal("two digits must not complete the code")
	}
	if m.otp.Code() != "12" {
		t.Fatalf("expected only the digits kept, got %q", m.otp.Code())
	}
	if m.otp.Cell(0) != "1" || m.otp.Cell(1) != "2" {
		t.Fatalf("letters must be dropped, got %q %q", m.otp.Cell(0), m.otp.Cell(1))
	}
}

func TestVerifyModel_PasteSpreadsDigits(t *testing.T) {
	m := newVerifyModel("ada@example.com")
	next, _ := m.Update(keyRunes("12a456"))
	m = next.(verifyModel)

	cells := make([]string, core.OTPLength)
	for i := range cells {
		cells[i] = m.otp.Cell(i)
	}
	want := []string{"1", "2", "", "4", "5", "6"}
	for i := range want {
		if cells[i] != want[i] {
			t.Fatalf("cell %d = %q, want %q", i, cells[i], want[i])
		}
	}
}

func TestVerifyModel_BackspaceStepsBack(t *testing.T) {
	m := newVerifyModel("ada@example.com")
	m = typeInto(t, m, "12")

	// Focus sits on the empty third cell, so the first backspace only
	// steps back; the second clears the digit it lands on.
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	m = next.(verifyModel)
	if m.otp.Cell(1) != "2" || m.otp.Focus() != 1 {
		t.Fatalf("expected focus moved back without clearing, cell=%q focus=%d", m.otp.Cell(1), m.otp.Focus())
	}
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	m = next.(verifyModel)
	if m.otp.Cell(1) != "" || m.otp.Focus() != 1 {
		t.Fatalf("expected the landed-on digit cleared, cell=%q focus=%d", m.otp.Cell(1), m.otp.Focus())
	}
}

func TestVerifyModel_TickCountsDown(t *testing.T) {
	m := newVerifyModel("ada@example.com")
	start := m.remaining

	next, cmd := m.Update(verifyTickMsg{})
	m = next.(verifyModel)
	if m.remaining != start-1 {
		t.Fatalf("expected %d, got %d", start-1, m.remaining)
	}
	if m.cooldown != core.ResendCooldownSeconds-1 {
		t.Fatalf("cooldown should tick too, got %d", m.cooldown)
	}
	if cmd == nil {
		t.Fatal("tick must reschedule itself")
	}
}

func TestVerifyModel_CountdownDoesNotGateSubmit(t *testing.T) {
	m := newVerifyModel("ada@example.com")
	m = typeInto(t, m, "123456")
	m.remaining = 0

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(verifyModel)
	if cmd == nil || !m.submitting {
		t.Fatal("a complete code must submit even after the displayed countdown ends")
	}
}

func TestVerifyModel_IncompleteCodeBlocksSubmit(t *testing.T) {
	m := newVerifyModel("ada@example.com")
	m = typeInto(t, m, "123")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Fatal("incomplete code must not be submitted")
	}
}

func TestVerifyModel_ResendRespectsCooldown(t *testing.T) {
	m := newVerifyModel("ada@example.com")
	if m.cooldown == 0 {
		t.Fatal("cooldown must start non-zero")
	}
	_, cmd := m.Update(keyRunes("r"))
	if cmd != nil {
		t.Fatal("resend must be blocked while cooling down")
	}
}

func TestVerifyModel_FailedVerificationResetsInput(t *testing.T) {
	m := newVerifyModel("ada@example.com")
	m = typeInto(t, m, "123456")
	m.submitting = true

	next, _ := m.Update(verifyResultMsg{resp: &models.AuthResponse{Success: false, Message: "Invalid OTP"}})
	m = next.(verifyModel)

	if m.otp.Code() != "" || m.otp.Focus() != 0 {
		t.Fatal("input must reset after a rejected code")
	}
	if !m.statusErr || !strings.Contains(m.status, "Invalid OTP") {
		t.Fatalf("expected backend message surfaced, got %q", m.status)
	}
	if m.verified != nil {
		t.Fatal("session must not be marked verified")
	}
}

func TestVerifyModel_SuccessQuitsWithResponse(t *testing.T) {
	m := newVerifyModel("ada@example.com")
	m = typeInto(t, m, "123456")
	m.submitting = true

	resp := &models.AuthResponse{Success: true, Token: "tok", User: &models.User{Name: "Ada"}}
	next, cmd := m.Update(verifyResultMsg{resp: resp})
	m = next.(verifyModel)

	if m.verified != resp {
		t.Fatal("expected the response captured for the caller")
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}
}
