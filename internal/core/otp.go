package core

import "unicode"

// OTP entry constants: the code is six digits, nominally valid for ten
// minutes, and a resend is allowed once a minute.
const (
	OTPLength             = 6
	OTPTTLSeconds         = 600
	ResendCooldownSeconds = 60
)

// OTPInput models the six single-digit cells of the verification screen.
// A zero rune marks an empty cell.
type OTPInput struct {
	cells [OTPLength]rune
	focus int
}

// NewOTPInput returns an empty input focused on the first cell.
func NewOTPInput() *OTPInput { return &OTPInput{} }

// Type writes a digit into the focused cell and advances focus. Non-digit
// input is dropped.
func (o *OTPInput) Type(r rune) {
	if !unicode.IsDigit(r) {
		return
	}
	o.cells[o.focus] = r
	if o.focus < OTPLength-1 {
		o.focus++
	}
}

// Backspace clears the focused cell; on an already-empty cell it moves focus
// back one position instead.
func (o *OTPInput) Backspace() {
	if o.cells[o.focus] != 0 {
		o.cells[o.focus] = 0
		return
	}
	if o.focus > 0 {
		o.focus--
	}
}

// Paste distributes up to six characters across the cells left to right,
// preserving position: non-digit characters are dropped and leave their cell
// untouched.
func (o *OTPInput) Paste(s string) {
	runes := []rune(s)
	if len(runes) > OTPLength {
		runes = runes[:OTPLength]
	}
	for i, r := range runes {
		if unicode.IsDigit(r) {
			o.cells[i] = r
		}
	}
}

// Cell returns the display value of cell i, "" when empty.
func (o *OTPInput) Cell(i int) string {
	if i < 0 || i >= OTPLength || o.cells[i] == 0 {
		return ""
	}
	return string(o.cells[i])
}

// Focus returns the index of the focused cell.
func (o *OTPInput) Focus() int { return o.focus }

// Complete reports whether all six cells hold digits. Submission is gated on
// this client-side; a partial code never reaches the network.
func (o *OTPInput) Complete() bool {
	for _, c := range o.cells {
		if c == 0 {
			return false
		}
	}
	return true
}

// Code joins the cells into the submission string. Only meaningful when
// Complete reports true.
func (o *OTPInput) Code() string {
	out := make([]rune, 0, OTPLength)
	for _, c := range o.cells {
		if c != 0 {
			out = append(out, c)
		}
	}
	return string(out)
}

// Reset clears every cell and returns focus to the first one, as happens
// after a resend.
func (o *OTPInput) Reset() {
	*o = OTPInput{}
}
