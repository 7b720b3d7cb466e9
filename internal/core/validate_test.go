package core

import (
	"strings"
	"testing"
)

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"a@b.com", true},
		{"user.name+tag@example.co", true},
		{"", false},
		{"a@b", false},
		{"a..b@example.com", false},
		{"a@b.c", false}, // single-letter TLD
		{"no-at-sign.com", false},
	}
	for _, tt := range tests {
		if got := IsValidEmail(tt.email); got != tt.want {
			t.Fatalf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
		}
	}
}

func TestIsValidName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"Jo", true},
		{"Mary-Jane O'Neil", true},
		{"J", false},
		{"  ", false},
		{"bad!name", false},
	}
	for _, tt := range tests {
		if got := IsValidName(tt.name); got != tt.want {
			t.Fatalf("IsValidName(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestPasswordIssues_ListsEveryUnmetRule(t *testing.T) {
	issues := PasswordIssues("short")
	want := []string{
		"At least 8 characters",
		"One uppercase letter",
		"One number",
		"One special character",
	}
	if len(issues) != len(want) {
		t.Fatalf("expected %d issues, got %v", len(want), issues)
	}
	for i := range want {
		if issues[i] != want[i] {
			t.Fatalf("expected issue %q at %d, got %q", want[i], i, issues[i])
		}
	}

	if issues := PasswordIssues("Str0ng!pass"); len(issues) != 0 {
		t.Fatalf("expected no issues, got %v", issues)
	}
}

func TestValidateSignup_WeakPasswordAggregateMessage(t *testing.T) {
	errs := ValidateSignup("Ada", "a@b.com", "short")
	if errs.OK() {
		t.Fatal("expected validation errors")
	}
	msg := errs["password"]
	if !strings.HasPrefix(msg, "Password must have: ") {
		t.Fatalf("expected aggregate prefix, got %q", msg)
	}
	for _, rule := range []string{"At least 8 characters", "One uppercase letter", "One number", "One special character"} {
		if !strings.Contains(msg, rule) {
			t.Fatalf("expected %q in %q", rule, msg)
		}
	}
}

func TestValidateSignup_OK(t *testing.T) {
	if errs := ValidateSignup("Ada Lovelace", "ada@example.com", "Str0ng!pass"); !errs.OK() {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestValidateLogin(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		fields   []string
	}{
		{"ok", "a@b.com", "whatever", nil},
		{"empty email", "", "x", []string{"email"}},
		{"bad email", "nope", "x", []string{"email"}},
		{"empty password", "a@b.com", "", []string{"password"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateLogin(tt.email, tt.password)
			if len(errs) != len(tt.fields) {
				t.Fatalf("expected %d errors, got %v", len(tt.fields), errs)
			}
			for _, f := range tt.fields {
				if errs[f] == "" {
					t.Fatalf("expected error on %q, got %v", f, errs)
				}
			}
		})
	}
}

func TestValidateTaskForm(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		desc    string
		field   string
		message string
	}{
		{"short title", "ab", "a long enough description", "title", "Title must be at least 3 characters"},
		{"empty title", "  ", "a long enough description", "title", "Title is required"},
		{"long title", strings.Repeat("x", 201), "a long enough description", "title", "Title cannot exceed 200 characters"},
		{"empty description", "Title", "", "description", "Description is required"},
		{"short description", "Title", "too short", "description", "Description must be at least 10 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateTaskForm(tt.title, tt.desc, "LOW", "2026-09-01")
			if errs[tt.field] != tt.message {
				t.Fatalf("expected %q on %q, got %v", tt.message, tt.field, errs)
			}
		})
	}

	if errs := ValidateTaskForm("Title", "a long enough description", "LOW", "2026-09-01"); !errs.OK() {
		t.Fatalf("expected no errors, got %v", errs)
	}
	if errs := ValidateTaskForm("Title", "a long enough description", "", ""); errs["priority"] == "" || errs["dueDate"] == "" {
		t.Fatalf("expected priority and dueDate errors, got %v", errs)
	}
}

func TestValidateRoleForm(t *testing.T) {
	pm := testMap(t)

	errs := ValidateRoleForm("ab", NewPermissionSelection(pm, nil))
	if errs["name"] != "Role name must be at least 4 characters long" {
		t.Fatalf("expected short-name error, got %v", errs)
	}
	if errs["permissions"] != "Please select at least one permission" {
		t.Fatalf("expected empty-selection error, got %v", errs)
	}

	errs = ValidateRoleForm("", NewPermissionSelection(pm, []int{1}))
	if errs["name"] != "Role name is required" {
		t.Fatalf("expected required error, got %v", errs)
	}

	if errs := ValidateRoleForm("Admin", NewPermissionSelection(pm, []int{1})); !errs.OK() {
		t.Fatalf("expected no errors, got %v", errs)
	}
}
