package core

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	namePattern  = regexp.MustCompile(`^[a-zA-ZÀ-ÿ0-9\s'-]+$`)

	lowerPattern   = regexp.MustCompile(`[a-z]`)
	upperPattern   = regexp.MustCompile(`[A-Z]`)
	digitPattern   = regexp.MustCompile(`[0-9]`)
	specialPattern = regexp.MustCompile(`[!@#$%^&*()_+\-=\[\]{};':"\\|,.<>/?]`)
)

// FieldErrors maps a form field to its validation message. An empty map
// means the form may be submitted.
type FieldErrors map[string]string

// OK reports whether validation passed.
func (e FieldErrors) OK() bool { return len(e) == 0 }

// Error renders the messages as a single line for CLI display. Field order
// follows map iteration and is not stable.
func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for field, msg := range e {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	return strings.Join(parts, "; ")
}

// IsValidEmail checks the address shape: local@domain with a TLD of at
// least two letters and no consecutive dots.
func IsValidEmail(email string) bool {
	if !emailPattern.MatchString(email) {
		return false
	}
	if strings.Contains(email, "..") {
		return false
	}
	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" || domain == "" {
		return false
	}
	domainParts := strings.Split(domain, ".")
	if len(domainParts) < 2 {
		return false
	}
	tld := domainParts[len(domainParts)-1]
	return len(tld) >= 2
}

// IsValidName accepts letters, digits, spaces, hyphens, and apostrophes,
// minimum two characters after trimming.
func IsValidName(name string) bool {
	trimmed := strings.TrimSpace(name)
	if len(trimmed) < 2 {
		return false
	}
	return namePattern.MatchString(trimmed)
}

// PasswordIssues returns the list of unmet strong-password rules, empty when
// the password satisfies all of them.
func PasswordIssues(password string) []string {
	var issues []string
	if len(password) < 8 {
		issues = append(issues, "At least 8 characters")
	}
	if !lowerPattern.MatchString(password) {
		issues = append(issues, "One lowercase letter")
	}
	if !upperPattern.MatchString(password) {
		issues = append(issues, "One uppercase letter")
	}
	if !digitPattern.MatchString(password) {
		issues = append(issues, "One number")
	}
	if !specialPattern.MatchString(password) {
		issues = append(issues, "One special character")
	}
	return issues
}

// ValidateSignup checks the signup form. Every unmet password rule is listed
// in a single aggregate message.
func ValidateSignup(name, email, password string) FieldErrors {
	errs := FieldErrors{}

	switch {
	case strings.TrimSpace(name) == "":
		errs["name"] = "Please enter your full name"
	case !IsValidName(name):
		errs["name"] = "Name must contain only letters, spaces, hyphens, and apostrophes"
	}

	switch {
	case strings.TrimSpace(email) == "":
		errs["email"] = "Please enter your email address"
	case !IsValidEmail(strings.TrimSpace(email)):
		errs["email"] = "Please enter a valid email address"
	}

	if password == "" {
		errs["password"] = "Please enter a password"
	} else if issues := PasswordIssues(password); len(issues) > 0 {
		errs["password"] = "Password must have: " + strings.Join(issues, ", ")
	}

	return errs
}

// ValidateLogin checks the login form. Passwords are only required to be
// non-empty here; strength rules apply at signup.
func ValidateLogin(email, password string) FieldErrors {
	errs := FieldErrors{}

	switch {
	case strings.TrimSpace(email) == "":
		errs["email"] = "Please enter your email address"
	case !IsValidEmail(strings.TrimSpace(email)):
		errs["email"] = "Please enter a valid email address"
	}

	if password == "" {
		errs["password"] = "Please enter your password"
	}

	return errs
}

// ValidateTaskForm checks the task create/edit form.
func ValidateTaskForm(title, description, priority, dueDate string) FieldErrors {
	errs := FieldErrors{}

	trimmedTitle := strings.TrimSpace(title)
	switch {
	case trimmedTitle == "":
		errs["title"] = "Title is required"
	case len(trimmedTitle) < 3:
		errs["title"] = "Title must be at least 3 characters"
	case len(trimmedTitle) > 200:
		errs["title"] = "Title cannot exceed 200 characters"
	}

	trimmedDesc := strings.TrimSpace(description)
	switch {
	case trimmedDesc == "":
		errs["description"] = "Description is required"
	case len(trimmedDesc) < 10:
		errs["description"] = "Description must be at least 10 characters"
	}

	if priority == "" {
		errs["priority"] = "Please set your priority for this task"
	}
	if dueDate == "" {
		errs["dueDate"] = "Due Date is required for this task"
	}

	return errs
}

// ValidateRoleForm checks the role editor before save.
func ValidateRoleForm(name string, selection *PermissionSelection) FieldErrors {
	errs := FieldErrors{}

	trimmed := strings.TrimSpace(name)
	switch {
	case trimmed == "":
		errs["name"] = "Role name is required"
	case len(trimmed) < 4:
		errs["name"] = "Role name must be at least 4 characters long"
	}

	if selection == nil || selection.Empty() {
		errs["permissions"] = "Please select at least one permission"
	}

	return errs
}

// ValidateNewUser checks the admin add-user form.
func ValidateNewUser(name, email string) FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(name) == "" {
		errs["name"] = "Name is required."
	}
	if !IsValidEmail(strings.TrimSpace(email)) {
		errs["email"] = "Valid email is required."
	}
	return errs
}
