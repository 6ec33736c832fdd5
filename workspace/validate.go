package workspace

import (
	"errors"
	"regexp"
	"strings"
)

var projectNamePattern = regexp.MustCompile(`^[A-Za-z0-9 _.-]+$`)

// ValidateProjectName rejects empty, overlong, or oddly-charactered project
// names before any request is made.
func ValidateProjectName(name string) error {
	if name == "" {
		return errors.New("project name is required")
	}
	if len(name) > 64 || !projectNamePattern.MatchString(name) {
		return errors.New("project name has invalid characters or is too long")
	}
	return nil
}

// ValidateFileName rejects empty names, traversal attempts and absolute
// paths.
func ValidateFileName(name string) error {
	if name == "" {
		return errors.New("file name is required")
	}
	if len(name) > 180 || strings.Contains(name, "..") || strings.HasPrefix(name, "/") {
		return errors.New("file name is invalid")
	}
	return nil
}

// ValidateCredentials checks a registration form: username at least 3
// characters, password 6 to 64, confirmation matching.
func ValidateCredentials(username, password, confirm string) error {
	if strings.TrimSpace(username) == "" || password == "" {
		return errors.New("username and password are required")
	}
	if len(strings.TrimSpace(username)) < 3 {
		return errors.New("username must be at least 3 characters")
	}
	if len(password) < 6 {
		return errors.New("password must be at least 6 characters")
	}
	if len(password) > 64 {
		return errors.New("password is too long")
	}
	if password != confirm {
		return errors.New("passwords do not match")
	}
	return nil
}
