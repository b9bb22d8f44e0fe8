package models

import (
	"fmt"
	"unicode/utf8"
)

// Field-length minima enforced before any submission. These mirror the
// backend's own validation so obviously bad input never leaves the client.
const (
	MinLoginUsername    = 4
	MinRegisterUsername = 3
	MinPassword         = 5
	MinName             = 3
)

// ValidateLogin checks login credentials before submission.
// A violation blocks the request entirely.
func ValidateLogin(username, password string) error {
	if username == "" {
		return fmt.Errorf("username is required")
	}
	if utf8.RuneCountInString(username) < MinLoginUsername {
		return fmt.Errorf("username must be at least %d characters", MinLoginUsername)
	}
	if password == "" {
		return fmt.Errorf("password is required")
	}
	if utf8.RuneCountInString(password) < MinPassword {
		return fmt.Errorf("password must be at least %d characters", MinPassword)
	}
	return nil
}

// Validate checks registration profile fields before submission.
func (r Registration) Validate() error {
	if r.FirstName == "" {
		return fmt.Errorf("first name is required")
	}
	if utf8.RuneCountInString(r.FirstName) < MinName {
		return fmt.Errorf("first name must be at least %d characters", MinName)
	}
	if r.LastName == "" {
		return fmt.Errorf("last name is required")
	}
	if utf8.RuneCountInString(r.LastName) < MinName {
		return fmt.Errorf("last name must be at least %d characters", MinName)
	}
	if r.Username == "" {
		return fmt.Errorf("username is required")
	}
	if utf8.RuneCountInString(r.Username) < MinRegisterUsername {
		return fmt.Errorf("username must be at least %d characters", MinRegisterUsername)
	}
	if r.Password == "" {
		return fmt.Errorf("password is required")
	}
	if utf8.RuneCountInString(r.Password) < MinPassword {
		return fmt.Errorf("password must be at least %d characters", MinPassword)
	}
	return nil
}
