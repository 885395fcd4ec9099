// Package validation holds input validation helpers shared by handlers and
// services.
package validation

import (
	"errors"
	"regexp"
	"strings"

	"minipay/internal/models"
)

var loginPattern = regexp.MustCompile(`^[a-z0-9_-]{3,32}$`)

// ValidateRegistration checks registration input before any storage access.
func ValidateRegistration(input *models.CreateUserInput) error {
	if input == nil {
		return errors.New("missing request body")
	}
	if !loginPattern.MatchString(input.Login) {
		return errors.New("login must be 3-32 characters of lowercase letters, digits, '-' or '_'")
	}
	if !strings.Contains(input.Email, "@") {
		return errors.New("invalid email address")
	}
	if strings.TrimSpace(input.Name) == "" {
		return errors.New("name is required")
	}
	if len(input.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	return nil
}
