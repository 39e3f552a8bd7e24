package auth

import (
	"fmt"
	"strings"

	"github.com/pollylang/pollylang-backend/internal/domain"
)

// Input errors. Both match domain.ErrValidation.
var (
	ErrMissingFields   = fmt.Errorf("missing fields: %w", domain.ErrValidation)
	ErrInvalidUsername = fmt.Errorf("invalid username: %w", domain.ErrValidation)
)

// maxFieldLen bounds free-text account fields.
const maxFieldLen = 256

// RegisterInput holds parameters for account registration.
type RegisterInput struct {
	Username      string
	Email         string
	Password      string
	CharacterName string
}

func (i RegisterInput) normalize() RegisterInput {
	i.Username = strings.TrimSpace(i.Username)
	i.Email = strings.TrimSpace(i.Email)
	i.CharacterName = strings.TrimSpace(i.CharacterName)
	return i
}

// Validate checks required fields and the username format.
func (i RegisterInput) Validate() error {
	if i.Username == "" || i.Email == "" || i.Password == "" || i.CharacterName == "" {
		return ErrMissingFields
	}
	if !domain.ValidUsername(i.Username) {
		return ErrInvalidUsername
	}
	var errs []domain.FieldError
	if len(i.Email) > maxFieldLen || !strings.Contains(i.Email, "@") {
		errs = append(errs, domain.FieldError{Field: "email", Message: "invalid email"})
	}
	if len(i.Password) > maxFieldLen {
		errs = append(errs, domain.FieldError{Field: "password", Message: "too long"})
	}
	if len(i.CharacterName) > maxFieldLen {
		errs = append(errs, domain.FieldError{Field: "characterName", Message: "too long"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// LoginInput holds parameters for password login.
type LoginInput struct {
	UsernameOrEmail string
	Password        string
}

// Validate checks that both fields are present.
func (i LoginInput) Validate() error {
	if strings.TrimSpace(i.UsernameOrEmail) == "" || i.Password == "" {
		return ErrMissingFields
	}
	return nil
}
