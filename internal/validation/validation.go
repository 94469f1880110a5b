package validation

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/gravadigital/fring-api/internal/domain/common"
)

// ValidateRequired checks that a field is not blank
func ValidateRequired(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return common.NewValidationError(fieldName + " is required")
	}
	return nil
}

// ValidateMinLength checks the minimum length of a string, in runes
func ValidateMinLength(value string, minLength int, fieldName string) error {
	if utf8.RuneCountInString(strings.TrimSpace(value)) < minLength {
		return common.NewValidationError(fmt.Sprintf("%s must be at least %d characters long", fieldName, minLength))
	}
	return nil
}

// ValidateMaxLength checks the maximum length of a string, in runes
func ValidateMaxLength(value string, maxLength int, fieldName string) error {
	if utf8.RuneCountInString(value) > maxLength {
		return common.NewValidationError(fmt.Sprintf("%s must be at most %d characters long", fieldName, maxLength))
	}
	return nil
}

// ParseUUID parses a path or body id
func ParseUUID(value, fieldName string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, common.NewValidationError(fieldName + " must be a valid UUID")
	}
	return id, nil
}

// ValidateDateRange checks that a window ends after it starts
func ValidateDateRange(startDate, endDate time.Time) error {
	if startDate.IsZero() || endDate.IsZero() {
		return common.NewValidationError("start and end dates are required")
	}
	if !endDate.After(startDate) {
		return common.NewValidationError("end date must be after start date")
	}
	return nil
}

// Invalid wraps a domain Validate error as a validation AppError
func Invalid(err error) error {
	if err == nil {
		return nil
	}
	if common.KindOf(err) != common.KindInternal {
		return err
	}
	return &common.AppError{Kind: common.KindValidation, Message: err.Error()}
}

// ItemValidation holds the rules for clothing items
type ItemValidation struct{}

// ValidateItemName validates the name of a clothing item
func (v ItemValidation) ValidateItemName(name string) error {
	if err := ValidateRequired(name, "name"); err != nil {
		return err
	}
	return ValidateMaxLength(name, 120, "name")
}

// ValidateItemText validates the optional free text fields of an item
func (v ItemValidation) ValidateItemText(description, color, brand string) error {
	if err := ValidateMaxLength(description, 1000, "description"); err != nil {
		return err
	}
	if err := ValidateMaxLength(color, 60, "color"); err != nil {
		return err
	}
	return ValidateMaxLength(brand, 60, "brand")
}

// ChallengeValidation holds the rules for défis
type ChallengeValidation struct{}

// ValidateTitle validates the title of a défi
func (v ChallengeValidation) ValidateTitle(title string) error {
	if err := ValidateRequired(title, "title"); err != nil {
		return err
	}
	if err := ValidateMinLength(title, 3, "title"); err != nil {
		return err
	}
	return ValidateMaxLength(title, 100, "title")
}

// ValidateDescription validates the description of a défi
func (v ChallengeValidation) ValidateDescription(description string) error {
	return ValidateMaxLength(description, 1000, "description")
}

// ProfileValidation holds the rules for profiles
type ProfileValidation struct{}

// ValidateUsername validates a display name
func (v ProfileValidation) ValidateUsername(name string) error {
	if err := ValidateRequired(name, "username"); err != nil {
		return err
	}
	if err := ValidateMinLength(name, 2, "username"); err != nil {
		return err
	}
	return ValidateMaxLength(name, 50, "username")
}
