package sdk

import (
	"regexp"
	"time"
	"unicode/utf8"
)

// Length limits enforced before a request is sent.
const (
	MaxNameLength        = 255
	MaxDescriptionLength = 1000
)

var namePattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// now is the clock used by the expiry rules.
var now = time.Now

func validateLength(field, value string, min, max int) error {
	n := utf8.RuneCountInString(value)
	if n < min || n > max {
		return invalidField(field, "length must be between %d and %d characters, got %d", min, max, n)
	}
	return nil
}

// validateName checks a resource name against the pattern shared by API keys,
// datasets and fine-tuning jobs.
func validateName(field, name string) error {
	if err := validateLength(field, name, 1, MaxNameLength); err != nil {
		return err
	}
	if !namePattern.MatchString(name) {
		return invalidField(field, "must match %s", namePattern.String())
	}
	return nil
}

// ValidateName reports whether name is usable as an API key, dataset or job name.
func ValidateName(name string) error {
	return validateName("name", name)
}

func validateDescription(field, description string) error {
	if n := utf8.RuneCountInString(description); n > MaxDescriptionLength {
		return invalidField(field, "must be at most %d characters, got %d", MaxDescriptionLength, n)
	}
	return nil
}

func validateFuture(field string, t time.Time) error {
	if t.IsZero() {
		return invalidField(field, "is required")
	}
	if !t.UTC().After(now().UTC()) {
		return invalidField(field, "expiration date must be in the future")
	}
	return nil
}

func validateDateRange(start, end Date) error {
	if end.Before(start) {
		return &ClientError{Field: "end_date", Message: "end_date must be equal to or after start_date"}
	}
	return nil
}

func validatePathName(field, name string) error {
	if name == "" {
		return invalidField(field, "is required")
	}
	return nil
}
