package commands

import (
	"fmt"
	"strings"
	"unicode/utf8"

	domainerrors "desci/contexts/governance/governance-accounting/domain/errors"

	"github.com/microcosm-cc/bluemonday"
)

const (
	maxTitleLength       = 200
	maxDescriptionLength = 10000
)

var textPolicy = bluemonday.StrictPolicy()

// cleanText strips markup from user supplied text and bounds its length.
func cleanText(field string, raw string, maxLength int, required bool) (string, error) {
	value := strings.TrimSpace(textPolicy.Sanitize(raw))
	if required && value == "" {
		return "", fmt.Errorf("%w: %s is required", domainerrors.ErrValidation, field)
	}
	if utf8.RuneCountInString(value) > maxLength {
		return "", fmt.Errorf("%w: %s exceeds %d characters", domainerrors.ErrValidation, field, maxLength)
	}
	return value, nil
}
