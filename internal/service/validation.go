package service

import (
	"errors"
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	appErrors "github.com/slutstation/slutstation-web/pkg/errors"
)

// validationError wraps a validator failure, listing each rejected field.
func validationError(err error, message string) error {
	wrapped := appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return wrapped
	}
	details := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		details = append(details, fmt.Sprintf("%s: %s", lowerFirst(fe.Field()), fe.Tag()))
	}
	wrapped.Details = details
	return wrapped
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
