package service

import "errors"

// IsInvalidInput reports whether err is a request-validation failure, so the
// HTTP layer can answer 400 instead of 500.
func IsInvalidInput(err error) bool {
	for _, sentinel := range []error{
		errInvalidWorkingTime,
		errInvalidDescription,
		errInvalidFrequency,
		errInvalidCancelType,
		errEmptyToken,
		errEmptyColor,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
