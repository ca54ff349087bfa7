package github

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/go-github/v74/github"
)

// Error kinds surfaced to callers. Fetch operations wrap every failure
// in exactly one of these so the CLI can map them to exit codes with
// errors.Is.
var (
	ErrAuthentication  = errors.New("authentication failed")
	ErrNotFound        = errors.New("repository not found")
	ErrTransient       = errors.New("transient source failure")
	ErrInvalidArgument = errors.New("invalid argument")
)

// classify maps a go-github error onto the error taxonomy. Rate limits
// are transient; everything without an HTTP response (DNS, timeouts,
// connection resets) is transient too.
func classify(err error) error {
	var rateErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	var respErr *github.ErrorResponse

	switch {
	case errors.As(err, &rateErr), errors.As(err, &abuseErr):
		return fmt.Errorf("%w: rate limited: %v", ErrTransient, err)
	case errors.As(err, &respErr):
		switch respErr.Response.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %v", ErrAuthentication, err)
		case http.StatusNotFound, http.StatusGone:
			return fmt.Errorf("%w: %v", ErrNotFound, err)
		default:
			return fmt.Errorf("%w: %v", ErrTransient, err)
		}
	default:
		return fmt.Errorf("%w: %v", ErrTransient, err)
	}
}
