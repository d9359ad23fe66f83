package models

import "fmt"

// Error codes used in API responses and internal error handling.
const (
	ErrCodeServerMisconfigured = "SERVER_MISCONFIGURED"
	ErrCodeUnauthorized        = "UNAUTHORIZED"
	ErrCodeInvalidInput        = "INVALID_INPUT"
	ErrCodeRateLimited         = "RATE_LIMITED"
	ErrCodeInternal            = "INTERNAL_ERROR"

	// Scrape failures. These never change the HTTP status of /scrape; they
	// surface as {"error": ...} bodies.
	ErrCodeUnsupportedSite = "UNSUPPORTED_SITE"
	ErrCodeInvalidURL      = "INVALID_URL"
	ErrCodeFetch           = "FETCH_FAILED"
	ErrCodeTimeout         = "FETCH_TIMEOUT"
	ErrCodeNoRecipe        = "NO_RECIPE_FOUND"
	ErrCodeBrowserCrash    = "BROWSER_CRASH"
)

// UnsupportedSiteMessage is the fixed client-facing text for ErrCodeUnsupportedSite.
const UnsupportedSiteMessage = "Website not implemented for scraping yet"

// ScrapeError is the internal error type carrying an error code.
// It implements the error interface and supports error wrapping via Unwrap.
type ScrapeError struct {
	Code    string
	Message string
	Err     error // wrapped original error
}

func (e *ScrapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// Description is the human-readable text returned to API clients: the
// message, followed by the wrapped cause when there is one.
func (e *ScrapeError) Description() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// NewScrapeError creates a new ScrapeError.
func NewScrapeError(code, message string, err error) *ScrapeError {
	return &ScrapeError{Code: code, Message: message, Err: err}
}
