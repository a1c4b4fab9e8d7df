package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeFetch represents transport-level failures reaching a page or asset
	ErrorTypeFetch ErrorType = "fetch"
	// ErrorTypeParse represents HTML parsing errors
	ErrorTypeParse ErrorType = "parse"
	// ErrorTypeMissingField represents a mandatory field absent from a detail page
	ErrorTypeMissingField ErrorType = "missing_field"
	// ErrorTypeStorage represents filesystem errors while persisting a record
	ErrorTypeStorage ErrorType = "storage"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
)

// ScrapeError represents a scraper-specific error
type ScrapeError struct {
	Type    ErrorType
	UnitID  string
	Message string
	Err     error
	Time    time.Time
}

// Error implements the error interface
func (e *ScrapeError) Error() string {
	if e.UnitID == "" {
		if e.Err != nil {
			return fmt.Sprintf("[%s] %s - %v", e.Type, e.Message, e.Err)
		}
		return fmt.Sprintf("[%s] %s", e.Type, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("[%s] unit %s: %s - %v", e.Type, e.UnitID, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] unit %s: %s", e.Type, e.UnitID, e.Message)
}

// Unwrap returns the underlying error
func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// EntryScoped returns true if the error should abort only the current
// entry; the run continues with the next listing entry. Storage and
// configuration errors abort the whole run.
func (e *ScrapeError) EntryScoped() bool {
	switch e.Type {
	case ErrorTypeFetch, ErrorTypeParse, ErrorTypeMissingField:
		return true
	default:
		return false
	}
}

// New creates a new ScrapeError
func New(errType ErrorType, unitID, message string, err error) *ScrapeError {
	return &ScrapeError{
		Type:    errType,
		UnitID:  unitID,
		Message: message,
		Err:     err,
		Time:    time.Now(),
	}
}

// NewFetch creates a new fetch error
func NewFetch(unitID, message string, err error) *ScrapeError {
	return New(ErrorTypeFetch, unitID, message, err)
}

// NewParse creates a new parse error
func NewParse(unitID, message string, err error) *ScrapeError {
	return New(ErrorTypeParse, unitID, message, err)
}

// NewMissingField creates a new missing-field error for a mandatory field
func NewMissingField(unitID, field string) *ScrapeError {
	message := fmt.Sprintf("required field %q not found", field)
	return New(ErrorTypeMissingField, unitID, message, nil)
}

// NewStorage creates a new storage error
func NewStorage(unitID, message string, err error) *ScrapeError {
	return New(ErrorTypeStorage, unitID, message, err)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *ScrapeError {
	return New(ErrorTypeConfiguration, "", message, err)
}

// IsEntryScoped reports whether err is (or wraps) a ScrapeError that
// should only abort the current entry.
func IsEntryScoped(err error) bool {
	var serr *ScrapeError
	if stderrors.As(err, &serr) {
		return serr.EntryScoped()
	}
	return false
}
