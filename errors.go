package webfetch

import (
	"errors"
	"fmt"
)

// ValidationError is returned when a prompt can't be worked on at all
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// FetchError is returned when the content of a URL can't be acquired
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch URL %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// BackendError is returned when the generative backend fails
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is caused by bad input
func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

// reason returns the underlying cause of a fetch failure, since the URL is
// already named alongside it
func reason(err error) string {
	var ferr *FetchError
	if errors.As(err, &ferr) && ferr.Err != nil {
		return ferr.Err.Error()
	}
	return err.Error()
}
