package cache

import (
	"errors"
	"fmt"
)

// Sentinel errors for cache operations.
var (
	ErrFetch          = errors.New("resource fetch failed")
	ErrInvalidPayload = errors.New("invalid resource payload")
	ErrHTTPStatus     = errors.New("unexpected HTTP status")
	ErrStoreOpen      = errors.New("failed to open cache store")
)

// FetchError reports a failed retrieval of URL. It matches ErrFetch with
// errors.Is and also unwraps to the underlying cause.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%v: %s: %v", ErrFetch, e.URL, e.Err)
}

func (e *FetchError) Unwrap() []error {
	return []error{ErrFetch, e.Err}
}
