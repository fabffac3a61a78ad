package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	// ErrNotFound means no usable candidate URL was discovered for a query.
	ErrNotFound = errors.New("no candidate found")

	// ErrNoPrices means a rendered page produced no usable price amounts.
	ErrNoPrices = errors.New("no prices found on page")

	// ErrTimeout means the rendering collaborator did not satisfy a wait
	// condition within its bound.
	ErrTimeout = errors.New("render timed out")

	// ErrEmptyPage means a page rendered with no body text.
	ErrEmptyPage = errors.New("empty page body")

	// ErrInvalidURL marks a malformed address.
	ErrInvalidURL = errors.New("invalid URL")
)

// ParseError wraps a price text that could not be turned into an amount.
type ParseError struct {
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse price %q: %v", e.Text, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// FetchError wraps errors that occur while rendering a page.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch error for %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// StorageError wraps errors from a storage backend.
type StorageError struct {
	Backend string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error (%s): %v", e.Backend, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// PipelineError wraps errors raised by a record pipeline stage.
type PipelineError struct {
	Stage string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("pipeline error at stage %q: %v", e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error { return e.Err }
