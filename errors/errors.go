// Package errors defines all exported error sentinels for the recordgen library.
//
// This is the single source of truth for error values. Both the top-level
// recordgen package and the internal packages import from here, ensuring
// errors.Is checks work across package boundaries.
package errors

import "errors"

// Configuration errors, returned before any worker starts.
var (
	ErrEmptyWordList     = errors.New("recordgen: word list is empty")
	ErrEmptyWord         = errors.New("recordgen: word list contains an empty word")
	ErrTooManyWords      = errors.New("recordgen: word list exceeds 2^32 entries")
	ErrWordHasTerminator = errors.New("recordgen: word contains the line terminator")
	ErrEmptyTerminator   = errors.New("recordgen: line terminator is empty")
	ErrInvalidIDRange    = errors.New("recordgen: invalid id range (max < min or negative id)")
	ErrInvalidBufferSize = errors.New("recordgen: buffer size must be positive")
	ErrBufferTooSmall    = errors.New("recordgen: buffer size is smaller than the longest possible record")
	ErrInvalidTarget     = errors.New("recordgen: target size must not be negative")
	ErrInvalidWorkers    = errors.New("recordgen: worker count must not be negative")
	ErrUnknownStrategy   = errors.New("recordgen: unknown generation strategy")
	ErrEmptyPath         = errors.New("recordgen: output path is empty")
)

// Run errors
var (
	ErrRecordTooLarge   = errors.New("recordgen: destination too small for a record")
	ErrGeneratorUsed    = errors.New("recordgen: generator has already run")
	ErrQueueClosed      = errors.New("recordgen: handoff queue is closed")
	ErrTargetNotReached = errors.New("recordgen: producers stopped before the target size was reached")
)

// Verification errors
var (
	ErrMalformedRecord   = errors.New("recordgen: malformed record")
	ErrMissingTerminator = errors.New("recordgen: file does not end with a line terminator")
)
