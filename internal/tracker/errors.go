package tracker

import "errors"

var (
	// ErrNotFoundOrForbidden is returned when a series id does not exist or
	// belongs to another chat. The two cases are deliberately
	// indistinguishable so callers cannot probe for other chats' records.
	ErrNotFoundOrForbidden = errors.New("series not found or access denied")

	// ErrNotFound is returned by name lookups when the chat has no series
	// with that name.
	ErrNotFound = errors.New("series not found")

	// ErrInvalidProgress is returned when a season or episode number is
	// below 1.
	ErrInvalidProgress = errors.New("season and episode numbers start at 1")
)
