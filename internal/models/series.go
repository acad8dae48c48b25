package models

import (
	"errors"
	"time"
)

// ErrSeriesNotFound is returned when no series matches a lookup.
var ErrSeriesNotFound = errors.New("series not found")

// Series represents one tracked series. Each record belongs to exactly one
// chat; ChatID never changes after creation.
type Series struct {
	ID     uint64 `boltholdKey:"ID"`
	ChatID int64  `boltholdIndex:"ChatID"`

	Name    string
	Season  int
	Episode int

	Finished bool

	// StartDate anchors the watch-duration computation and is immutable.
	// LastWatchedDate is nil until the first progress change.
	StartDate       time.Time
	LastWatchedDate *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
