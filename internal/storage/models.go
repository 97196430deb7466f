package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Slot is one durable key-value entry. Value is an opaque text blob.
type Slot struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}
