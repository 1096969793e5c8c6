package storage

import "time"

// Entry is one stored key-value pair.
type Entry struct {
	Namespace string
	Key       string
	Value     string // JSON document owned by the caller
	UpdatedAt time.Time
}
