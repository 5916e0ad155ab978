package engine

import "github.com/google/uuid"

// RunIDGenerator produces identifiers that correlate the log lines and
// output of one command invocation.
type RunIDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable run IDs. Stateless.
type UUIDv7Generator struct{}

// Generate returns a new hyphenated UUIDv7.
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}
