package testutil

// FixedRunIDGenerator returns the same run ID every time, so a test can
// run any number of commands and still get byte-identical output.
type FixedRunIDGenerator struct {
	id string
}

// NewFixedRunIDGenerator returns a generator yielding id. If id is empty,
// Generate returns "test-run-default".
func NewFixedRunIDGenerator(id string) *FixedRunIDGenerator {
	if id == "" {
		id = "test-run-default"
	}
	return &FixedRunIDGenerator{id: id}
}

// Generate returns the fixed run ID.
func (g *FixedRunIDGenerator) Generate() string {
	return g.id
}
