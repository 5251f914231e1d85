package link

import (
	"context"
	"errors"
	"fmt"

	"github.com/jaevor/go-nanoid"
)

// DefaultHandleLength is the number of nanoid characters in a handle,
// roughly 48 bits of entropy.
const DefaultHandleLength = 8

// HandleGenerator issues unique, unguessable handles. Generation uses a
// CSPRNG with a URL-safe alphabet; the record store re-check is a
// correctness safety net, not the primary uniqueness mechanism.
type HandleGenerator struct {
	generate func() string
	records  Repository
}

// NewHandleGenerator creates a generator producing handles of the given
// character length.
func NewHandleGenerator(records Repository, length int) (*HandleGenerator, error) {
	gen, err := nanoid.Standard(length)
	if err != nil {
		return nil, fmt.Errorf("create handle generator: %w", err)
	}

	return &HandleGenerator{generate: gen, records: records}, nil
}

// NewHandle returns a handle not currently present in the record store,
// regenerating on collision.
func (g *HandleGenerator) NewHandle(ctx context.Context) (Handle, error) {
	for {
		handle := Handle(g.generate())

		_, err := g.records.GetByHandle(ctx, handle)
		if errors.Is(err, ErrNotFound) {
			return handle, nil
		}

		if err != nil {
			return "", fmt.Errorf("check handle uniqueness: %w", err)
		}
		// Collision: try again.
	}
}
