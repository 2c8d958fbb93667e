// Package data defines the generic repository contract injected into
// request handlers and its storage backends.
package data

import (
	"context"

	"github.com/google/uuid"
)

// Repository stores entities of type E under generated string IDs. Missing
// IDs are reported with an error matching errors.ErrNotFound.
type Repository[E any] interface {
	Get(ctx context.Context, id string) (E, error)
	List(ctx context.Context) ([]E, error)
	Add(ctx context.Context, entity E) (string, error)
	Update(ctx context.Context, id string, entity E) error
	Delete(ctx context.Context, id string) error
}

func newID() string {
	return uuid.NewString()
}

var (
	_ Repository[struct{}] = (*Memory[struct{}])(nil)
	_ Repository[struct{}] = (*Postgres[struct{}])(nil)
)
