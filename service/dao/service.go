package dao

import (
	"context"
)

// Service stores records keyed by K. Load returns nil without error for a
// missing key; List returns records in insertion order accepted by parameters.
type Service[K comparable, T any] interface {
	Save(ctx context.Context, record *T) error

	Load(ctx context.Context, key K) (*T, error)

	List(ctx context.Context, parameters ...*Parameter) ([]*T, error)
}
