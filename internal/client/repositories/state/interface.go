// Package state persists small key/value entries of the client state medium
// (session token, identity JSON) in the local SQLite database.
package state

import "context"

// Repository describes the key/value operations over the state table.
// Get returns (nil, nil) when the key is absent.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
