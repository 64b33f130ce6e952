// Package metadata stores small string values in the local client database.
// It is the client's equivalent of browser local storage.
package metadata

import (
	"context"
)

// Repository is a string key/value store.
//
// Get reports ok=false for a missing key; that is not an error. Delete of a
// missing key is a no-op. List returns every stored pair in one read.
type Repository interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string]string, error)
}
