// Package metadata is the client-local key-value store backing the dialog's
// persisted state (last logged-in user, session salt).
//
// Contract: Get returns (nil, nil) for a missing key. SetAll writes every pair
// or none of them.
package metadata

import (
	"context"
)

// Keys written by the auth controller.
const (
	KeyLastLogged = "last_logged"
	KeyAPISalt    = "api_salt"
)

type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetAll(ctx context.Context, values map[string][]byte) error
	Delete(ctx context.Context, key string) error
}
