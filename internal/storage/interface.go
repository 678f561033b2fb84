package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a transcript does not exist
var ErrNotFound = errors.New("transcript not found")

// StorageInterface defines the contract for transcript storage
type StorageInterface interface {
	Store(ctx context.Context, name string, data []byte) error
	Retrieve(ctx context.Context, name string) ([]byte, error)
	List(ctx context.Context, prefix string) ([]string, error)
	Delete(ctx context.Context, name string) error
}
