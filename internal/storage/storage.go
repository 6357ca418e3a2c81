// Package storage provides durable key/value backends for the persisted session.
package storage

import (
	"errors"
	"fmt"

	"github.com/matheus05dev/mindforge-front-sub001/internal/config"
)

// ErrNotFound is returned by Load when nothing is stored under the key
var ErrNotFound = errors.New("no data stored under key")

// Storage defines the interface for durable key/value operations.
// This allows us to mock the keyring in tests
type Storage interface {
	Load(key string) ([]byte, error)
	Save(key string, data []byte) error
	Delete(key string) error
}

// New returns the backend selected by the session configuration
func New(cfg config.SessionConfig) (Storage, error) {
	switch cfg.Storage {
	case config.StorageKeyring:
		return NewKeyring(KeyringService), nil
	case config.StorageFile:
		dir := cfg.Dir
		if dir == "" {
			var err error
			dir, err = DefaultDir()
			if err != nil {
				return nil, err
			}
		}
		return NewFile(dir), nil
	case config.StorageMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown session storage %q", cfg.Storage)
	}
}
