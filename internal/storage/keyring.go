package storage

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// KeyringService is the keychain service name entries are filed under
const KeyringService = "mindforge"

// Keyring stores values in the OS keychain/credential manager
type Keyring struct {
	service string
}

// NewKeyring creates a keyring backend for the given service name
func NewKeyring(service string) *Keyring {
	return &Keyring{service: service}
}

// Load retrieves the value from the OS keychain/credential manager
func (k *Keyring) Load(key string) ([]byte, error) {
	value, err := keyring.Get(k.service, key)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load %s from keyring: %w", key, err)
	}
	return []byte(value), nil
}

// Save persists the value securely in the OS keychain/credential manager
func (k *Keyring) Save(key string, data []byte) error {
	if err := keyring.Set(k.service, key, string(data)); err != nil {
		return fmt.Errorf("failed to save %s to keyring: %w", key, err)
	}
	return nil
}

// Delete removes the value from the OS keychain/credential manager
func (k *Keyring) Delete(key string) error {
	if err := keyring.Delete(k.service, key); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil // Already deleted
		}
		return fmt.Errorf("failed to delete %s from keyring: %w", key, err)
	}
	return nil
}
