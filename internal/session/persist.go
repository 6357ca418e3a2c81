package session

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/matheus05dev/mindforge-front-sub001/internal/storage"
)

// StorageKey is the fixed key the session is persisted under
const StorageKey = "auth-storage"

// persistVersion is bumped whenever State changes shape; see migrate.
const persistVersion = 1

// ErrUnsupportedVersion is returned for payloads written by a newer release
var ErrUnsupportedVersion = errors.New("unsupported persisted session version")

type envelope struct {
	State   State `json:"state"`
	Version int   `json:"version"`
}

// Encode serializes a state in the versioned persisted format
func Encode(st State) ([]byte, error) {
	return json.Marshal(envelope{State: st, Version: persistVersion})
}

// Decode parses a persisted payload, migrating older versions
func Decode(data []byte) (State, error) {
	var raw struct {
		State   json.RawMessage `json:"state"`
		Version *int            `json:"version"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return State{}, fmt.Errorf("failed to parse persisted session: %w", err)
	}

	version := 0
	if raw.Version != nil {
		version = *raw.Version
	}

	return migrate(version, raw.State, data)
}

func migrate(version int, state json.RawMessage, whole []byte) (State, error) {
	var st State
	switch version {
	case 0:
		// Unversioned payloads stored the state at the top level
		payload := whole
		if len(state) > 0 {
			payload = state
		}
		if err := json.Unmarshal(payload, &st); err != nil {
			return State{}, fmt.Errorf("failed to parse legacy session: %w", err)
		}
	case persistVersion:
		if err := json.Unmarshal(state, &st); err != nil {
			return State{}, fmt.Errorf("failed to parse session state: %w", err)
		}
	default:
		return State{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}
	return st, nil
}

// Rehydrate restores the persisted session into store, marks it hydrated and
// registers a listener that saves every later mutation.
//
// A missing or unreadable payload leaves the store empty; the store is marked
// hydrated in every case so the route guard can make a decision. The returned
// function detaches persistence.
func Rehydrate(store *Store, backend storage.Storage, logger zerolog.Logger) (func(), error) {
	log := logger.With().Str("component", "session-persist").Logger()

	unsubscribe := store.Subscribe(func(st State) {
		if err := save(backend, st); err != nil {
			log.Warn().Err(err).Msg("Failed to persist session")
		}
	})

	err := load(store, backend, log)

	// Mutations made before the listener was attached exist only in memory
	store.syncMutated(func(st State) {
		if err := save(backend, st); err != nil {
			log.Warn().Err(err).Msg("Failed to persist session")
		}
	})

	store.SetHasHydrated(true)

	return unsubscribe, err
}

func load(store *Store, backend storage.Storage, log zerolog.Logger) error {
	data, err := backend.Load(StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Debug().Msg("No persisted session")
			return nil
		}
		return fmt.Errorf("failed to load persisted session: %w", err)
	}

	st, err := Decode(data)
	if err != nil {
		log.Warn().Err(err).Msg("Ignoring unreadable persisted session")
		return nil
	}

	if !store.restore(st) {
		log.Debug().Msg("Session changed before hydration finished, keeping in-memory state")
		return nil
	}

	log.Debug().Bool("authenticated", st.IsAuthenticated).Msg("Session rehydrated")
	return nil
}

func save(backend storage.Storage, st State) error {
	data, err := Encode(st)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	return backend.Save(StorageKey, data)
}
