package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Key derives a deterministic cache key from a namespace and the normalized
// input parts. Parts are lowercased and trimmed before hashing so that
// "Av. Paulista, 1578" and " av. paulista, 1578 " map to the same entry.
func Key(namespace string, parts ...string) string {
	normalized := make([]string, len(parts))
	for i, p := range parts {
		normalized[i] = strings.ToLower(strings.TrimSpace(p))
	}

	sum := sha256.Sum256([]byte(strings.Join(normalized, "|")))
	return namespace + ":" + hex.EncodeToString(sum[:])
}

// GetJSON reads a cached entry and unmarshals it into dest.
// Returns ErrNotFound (wrapped) on a miss.
func GetJSON(ctx context.Context, c Cache, key string, dest interface{}) error {
	data, err := c.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to decode cached entry %s: %w", key, err)
	}
	return nil
}

// SetJSON marshals value and stores it under key with the given TTL.
func SetJSON(ctx context.Context, c Cache, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry %s: %w", key, err)
	}
	return c.Set(ctx, key, data, ttl)
}

// IsMiss reports whether err represents a cache miss rather than a store failure.
func IsMiss(err error) bool {
	return errors.Is(err, ErrNotFound)
}
