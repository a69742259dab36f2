package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// PostalCodeCache stores the communes returned for a postal code.
// Key format: cp:<code_postal>
type PostalCodeCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewPostalCodeCache(client redis.Cmdable, ttl time.Duration) *PostalCodeCache {
	return &PostalCodeCache{client: client, ttl: ttl}
}

// Get returns the cached city names and whether the key was present.
func (c *PostalCodeCache) Get(ctx context.Context, codePostal string) ([]string, bool, error) {
	raw, err := c.client.Get(ctx, c.key(codePostal)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("postal cache get: %w", err)
	}

	var villes []string
	if err := json.Unmarshal(raw, &villes); err != nil {
		return nil, false, fmt.Errorf("postal cache decode: %w", err)
	}
	return villes, true, nil
}

// Set stores villes for codePostal until the TTL elapses.
func (c *PostalCodeCache) Set(ctx context.Context, codePostal string, villes []string) error {
	raw, err := json.Marshal(villes)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(codePostal), raw, c.ttl).Err()
}

func (c *PostalCodeCache) key(codePostal string) string {
	return "cp:" + codePostal
}
