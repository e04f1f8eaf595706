package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cridiv/Aedar/pkg/calendar"

	goredis "github.com/redis/go-redis/v9"
)

const credentialKeyPrefix = "aedar:calendar:credential:"

// CredentialRepository stores calendar credentials as JSON values in Redis.
type CredentialRepository struct {
	rdb *goredis.Client
	ttl time.Duration
}

// NewCredentialRepository returns a store writing entries with the given ttl.
// A zero ttl keeps entries until they are deleted.
func NewCredentialRepository(rdb *goredis.Client, ttl time.Duration) *CredentialRepository {
	return &CredentialRepository{rdb: rdb, ttl: ttl}
}

func credentialKey(userID string) string {
	return credentialKeyPrefix + userID
}

func (r *CredentialRepository) Get(ctx context.Context, userID string) (*calendar.Credential, error) {
	data, err := r.rdb.Get(ctx, credentialKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, calendar.ErrCredentialNotFound
		}
		return nil, fmt.Errorf("failed to read credential: %w", err)
	}

	var cred calendar.Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return nil, fmt.Errorf("failed to decode credential: %w", err)
	}
	return &cred, nil
}

func (r *CredentialRepository) Set(ctx context.Context, userID string, cred calendar.Credential) error {
	data, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("failed to encode credential: %w", err)
	}
	if err := r.rdb.Set(ctx, credentialKey(userID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write credential: %w", err)
	}
	return nil
}

func (r *CredentialRepository) Delete(ctx context.Context, userID string) error {
	return r.rdb.Del(ctx, credentialKey(userID)).Err()
}
