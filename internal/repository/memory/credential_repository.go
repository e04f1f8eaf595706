package memory

import (
	"context"
	"time"

	"github.com/cridiv/Aedar/pkg/calendar"

	"github.com/patrickmn/go-cache"
)

// CredentialRepository keeps calendar credentials in process memory. They do
// not survive a restart.
type CredentialRepository struct {
	cache *cache.Cache
}

// NewCredentialRepository creates a store whose entries expire after ttl.
// A zero ttl keeps entries until they are deleted.
func NewCredentialRepository(ttl time.Duration) *CredentialRepository {
	expiration := cache.NoExpiration
	if ttl > 0 {
		expiration = ttl
	}
	// Purge expired items every 10 minutes
	c := cache.New(expiration, 10*time.Minute)
	return &CredentialRepository{
		cache: c,
	}
}

func (r *CredentialRepository) Get(ctx context.Context, userID string) (*calendar.Credential, error) {
	if x, found := r.cache.Get(userID); found {
		cred := x.(calendar.Credential)
		return &cred, nil
	}
	return nil, calendar.ErrCredentialNotFound
}

func (r *CredentialRepository) Set(ctx context.Context, userID string, cred calendar.Credential) error {
	r.cache.Set(userID, cred, cache.DefaultExpiration)
	return nil
}

func (r *CredentialRepository) Delete(ctx context.Context, userID string) error {
	r.cache.Delete(userID)
	return nil
}
