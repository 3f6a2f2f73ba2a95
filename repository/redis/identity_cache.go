package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/projectpulse/backend/domain"
	"github.com/projectpulse/backend/repository"
)

type identityCache struct {
	client *redislib.Client
	next   repository.UserRepository
	prefix string
	ttl    time.Duration
}

// NewIdentityCache decorates a UserRepository with a Redis cache for
// identity-subject lookups. Every comment write resolves the caller's
// subject, so the hot path avoids a Postgres round trip. Misses and write
// failures fall through to the wrapped repository.
func NewIdentityCache(client *redislib.Client, next repository.UserRepository, ttl time.Duration) repository.UserRepository {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &identityCache{
		client: client,
		next:   next,
		prefix: "identity:",
		ttl:    ttl,
	}
}

func (c *identityCache) GetBySubject(ctx context.Context, subject string) (*domain.User, error) {
	if subject == "" {
		return nil, domain.ErrInvalidPayload
	}

	// A cache miss and a Redis outage are treated the same way: fall
	// through to the wrapped repository.
	if cached, err := c.client.Get(ctx, c.key(subject)).Result(); err == nil {
		var user domain.User
		if json.Unmarshal([]byte(cached), &user) == nil {
			return &user, nil
		}
	}

	user, err := c.next.GetBySubject(ctx, subject)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(user); err == nil {
		_ = c.client.Set(ctx, c.key(subject), payload, c.ttl).Err()
	}
	return user, nil
}

func (c *identityCache) GetByID(ctx context.Context, id int) (*domain.User, error) {
	return c.next.GetByID(ctx, id)
}

func (c *identityCache) List(ctx context.Context) ([]domain.User, error) {
	return c.next.List(ctx)
}

func (c *identityCache) key(subject string) string {
	return fmt.Sprintf("%s%s", c.prefix, subject)
}
