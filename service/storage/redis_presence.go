package storage

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

type Config struct {
	Addr     string
	Password string
	DB       int
}

// PresenceStore mirrors online/offline edges into redis so the REST
// tier can answer "who is online" without reaching into the gateway.
// Best-effort only: the in-memory registry stays authoritative, and a
// TTL bounds staleness if the process dies without cleaning up.
type PresenceStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewPresenceStore(c Config, ttl time.Duration) (*PresenceStore, error) {
	rdb := redis.NewClient(&redis.Options{Addr: c.Addr, Password: c.Password, DB: c.DB})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, errors.Wrap(err, "redis ping")
	}
	return &PresenceStore{rdb: rdb, ttl: ttl}, nil
}

// presence key: hub:presence:<user>
func presenceKey(user string) string { return "hub:presence:" + user }

// Online marks the user online and renews the TTL.
func (p *PresenceStore) Online(user string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return p.rdb.Set(ctx, presenceKey(user), time.Now().Unix(), p.ttl).Err()
}

// Offline deletes the presence key after the user's last connection.
func (p *PresenceStore) Offline(user string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return p.rdb.Del(ctx, presenceKey(user)).Err()
}

// Lookup checks whether the user is currently mirrored as online.
func (p *PresenceStore) Lookup(user string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := p.rdb.Get(ctx, presenceKey(user)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
