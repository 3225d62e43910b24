// Package rediscache memoizes account lookups in Redis.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/light-bringer/advert-catalog/internal/app/advert/contracts"
)

const (
	keyPrefix   = "account:name:"
	idKeyPrefix = "account:id:"
)

// Client is the part of redis.Cmdable the cache uses.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// Directory caches hits from the wrapped directory for ttl. Misses are not
// cached so new accounts show up immediately. Redis failures fall through to
// the wrapped directory.
type Directory struct {
	next   contracts.AccountDirectory
	client Client
	ttl    time.Duration
	logger *zap.Logger
}

// New wraps next.
func New(next contracts.AccountDirectory, client Client, ttl time.Duration, logger *zap.Logger) *Directory {
	return &Directory{next: next, client: client, ttl: ttl, logger: logger}
}

// LookupByName returns the cached id or asks the wrapped directory.
func (d *Directory) LookupByName(ctx context.Context, name string) (string, bool, error) {
	key := keyPrefix + name

	id, err := d.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		return id, true, nil
	case !errors.Is(err, redis.Nil):
		d.logger.Warn("Account cache read failed", zap.String("name", name), zap.Error(err))
	}

	id, found, err := d.next.LookupByName(ctx, name)
	if err != nil || !found {
		return id, found, err
	}

	if err := d.client.Set(ctx, key, id, d.ttl).Err(); err != nil {
		d.logger.Warn("Account cache write failed", zap.String("name", name), zap.Error(err))
	}
	return id, true, nil
}

// LookupByID returns the cached profile or asks the wrapped directory.
// Profiles are stored as JSON.
func (d *Directory) LookupByID(ctx context.Context, accountID string) (*contracts.Account, bool, error) {
	key := idKeyPrefix + accountID

	raw, err := d.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var account contracts.Account
		if err := json.Unmarshal(raw, &account); err == nil {
			return &account, true, nil
		}
		d.logger.Warn("Discarding malformed cached account", zap.String("accountId", accountID))
	case !errors.Is(err, redis.Nil):
		d.logger.Warn("Account cache read failed", zap.String("accountId", accountID), zap.Error(err))
	}

	account, found, err := d.next.LookupByID(ctx, accountID)
	if err != nil || !found {
		return account, found, err
	}

	payload, err := json.Marshal(account)
	if err != nil {
		return account, true, nil
	}
	if err := d.client.Set(ctx, key, string(payload), d.ttl).Err(); err != nil {
		d.logger.Warn("Account cache write failed", zap.String("accountId", accountID), zap.Error(err))
	}
	return account, true, nil
}
