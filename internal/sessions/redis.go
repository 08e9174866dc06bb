package sessions

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "ssc:session:"

// RedisDB keeps encoded sessions in redis with the session max age as TTL.
type RedisDB struct {
	client redis.Cmdable
}

var _ DB = (*RedisDB)(nil)

func NewRedisDB(client redis.Cmdable) *RedisDB {
	return &RedisDB{client: client}
}

func (d *RedisDB) Save(ctx context.Context, sessionID string, s EncodedSession, ttl time.Duration) error {
	return d.client.Set(ctx, redisKeyPrefix+sessionID, s.Values, ttl).Err()
}

func (d *RedisDB) Del(ctx context.Context, sessionID string) error {
	return d.client.Del(ctx, redisKeyPrefix+sessionID).Err()
}

func (d *RedisDB) Get(ctx context.Context, sessionID string) (*EncodedSession, error) {
	v, err := d.client.Get(ctx, redisKeyPrefix+sessionID).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &EncodedSession{Values: v}, nil
}
