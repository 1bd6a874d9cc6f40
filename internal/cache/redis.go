package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/emrgen/docversion/internal/compress"
	"github.com/emrgen/docversion/internal/model"
	redis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const defaultTTL = 5 * time.Minute

func currentVersionKey(docID string) string {
	return "docversion:current:" + docID
}

var _ VersionCache = (*RedisVersionCache)(nil)

// RedisVersionCache keeps the current version of each document in redis as
// compressed JSON.
type RedisVersionCache struct {
	client  redis.UniversalClient
	encoder compress.Compress
	ttl     time.Duration
}

// RedisOptions configures the redis connection.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

func NewRedisClient(opts RedisOptions) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
		Protocol: 2,
	})
}

func NewRedisVersionCache(client redis.UniversalClient, ttl time.Duration) *RedisVersionCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}

	return &RedisVersionCache{client: client, encoder: compress.NewGZip(), ttl: ttl}
}

func (r *RedisVersionCache) GetCurrent(ctx context.Context, docID string) (*model.Version, error) {
	res := r.client.Get(ctx, currentVersionKey(docID))
	if res.Err() != nil {
		if errors.Is(res.Err(), redis.Nil) {
			return nil, nil
		}
		return nil, res.Err()
	}

	buf, err := res.Bytes()
	if err != nil {
		return nil, err
	}

	data, err := r.encoder.Decode(buf)
	if err != nil {
		return nil, err
	}

	version := &model.Version{}
	if err = json.Unmarshal(data, version); err != nil {
		// a corrupt entry is treated as a miss
		logrus.Warnf("dropping unreadable cache entry for document %s: %v", docID, err)
		return nil, r.Invalidate(ctx, docID)
	}

	return version, nil
}

func (r *RedisVersionCache) SetCurrent(ctx context.Context, version *model.Version) error {
	marshal, err := json.Marshal(version)
	if err != nil {
		return err
	}

	data, err := r.encoder.Encode(marshal)
	if err != nil {
		return err
	}

	return r.client.Set(ctx, currentVersionKey(version.DocumentID), data, r.ttl).Err()
}

func (r *RedisVersionCache) Invalidate(ctx context.Context, docID string) error {
	return r.client.Del(ctx, currentVersionKey(docID)).Err()
}
