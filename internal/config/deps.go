package config

import (
	"fmt"

	"github.com/emrgen/docversion/internal/cache"
	"github.com/emrgen/docversion/internal/compress"
	"github.com/emrgen/docversion/internal/events"
	"github.com/emrgen/docversion/internal/policy"
	"github.com/sirupsen/logrus"
)

// Codec returns the codec used for version content at rest.
func (c *Config) Codec() (compress.Compress, error) {
	return compress.ByName(c.Versioning.Compression)
}

// Policy returns the change threshold policy.
func (c *Config) Policy() policy.Threshold {
	return policy.NewThreshold(c.Versioning.ChangeThreshold)
}

// VersionCache returns the redis cache when enabled and a no-op cache otherwise.
func (c *Config) VersionCache() cache.VersionCache {
	if !c.Cache.Enabled {
		return cache.NewNop()
	}

	client := cache.NewRedisClient(cache.RedisOptions{
		Addr:     c.Cache.Addr,
		Password: c.Cache.Password,
		DB:       c.Cache.DB,
	})
	logrus.Infof("current version cache: redis %s", c.Cache.Addr)

	return cache.NewRedisVersionCache(client, c.Cache.TTL)
}

// Publisher returns the kafka publisher when events are enabled and a
// no-op publisher otherwise.
func (c *Config) Publisher() (events.Publisher, error) {
	if !c.Events.Enabled {
		return events.NewNop(), nil
	}

	kafka, err := events.NewKafkaPublisher(events.KafkaConfig{
		Brokers: c.Events.Brokers,
		Topic:   c.Events.Topic,
	})
	if err != nil {
		return nil, fmt.Errorf("kafka publisher: %w", err)
	}
	logrus.Infof("publishing events to %s on %v", c.Events.Topic, c.Events.Brokers)

	return events.NewRetryPublisher(kafka, c.Events.MaxRetries), nil
}
