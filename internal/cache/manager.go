// Package cache provides the internal delegation decision cache.
// This package is internal and should not be imported by external projects.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/BaSui01/delegateflow/types"
)

// ErrCacheMiss is returned when the fingerprint has no cached decision.
var ErrCacheMiss = errors.New("cache miss")

const keyPrefix = "delegateflow:decision:"

// Manager caches delegation decisions in redis, keyed by task
// fingerprint. Planning is deterministic for a fixed catalog, so a
// cached decision stays valid until the catalog version moves, which
// the fingerprint encodes.
type Manager struct {
	redis  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewManager creates a decision cache on an existing redis client.
func NewManager(client *redis.Client, ttl time.Duration, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		redis:  client,
		ttl:    ttl,
		logger: logger.With(zap.String("component", "cache")),
	}
}

// Fingerprint derives the cache key for a task against a catalog
// version. Two identical tasks against the same catalog share a key;
// any catalog mutation moves the version and invalidates all keys.
func Fingerprint(task *types.Task, catalogVersion uint64) (string, error) {
	data, err := json.Marshal(task)
	if err != nil {
		return "", fmt.Errorf("failed to fingerprint task: %w", err)
	}

	h := sha256.New()
	h.Write(data)
	h.Write([]byte(strconv.FormatUint(catalogVersion, 10)))
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Get returns the cached decision for the fingerprint, or ErrCacheMiss.
func (m *Manager) Get(ctx context.Context, fingerprint string) (*types.DelegationDecision, error) {
	val, err := m.redis.Get(ctx, keyPrefix+fingerprint).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		m.logger.Error("cache get failed", zap.String("fingerprint", fingerprint), zap.Error(err))
		return nil, fmt.Errorf("cache get failed: %w", err)
	}

	var decision types.DelegationDecision
	if err := json.Unmarshal([]byte(val), &decision); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached decision: %w", err)
	}
	return &decision, nil
}

// Put stores a decision under the fingerprint with the configured TTL.
func (m *Manager) Put(ctx context.Context, fingerprint string, decision *types.DelegationDecision) error {
	data, err := json.Marshal(decision)
	if err != nil {
		return fmt.Errorf("failed to marshal decision: %w", err)
	}

	if err := m.redis.Set(ctx, keyPrefix+fingerprint, data, m.ttl).Err(); err != nil {
		m.logger.Error("cache set failed", zap.String("fingerprint", fingerprint), zap.Error(err))
		return fmt.Errorf("cache set failed: %w", err)
	}
	return nil
}

// Invalidate removes cached decisions by fingerprint.
func (m *Manager) Invalidate(ctx context.Context, fingerprints ...string) error {
	if len(fingerprints) == 0 {
		return nil
	}

	keys := make([]string, len(fingerprints))
	for i, fp := range fingerprints {
		keys[i] = keyPrefix + fp
	}
	if err := m.redis.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache delete failed: %w", err)
	}
	return nil
}

// Ping checks the redis connection.
func (m *Manager) Ping(ctx context.Context) error {
	return m.redis.Ping(ctx).Err()
}
