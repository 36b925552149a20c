// Package modelstore caches mined process trees in Redis, keyed by a
// digest of the input log and the mining options, so repeated discovery
// of the same log is served without recomputation.
package modelstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"

	"procmine/internal/mining"
	"procmine/pkg/models"
)

// Config configures Redis access for model persistence.
type Config struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
	TTL       time.Duration
}

// StoredModel is the cached form of a discovery result.
type StoredModel struct {
	Tree              *models.ProcessTree `json:"tree"`
	OmittedActivities []string            `json:"omitted_activities,omitempty"`
	Variant           string              `json:"variant"`
	MinedAt           time.Time           `json:"mined_at"`
}

// RedisStore manages read/write operations over model cache keys.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore constructs a Redis-backed model store and verifies
// connectivity.
func NewRedisStore(cfg Config) (*RedisStore, error) {
	if strings.TrimSpace(cfg.Addr) == "" {
		cfg.Addr = "127.0.0.1:6379"
	}
	if strings.TrimSpace(cfg.KeyPrefix) == "" {
		cfg.KeyPrefix = "procmine:models"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis model store: %w", err)
	}

	return &RedisStore{
		client: client,
		prefix: strings.TrimSpace(cfg.KeyPrefix),
		ttl:    cfg.TTL,
	}, nil
}

// Digest derives the cache key material from a log and the options that
// will mine it. Trace iteration is deterministic, so equal logs with
// equal options share a digest.
func Digest(log *models.EventLog, opts mining.Options) string {
	h := sha256.New()
	fmt.Fprintf(h, "variant=%s;at=%v;tt=%v;nt=%v;st=%v;",
		opts.Variant, opts.ActivityThreshold, opts.TracesThreshold,
		opts.NoiseThreshold, opts.SimplificationThreshold)
	for _, wt := range log.Traces() {
		fmt.Fprintf(h, "%s|%d;", strings.Join(wt.Activities, "\x1f"), wt.Frequency)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Put stores a mined model under the digest.
func (s *RedisStore) Put(ctx context.Context, digest string, model *StoredModel) error {
	data, err := json.Marshal(model)
	if err != nil {
		return fmt.Errorf("encode stored model: %w", err)
	}
	if err := s.client.Set(ctx, s.modelKey(digest), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("write model cache key: %w", err)
	}
	return nil
}

// Get fetches a cached model. The second return value reports a hit.
func (s *RedisStore) Get(ctx context.Context, digest string) (*StoredModel, bool, error) {
	data, err := s.client.Get(ctx, s.modelKey(digest)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read model cache key: %w", err)
	}
	var model StoredModel
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, false, fmt.Errorf("decode stored model: %w", err)
	}
	return &model, true, nil
}

// Close closes Redis resources.
func (s *RedisStore) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}

func (s *RedisStore) modelKey(digest string) string {
	return s.prefix + ":model:" + digest
}
