package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// SnapshotStore is the single durable slot the cache snapshots itself
// into, so a fresh process can warm-start from prior state.
type SnapshotStore interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

// NoopSnapshots disables persistence; the cache runs in-memory only.
type NoopSnapshots struct{}

func (NoopSnapshots) Load(ctx context.Context) ([]byte, error)    { return nil, nil }
func (NoopSnapshots) Save(ctx context.Context, data []byte) error { return nil }

// persistedState is the wire form of the snapshot slot. Hit/miss
// counters are cumulative across sessions and restored verbatim.
type persistedState struct {
	Entries []*Entry `json:"entries"`
	Stats   struct {
		Hits   uint64 `json:"hits"`
		Misses uint64 `json:"misses"`
	} `json:"stats"`
	Timestamp time.Time `json:"timestamp"`
}

// marshalStateLocked serializes the current table and counters.
// Caller holds the lock. Returns nil when persistence is disabled.
func (s *Store) marshalStateLocked() []byte {
	if _, noop := s.snapshots.(NoopSnapshots); noop {
		return nil
	}

	var state persistedState
	state.Entries = make([]*Entry, 0, len(s.entries))
	for _, entry := range s.entries {
		state.Entries = append(state.Entries, entry)
	}
	state.Stats.Hits = s.hits
	state.Stats.Misses = s.misses
	state.Timestamp = s.clock.Now()

	data, err := json.Marshal(&state)
	if err != nil {
		s.logger.Warn("failed to marshal cache snapshot", zap.Error(err))
		return nil
	}
	return data
}

// persist writes a snapshot outside the critical section. Failures are
// logged and ignored; the cache keeps operating in-memory.
func (s *Store) persist(state []byte) {
	if state == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := s.snapshots.Save(ctx, state); err != nil {
		s.logger.Warn("failed to persist cache snapshot", zap.Error(err))
	}
}

// restore loads the snapshot slot at startup. Only non-expired entries
// come back; corrupt or missing data means a cold start.
func (s *Store) restore() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	data, err := s.snapshots.Load(ctx)
	if err != nil {
		s.logger.Warn("failed to load cache snapshot, starting cold", zap.Error(err))
		return
	}
	if len(data) == 0 {
		return
	}

	var state persistedState
	if err := json.Unmarshal(data, &state); err != nil {
		s.logger.Warn("corrupt cache snapshot, starting cold", zap.Error(err))
		return
	}

	now := s.clock.Now()
	restored := 0
	for _, entry := range state.Entries {
		if entry == nil || entry.IsExpired(now) {
			continue
		}
		s.entries[entry.Key] = entry
		restored++
	}
	s.hits = state.Stats.Hits
	s.misses = state.Stats.Misses

	s.logger.Info("cache warm-started from snapshot",
		zap.Int("restored", restored),
		zap.Int("skipped", len(state.Entries)-restored),
		zap.Uint64("hits", s.hits),
		zap.Uint64("misses", s.misses),
		zap.Time("snapshot_at", state.Timestamp))
}

// RedisConfig configuration for the Redis snapshot slot
type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Addresses    []string      `mapstructure:"addresses"`
	Password     string        `mapstructure:"password"`
	Database     int           `mapstructure:"database"`
	MaxRetries   int           `mapstructure:"max_retries"`
	PoolSize     int           `mapstructure:"pool_size"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	SnapshotKey  string        `mapstructure:"snapshot_key"`
}

// DefaultRedisConfig returns the default configuration
func DefaultRedisConfig() *RedisConfig {
	return &RedisConfig{
		Enabled:      false,
		Addresses:    []string{"localhost:6379"},
		Password:     "",
		Database:     0,
		MaxRetries:   3,
		PoolSize:     10,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		SnapshotKey:  "trend-intel:cache:snapshot",
	}
}

// RedisSnapshots implements SnapshotStore on a single Redis key.
type RedisSnapshots struct {
	client redis.UniversalClient
	logger *zap.Logger
	config *RedisConfig
}

// NewRedisSnapshots creates a new instance of RedisSnapshots
func NewRedisSnapshots(config *RedisConfig, logger *zap.Logger) (*RedisSnapshots, error) {
	if config == nil {
		config = DefaultRedisConfig()
	}

	options := &redis.UniversalOptions{
		Addrs:        config.Addresses,
		Password:     config.Password,
		DB:           config.Database,
		MaxRetries:   config.MaxRetries,
		PoolSize:     config.PoolSize,
		DialTimeout:  config.DialTimeout,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	}

	client := redis.NewUniversalClient(options)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisSnapshots{
		client: client,
		logger: logger,
		config: config,
	}, nil
}

// Load reads the snapshot slot. A missing key is not an error.
func (rs *RedisSnapshots) Load(ctx context.Context) ([]byte, error) {
	data, err := rs.client.Get(ctx, rs.config.SnapshotKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	return data, nil
}

// Save overwrites the snapshot slot. The slot itself never expires;
// stale entries are filtered on load.
func (rs *RedisSnapshots) Save(ctx context.Context, data []byte) error {
	if err := rs.client.Set(ctx, rs.config.SnapshotKey, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	rs.logger.Debug("cache snapshot saved",
		zap.String("key", rs.config.SnapshotKey),
		zap.Int("bytes", len(data)))
	return nil
}

// Ping verifies the Redis connection.
func (rs *RedisSnapshots) Ping(ctx context.Context) error {
	if err := rs.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (rs *RedisSnapshots) Close() error {
	if err := rs.client.Close(); err != nil {
		return fmt.Errorf("failed to close Redis connection: %w", err)
	}
	return nil
}
