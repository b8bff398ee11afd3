package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Goutamchandnani/UniHustle/pkg/metrics"
)

const (
	backendRedis = "redis"

	// upsertRetries bounds optimistic retries when a concurrent write
	// touches the same pair.
	upsertRetries = 5
)

// keyEscaper keeps ids containing ':' from colliding in composed keys.
var keyEscaper = strings.NewReplacer("%", "%25", ":", "%3A") //nolint:gochecknoglobals // read-only

// RedisConfig holds connection settings for DialRedis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// DialRedis opens a client and checks it with PING.
func DialRedis(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return rdb, nil
}

// RedisStore keeps each record as a JSON string and indexes a student's
// jobs in a sorted set scored by match score.
//
// Keys, with ids escaped so ':' cannot appear inside a segment:
//
//	{prefix}:match:{student}:{job}  record JSON
//	{prefix}:student:{student}      zset of job ids
//	{prefix}:pairs                  set of match keys, for Count
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisStore wraps an open client. The store owns the client and closes it.
func NewRedisStore(rdb *redis.Client, opts ...RedisOption) *RedisStore {
	s := &RedisStore{rdb: rdb, prefix: "unihustle"}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) matchKey(studentID, jobID string) string {
	return s.prefix + ":match:" + keyEscaper.Replace(studentID) + ":" + keyEscaper.Replace(jobID)
}

func (s *RedisStore) studentKey(studentID string) string {
	return s.prefix + ":student:" + keyEscaper.Replace(studentID)
}

func (s *RedisStore) pairsKey() string {
	return s.prefix + ":pairs"
}

// Upsert writes the record and its indexes in one MULTI/EXEC, watching the
// pair key so a record submitted earlier than the stored one is dropped.
func (s *RedisStore) Upsert(ctx context.Context, rec Record) (err error) { //nolint:gocritic // records are stored by value
	defer func(start time.Time) { observe(backendRedis, "upsert", start, err) }(time.Now())
	if err = rec.validate(); err != nil {
		return err
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	key := s.matchKey(rec.StudentID, rec.JobID)
	var card *redis.IntCmd
	write := func(tx *redis.Tx) error {
		card = nil
		prev, gerr := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(gerr, redis.Nil):
		case gerr != nil:
			return gerr
		default:
			var stored Record
			if jerr := json.Unmarshal(prev, &stored); jerr == nil && !rec.supersedes(&stored) {
				return nil
			}
		}

		_, perr := tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, key, payload, 0)
			p.ZAdd(ctx, s.studentKey(rec.StudentID), redis.Z{Score: rec.Score, Member: rec.JobID})
			p.SAdd(ctx, s.pairsKey(), key)
			card = p.SCard(ctx, s.pairsKey())
			return nil
		})
		return perr
	}

	for attempt := 0; attempt < upsertRetries; attempt++ {
		err = s.rdb.Watch(ctx, write, key)
		if !errors.Is(err, redis.TxFailedErr) {
			break
		}
	}
	if err != nil {
		return fmt.Errorf("redis upsert %s: %w", key, err)
	}
	if card != nil {
		metrics.UpdateStoreRecords(int(card.Val()))
	}
	return nil
}

// Get returns the record for a pair.
func (s *RedisStore) Get(ctx context.Context, studentID, jobID string) (rec Record, err error) {
	defer func(start time.Time) {
		if errors.Is(err, ErrNotFound) {
			observe(backendRedis, "get", start, nil)
			return
		}
		observe(backendRedis, "get", start, err)
	}(time.Now())

	raw, err := s.rdb.Get(ctx, s.matchKey(studentID, jobID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("redis get: %w", err)
	}
	if err = json.Unmarshal(raw, &rec); err != nil {
		return Record{}, fmt.Errorf("decode record: %w", err)
	}
	return rec, nil
}

// ListForStudent loads every indexed job of the student in feed order.
func (s *RedisStore) ListForStudent(ctx context.Context, studentID string) (out []Record, err error) {
	defer func(start time.Time) { observe(backendRedis, "list", start, err) }(time.Now())

	jobIDs, err := s.rdb.ZRange(ctx, s.studentKey(studentID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis zrange: %w", err)
	}
	if len(jobIDs) == 0 {
		return []Record{}, nil
	}

	keys := make([]string, len(jobIDs))
	for i, id := range jobIDs {
		keys[i] = s.matchKey(studentID, id)
	}
	vals, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis mget: %w", err)
	}

	out = make([]Record, 0, len(vals))
	for _, v := range vals {
		str, ok := v.(string)
		if !ok {
			continue
		}
		var rec Record
		if err = json.Unmarshal([]byte(str), &rec); err != nil {
			return nil, fmt.Errorf("decode record: %w", err)
		}
		out = append(out, rec)
	}
	SortRecords(out)
	return out, nil
}

// Count returns the number of stored pairs.
func (s *RedisStore) Count(ctx context.Context) (int, error) {
	n, err := s.rdb.SCard(ctx, s.pairsKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("redis scard: %w", err)
	}
	return int(n), nil
}

// Close closes the client.
func (s *RedisStore) Close() error {
	if s.rdb != nil {
		return s.rdb.Close()
	}
	return nil
}
