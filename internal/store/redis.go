package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/go-redis/redis/v8"
)

const defaultRedisPrefix = "fairjack:"

// RedisOptions configures the Redis backend
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// Redis stores each entry as a JSON string under prefix+gameID and tracks the
// identifiers in a set under prefix+"games".
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis connects to Redis and checks the connection
func NewRedis(ctx context.Context, opts RedisOptions) (*Redis, error) {
	if strings.TrimSpace(opts.Addr) == "" {
		return nil, errors.New("store: empty redis address")
	}
	if opts.Prefix == "" {
		opts.Prefix = defaultRedisPrefix
	}
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("store: ping redis %s: %w", opts.Addr, err)
	}
	return &Redis{client: client, prefix: opts.Prefix}, nil
}

func (r *Redis) key(gameID string) string { return r.prefix + "game:" + gameID }
func (r *Redis) indexKey() string         { return r.prefix + "games" }

func (r *Redis) Put(ctx context.Context, entry Entry) error {
	if err := validate(entry); err != nil {
		return err
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", entry.GameID(), err)
	}
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.key(entry.GameID()), data, 0)
		pipe.SAdd(ctx, r.indexKey(), entry.GameID())
		return nil
	})
	if err != nil {
		return fmt.Errorf("store: put %s: %w", entry.GameID(), err)
	}
	return nil
}

func (r *Redis) Get(ctx context.Context, gameID string) (Entry, error) {
	data, err := r.client.Get(ctx, r.key(gameID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Entry{}, ErrNotFound
	} else if err != nil {
		return Entry{}, fmt.Errorf("store: get %s: %w", gameID, err)
	}
	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return Entry{}, fmt.Errorf("store: decode %s: %w", gameID, err)
	}
	return entry, nil
}

func (r *Redis) List(ctx context.Context) ([]string, error) {
	ids, err := r.client.SMembers(ctx, r.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("store: list: %w", err)
	}
	slices.Sort(ids)
	return ids, nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
