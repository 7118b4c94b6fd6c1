package session

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// RedisConfig configures the redis session backend.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

// RedisStore persists the session as a redis hash with the two fixed
// field names. The key TTL tracks the cookie lifetime: 7 days when the
// session was saved with rememberMe, 1 day otherwise, so a stale entry
// self-expires alongside its cookie mirror.
type RedisStore struct {
	client *redis.Client
	key    string
	ctx    context.Context
}

var _ Store = (*RedisStore)(nil)

func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
	if cfg.Prefix == "" {
		cfg.Prefix = "teller:"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.Wrap(err, "[NewRedisStore] Ping")
	}

	return &RedisStore{
		client: client,
		key:    cfg.Prefix + "session",
		ctx:    ctx,
	}, nil
}

func (r *RedisStore) Save(accessToken, tokenType string, rememberMe bool) error {
	ttl := time.Duration(MaxAgeDefault) * time.Second
	if rememberMe {
		ttl = time.Duration(MaxAgeRemember) * time.Second
	}

	remember := "0"
	if rememberMe {
		remember = "1"
	}

	pipe := r.client.TxPipeline()
	pipe.HSet(r.ctx, r.key, KeyAccessToken, accessToken, KeyTokenType, tokenType, "remember_me", remember)
	pipe.Expire(r.ctx, r.key, ttl)
	if _, err := pipe.Exec(r.ctx); err != nil {
		return errors.Wrap(err, "[RedisStore.Save] Exec")
	}
	return nil
}

func (r *RedisStore) Read() (Session, bool) {
	values, err := r.client.HGetAll(r.ctx, r.key).Result()
	if err != nil || len(values) == 0 {
		return Session{}, false
	}

	sess := Session{
		AccessToken: values[KeyAccessToken],
		TokenType:   values[KeyTokenType],
		RememberMe:  values["remember_me"] == "1",
	}
	if !sess.Valid() {
		return Session{}, false
	}
	return sess, true
}

func (r *RedisStore) Clear() error {
	if err := r.client.Del(r.ctx, r.key).Err(); err != nil {
		return errors.Wrap(err, "[RedisStore.Clear] Del")
	}
	return nil
}
