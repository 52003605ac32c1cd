package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "draft_session:"

// RedisStore keeps each session as a JSON blob under a TTL. An expired key is
// the abandon-and-restart semantics: the draft simply no longer resumes.
type RedisStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	return &RedisStore{Client: client, TTL: ttl}
}

func (r *RedisStore) Get(ctx context.Context, id string) (*DraftSession, error) {
	result, err := r.Client.Get(ctx, keyPrefix+id).Result()
	if err == redis.Nil {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	var session DraftSession
	if err := json.Unmarshal([]byte(result), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *RedisStore) Save(ctx context.Context, session *DraftSession) error {
	session.UpdatedAt = time.Now().UTC()
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return r.Client.Set(ctx, keyPrefix+session.ID, payload, r.TTL).Err()
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	return r.Client.Del(ctx, keyPrefix+id).Err()
}
