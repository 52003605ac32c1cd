package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis spins up a miniredis instance so no real Redis server is
// needed for the tests.
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to create miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		mr.Close()
		t.Fatalf("Failed to connect to miniredis: %v", err)
	}
	return client, mr
}

func TestRedisStore_SaveAndGet(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	store := NewRedisStore(client, time.Hour)
	ctx := context.Background()

	sess := New("draft_abc")
	sess.EventID = "evt-1"
	sess.Started = true
	sess.MarkImageDeleted("img-9")
	sess.MarkArtistCreated(0)
	sess.MarkArtistCreated(2)

	require.NoError(t, store.Save(ctx, sess))

	loaded, err := store.Get(ctx, "draft_abc")
	require.NoError(t, err)
	assert.Equal(t, "draft_abc", loaded.ID)
	assert.Equal(t, "evt-1", loaded.EventID)
	assert.True(t, loaded.Started)
	assert.True(t, loaded.IsImageDeleted("img-9"))
	assert.False(t, loaded.IsImageDeleted("img-1"))
	assert.True(t, loaded.ArtistCreated(0))
	assert.False(t, loaded.ArtistCreated(1))
	assert.True(t, loaded.ArtistCreated(2))
}

func TestRedisStore_GetMissing(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	store := NewRedisStore(client, time.Hour)
	_, err := store.Get(context.Background(), "draft_unknown")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRedisStore_Delete(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	store := NewRedisStore(client, time.Hour)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, New("draft_gone")))
	require.NoError(t, store.Delete(ctx, "draft_gone"))

	_, err := store.Get(ctx, "draft_gone")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRedisStore_TTLExpiry(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	store := NewRedisStore(client, time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, New("draft_ttl")))

	// Abandon-and-expire semantics: once the TTL lapses the draft simply no
	// longer resumes.
	mr.FastForward(2 * time.Minute)

	_, err := store.Get(ctx, "draft_ttl")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRedisStore_SaveRefreshesUpdatedAt(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	store := NewRedisStore(client, time.Hour)
	ctx := context.Background()

	sess := New("draft_touch")
	before := sess.UpdatedAt
	time.Sleep(5 * time.Millisecond)

	require.NoError(t, store.Save(ctx, sess))
	assert.True(t, sess.UpdatedAt.After(before))
}
