package helpers

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Step  string `json:"step"`
	Email string `json:"email"`
}

func TestRedisJSON(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := NewRedisClient(mr.Addr(), "", 0)
	ctx := context.Background()

	var got sample
	ok, err := RedisGetJSON(ctx, rdb, "k", &got)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, RedisSetJSON(ctx, rdb, "k", sample{Step: "email", Email: "a@b"}, time.Minute))
	ok, err = RedisGetJSON(ctx, rdb, "k", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, sample{Step: "email", Email: "a@b"}, got)
	assert.Equal(t, time.Minute, mr.TTL("k"))

	require.NoError(t, RedisDel(ctx, rdb, "k"))
	assert.False(t, mr.Exists("k"))
}

func TestRedisGetJSON_Corrupt(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := NewRedisClient(mr.Addr(), "", 0)
	require.NoError(t, mr.Set("k", "{nope"))

	var got sample
	_, err := RedisGetJSON(context.Background(), rdb, "k", &got)
	assert.Error(t, err)
}
