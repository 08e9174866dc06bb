package sessions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisDB(t *testing.T) {
	client, mock := redismock.NewClientMock()
	db := NewRedisDB(client)
	ctx := context.Background()

	mock.ExpectSet(redisKeyPrefix+"abc", "encoded", 24*time.Hour).SetVal("OK")
	require.NoError(t, db.Save(ctx, "abc", EncodedSession{Values: "encoded"}, 24*time.Hour))

	mock.ExpectGet(redisKeyPrefix + "abc").SetVal("encoded")
	got, err := db.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "encoded", got.Values)

	mock.ExpectDel(redisKeyPrefix + "abc").SetVal(1)
	require.NoError(t, db.Del(ctx, "abc"))

	mock.ExpectGet(redisKeyPrefix + "abc").RedisNil()
	_, err = db.Get(ctx, "abc")
	assert.ErrorIs(t, err, ErrNotFound)

	mock.ExpectGet(redisKeyPrefix + "xyz").SetErr(errors.New("connection refused"))
	_, err = db.Get(ctx, "xyz")
	assert.EqualError(t, err, "connection refused")

	assert.NoError(t, mock.ExpectationsWereMet())
}
