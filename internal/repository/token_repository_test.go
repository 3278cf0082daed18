package repository

import (
	"context"
	"testing"
	"time"

	"storefront/internal/storage"
	redisapp "storefront/internal/storage/redis"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func NewMockClient() (*redisapp.Client, redismock.ClientMock) {
	db, mock := redismock.NewClientMock()
	return &redisapp.Client{Client: db}, mock
}

func setupTokenRepo() (*RedisTokenRepo, redismock.ClientMock) {
	db, mock := NewMockClient()
	return NewRedisTokenRepo(db), mock
}

func TestSaveRefreshToken(t *testing.T) {
	ctx := context.Background()
	repo, mock := setupTokenRepo()
	userID := uuid.New()
	token := "test_token"
	exp := 24 * time.Hour

	t.Run("successful save", func(t *testing.T) {
		mock.ExpectTxPipeline()
		mock.ExpectSet(refreshTokenKey(token), userID.String(), exp).SetVal("OK")
		mock.ExpectSAdd(userTokensKey(userID), token).SetVal(1)
		mock.ExpectExpire(userTokensKey(userID), exp).SetVal(true)
		mock.ExpectTxPipelineExec()

		err := repo.SaveRefreshToken(ctx, token, userID, exp)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("redis error", func(t *testing.T) {
		mock.ExpectTxPipeline()
		mock.ExpectSet(refreshTokenKey(token), userID.String(), exp).SetErr(redis.ErrClosed)

		err := repo.SaveRefreshToken(ctx, token, userID, exp)
		assert.Error(t, err)
	})
}

func TestConsumeRefreshToken(t *testing.T) {
	ctx := context.Background()
	repo, mock := setupTokenRepo()
	userID := uuid.New()
	token := "test_token"

	t.Run("first use returns owner", func(t *testing.T) {
		mock.ExpectGetDel(refreshTokenKey(token)).SetVal(userID.String())
		mock.ExpectSRem(userTokensKey(userID), token).SetVal(1)

		got, err := repo.ConsumeRefreshToken(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, userID, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("second use is rejected", func(t *testing.T) {
		mock.ExpectGetDel(refreshTokenKey(token)).RedisNil()

		_, err := repo.ConsumeRefreshToken(ctx, token)
		assert.ErrorIs(t, err, storage.ErrTokenNotFound)
	})

	t.Run("corrupted value", func(t *testing.T) {
		mock.ExpectGetDel(refreshTokenKey(token)).SetVal("not-a-uuid")

		_, err := repo.ConsumeRefreshToken(ctx, token)
		assert.ErrorIs(t, err, storage.ErrTokenNotFound)
	})

	t.Run("redis error", func(t *testing.T) {
		mock.ExpectGetDel(refreshTokenKey(token)).SetErr(redis.ErrClosed)

		_, err := repo.ConsumeRefreshToken(ctx, token)
		assert.ErrorIs(t, err, redis.ErrClosed)
	})
}

func TestDeleteRefreshToken(t *testing.T) {
	ctx := context.Background()
	repo, mock := setupTokenRepo()
	token := "test_token"

	t.Run("unknown token is not an error", func(t *testing.T) {
		mock.ExpectGetDel(refreshTokenKey(token)).RedisNil()

		assert.NoError(t, repo.DeleteRefreshToken(ctx, token))
	})

	t.Run("redis error", func(t *testing.T) {
		mock.ExpectGetDel(refreshTokenKey(token)).SetErr(redis.ErrClosed)

		assert.ErrorIs(t, repo.DeleteRefreshToken(ctx, token), redis.ErrClosed)
	})
}

func TestDeleteAllUserTokens(t *testing.T) {
	ctx := context.Background()
	repo, mock := setupTokenRepo()
	userID := uuid.New()

	t.Run("successful delete all", func(t *testing.T) {
		mock.ExpectSMembers(userTokensKey(userID)).SetVal([]string{"token1", "token2"})
		mock.ExpectDel(refreshTokenKey("token1"), refreshTokenKey("token2"), userTokensKey(userID)).SetVal(3)

		assert.NoError(t, repo.DeleteAllUserTokens(ctx, userID))
	})

	t.Run("members error", func(t *testing.T) {
		mock.ExpectSMembers(userTokensKey(userID)).SetErr(redis.ErrClosed)

		assert.ErrorIs(t, repo.DeleteAllUserTokens(ctx, userID), redis.ErrClosed)
	})

	t.Run("del error", func(t *testing.T) {
		mock.ExpectSMembers(userTokensKey(userID)).SetVal([]string{"token1"})
		mock.ExpectDel(refreshTokenKey("token1"), userTokensKey(userID)).SetErr(redis.ErrClosed)

		assert.ErrorIs(t, repo.DeleteAllUserTokens(ctx, userID), redis.ErrClosed)
	})
}

func TestConsumeResetToken(t *testing.T) {
	ctx := context.Background()
	db, mock := NewMockClient()
	repo := NewRedisResetRepo(db)
	userID := uuid.New()

	t.Run("matching token", func(t *testing.T) {
		mock.ExpectGetDel(resetTokenKey(userID)).SetVal("secret")

		assert.NoError(t, repo.ConsumeResetToken(ctx, userID, "secret"))
	})

	t.Run("mismatch", func(t *testing.T) {
		mock.ExpectGetDel(resetTokenKey(userID)).SetVal("secret")

		assert.ErrorIs(t, repo.ConsumeResetToken(ctx, userID, "guess"), storage.ErrTokenNotFound)
	})

	t.Run("missing", func(t *testing.T) {
		mock.ExpectGetDel(resetTokenKey(userID)).RedisNil()

		assert.ErrorIs(t, repo.ConsumeResetToken(ctx, userID, "secret"), storage.ErrTokenNotFound)
	})

	t.Run("save", func(t *testing.T) {
		mock.ExpectSet(resetTokenKey(userID), "secret", time.Hour).SetVal("OK")

		assert.NoError(t, repo.SaveResetToken(ctx, userID, "secret", time.Hour))
	})
}
