package repository

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"storefront/internal/storage"
	redisapp "storefront/internal/storage/redis"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type RedisTokenRepo struct {
	Client *redisapp.Client
}

func NewRedisTokenRepo(client *redisapp.Client) *RedisTokenRepo {
	return &RedisTokenRepo{Client: client}
}

// SaveRefreshToken хранит refresh:<token> -> userID и индекс refresh:user:<uid> для массового отзыва.
func (r *RedisTokenRepo) SaveRefreshToken(ctx context.Context, token string, userID uuid.UUID, exp time.Duration) error {
	const op = "repository.token_repository.SaveRefreshToken"

	_, err := r.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, refreshTokenKey(token), userID.String(), exp)
		pipe.SAdd(ctx, userTokensKey(userID), token)
		pipe.Expire(ctx, userTokensKey(userID), exp)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *RedisTokenRepo) ConsumeRefreshToken(ctx context.Context, token string) (uuid.UUID, error) {
	const op = "repository.token_repository.ConsumeRefreshToken"

	val, err := r.Client.GetDel(ctx, refreshTokenKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return uuid.Nil, fmt.Errorf("%s: %w", op, storage.ErrTokenNotFound)
		}
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	userID, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: corrupted value: %w", op, storage.ErrTokenNotFound)
	}

	if err := r.Client.SRem(ctx, userTokensKey(userID), token).Err(); err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	return userID, nil
}

// DeleteRefreshToken отзывает токен; отсутствие токена ошибкой не считается.
func (r *RedisTokenRepo) DeleteRefreshToken(ctx context.Context, token string) error {
	const op = "repository.token_repository.DeleteRefreshToken"

	_, err := r.ConsumeRefreshToken(ctx, token)
	if err != nil && !errors.Is(err, storage.ErrTokenNotFound) {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *RedisTokenRepo) DeleteAllUserTokens(ctx context.Context, userID uuid.UUID) error {
	const op = "repository.token_repository.DeleteAllUserTokens"

	tokens, err := r.Client.SMembers(ctx, userTokensKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	keys := make([]string, 0, len(tokens)+1)
	for _, t := range tokens {
		keys = append(keys, refreshTokenKey(t))
	}
	keys = append(keys, userTokensKey(userID))

	if err := r.Client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func refreshTokenKey(token string) string {
	return "refresh:" + token
}

func userTokensKey(userID uuid.UUID) string {
	return "refresh:user:" + userID.String()
}

type RedisResetRepo struct {
	Client *redisapp.Client
}

func NewRedisResetRepo(client *redisapp.Client) *RedisResetRepo {
	return &RedisResetRepo{Client: client}
}

// SaveResetToken заменяет ранее выданный токен сброса пароля.
func (r *RedisResetRepo) SaveResetToken(ctx context.Context, userID uuid.UUID, token string, exp time.Duration) error {
	const op = "repository.token_repository.SaveResetToken"

	if err := r.Client.Set(ctx, resetTokenKey(userID), token, exp).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// ConsumeResetToken сжигает токен при любой попытке, поэтому перебор невозможен.
func (r *RedisResetRepo) ConsumeResetToken(ctx context.Context, userID uuid.UUID, token string) error {
	const op = "repository.token_repository.ConsumeResetToken"

	stored, err := r.Client.GetDel(ctx, resetTokenKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return fmt.Errorf("%s: %w", op, storage.ErrTokenNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(token)) != 1 {
		return fmt.Errorf("%s: %w", op, storage.ErrTokenNotFound)
	}

	return nil
}

func resetTokenKey(userID uuid.UUID) string {
	return "reset:" + userID.String()
}
