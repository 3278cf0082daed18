package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"storefront/internal/domain/models"
	"storefront/internal/lib/jwt"
	"storefront/internal/lib/logger/sl"
	"storefront/internal/lib/random"
	"storefront/internal/repository"
	"storefront/internal/storage"

	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

const refreshTokenBytes = 32

type Config struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// TokenService выпускает пары access/refresh и ротирует refresh-токены.
// Refresh-токен одноразовый: Consume в хранилище атомарно читает и удаляет его.
type TokenService struct {
	log   *slog.Logger
	repo  repository.TokenRepository
	users repository.UserRepository
	cfg   Config
}

func NewTokenService(log *slog.Logger, repo repository.TokenRepository, users repository.UserRepository, cfg Config) *TokenService {
	return &TokenService{
		log:   log,
		repo:  repo,
		users: users,
		cfg:   cfg,
	}
}

func (s *TokenService) GenerateTokens(ctx context.Context, user models.User) (models.TokenPair, error) {
	const op = "token_service.GenerateTokens"

	accessToken, err := jwt.NewToken(user, s.cfg.Secret, s.cfg.AccessTTL)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("%s: %w", op, err)
	}

	refreshToken, err := random.Token(refreshTokenBytes)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.repo.SaveRefreshToken(ctx, refreshToken, user.ID, s.cfg.RefreshTTL); err != nil {
		return models.TokenPair{}, fmt.Errorf("%s: %w", op, err)
	}

	return models.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// RefreshTokens сжигает старый refresh-токен и выпускает новую пару.
func (s *TokenService) RefreshTokens(ctx context.Context, refreshToken string) (models.TokenPair, models.User, error) {
	const op = "token_service.RefreshTokens"

	log := s.log.With(slog.String("op", op))

	userID, err := s.repo.ConsumeRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, storage.ErrTokenNotFound) {
			log.Info("refresh token rejected")

			return models.TokenPair{}, models.User{}, fmt.Errorf("%s: %w", op, ErrInvalidToken)
		}
		log.Error("failed to consume refresh token", sl.Err(err))

		return models.TokenPair{}, models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.users.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			log.Warn("refresh token of deleted user", slog.String("user_id", userID.String()))

			return models.TokenPair{}, models.User{}, fmt.Errorf("%s: %w", op, ErrInvalidToken)
		}
		log.Error("failed to load user", sl.Err(err))

		return models.TokenPair{}, models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	pair, err := s.GenerateTokens(ctx, user)
	if err != nil {
		log.Error("failed to issue tokens", sl.Err(err))

		return models.TokenPair{}, models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return pair, user, nil
}

func (s *TokenService) RevokeToken(ctx context.Context, refreshToken string) error {
	const op = "token_service.RevokeToken"

	if err := s.repo.DeleteRefreshToken(ctx, refreshToken); err != nil {
		s.log.Error("failed to revoke token", slog.String("op", op), sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *TokenService) RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error {
	const op = "token_service.RevokeAllUserTokens"

	if err := s.repo.DeleteAllUserTokens(ctx, userID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *TokenService) ParseAccessToken(token string) (models.Principal, error) {
	principal, err := jwt.ParseToken(token, s.cfg.Secret)
	if err != nil {
		return models.Principal{}, fmt.Errorf("token_service.ParseAccessToken: %w", ErrInvalidToken)
	}

	return principal, nil
}
