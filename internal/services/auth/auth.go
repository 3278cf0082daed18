package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"storefront/internal/domain/models"
	"storefront/internal/lib/logger/sl"
	"storefront/internal/lib/random"
	"storefront/internal/mailer"
	"storefront/internal/metrics"
	"storefront/internal/repository"
	"storefront/internal/storage"
	"storefront/internal/transport/http/dto"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExist          = errors.New("user already exist")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
)

const (
	resetTokenBytes = 32
	mailTimeout     = 30 * time.Second
)

type TokenIssuer interface {
	GenerateTokens(ctx context.Context, user models.User) (models.TokenPair, error)
	RefreshTokens(ctx context.Context, refreshToken string) (models.TokenPair, models.User, error)
	RevokeToken(ctx context.Context, refreshToken string) error
	RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error
}

type Config struct {
	ResetTTL time.Duration
	ResetURL string
}

type Auth struct {
	log    *slog.Logger
	users  repository.UserRepository
	resets repository.ResetTokenRepository
	tokens TokenIssuer
	mailer mailer.Mailer
	cfg    Config

	wg sync.WaitGroup
}

func New(
	log *slog.Logger,
	users repository.UserRepository,
	resets repository.ResetTokenRepository,
	tokens TokenIssuer,
	m mailer.Mailer,
	cfg Config,
) *Auth {
	return &Auth{
		log:    log,
		users:  users,
		resets: resets,
		tokens: tokens,
		mailer: m,
		cfg:    cfg,
	}
}

func (a *Auth) Login(ctx context.Context, username, password string) (dto.LoginResponse, error) {
	const op = "auth.Login"

	log := a.log.With(
		slog.String("op", op),
		slog.String("username", sl.MaskName(username)),
	)

	log.Info("attempting to login user")

	user, err := a.users.UserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			log.Warn("user not found")
			metrics.LoginAttempts.WithLabelValues("invalid_credentials").Inc()

			return dto.LoginResponse{}, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		log.Error("failed to get user", sl.Err(err))
		metrics.LoginAttempts.WithLabelValues("error").Inc()

		return dto.LoginResponse{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		log.Info("invalid credentials")
		metrics.LoginAttempts.WithLabelValues("invalid_credentials").Inc()

		return dto.LoginResponse{}, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	pair, err := a.tokens.GenerateTokens(ctx, user)
	if err != nil {
		log.Error("failed to generate tokens", sl.Err(err))
		metrics.LoginAttempts.WithLabelValues("error").Inc()

		return dto.LoginResponse{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user logged in successfully")
	metrics.LoginAttempts.WithLabelValues("success").Inc()

	return loginResponse(pair, user), nil
}

func (a *Auth) Refresh(ctx context.Context, refreshToken string) (dto.LoginResponse, error) {
	pair, user, err := a.tokens.RefreshTokens(ctx, refreshToken)
	if err != nil {
		return dto.LoginResponse{}, fmt.Errorf("auth.Refresh: %w", err)
	}

	return loginResponse(pair, user), nil
}

func (a *Auth) Revoke(ctx context.Context, refreshToken string) error {
	if err := a.tokens.RevokeToken(ctx, refreshToken); err != nil {
		return fmt.Errorf("auth.Revoke: %w", err)
	}

	return nil
}

func (a *Auth) Register(ctx context.Context, input dto.RegisterRequest) (models.User, error) {
	return a.CreateUser(ctx, input.Username, input.Email, input.Password, models.RoleUser)
}

// CreateUser регистрирует пользователя с заданной ролью; используется и storefrontctl create-admin.
func (a *Auth) CreateUser(ctx context.Context, username, email, password, role string) (models.User, error) {
	const op = "auth.CreateUser"

	log := a.log.With(
		slog.String("op", op),
		slog.String("email", sl.MaskEmail(email)),
		slog.String("role", role),
	)

	log.Info("register user")

	passHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("failed to generate password hash", sl.Err(err))

		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	user := models.User{
		Username:     strings.TrimSpace(username),
		Email:        strings.TrimSpace(email),
		PasswordHash: passHash,
		Role:         role,
	}

	id, err := a.users.SaveUser(ctx, user)
	if err != nil {
		if errors.Is(err, storage.ErrUserExists) {
			log.Warn("user already exist")

			return models.User{}, fmt.Errorf("%s: %w", op, ErrUserExist)
		}
		log.Error("failed to save user", sl.Err(err))

		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	user.ID = id
	log.Info("user registered", slog.String("user_id", id.String()))

	return user, nil
}

// RequestPasswordReset всегда завершается без ошибки: наличие аккаунта не раскрывается
// ни ответом, ни временем ответа. Поиск пользователя и отправка письма идут в фоне.
func (a *Auth) RequestPasswordReset(ctx context.Context, email string) error {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()

		bg, cancel := context.WithTimeout(context.WithoutCancel(ctx), mailTimeout)
		defer cancel()

		a.sendPasswordReset(bg, email)
	}()

	return nil
}

func (a *Auth) sendPasswordReset(ctx context.Context, email string) {
	const op = "auth.sendPasswordReset"

	log := a.log.With(
		slog.String("op", op),
		slog.String("email", sl.MaskEmail(email)),
	)

	user, err := a.users.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			log.Info("password reset requested for unknown email")
			return
		}
		log.Error("failed to get user", sl.Err(err))
		return
	}

	token, err := random.Token(resetTokenBytes)
	if err != nil {
		log.Error("failed to generate reset token", sl.Err(err))
		return
	}

	if err := a.resets.SaveResetToken(ctx, user.ID, token, a.cfg.ResetTTL); err != nil {
		log.Error("failed to save reset token", sl.Err(err))
		return
	}

	subject, body, err := mailer.PasswordReset(mailer.PasswordResetData{
		Username: user.Username,
		Link:     a.resetLink(user.ID, token),
		TTL:      a.cfg.ResetTTL.String(),
	})
	if err != nil {
		log.Error("failed to render reset mail", sl.Err(err))
		return
	}

	if err := a.mailer.Send(ctx, user.Email, subject, body); err != nil {
		log.Error("failed to send reset mail", sl.Err(err))
		metrics.MailFailures.WithLabelValues("password_reset").Inc()
		return
	}

	log.Info("password reset mail sent")
}

func (a *Auth) resetLink(userID uuid.UUID, token string) string {
	q := url.Values{}
	q.Set("userId", userID.String())
	q.Set("token", token)

	sep := "?"
	if strings.Contains(a.cfg.ResetURL, "?") {
		sep = "&"
	}

	return a.cfg.ResetURL + sep + q.Encode()
}

func (a *Auth) ResetPassword(ctx context.Context, input dto.ResetPasswordRequest) error {
	const op = "auth.ResetPassword"

	log := a.log.With(
		slog.String("op", op),
		slog.String("user_id", input.UserID.String()),
	)

	if err := a.resets.ConsumeResetToken(ctx, input.UserID, input.Token); err != nil {
		if errors.Is(err, storage.ErrTokenNotFound) {
			log.Info("reset token rejected")

			return fmt.Errorf("%s: %w", op, invalidResetToken())
		}
		log.Error("failed to consume reset token", sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Error("failed to generate password hash", sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}

	if err := a.users.UpdatePassword(ctx, input.UserID, passHash); err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			log.Warn("reset token for missing user")

			return fmt.Errorf("%s: %w", op, invalidResetToken())
		}
		log.Error("failed to update password", sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}

	if err := a.tokens.RevokeAllUserTokens(ctx, input.UserID); err != nil {
		// пароль уже сменён, старые сессии истекут сами
		log.Error("failed to revoke sessions", sl.Err(err))
	}

	log.Info("password reset")

	return nil
}

// Wait дожидается фоновой отправки писем.
func (a *Auth) Wait() {
	a.wg.Wait()
}

func invalidResetToken() error {
	return &models.ValidationError{
		Fields: map[string][]string{"token": {"invalid or expired token"}},
		Err:    ErrInvalidResetToken,
	}
}

func loginResponse(pair models.TokenPair, user models.User) dto.LoginResponse {
	return dto.LoginResponse{
		Token:        pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		Username:     user.Username,
		Role:         user.Role,
	}
}
