package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"storefront/internal/domain/models"
	"storefront/internal/storage"
	"storefront/internal/transport/http/dto"

	"github.com/brianvoe/gofakeit"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const passDefaultLen = 10

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user models.User) (uuid.UUID, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockUserRepository) UserByUsername(ctx context.Context, username string) (models.User, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockUserRepository) UserByEmail(ctx context.Context, email string) (models.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockUserRepository) UserByID(ctx context.Context, userID uuid.UUID) (models.User, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash []byte) error {
	args := m.Called(ctx, userID, passwordHash)
	return args.Error(0)
}

type MockResetRepository struct {
	mock.Mock
}

func (m *MockResetRepository) SaveResetToken(ctx context.Context, userID uuid.UUID, token string, exp time.Duration) error {
	args := m.Called(ctx, userID, token, exp)
	return args.Error(0)
}

func (m *MockResetRepository) ConsumeResetToken(ctx context.Context, userID uuid.UUID, token string) error {
	args := m.Called(ctx, userID, token)
	return args.Error(0)
}

type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) GenerateTokens(ctx context.Context, user models.User) (models.TokenPair, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(models.TokenPair), args.Error(1)
}

func (m *MockTokenIssuer) RefreshTokens(ctx context.Context, refreshToken string) (models.TokenPair, models.User, error) {
	args := m.Called(ctx, refreshToken)
	return args.Get(0).(models.TokenPair), args.Get(1).(models.User), args.Error(2)
}

func (m *MockTokenIssuer) RevokeToken(ctx context.Context, refreshToken string) error {
	args := m.Called(ctx, refreshToken)
	return args.Error(0)
}

func (m *MockTokenIssuer) RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, to, subject, body string) error {
	args := m.Called(ctx, to, subject, body)
	return args.Error(0)
}

type testDeps struct {
	users  *MockUserRepository
	resets *MockResetRepository
	tokens *MockTokenIssuer
	mailer *MockMailer
}

func newTestAuth() (*Auth, testDeps) {
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	d := testDeps{
		users:  new(MockUserRepository),
		resets: new(MockResetRepository),
		tokens: new(MockTokenIssuer),
		mailer: new(MockMailer),
	}

	a := New(log, d.users, d.resets, d.tokens, d.mailer, Config{
		ResetTTL: time.Hour,
		ResetURL: "http://localhost:3000/reset-password",
	})

	return a, d
}

func TestAuth_Login(t *testing.T) {
	password := gofakeit.Password(true, true, true, true, false, passDefaultLen)
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		ID:           uuid.New(),
		Username:     "admin",
		Email:        gofakeit.Email(),
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	}
	pair := models.TokenPair{AccessToken: "access", RefreshToken: "refresh"}

	tests := []struct {
		name      string
		username  string
		password  string
		mockSetup func(d testDeps)
		want      dto.LoginResponse
		wantErr   error
	}{
		{
			name:     "success",
			username: "admin",
			password: password,
			mockSetup: func(d testDeps) {
				d.users.On("UserByUsername", mock.Anything, "admin").Return(user, nil)
				d.tokens.On("GenerateTokens", mock.Anything, user).Return(pair, nil)
			},
			want: dto.LoginResponse{Token: "access", RefreshToken: "refresh", Username: "admin", Role: models.RoleAdmin},
		},
		{
			name:     "unknown user",
			username: "ghost",
			password: password,
			mockSetup: func(d testDeps) {
				d.users.On("UserByUsername", mock.Anything, "ghost").Return(models.User{}, storage.ErrUserNotFound)
			},
			wantErr: ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			username: "admin",
			password: "wrong-password",
			mockSetup: func(d testDeps) {
				d.users.On("UserByUsername", mock.Anything, "admin").Return(user, nil)
			},
			wantErr: ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, d := newTestAuth()
			tt.mockSetup(d)

			got, err := a.Login(context.Background(), tt.username, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				d.tokens.AssertNotCalled(t, "GenerateTokens", mock.Anything, mock.Anything)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			d.users.AssertExpectations(t)
			d.tokens.AssertExpectations(t)
		})
	}
}

func TestAuth_Register(t *testing.T) {
	input := dto.RegisterRequest{
		Username: "buyer",
		Email:    gofakeit.Email(),
		Password: gofakeit.Password(true, true, true, true, false, passDefaultLen),
	}

	t.Run("assigns user role and hashes password", func(t *testing.T) {
		a, d := newTestAuth()
		id := uuid.New()

		d.users.On("SaveUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
			return u.Username == input.Username &&
				u.Role == models.RoleUser &&
				bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(input.Password)) == nil
		})).Return(id, nil)

		user, err := a.Register(context.Background(), input)
		require.NoError(t, err)
		assert.Equal(t, id, user.ID)
		assert.Equal(t, models.RoleUser, user.Role)
	})

	t.Run("duplicate", func(t *testing.T) {
		a, d := newTestAuth()

		d.users.On("SaveUser", mock.Anything, mock.Anything).Return(uuid.Nil, storage.ErrUserExists)

		_, err := a.Register(context.Background(), input)
		assert.ErrorIs(t, err, ErrUserExist)
	})
}

func TestAuth_RequestPasswordReset(t *testing.T) {
	t.Run("known email gets a link", func(t *testing.T) {
		a, d := newTestAuth()
		user := models.User{ID: uuid.New(), Username: "buyer", Email: gofakeit.Email()}

		var saved string
		d.users.On("UserByEmail", mock.Anything, user.Email).Return(user, nil)
		d.resets.On("SaveResetToken", mock.Anything, user.ID, mock.AnythingOfType("string"), time.Hour).
			Run(func(args mock.Arguments) { saved = args.String(2) }).
			Return(nil)
		d.mailer.On("Send", mock.Anything, user.Email, "Password reset", mock.AnythingOfType("string")).
			Return(nil)

		require.NoError(t, a.RequestPasswordReset(context.Background(), user.Email))
		a.Wait()

		d.mailer.AssertExpectations(t)
		body := d.mailer.Calls[0].Arguments.String(3)
		assert.Contains(t, body, "userId="+user.ID.String())
		assert.Contains(t, body, "token="+url.QueryEscape(saved))
	})

	t.Run("unknown email is silent", func(t *testing.T) {
		a, d := newTestAuth()

		d.users.On("UserByEmail", mock.Anything, "nobody@example.com").Return(models.User{}, storage.ErrUserNotFound)

		require.NoError(t, a.RequestPasswordReset(context.Background(), "nobody@example.com"))
		a.Wait()

		d.resets.AssertNotCalled(t, "SaveResetToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		d.mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("mail failure is not returned", func(t *testing.T) {
		a, d := newTestAuth()
		user := models.User{ID: uuid.New(), Username: "buyer", Email: gofakeit.Email()}

		d.users.On("UserByEmail", mock.Anything, user.Email).Return(user, nil)
		d.resets.On("SaveResetToken", mock.Anything, user.ID, mock.Anything, mock.Anything).Return(nil)
		d.mailer.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp down"))

		assert.NoError(t, a.RequestPasswordReset(context.Background(), user.Email))
		a.Wait()
	})
}

func TestAuth_ResetPassword(t *testing.T) {
	userID := uuid.New()
	input := dto.ResetPasswordRequest{UserID: userID, Token: "tok", NewPassword: "n3w-Passw0rd"}

	tests := []struct {
		name      string
		mockSetup func(d testDeps)
		wantErr   error
	}{
		{
			name: "success revokes sessions",
			mockSetup: func(d testDeps) {
				d.resets.On("ConsumeResetToken", mock.Anything, userID, "tok").Return(nil)
				d.users.On("UpdatePassword", mock.Anything, userID, mock.MatchedBy(func(h []byte) bool {
					return bcrypt.CompareHashAndPassword(h, []byte(input.NewPassword)) == nil
				})).Return(nil)
				d.tokens.On("RevokeAllUserTokens", mock.Anything, userID).Return(nil).Once()
			},
		},
		{
			name: "token mismatch",
			mockSetup: func(d testDeps) {
				d.resets.On("ConsumeResetToken", mock.Anything, userID, "tok").Return(storage.ErrTokenNotFound)
			},
			wantErr: ErrInvalidResetToken,
		},
		{
			name: "user vanished",
			mockSetup: func(d testDeps) {
				d.resets.On("ConsumeResetToken", mock.Anything, userID, "tok").Return(nil)
				d.users.On("UpdatePassword", mock.Anything, userID, mock.Anything).Return(storage.ErrUserNotFound)
			},
			wantErr: ErrInvalidResetToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, d := newTestAuth()
			tt.mockSetup(d)

			err := a.ResetPassword(context.Background(), input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)

				var vErr *models.ValidationError
				require.ErrorAs(t, err, &vErr)
				assert.Contains(t, vErr.Fields, "token")
				d.tokens.AssertNotCalled(t, "RevokeAllUserTokens", mock.Anything, mock.Anything)
				return
			}

			require.NoError(t, err)
			d.tokens.AssertExpectations(t)
		})
	}
}

func TestAuth_resetLink(t *testing.T) {
	a, _ := newTestAuth()
	id := uuid.MustParse("123e4567-e89b-12d3-a456-426614174000")

	link := a.resetLink(id, "abc_-1")
	assert.True(t, strings.HasPrefix(link, "http://localhost:3000/reset-password?"))
	assert.Contains(t, link, "userId=123e4567-e89b-12d3-a456-426614174000")
	assert.Contains(t, link, "token=abc_-1")
}
