package service_test

import (
	"context"
	"testing"

	"github.com/arlo/calcledger/internal/repository/postgres"
	"github.com/arlo/calcledger/internal/service"
	"github.com/arlo/calcledger/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_Register(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	cfg := testutil.TestConfig()
	authService := service.NewAuthService(repos.User, cfg)
	ctx := context.Background()

	tests := []struct {
		name    string
		input   service.RegisterInput
		setup   func()
		wantErr error
	}{
		{
			name: "successful registration",
			input: service.RegisterInput{
				Username: "newuser",
				Email:    "newuser@example.com",
				Password: "password123",
			},
		},
		{
			name: "duplicate username",
			input: service.RegisterInput{
				Username: "existinguser",
				Email:    "other@example.com",
				Password: "password123",
			},
			setup: func() {
				testutil.NewUserBuilder().
					WithUsername("existinguser").
					Build(t, testDB.DB)
			},
			wantErr: service.ErrUsernameTaken,
		},
		{
			name: "duplicate email",
			input: service.RegisterInput{
				Username: "freshname",
				Email:    "taken@example.com",
				Password: "password123",
			},
			setup: func() {
				testutil.NewUserBuilder().
					WithEmail("taken@example.com").
					Build(t, testDB.DB)
			},
			wantErr: service.ErrEmailTaken,
		},
		{
			name: "weak password",
			input: service.RegisterInput{
				Username: "shortpw",
				Email:    "shortpw@example.com",
				Password: "short",
			},
			wantErr: service.ErrWeakPassword,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testDB.Truncate(t)

			if tt.setup != nil {
				tt.setup()
			}

			user, err := authService.Register(ctx, tt.input)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.input.Username, user.Username)
			assert.Equal(t, tt.input.Email, user.Email)
			assert.True(t, user.IsActive)
			assert.NotEqual(t, tt.input.Password, user.PasswordHash)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	cfg := testutil.TestConfig()
	authService := service.NewAuthService(repos.User, cfg)
	ctx := context.Background()

	user, rawPassword := testutil.NewUserBuilder().
		WithUsername("loginuser").
		WithEmail("loginuser@example.com").
		WithPassword("correctpassword").
		Build(t, testDB.DB)

	tests := []struct {
		name       string
		identifier string
		password   string
		wantErr    error
	}{
		{
			name:       "login by username",
			identifier: user.Username,
			password:   rawPassword,
		},
		{
			name:       "login by email",
			identifier: user.Email,
			password:   rawPassword,
		},
		{
			name:       "wrong password",
			identifier: user.Username,
			password:   "wrongpassword",
			wantErr:    service.ErrInvalidCredentials,
		},
		{
			name:       "non-existent user",
			identifier: "nonexistent",
			password:   "anypassword",
			wantErr:    service.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, loggedIn, err := authService.Login(ctx, tt.identifier, tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.NotEmpty(t, token)
			assert.Equal(t, user.ID, loggedIn.ID)

			// The issued token resolves back to the same identity
			userID, err := authService.ValidateToken(token)
			require.NoError(t, err)
			assert.Equal(t, user.ID, userID)
		})
	}
}

func TestAuthService_Login_InactiveUser(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	authService := service.NewAuthService(repos.User, testutil.TestConfig())
	ctx := context.Background()

	user, rawPassword := testutil.NewUserBuilder().
		WithUsername("inactive").
		Build(t, testDB.DB)

	require.NoError(t, testDB.DB.Model(user).Update("is_active", false).Error)

	_, _, err := authService.Login(ctx, user.Username, rawPassword)
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}
