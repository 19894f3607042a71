package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/findash/internal/apperr"
	"github.com/MrJamesThe3rd/findash/internal/auth"
	"github.com/MrJamesThe3rd/findash/internal/mail"
	"github.com/MrJamesThe3rd/findash/internal/user"
)

type deps struct {
	users   *user.MockRepository
	revoker *auth.MockRevoker
	mailer  *mail.MockMailer
}

func newService(t *testing.T) (*auth.Service, deps) {
	t.Helper()

	ctrl := gomock.NewController(t)

	d := deps{
		users:   user.NewMockRepository(ctrl),
		revoker: auth.NewMockRevoker(ctrl),
		mailer:  mail.NewMockMailer(ctrl),
	}

	issuer := auth.NewIssuer("s3cret", "FinDash", time.Hour)

	return auth.NewService(d.users, issuer, d.revoker, d.mailer), d
}

func TestService_Signup(t *testing.T) {
	valid := auth.SignupParams{
		Name:        "Ada",
		Email:       " Ada@Example.com ",
		Password:    "password1",
		Designation: "Analyst",
		Phone:       "5550100",
	}

	type testCase struct {
		name      string
		params    auth.SignupParams
		setupMock func(d deps)
		wantKind  apperr.Kind
		wantErr   bool
	}

	tests := []testCase{
		{
			name:   "Success",
			params: valid,
			setupMock: func(d deps) {
				d.users.EXPECT().
					CreateUser(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, u *user.User) error {
						assert.Equal(t, "ada@example.com", u.Email)
						assert.NotEqual(t, "password1", u.PasswordHash)

						ok, err := auth.CheckPassword(u.PasswordHash, "password1")
						assert.NoError(t, err)
						assert.True(t, ok)

						u.ID = "u1"

						return nil
					})
				d.mailer.EXPECT().SendWelcome(gomock.Any(), "ada@example.com", "Ada").Return(nil)
			},
		},
		{
			name:   "MailFailureDoesNotFailSignup",
			params: valid,
			setupMock: func(d deps) {
				d.users.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Return(nil)
				d.mailer.EXPECT().SendWelcome(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("429 too many requests"))
			},
		},
		{
			name:     "MissingName",
			params:   auth.SignupParams{Email: "ada@example.com", Password: "password1"},
			wantKind: apperr.KindValidation,
			wantErr:  true,
		},
		{
			name:     "BadEmail",
			params:   auth.SignupParams{Name: "Ada", Email: "ada-at-example", Password: "password1"},
			wantKind: apperr.KindValidation,
			wantErr:  true,
		},
		{
			name:     "ShortPassword",
			params:   auth.SignupParams{Name: "Ada", Email: "ada@example.com", Password: "short"},
			wantKind: apperr.KindValidation,
			wantErr:  true,
		},
		{
			name:     "LongPhone",
			params:   auth.SignupParams{Name: "Ada", Email: "ada@example.com", Password: "password1", Phone: "+3519123456789"},
			wantKind: apperr.KindValidation,
			wantErr:  true,
		},
		{
			name:   "EmailTaken",
			params: valid,
			setupMock: func(d deps) {
				d.users.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Return(user.ErrEmailTaken)
			},
			wantKind: apperr.KindConflict,
			wantErr:  true,
		},
		{
			name:   "StorageError",
			params: valid,
			setupMock: func(d deps) {
				d.users.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Return(errors.New("no primary"))
			},
			wantKind: apperr.KindStorage,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, d := newService(t)
			if tt.setupMock != nil {
				tt.setupMock(d)
			}

			got, err := svc.Signup(context.Background(), tt.params)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)
				assert.Equal(t, tt.wantKind, apperr.KindOf(err))

				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, got.Token)
			assert.NotEmpty(t, got.Identity.TokenID)
		})
	}
}

func TestService_Login(t *testing.T) {
	hash, err := auth.HashPassword("password1")
	require.NoError(t, err)

	stored := &user.User{ID: "u1", Email: "ada@example.com", PasswordHash: hash, Name: "Ada"}

	type testCase struct {
		name      string
		params    auth.LoginParams
		setupMock func(d deps)
		wantKind  apperr.Kind
		wantErr   bool
	}

	tests := []testCase{
		{
			name:   "Success",
			params: auth.LoginParams{Email: "ADA@example.com", Password: "password1"},
			setupMock: func(d deps) {
				d.users.EXPECT().GetUserByEmail(gomock.Any(), "ada@example.com").Return(stored, nil)
			},
		},
		{
			name:   "UnknownEmail",
			params: auth.LoginParams{Email: "bob@example.com", Password: "password1"},
			setupMock: func(d deps) {
				d.users.EXPECT().GetUserByEmail(gomock.Any(), "bob@example.com").Return(nil, user.ErrNotFound)
			},
			wantKind: apperr.KindNotFound,
			wantErr:  true,
		},
		{
			name:   "WrongPassword",
			params: auth.LoginParams{Email: "ada@example.com", Password: "password2"},
			setupMock: func(d deps) {
				d.users.EXPECT().GetUserByEmail(gomock.Any(), gomock.Any()).Return(stored, nil)
			},
			wantKind: apperr.KindUnauthorized,
			wantErr:  true,
		},
		{
			name:     "InvalidInput",
			params:   auth.LoginParams{Email: "ada@example.com"},
			wantKind: apperr.KindValidation,
			wantErr:  true,
		},
		{
			name:   "StorageError",
			params: auth.LoginParams{Email: "ada@example.com", Password: "password1"},
			setupMock: func(d deps) {
				d.users.EXPECT().GetUserByEmail(gomock.Any(), gomock.Any()).Return(nil, errors.New("timeout"))
			},
			wantKind: apperr.KindStorage,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, d := newService(t)
			if tt.setupMock != nil {
				tt.setupMock(d)
			}

			got, err := svc.Login(context.Background(), tt.params)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.wantKind, apperr.KindOf(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "u1", got.Identity.UserID)
		})
	}
}

func TestService_Authenticate(t *testing.T) {
	svc, d := newService(t)
	issuer := auth.NewIssuer("s3cret", "FinDash", time.Hour)

	token, issued, err := issuer.Issue("u1")
	require.NoError(t, err)

	t.Run("Valid", func(t *testing.T) {
		d.revoker.EXPECT().IsRevoked(gomock.Any(), issued.TokenID).Return(false, nil)

		got, err := svc.Authenticate(context.Background(), token)
		require.NoError(t, err)
		assert.Equal(t, issued, got)
	})

	t.Run("Revoked", func(t *testing.T) {
		d.revoker.EXPECT().IsRevoked(gomock.Any(), issued.TokenID).Return(true, nil)

		_, err := svc.Authenticate(context.Background(), token)
		assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
	})

	t.Run("RevocationUnavailable", func(t *testing.T) {
		d.revoker.EXPECT().IsRevoked(gomock.Any(), issued.TokenID).Return(false, errors.New("dial tcp: refused"))

		_, err := svc.Authenticate(context.Background(), token)
		assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := svc.Authenticate(context.Background(), "")
		assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
		assert.Equal(t, "Unauthorized: No token provided", apperr.Message(err))
	})

	t.Run("Tampered", func(t *testing.T) {
		_, err := svc.Authenticate(context.Background(), token+"x")
		assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
	})
}

func TestService_Logout(t *testing.T) {
	id := auth.Identity{UserID: "u1", TokenID: "jti", ExpiresAt: time.Now().Add(time.Hour)}

	t.Run("Revokes", func(t *testing.T) {
		svc, d := newService(t)
		d.revoker.EXPECT().Revoke(gomock.Any(), "jti", id.ExpiresAt).Return(nil)

		assert.NoError(t, svc.Logout(context.Background(), id))
	})

	t.Run("StorageError", func(t *testing.T) {
		svc, d := newService(t)
		d.revoker.EXPECT().Revoke(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("READONLY"))

		err := svc.Logout(context.Background(), id)
		assert.Equal(t, apperr.KindStorage, apperr.KindOf(err))
	})
}

func TestService_LogoutThenAuthenticate(t *testing.T) {
	users := user.NewMockRepository(gomock.NewController(t))
	svc := auth.NewService(users, auth.NewIssuer("s3cret", "FinDash", time.Hour), auth.NewMemoryRevoker(), mail.Noop{})

	hash, err := auth.HashPassword("password1")
	require.NoError(t, err)

	users.EXPECT().GetUserByEmail(gomock.Any(), "ada@example.com").
		Return(&user.User{ID: "u1", Email: "ada@example.com", PasswordHash: hash}, nil)

	session, err := svc.Login(context.Background(), auth.LoginParams{Email: "ada@example.com", Password: "password1"})
	require.NoError(t, err)

	id, err := svc.Authenticate(context.Background(), session.Token)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), id))

	_, err = svc.Authenticate(context.Background(), session.Token)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
}
