package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/MrJamesThe3rd/findash/internal/apperr"
	"github.com/MrJamesThe3rd/findash/internal/mail"
	"github.com/MrJamesThe3rd/findash/internal/user"
)

const (
	msgNoToken         = "Unauthorized: No token provided"
	msgInvalidToken    = "Unauthorized: Invalid or expired token"
	msgBadCredentials  = "Invalid email or password"
	msgInvalidInputFmt = "Invalid Input: %s"
)

type SignupParams struct {
	Name        string `validate:"required"`
	Email       string `validate:"required,email"`
	Password    string `validate:"required,min=8"`
	Designation string
	Phone       string `validate:"max=10"`
}

type LoginParams struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
}

// Session is a freshly issued credential.
type Session struct {
	Token    string
	Identity Identity
}

type Service struct {
	users    user.Repository
	issuer   *Issuer
	revoker  Revoker
	mailer   mail.Mailer
	validate *validator.Validate
}

func NewService(users user.Repository, issuer *Issuer, revoker Revoker, mailer mail.Mailer) *Service {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.ToLower(f.Name)
	})

	return &Service{
		users:    users,
		issuer:   issuer,
		revoker:  revoker,
		mailer:   mailer,
		validate: v,
	}
}

// TokenTTL is the lifetime of issued sessions.
func (s *Service) TokenTTL() time.Duration {
	return s.issuer.TTL()
}

// Signup registers a new account and signs it in. A failed welcome email is
// logged and does not fail the signup.
func (s *Service) Signup(ctx context.Context, p SignupParams) (*Session, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.Email = normalizeEmail(p.Email)

	if err := s.check("auth.Signup", p); err != nil {
		return nil, err
	}

	hash, err := HashPassword(p.Password)
	if err != nil {
		return nil, fmt.Errorf("signing up: %w", err)
	}

	u := &user.User{
		Email:        p.Email,
		PasswordHash: hash,
		Name:         p.Name,
		Designation:  strings.TrimSpace(p.Designation),
		Phone:        strings.TrimSpace(p.Phone),
	}

	if err := s.users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			return nil, user.ErrEmailTaken
		}

		return nil, apperr.Storage("auth.Signup", err)
	}

	session, err := s.newSession(u.ID)
	if err != nil {
		return nil, err
	}

	if err := s.mailer.SendWelcome(ctx, u.Email, u.Name); err != nil {
		slog.Warn("failed to send welcome email", "user_id", u.ID, "error", err)
	}

	return session, nil
}

func (s *Service) Login(ctx context.Context, p LoginParams) (*Session, error) {
	p.Email = normalizeEmail(p.Email)

	if err := s.check("auth.Login", p); err != nil {
		return nil, err
	}

	u, err := s.users.GetUserByEmail(ctx, p.Email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, user.ErrNotFound
		}

		return nil, apperr.Storage("auth.Login", err)
	}

	ok, err := CheckPassword(u.PasswordHash, p.Password)
	if err != nil {
		return nil, fmt.Errorf("logging in: %w", err)
	}

	if !ok {
		return nil, apperr.Unauthorized("auth.Login", msgBadCredentials, nil)
	}

	return s.newSession(u.ID)
}

// Logout revokes the token behind id for the rest of its lifetime.
func (s *Service) Logout(ctx context.Context, id Identity) error {
	if err := s.revoker.Revoke(ctx, id.TokenID, id.ExpiresAt); err != nil {
		return apperr.Storage("auth.Logout", err)
	}

	return nil
}

// Authenticate resolves a bearer token to the identity it was issued for.
// Every failure is reported as unauthorized.
func (s *Service) Authenticate(ctx context.Context, token string) (Identity, error) {
	if token == "" {
		return Identity{}, apperr.Unauthorized("auth.Authenticate", msgNoToken, nil)
	}

	id, err := s.issuer.Parse(token)
	if err != nil {
		return Identity{}, apperr.Unauthorized("auth.Authenticate", msgInvalidToken, err)
	}

	revoked, err := s.revoker.IsRevoked(ctx, id.TokenID)
	if err != nil {
		return Identity{}, apperr.Unauthorized("auth.Authenticate", msgInvalidToken, err)
	}

	if revoked {
		return Identity{}, apperr.Unauthorized("auth.Authenticate", msgInvalidToken, nil)
	}

	return id, nil
}

func (s *Service) newSession(userID string) (*Session, error) {
	token, id, err := s.issuer.Issue(userID)
	if err != nil {
		return nil, fmt.Errorf("issuing session: %w", err)
	}

	return &Session{Token: token, Identity: id}, nil
}

func (s *Service) check(op string, params any) error {
	err := s.validate.Struct(params)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating input: %w", err)
	}

	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		msgs[i] = describe(fe)
	}

	return apperr.Validation(op, fmt.Sprintf(msgInvalidInputFmt, strings.Join(msgs, "; ")))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	}

	return fe.Field() + " is invalid"
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
