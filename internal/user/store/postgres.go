package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MrJamesThe3rd/findash/internal/user"
)

const uniqueViolation = "23505"

type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const selectUserColumns = `id, email, password, name, designation, phone, created_at`

func (s *Postgres) CreateUser(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (email, password, name, designation, phone)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		u.Email,
		u.PasswordHash,
		u.Name,
		u.Designation,
		u.Phone,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return user.ErrEmailTaken
		}

		return fmt.Errorf("creating user: %w", err)
	}

	return nil
}

func (s *Postgres) GetUser(ctx context.Context, id string) (*user.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, user.ErrNotFound
	}

	return s.getOne(ctx, `SELECT `+selectUserColumns+` FROM users WHERE id = $1`, id)
}

func (s *Postgres) GetUserByEmail(ctx context.Context, email string) (*user.User, error) {
	return s.getOne(ctx, `SELECT `+selectUserColumns+` FROM users WHERE email = $1`, email)
}

func (s *Postgres) getOne(ctx context.Context, query string, arg any) (*user.User, error) {
	var u user.User

	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Designation, &u.Phone, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, user.ErrNotFound
		}

		return nil, fmt.Errorf("getting user: %w", err)
	}

	u.CreatedAt = u.CreatedAt.UTC()

	return &u, nil
}
