package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"AMESAI_BACK-END/internal/models"
)

// PostgresUsers implements Users on top of a pgx connection pool.
type PostgresUsers struct {
	db *pgxpool.Pool
}

// NewPostgresUsers creates a new PostgresUsers instance
func NewPostgresUsers(db *pgxpool.Pool) *PostgresUsers {
	return &PostgresUsers{db: db}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (s *PostgresUsers) Create(ctx context.Context, username, passwordHash string) (*models.User, error) {
	user := &models.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	_, err := s.db.Exec(ctx,
		`INSERT INTO users (id, username, password_hash, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		user.ID, user.Username, user.PasswordHash, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return user, nil
}

func (s *PostgresUsers) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.get(ctx, `WHERE username = $1`, username)
}

func (s *PostgresUsers) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.get(ctx, `WHERE id = $1`, id)
}

func (s *PostgresUsers) get(ctx context.Context, where string, arg any) (*models.User, error) {
	var user models.User
	err := s.db.QueryRow(ctx,
		`SELECT id, username, password_hash, created_at, updated_at FROM users `+where,
		arg).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select user: %w", err)
	}
	return &user, nil
}

func (s *PostgresUsers) Update(ctx context.Context, id uuid.UUID, username, passwordHash string) (*models.User, error) {
	query := `UPDATE users SET username = $1, updated_at = $2 WHERE id = $3
	          RETURNING id, username, password_hash, created_at, updated_at`
	args := []any{username, time.Now(), id}
	if passwordHash != "" {
		query = `UPDATE users SET username = $1, password_hash = $2, updated_at = $3 WHERE id = $4
		         RETURNING id, username, password_hash, created_at, updated_at`
		args = []any{username, passwordHash, time.Now(), id}
	}

	var user models.User
	err := s.db.QueryRow(ctx, query, args...).Scan(
		&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateUsername
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	return &user, nil
}

// Delete removes the user row. History rows go with it through the
// ON DELETE CASCADE constraint, inside the same statement's transaction.
func (s *PostgresUsers) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
