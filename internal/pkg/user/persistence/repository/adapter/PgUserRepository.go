package adapter

import (
	"context"
	"errors"

	user "github.com/ArifMiah07/vibe-chat-backend/internal/pkg/user/domain"
	"github.com/ArifMiah07/vibe-chat-backend/internal/pkg/user/persistence/repository/port"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

var _ port.UserRepository = (*PgUserRepository)(nil)

func (r *PgUserRepository) Create(ctx context.Context, u user.User) (string, error) {
	if r == nil || r.pool == nil {
		return "", errors.New("PgUserRepository: nil pool")
	}
	var id string
	err := r.pool.QueryRow(ctx, `
		INSERT INTO chat.app_user (name, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id::text
	`, u.Name, u.Email, u.PasswordHash, u.CreatedAt).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		// 23505 = unique_violation
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return "", port.ErrEmailTaken
		}
		return "", err
	}
	return id, nil
}

func (r *PgUserRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	return r.findOne(ctx, `
		SELECT id::text, name, email, password_hash, created_at
		FROM chat.app_user
		WHERE id = $1::uuid
	`, id)
}

func (r *PgUserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.findOne(ctx, `
		SELECT id::text, name, email, password_hash, created_at
		FROM chat.app_user
		WHERE email = $1
	`, email)
}

func (r *PgUserRepository) List(ctx context.Context, excludeID string) ([]user.User, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgUserRepository: nil pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, name, email, password_hash, created_at
		FROM chat.app_user
		WHERE ($1 = '' OR id <> $1::uuid)
		ORDER BY name
	`, excludeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []user.User
	for rows.Next() {
		var u user.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *PgUserRepository) findOne(ctx context.Context, query string, arg string) (*user.User, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgUserRepository: nil pool")
	}
	var u user.User
	err := r.pool.QueryRow(ctx, query, arg).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, port.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
