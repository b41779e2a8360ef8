package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/lib/pq"

	"cableerp/models"
)

type PostgresUserRepo struct {
	DB *sql.DB
}

func NewPostgresUserRepo(db *sql.DB) *PostgresUserRepo {
	return &PostgresUserRepo{DB: db}
}

// CreateUser checks email uniqueness and hashes the password before insert
func (r *PostgresUserRepo) CreateUser(ctx context.Context, user *models.AppUser) error {
	existing, err := r.GetUserByEmail(ctx, user.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrEmailTaken
	}
	if err := prepareUser(user); err != nil {
		return err
	}

	_, err = r.DB.ExecContext(ctx, `
		INSERT INTO app_users (id, name, email, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, user.ID, user.Name, user.Email, user.Password, user.Role, user.CreatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrEmailTaken
	}
	return err
}

func (r *PostgresUserRepo) one(ctx context.Context, where string, arg string) (*models.AppUser, error) {
	user := &models.AppUser{}
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, role, created_at
		FROM app_users
		WHERE `+where+`=$1
	`, arg).Scan(&user.ID, &user.Name, &user.Email, &user.Password, &user.Role, &user.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

func (r *PostgresUserRepo) GetUserByEmail(ctx context.Context, email string) (*models.AppUser, error) {
	return r.one(ctx, "email", strings.ToLower(strings.TrimSpace(email)))
}

func (r *PostgresUserRepo) GetUserByID(ctx context.Context, id string) (*models.AppUser, error) {
	return r.one(ctx, "id", id)
}
