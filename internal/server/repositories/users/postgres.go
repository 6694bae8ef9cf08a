package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmorris/notedly/internal/common"
	"github.com/dmorris/notedly/internal/dbx"
	"github.com/dmorris/notedly/internal/server/models"
	"github.com/google/uuid"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	user.ID = uuid.NewString()

	query :=
		`INSERT INTO users (id, username, email, password_hash, avatar_url)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.Username, user.Email, user.PasswordHash, user.AvatarURL).
		Scan(&user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorDuplicate
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error) {
	query :=
		`SELECT id, username, email, password_hash, avatar_url, created_at, updated_at FROM users
		 WHERE (username = $1 AND $1 <> '') OR (email = $2 AND $2 <> '')
		 `

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, username, email).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.AvatarURL,
			&user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}
