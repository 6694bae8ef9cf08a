package users

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmorris/notedly/internal/common"
	"github.com/dmorris/notedly/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`(?s)INSERT INTO users .* RETURNING created_at, updated_at`).
		WithArgs(sqlmock.AnyArg(), "alice", "alice@x.com", "digest", "https://example.test/a").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	user, err := repo.Create(context.Background(), &models.User{
		Username:     "alice",
		Email:        "alice@x.com",
		PasswordHash: "digest",
		AvatarURL:    "https://example.test/a",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID == "" {
		t.Fatalf("expected a generated id")
	}
	if !user.CreatedAt.Equal(now) {
		t.Fatalf("expected store-assigned created_at")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreate_UniqueViolationMapsToDuplicate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	_, err := repo.Create(context.Background(), &models.User{Username: "alice", Email: "alice@x.com"})
	if !errors.Is(err, common.ErrorDuplicate) {
		t.Fatalf("want ErrorDuplicate, got %v", err)
	}
}

func TestGetByUsernameOrEmail_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "avatar_url", "created_at", "updated_at"}).
		AddRow("u1", "alice", "alice@x.com", "digest", "", now, now)
	mock.ExpectQuery(`SELECT id, username, email, password_hash, avatar_url, created_at, updated_at FROM users`).
		WithArgs("alice", "").
		WillReturnRows(rows)

	user, err := repo.GetByUsernameOrEmail(context.Background(), "alice", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != "u1" || user.PasswordHash != "digest" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestGetByUsernameOrEmail_NoRows(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM users`).
		WithArgs("nobody", "").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByUsernameOrEmail(context.Background(), "nobody", "")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestGetByUsernameOrEmail_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM users`).
		WithArgs("alice", "").
		WillReturnError(errors.New("db is down"))

	_, err := repo.GetByUsernameOrEmail(context.Background(), "alice", "")
	if err == nil || errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}
