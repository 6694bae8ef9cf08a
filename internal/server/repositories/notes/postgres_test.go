package notes

import (
	"context"
	"database/sql"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmorris/notedly/internal/common"
	"github.com/dmorris/notedly/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func noteRows(id, content, author, favoritedBy string, count int) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "content", "author_id", "array_to_string", "favorite_count", "created_at", "updated_at"}).
		AddRow(id, content, author, favoritedBy, count, now, now)
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`(?s)INSERT INTO notes .* RETURNING created_at, updated_at`).
		WithArgs(sqlmock.AnyArg(), "hi", "alice").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	note, err := repo.Create(context.Background(), &models.Note{Content: "hi", AuthorID: "alice"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if note.ID == "" {
		t.Fatalf("expected a generated id")
	}
	if note.FavoriteCount != 0 || note.FavoritedBy != nil {
		t.Fatalf("new note must start unfavorited: %+v", note)
	}
}

func TestGetByID_SplitsFavoritedBy(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM notes WHERE id = \$1`).
		WithArgs("n1").
		WillReturnRows(noteRows("n1", "hi", "alice", "bob,carol", 2))

	note, err := repo.GetByID(context.Background(), "n1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(note.FavoritedBy, []string{"bob", "carol"}) {
		t.Fatalf("unexpected favoritedBy: %v", note.FavoritedBy)
	}
	if note.FavoriteCount != 2 {
		t.Fatalf("unexpected favoriteCount: %d", note.FavoriteCount)
	}
}

func TestGetByID_EmptyFavoritedByIsNil(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM notes WHERE id = \$1`).
		WithArgs("n1").
		WillReturnRows(noteRows("n1", "hi", "alice", "", 0))

	note, err := repo.GetByID(context.Background(), "n1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if note.FavoritedBy != nil {
		t.Fatalf("expected nil favoritedBy, got %v", note.FavoritedBy)
	}
}

func TestGetByID_NoRows(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM notes WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestUpdateContent_NoRows(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`UPDATE notes SET content = \$2`).
		WithArgs("missing", "new").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.UpdateContent(context.Background(), "missing", "new")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestDelete_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM notes WHERE id = \$1`).
		WithArgs("n1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), "n1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDelete_ZeroRowsAffected(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM notes WHERE id = \$1`).
		WithArgs("gone").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "gone")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestToggleMembership_SingleStatement(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	// The whole toggle must be one conditional UPDATE: pull-or-push on the
	// set and dec-or-inc on the counter, nothing read beforehand.
	mock.ExpectQuery(`(?s)UPDATE notes SET\s+favorited_by = CASE WHEN \$2 = ANY\(favorited_by\).*favorite_count = CASE WHEN \$2 = ANY\(favorited_by\)`).
		WithArgs("n1", "bob").
		WillReturnRows(noteRows("n1", "hi", "alice", "bob", 1))

	note, err := repo.ToggleMembership(context.Background(), "n1", "bob")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if note.FavoriteCount != 1 || !reflect.DeepEqual(note.FavoritedBy, []string{"bob"}) {
		t.Fatalf("unexpected note: %+v", note)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestToggleMembership_NoRows(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`UPDATE notes SET`).
		WithArgs("missing", "bob").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.ToggleMembership(context.Background(), "missing", "bob")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}
