package notes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmorris/notedly/internal/common"
	"github.com/dmorris/notedly/internal/dbx"
	"github.com/dmorris/notedly/internal/server/models"
	"github.com/google/uuid"
)

// noteColumns renders favorited_by as a comma-joined string so rows scan
// through database/sql without array support; ids are uuids and never
// contain commas.
const noteColumns = `id, content, author_id, array_to_string(favorited_by, ','), favorite_count, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(row rowScanner) (*models.Note, error) {
	note := &models.Note{}
	var favoritedBy string

	err := row.Scan(&note.ID, &note.Content, &note.AuthorID, &favoritedBy,
		&note.FavoriteCount, &note.CreatedAt, &note.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if favoritedBy != "" {
		note.FavoritedBy = strings.Split(favoritedBy, ",")
	}

	return note, nil
}

func (r *PostgresRepository) Create(ctx context.Context, note *models.Note) (*models.Note, error) {

	note.ID = uuid.NewString()

	query :=
		`INSERT INTO notes (id, content, author_id)
		 VALUES ($1, $2, $3)
		 RETURNING created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query, note.ID, note.Content, note.AuthorID).
		Scan(&note.CreatedAt, &note.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	note.FavoritedBy = nil
	note.FavoriteCount = 0

	return note, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes WHERE id = $1`

	note, err := scanNote(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return note, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var notes []*models.Note
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return notes, nil
}

func (r *PostgresRepository) UpdateContent(ctx context.Context, id, content string) (*models.Note, error) {
	query :=
		`UPDATE notes SET content = $2, updated_at = now()
		 WHERE id = $1
		 RETURNING ` + noteColumns

	note, err := scanNote(r.db.QueryRowContext(ctx, query, id, content))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return note, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}

// ToggleMembership is the one true atomic read-modify-write in the system.
// Both CASE expressions evaluate against the row's pre-update favorited_by,
// and the row lock taken by UPDATE serializes concurrent toggles, so the
// counter always tracks the set size exactly.
func (r *PostgresRepository) ToggleMembership(ctx context.Context, id, member string) (*models.Note, error) {
	query :=
		`UPDATE notes SET
		   favorited_by = CASE WHEN $2 = ANY(favorited_by)
		     THEN array_remove(favorited_by, $2)
		     ELSE array_append(favorited_by, $2) END,
		   favorite_count = CASE WHEN $2 = ANY(favorited_by)
		     THEN favorite_count - 1
		     ELSE favorite_count + 1 END,
		   updated_at = now()
		 WHERE id = $1
		 RETURNING ` + noteColumns

	note, err := scanNote(r.db.QueryRowContext(ctx, query, id, member))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return note, nil
}
