package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"project-system/internal/entities"
	apperrors "project-system/pkg/errors"
)

const (
	noteTable  = "notes"
	noteFields = "id, user_id, title, body, created_at, updated_at"
)

// Заметки всегда читаются и пишутся в пределах владельца.
type NoteRepositoryInterface interface {
	GetNotes(ctx context.Context, userID, limit, offset uint64) ([]entities.Note, uint64, error)
	FindNote(ctx context.Context, userID, id uint64) (*entities.Note, error)
	CreateNote(ctx context.Context, note *entities.Note) (*entities.Note, error)
	UpdateNote(ctx context.Context, userID, id uint64, setClauses map[string]interface{}) (*entities.Note, error)
	DeleteNote(ctx context.Context, userID, id uint64) error
}

type noteRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewNoteRepository(storage *pgxpool.Pool, logger *zap.Logger) NoteRepositoryInterface {
	return &noteRepository{storage: storage, logger: logger}
}

func scanNote(row pgx.Row) (*entities.Note, error) {
	var n entities.Note
	if err := row.Scan(&n.ID, &n.UserID, &n.Title, &n.Body, &n.CreatedAt, &n.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &n, nil
}

func (r *noteRepository) GetNotes(ctx context.Context, userID, limit, offset uint64) ([]entities.Note, uint64, error) {
	var total uint64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE user_id = $1", noteTable)
	if err := r.storage.QueryRow(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.Note{}, 0, nil
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE user_id = $1 ORDER BY updated_at DESC NULLS LAST, id DESC LIMIT $2 OFFSET $3",
		noteFields, noteTable)
	rows, err := r.storage.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	notes := make([]entities.Note, 0)
	for rows.Next() {
		var n entities.Note
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Body, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, 0, err
		}
		notes = append(notes, n)
	}
	return notes, total, rows.Err()
}

func (r *noteRepository) FindNote(ctx context.Context, userID, id uint64) (*entities.Note, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1 AND user_id = $2", noteFields, noteTable)
	return scanNote(r.storage.QueryRow(ctx, query, id, userID))
}

func (r *noteRepository) CreateNote(ctx context.Context, note *entities.Note) (*entities.Note, error) {
	query := fmt.Sprintf("INSERT INTO %s (user_id, title, body) VALUES ($1, $2, $3) RETURNING %s",
		noteTable, noteFields)
	return scanNote(r.storage.QueryRow(ctx, query, note.UserID, note.Title, note.Body))
}

func (r *noteRepository) UpdateNote(ctx context.Context, userID, id uint64, setClauses map[string]interface{}) (*entities.Note, error) {
	if len(setClauses) == 0 {
		return r.FindNote(ctx, userID, id)
	}

	var sets []string
	var args []interface{}
	argID := 1
	for column, value := range setClauses {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argID))
		args = append(args, value)
		argID++
	}
	sets = append(sets, "updated_at = NOW()")

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d AND user_id = $%d RETURNING %s",
		noteTable, strings.Join(sets, ", "), argID, argID+1, noteFields)
	args = append(args, id, userID)

	return scanNote(r.storage.QueryRow(ctx, query, args...))
}

func (r *noteRepository) DeleteNote(ctx context.Context, userID, id uint64) error {
	result, err := r.storage.Exec(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE id = $1 AND user_id = $2", noteTable), id, userID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
