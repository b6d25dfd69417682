package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"project-system/internal/entities"
	apperrors "project-system/pkg/errors"
)

const (
	customFieldTable  = "custom_fields"
	customFieldFields = "id, name, field_type, created_at, updated_at"
)

type CustomFieldRepositoryInterface interface {
	GetCustomFields(ctx context.Context, limit, offset uint64) ([]entities.CustomField, uint64, error)
	FindCustomField(ctx context.Context, id uint64) (*entities.CustomField, error)
	CreateCustomField(ctx context.Context, field *entities.CustomField) (*entities.CustomField, error)
	UpdateCustomField(ctx context.Context, id uint64, setClauses map[string]interface{}) (*entities.CustomField, error)
	DeleteCustomField(ctx context.Context, id uint64) error
}

type customFieldRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewCustomFieldRepository(storage *pgxpool.Pool, logger *zap.Logger) CustomFieldRepositoryInterface {
	return &customFieldRepository{storage: storage, logger: logger}
}

func scanCustomField(row pgx.Row) (*entities.CustomField, error) {
	var f entities.CustomField
	if err := row.Scan(&f.ID, &f.Name, &f.FieldType, &f.CreatedAt, &f.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &f, nil
}

func (r *customFieldRepository) GetCustomFields(ctx context.Context, limit, offset uint64) ([]entities.CustomField, uint64, error) {
	var total uint64
	if err := r.storage.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", customFieldTable)).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.CustomField{}, 0, nil
	}

	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY id LIMIT $1 OFFSET $2", customFieldFields, customFieldTable)
	rows, err := r.storage.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	fields := make([]entities.CustomField, 0)
	for rows.Next() {
		var f entities.CustomField
		if err := rows.Scan(&f.ID, &f.Name, &f.FieldType, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, 0, err
		}
		fields = append(fields, f)
	}
	return fields, total, rows.Err()
}

func (r *customFieldRepository) FindCustomField(ctx context.Context, id uint64) (*entities.CustomField, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", customFieldFields, customFieldTable)
	return scanCustomField(r.storage.QueryRow(ctx, query, id))
}

func (r *customFieldRepository) CreateCustomField(ctx context.Context, field *entities.CustomField) (*entities.CustomField, error) {
	query := fmt.Sprintf("INSERT INTO %s (name, field_type) VALUES ($1, $2) RETURNING %s",
		customFieldTable, customFieldFields)
	created, err := scanCustomField(r.storage.QueryRow(ctx, query, field.Name, field.FieldType))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, apperrors.ErrConflict
		}
		return nil, err
	}
	return created, nil
}

func (r *customFieldRepository) UpdateCustomField(ctx context.Context, id uint64, setClauses map[string]interface{}) (*entities.CustomField, error) {
	if len(setClauses) == 0 {
		return r.FindCustomField(ctx, id)
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

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d RETURNING %s",
		customFieldTable, strings.Join(sets, ", "), argID, customFieldFields)
	args = append(args, id)

	updated, err := scanCustomField(r.storage.QueryRow(ctx, query, args...))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, apperrors.ErrConflict
		}
		return nil, err
	}
	return updated, nil
}

func (r *customFieldRepository) DeleteCustomField(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", customFieldTable), id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return apperrors.ErrConflict
		}
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
