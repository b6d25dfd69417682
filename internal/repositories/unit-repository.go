package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"project-system/internal/entities"
	apperrors "project-system/pkg/errors"
)

const (
	unitTable  = "units"
	unitFields = "id, name, created_at, updated_at"
)

type UnitRepositoryInterface interface {
	GetUnits(ctx context.Context, limit, offset uint64) ([]entities.Unit, uint64, error)
	FindUnit(ctx context.Context, id uint64) (*entities.Unit, error)
	CreateUnit(ctx context.Context, name string) (*entities.Unit, error)
	UpdateUnit(ctx context.Context, id uint64, name string) (*entities.Unit, error)
	DeleteUnit(ctx context.Context, id uint64) error
}

type unitRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewUnitRepository(storage *pgxpool.Pool, logger *zap.Logger) UnitRepositoryInterface {
	return &unitRepository{storage: storage, logger: logger}
}

func scanUnit(row pgx.Row) (*entities.Unit, error) {
	var u entities.Unit
	if err := row.Scan(&u.ID, &u.Name, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *unitRepository) GetUnits(ctx context.Context, limit, offset uint64) ([]entities.Unit, uint64, error) {
	var total uint64
	if err := r.storage.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", unitTable)).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.Unit{}, 0, nil
	}

	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY name LIMIT $1 OFFSET $2", unitFields, unitTable)
	rows, err := r.storage.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	units := make([]entities.Unit, 0)
	for rows.Next() {
		var u entities.Unit
		if err := rows.Scan(&u.ID, &u.Name, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, 0, err
		}
		units = append(units, u)
	}
	return units, total, rows.Err()
}

func (r *unitRepository) FindUnit(ctx context.Context, id uint64) (*entities.Unit, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", unitFields, unitTable)
	return scanUnit(r.storage.QueryRow(ctx, query, id))
}

func (r *unitRepository) CreateUnit(ctx context.Context, name string) (*entities.Unit, error) {
	query := fmt.Sprintf("INSERT INTO %s (name) VALUES ($1) RETURNING %s", unitTable, unitFields)
	created, err := scanUnit(r.storage.QueryRow(ctx, query, name))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, apperrors.ErrConflict
		}
		return nil, err
	}
	return created, nil
}

func (r *unitRepository) UpdateUnit(ctx context.Context, id uint64, name string) (*entities.Unit, error) {
	query := fmt.Sprintf("UPDATE %s SET name = $1, updated_at = NOW() WHERE id = $2 RETURNING %s",
		unitTable, unitFields)
	updated, err := scanUnit(r.storage.QueryRow(ctx, query, name, id))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, apperrors.ErrConflict
		}
		return nil, err
	}
	return updated, nil
}

func (r *unitRepository) DeleteUnit(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", unitTable), id)
	if err != nil {
		var pgErr *pgconn.PgError
		// Подразделение с сотрудниками или командами не удаляется.
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
