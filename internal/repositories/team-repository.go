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
	teamTable  = "teams"
	teamFields = "id, name, unit_id, created_at, updated_at"
)

type TeamRepositoryInterface interface {
	GetTeams(ctx context.Context, limit, offset uint64, unitID uint64) ([]entities.Team, uint64, error)
	FindTeam(ctx context.Context, id uint64) (*entities.Team, error)
	CreateTeam(ctx context.Context, team *entities.Team) (*entities.Team, error)
	UpdateTeam(ctx context.Context, id uint64, setClauses map[string]interface{}) (*entities.Team, error)
	DeleteTeam(ctx context.Context, id uint64) error
}

type teamRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewTeamRepository(storage *pgxpool.Pool, logger *zap.Logger) TeamRepositoryInterface {
	return &teamRepository{storage: storage, logger: logger}
}

func scanTeam(row pgx.Row) (*entities.Team, error) {
	var t entities.Team
	if err := row.Scan(&t.ID, &t.Name, &t.UnitID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *teamRepository) GetTeams(ctx context.Context, limit, offset uint64, unitID uint64) ([]entities.Team, uint64, error) {
	var total uint64
	var args []interface{}
	whereClause := ""

	if unitID > 0 {
		whereClause = "WHERE unit_id = $1"
		args = append(args, unitID)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s %s", teamTable, whereClause)
	if err := r.storage.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.Team{}, 0, nil
	}

	queryArgs := append(args, limit, offset)
	query := fmt.Sprintf("SELECT %s FROM %s %s ORDER BY name LIMIT $%d OFFSET $%d",
		teamFields, teamTable, whereClause, len(args)+1, len(args)+2)

	rows, err := r.storage.Query(ctx, query, queryArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	teams := make([]entities.Team, 0)
	for rows.Next() {
		var t entities.Team
		if err := rows.Scan(&t.ID, &t.Name, &t.UnitID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, 0, err
		}
		teams = append(teams, t)
	}
	return teams, total, rows.Err()
}

func (r *teamRepository) FindTeam(ctx context.Context, id uint64) (*entities.Team, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", teamFields, teamTable)
	return scanTeam(r.storage.QueryRow(ctx, query, id))
}

func (r *teamRepository) CreateTeam(ctx context.Context, team *entities.Team) (*entities.Team, error) {
	query := fmt.Sprintf("INSERT INTO %s (name, unit_id) VALUES ($1, $2) RETURNING %s", teamTable, teamFields)
	created, err := scanTeam(r.storage.QueryRow(ctx, query, team.Name, team.UnitID))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return nil, apperrors.ErrConflict
			case "23503":
				return nil, fmt.Errorf("%w: подразделение не найдено", apperrors.ErrBadRequest)
			}
		}
		return nil, err
	}
	return created, nil
}

func (r *teamRepository) UpdateTeam(ctx context.Context, id uint64, setClauses map[string]interface{}) (*entities.Team, error) {
	if len(setClauses) == 0 {
		return r.FindTeam(ctx, id)
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
		teamTable, strings.Join(sets, ", "), argID, teamFields)
	args = append(args, id)

	updated, err := scanTeam(r.storage.QueryRow(ctx, query, args...))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, apperrors.ErrConflict
		}
		return nil, err
	}
	return updated, nil
}

func (r *teamRepository) DeleteTeam(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", teamTable), id)
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
