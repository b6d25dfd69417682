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
	projectTable  = "projects"
	projectFields = "id, title, description, status, use_workflow, owner_id, start_date, end_date, created_at, updated_at"
)

type ProjectRepositoryInterface interface {
	GetProjects(ctx context.Context, limit, offset uint64, search string) ([]entities.Project, uint64, error)
	FindProject(ctx context.Context, id uint64) (*entities.Project, error)
	CreateProject(ctx context.Context, project *entities.Project) (*entities.Project, error)
	UpdateProject(ctx context.Context, id uint64, setClauses map[string]interface{}) (*entities.Project, error)
	DeleteProjectInTx(ctx context.Context, tx pgx.Tx, id uint64) error
	StatusesByIDs(ctx context.Context, q querier) (map[uint64]string, []uint64, error)
	SetDerivedStatusInTx(ctx context.Context, tx pgx.Tx, id uint64, status string) error
}

type projectRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewProjectRepository(storage *pgxpool.Pool, logger *zap.Logger) ProjectRepositoryInterface {
	return &projectRepository{storage: storage, logger: logger}
}

func scanProject(row pgx.Row) (*entities.Project, error) {
	var p entities.Project
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Status, &p.UseWorkflow,
		&p.OwnerID, &p.StartDate, &p.EndDate, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *projectRepository) GetProjects(ctx context.Context, limit, offset uint64, search string) ([]entities.Project, uint64, error) {
	var total uint64
	var args []interface{}
	whereClause := ""

	if search != "" {
		whereClause = "WHERE title ILIKE $1"
		args = append(args, "%"+search+"%")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s %s", projectTable, whereClause)
	if err := r.storage.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.Project{}, 0, nil
	}

	queryArgs := append(args, limit, offset)
	query := fmt.Sprintf("SELECT %s FROM %s %s ORDER BY id LIMIT $%d OFFSET $%d",
		projectFields, projectTable, whereClause, len(args)+1, len(args)+2)

	rows, err := r.storage.Query(ctx, query, queryArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	projects := make([]entities.Project, 0)
	for rows.Next() {
		var p entities.Project
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.Status, &p.UseWorkflow,
			&p.OwnerID, &p.StartDate, &p.EndDate, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, err
		}
		projects = append(projects, p)
	}
	return projects, total, rows.Err()
}

func (r *projectRepository) FindProject(ctx context.Context, id uint64) (*entities.Project, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", projectFields, projectTable)
	return scanProject(r.storage.QueryRow(ctx, query, id))
}

func (r *projectRepository) CreateProject(ctx context.Context, project *entities.Project) (*entities.Project, error) {
	query := fmt.Sprintf(`INSERT INTO %s (title, description, status, use_workflow, owner_id, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING %s`, projectTable, projectFields)
	return scanProject(r.storage.QueryRow(ctx, query,
		project.Title, project.Description, project.Status, project.UseWorkflow,
		project.OwnerID, project.StartDate, project.EndDate))
}

func (r *projectRepository) UpdateProject(ctx context.Context, id uint64, setClauses map[string]interface{}) (*entities.Project, error) {
	if len(setClauses) == 0 {
		return r.FindProject(ctx, id)
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
		projectTable, strings.Join(sets, ", "), argID, projectFields)
	args = append(args, id)

	return scanProject(r.storage.QueryRow(ctx, query, args...))
}

// DeleteProjectInTx удаляет проект; активности каскадно удаляет БД.
func (r *projectRepository) DeleteProjectInTx(ctx context.Context, tx pgx.Tx, id uint64) error {
	result, err := tx.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", projectTable), id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// StatusesByIDs - снимок статусов всех проектов для пересчёта агрегатов.
func (r *projectRepository) StatusesByIDs(ctx context.Context, q querier) (map[uint64]string, []uint64, error) {
	rows, err := q.Query(ctx, fmt.Sprintf("SELECT id, status FROM %s", projectTable))
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	statuses := make(map[uint64]string)
	var ids []uint64
	for rows.Next() {
		var id uint64
		var status string
		if err := rows.Scan(&id, &status); err != nil {
			return nil, nil, err
		}
		statuses[id] = status
		ids = append(ids, id)
	}
	return statuses, ids, rows.Err()
}

func (r *projectRepository) SetDerivedStatusInTx(ctx context.Context, tx pgx.Tx, id uint64, status string) error {
	_, err := tx.Exec(ctx,
		fmt.Sprintf("UPDATE %s SET status = $1, updated_at = NOW() WHERE id = $2", projectTable),
		status, id)
	return err
}
