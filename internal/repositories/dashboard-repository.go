package repositories

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"project-system/internal/dto"
	"project-system/pkg/constants"
)

type DashboardRepositoryInterface interface {
	CountByStatus(ctx context.Context, userID uint64) ([]dto.CountByGroupDTO, error)
	CountByPriority(ctx context.Context, userID uint64) ([]dto.CountByGroupDTO, error)
	CountByResponsible(ctx context.Context) ([]dto.CountByGroupDTO, error)
	CountOverdue(ctx context.Context, userID uint64) (uint64, error)
	CountPendingApprovals(ctx context.Context, approverID uint64) (uint64, error)
	ProjectProgress(ctx context.Context) ([]dto.ProjectProgressDTO, error)
}

type dashboardRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewDashboardRepository(storage *pgxpool.Pool, logger *zap.Logger) DashboardRepositoryInterface {
	return &dashboardRepository{storage: storage, logger: logger}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func (r *dashboardRepository) countByColumn(ctx context.Context, column string, userID uint64) ([]dto.CountByGroupDTO, error) {
	builder := psql.Select(column, "COUNT(*)").
		From(workItemTable).
		GroupBy(column).
		OrderBy("COUNT(*) DESC")
	if userID > 0 {
		builder = builder.Where(sq.Eq{"responsible_id": userID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups := make([]dto.CountByGroupDTO, 0)
	for rows.Next() {
		var g dto.CountByGroupDTO
		if err := rows.Scan(&g.Group, &g.Count); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func (r *dashboardRepository) CountByStatus(ctx context.Context, userID uint64) ([]dto.CountByGroupDTO, error) {
	return r.countByColumn(ctx, "status", userID)
}

func (r *dashboardRepository) CountByPriority(ctx context.Context, userID uint64) ([]dto.CountByGroupDTO, error) {
	return r.countByColumn(ctx, "priority", userID)
}

// CountByResponsible группирует по имени исполнителя, а не по идентификатору.
func (r *dashboardRepository) CountByResponsible(ctx context.Context) ([]dto.CountByGroupDTO, error) {
	query, args, err := psql.Select("u.full_name", "COUNT(*)").
		From(workItemTable + " w").
		Join(userTable + " u ON u.id = w.responsible_id").
		GroupBy("u.full_name").
		OrderBy("COUNT(*) DESC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups := make([]dto.CountByGroupDTO, 0)
	for rows.Next() {
		var g dto.CountByGroupDTO
		if err := rows.Scan(&g.Group, &g.Count); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// CountOverdue считает незавершённые элементы с истёкшим сроком.
// Даты хранятся строками ISO, сравнение с CURRENT_DATE::text корректно лексикографически.
func (r *dashboardRepository) CountOverdue(ctx context.Context, userID uint64) (uint64, error) {
	builder := psql.Select("COUNT(*)").
		From(workItemTable).
		Where(sq.NotEq{"end_date": nil}).
		Where(sq.Expr("end_date < CURRENT_DATE::text")).
		Where(sq.NotEq{"status": constants.StatusFinished})
	if userID > 0 {
		builder = builder.Where(sq.Eq{"responsible_id": userID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, err
	}

	var count uint64
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *dashboardRepository) CountPendingApprovals(ctx context.Context, approverID uint64) (uint64, error) {
	builder := psql.Select("COUNT(*)").
		From(workItemTable).
		Where(sq.Eq{"status": constants.StatusPendingApproval})
	if approverID > 0 {
		builder = builder.Where(sq.Eq{"approver_id": approverID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, err
	}

	var count uint64
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *dashboardRepository) ProjectProgress(ctx context.Context) ([]dto.ProjectProgressDTO, error) {
	query, args, err := psql.Select("p.id", "p.title", "p.status", "COUNT(w.id)").
		Column(sq.Expr(
			"COUNT(w.id) FILTER (WHERE w.status = ? AND (NOT w.use_workflow OR w.approval_status = ?))",
			constants.StatusFinished, constants.ApprovalApproved)).
		From(projectTable+" p").
		LeftJoin(workItemTable+" w ON w.project_id = p.id").
		GroupBy("p.id", "p.title", "p.status").
		OrderBy("p.id").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := make([]dto.ProjectProgressDTO, 0)
	for rows.Next() {
		var p dto.ProjectProgressDTO
		if err := rows.Scan(&p.ProjectID, &p.Title, &p.Status, &p.TotalActivities, &p.FinishedApproved); err != nil {
			return nil, err
		}
		if p.TotalActivities > 0 {
			p.CompletionPercent = int(p.FinishedApproved * 100 / p.TotalActivities)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}
