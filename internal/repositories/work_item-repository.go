package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"project-system/internal/entities"
	"project-system/internal/workflow"
	apperrors "project-system/pkg/errors"
)

const (
	workItemTable  = "work_items"
	workItemFields = `id, kind, title, priority, start_date, end_date, status, requested_status,
		underlying_status, approval_status, use_workflow, responsible_id, approver_id, owner_id,
		project_id, parent_id, kanban_order, version, created_at, updated_at`
)

// WorkItemFilter - параметры выборки списка элементов.
type WorkItemFilter struct {
	Kind          string
	ProjectID     uint64
	ParentID      uint64
	RootsOnly     bool
	ResponsibleID uint64
	ApproverID    uint64
	Status        string
	Priority      string
	Search        string
	Limit         uint64
	Offset        uint64
}

type WorkItemRepositoryInterface interface {
	GetWorkItems(ctx context.Context, filter WorkItemFilter) ([]entities.WorkItem, uint64, error)
	FindWorkItem(ctx context.Context, id uint64) (*entities.WorkItem, error)
	FindWorkItemForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.WorkItem, error)
	CreateWorkItemInTx(ctx context.Context, tx pgx.Tx, item *entities.WorkItem) (*entities.WorkItem, error)
	UpdateFieldsInTx(ctx context.Context, tx pgx.Tx, id uint64, expectedVersion int, setClauses map[string]interface{}) (*entities.WorkItem, error)
	ApplyTransitionInTx(ctx context.Context, tx pgx.Tx, id uint64, expectedVersion int, tr workflow.Transition) (*entities.WorkItem, error)
	SetDerivedStatusInTx(ctx context.Context, tx pgx.Tx, id uint64, status string) error
	SnapshotForPropagation(ctx context.Context, q querier) ([]workflow.Node, error)
	DescendantIDs(ctx context.Context, q querier, rootID uint64) ([]uint64, error)
	DeleteSubtreeInTx(ctx context.Context, tx pgx.Tx, rootID uint64) (int64, error)
	CountByResponsible(ctx context.Context, userID uint64) (uint64, error)
}

type workItemRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewWorkItemRepository(storage *pgxpool.Pool, logger *zap.Logger) WorkItemRepositoryInterface {
	return &workItemRepository{storage: storage, logger: logger}
}

func scanWorkItem(row pgx.Row) (*entities.WorkItem, error) {
	var it entities.WorkItem
	err := row.Scan(&it.ID, &it.Kind, &it.Title, &it.Priority, &it.StartDate, &it.EndDate,
		&it.Status, &it.RequestedStatus, &it.UnderlyingStatus, &it.ApprovalStatus, &it.UseWorkflow,
		&it.ResponsibleID, &it.ApproverID, &it.OwnerID, &it.ProjectID, &it.ParentID,
		&it.KanbanOrder, &it.Version, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &it, nil
}

func (r *workItemRepository) GetWorkItems(ctx context.Context, filter WorkItemFilter) ([]entities.WorkItem, uint64, error) {
	base := sq.Select(workItemFields).From(workItemTable).PlaceholderFormat(sq.Dollar)
	countBase := sq.Select("COUNT(*)").From(workItemTable).PlaceholderFormat(sq.Dollar)

	apply := func(b sq.SelectBuilder) sq.SelectBuilder {
		if filter.Kind != "" {
			b = b.Where(sq.Eq{"kind": filter.Kind})
		}
		if filter.ProjectID != 0 {
			b = b.Where(sq.Eq{"project_id": filter.ProjectID})
		}
		if filter.ParentID != 0 {
			b = b.Where(sq.Eq{"parent_id": filter.ParentID})
		}
		if filter.RootsOnly {
			b = b.Where(sq.Eq{"parent_id": nil})
		}
		if filter.ResponsibleID != 0 {
			b = b.Where(sq.Eq{"responsible_id": filter.ResponsibleID})
		}
		if filter.ApproverID != 0 {
			b = b.Where(sq.Eq{"approver_id": filter.ApproverID})
		}
		if filter.Status != "" {
			b = b.Where(sq.Eq{"status": filter.Status})
		}
		if filter.Priority != "" {
			b = b.Where(sq.Eq{"priority": filter.Priority})
		}
		if filter.Search != "" {
			b = b.Where(sq.ILike{"title": "%" + filter.Search + "%"})
		}
		return b
	}

	countQuery, countArgs, err := apply(countBase).ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.WorkItem{}, 0, nil
	}

	listBuilder := apply(base).OrderBy("kanban_order", "id")
	if filter.Limit > 0 {
		listBuilder = listBuilder.Limit(filter.Limit).Offset(filter.Offset)
	}
	query, args, err := listBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := make([]entities.WorkItem, 0)
	for rows.Next() {
		var it entities.WorkItem
		if err := rows.Scan(&it.ID, &it.Kind, &it.Title, &it.Priority, &it.StartDate, &it.EndDate,
			&it.Status, &it.RequestedStatus, &it.UnderlyingStatus, &it.ApprovalStatus, &it.UseWorkflow,
			&it.ResponsibleID, &it.ApproverID, &it.OwnerID, &it.ProjectID, &it.ParentID,
			&it.KanbanOrder, &it.Version, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, it)
	}
	return items, total, rows.Err()
}

func (r *workItemRepository) FindWorkItem(ctx context.Context, id uint64) (*entities.WorkItem, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", workItemFields, workItemTable)
	return scanWorkItem(r.storage.QueryRow(ctx, query, id))
}

// FindWorkItemForUpdateInTx блокирует строку на время транзакции, чтобы
// переход статуса и пересчёт родителей видели согласованный снимок.
func (r *workItemRepository) FindWorkItemForUpdateInTx(ctx context.Context, tx pgx.Tx, id uint64) (*entities.WorkItem, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1 FOR UPDATE", workItemFields, workItemTable)
	return scanWorkItem(tx.QueryRow(ctx, query, id))
}

func (r *workItemRepository) CreateWorkItemInTx(ctx context.Context, tx pgx.Tx, item *entities.WorkItem) (*entities.WorkItem, error) {
	query := fmt.Sprintf(`INSERT INTO %s
		(kind, title, priority, start_date, end_date, status, use_workflow,
		 responsible_id, approver_id, owner_id, project_id, parent_id, kanban_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
			COALESCE((SELECT MAX(kanban_order) + 1 FROM %s w
				WHERE w.status = $6
				  AND w.project_id IS NOT DISTINCT FROM $11
				  AND w.kind = $1), 0))
		RETURNING %s`, workItemTable, workItemTable, workItemFields)
	return scanWorkItem(tx.QueryRow(ctx, query,
		item.Kind, item.Title, item.Priority, item.StartDate, item.EndDate, item.Status,
		item.UseWorkflow, item.ResponsibleID, item.ApproverID, item.OwnerID,
		item.ProjectID, item.ParentID))
}

// UpdateFieldsInTx обновляет описательные поля с проверкой версии записи.
// Несовпадение версии - конфликт (кто-то успел записать раньше).
func (r *workItemRepository) UpdateFieldsInTx(ctx context.Context, tx pgx.Tx, id uint64, expectedVersion int, setClauses map[string]interface{}) (*entities.WorkItem, error) {
	b := sq.Update(workItemTable).PlaceholderFormat(sq.Dollar)
	for column, value := range setClauses {
		b = b.Set(column, value)
	}
	b = b.Set("version", sq.Expr("version + 1")).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id, "version": expectedVersion}).
		Suffix("RETURNING " + workItemFields)

	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}

	item, err := scanWorkItem(tx.QueryRow(ctx, query, args...))
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, r.versionConflictOrNotFound(ctx, tx, id)
	}
	return item, err
}

// ApplyTransitionInTx записывает результат перехода машины состояний.
func (r *workItemRepository) ApplyTransitionInTx(ctx context.Context, tx pgx.Tx, id uint64, expectedVersion int, tr workflow.Transition) (*entities.WorkItem, error) {
	var status, requested, underlying interface{}
	switch st := tr.State.(type) {
	case workflow.Steady:
		status = string(st.Status)
		requested = nil
		underlying = nil
	case workflow.Pending:
		status = string(st.Current())
		requested = string(st.Requested)
		underlying = string(st.RevertsTo)
	default:
		return nil, fmt.Errorf("неизвестный тип состояния: %T", tr.State)
	}

	b := sq.Update(workItemTable).PlaceholderFormat(sq.Dollar).
		Set("status", status).
		Set("requested_status", requested).
		Set("underlying_status", underlying).
		Set("version", sq.Expr("version + 1")).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id, "version": expectedVersion}).
		Suffix("RETURNING " + workItemFields)
	if tr.ApprovalStatus != "" {
		b = b.Set("approval_status", tr.ApprovalStatus)
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}

	item, err := scanWorkItem(tx.QueryRow(ctx, query, args...))
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, r.versionConflictOrNotFound(ctx, tx, id)
	}
	return item, err
}

func (r *workItemRepository) versionConflictOrNotFound(ctx context.Context, tx pgx.Tx, id uint64) error {
	var exists bool
	if err := tx.QueryRow(ctx,
		fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE id = $1)", workItemTable), id).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: версия записи устарела", apperrors.ErrConflict)
	}
	return apperrors.ErrNotFound
}

// SetDerivedStatusInTx - системная запись агрегированного статуса родителя.
// Версия растёт, но проверка ожидаемой версии не нужна: источник записи -
// та же транзакция, что изменила потомка.
func (r *workItemRepository) SetDerivedStatusInTx(ctx context.Context, tx pgx.Tx, id uint64, status string) error {
	_, err := tx.Exec(ctx,
		fmt.Sprintf("UPDATE %s SET status = $1, version = version + 1, updated_at = NOW() WHERE id = $2", workItemTable),
		status, id)
	return err
}

func (r *workItemRepository) SnapshotForPropagation(ctx context.Context, q querier) ([]workflow.Node, error) {
	rows, err := q.Query(ctx, fmt.Sprintf(
		`SELECT id, COALESCE(parent_id, 0), COALESCE(project_id, 0), status, use_workflow,
		        COALESCE(approval_status, '') = 'approved'
		 FROM %s`, workItemTable))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var nodes []workflow.Node
	for rows.Next() {
		var n workflow.Node
		var status string
		if err := rows.Scan(&n.ID, &n.ParentID, &n.ProjectID, &status, &n.UseWorkflow, &n.Approved); err != nil {
			return nil, err
		}
		n.Status = workflow.Status(status)
		nodes = append(nodes, n)
	}
	return nodes, rows.Err()
}

// DescendantIDs возвращает транзитивное замыкание по parent_id.
func (r *workItemRepository) DescendantIDs(ctx context.Context, q querier, rootID uint64) ([]uint64, error) {
	rows, err := q.Query(ctx, fmt.Sprintf(`
		WITH RECURSIVE subtree AS (
			SELECT id FROM %s WHERE parent_id = $1
			UNION ALL
			SELECT w.id FROM %s w JOIN subtree s ON w.parent_id = s.id
		)
		SELECT id FROM subtree`, workItemTable, workItemTable), rootID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// DeleteSubtreeInTx удаляет элемент вместе со всем поддеревом потомков.
func (r *workItemRepository) DeleteSubtreeInTx(ctx context.Context, tx pgx.Tx, rootID uint64) (int64, error) {
	result, err := tx.Exec(ctx, fmt.Sprintf(`
		WITH RECURSIVE subtree AS (
			SELECT id FROM %s WHERE id = $1
			UNION ALL
			SELECT w.id FROM %s w JOIN subtree s ON w.parent_id = s.id
		)
		DELETE FROM %s WHERE id IN (SELECT id FROM subtree)`,
		workItemTable, workItemTable, workItemTable), rootID)
	if err != nil {
		return 0, err
	}
	if result.RowsAffected() == 0 {
		return 0, apperrors.ErrNotFound
	}
	return result.RowsAffected(), nil
}

func (r *workItemRepository) CountByResponsible(ctx context.Context, userID uint64) (uint64, error) {
	var count uint64
	err := r.storage.QueryRow(ctx,
		fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE responsible_id = $1 OR approver_id = $1 OR owner_id = $1", workItemTable),
		userID).Scan(&count)
	return count, err
}
