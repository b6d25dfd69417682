package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"project-system/internal/entities"
)

const (
	historyTable  = "work_item_history"
	historyFields = "id, item_id, status, user_id, comment, requested_status, approval_decision, file_url, file_name, tx_id, created_at"
)

type HistoryRepositoryInterface interface {
	CreateInTx(ctx context.Context, tx pgx.Tx, entry *entities.HistoryEntry) (*entities.HistoryEntry, error)
	FindByItemID(ctx context.Context, itemID uint64) ([]entities.HistoryEntry, error)
}

type historyRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewHistoryRepository(storage *pgxpool.Pool, logger *zap.Logger) HistoryRepositoryInterface {
	return &historyRepository{storage: storage, logger: logger}
}

func (r *historyRepository) CreateInTx(ctx context.Context, tx pgx.Tx, entry *entities.HistoryEntry) (*entities.HistoryEntry, error) {
	query := fmt.Sprintf(`INSERT INTO %s (item_id, status, user_id, comment, requested_status, approval_decision, file_url, file_name, tx_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING %s`, historyTable, historyFields)

	var e entities.HistoryEntry
	err := tx.QueryRow(ctx, query,
		entry.ItemID, entry.Status, entry.UserID, entry.Comment, entry.RequestedStatus,
		entry.ApprovalDecision, entry.FileURL, entry.FileName, entry.TxID,
	).Scan(&e.ID, &e.ItemID, &e.Status, &e.UserID, &e.Comment, &e.RequestedStatus,
		&e.ApprovalDecision, &e.FileURL, &e.FileName, &e.TxID, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// FindByItemID возвращает журнал элемента от новых записей к старым.
func (r *historyRepository) FindByItemID(ctx context.Context, itemID uint64) ([]entities.HistoryEntry, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE item_id = $1 ORDER BY created_at DESC, id DESC",
		historyFields, historyTable)
	rows, err := r.storage.Query(ctx, query, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]entities.HistoryEntry, 0)
	for rows.Next() {
		var e entities.HistoryEntry
		if err := rows.Scan(&e.ID, &e.ItemID, &e.Status, &e.UserID, &e.Comment, &e.RequestedStatus,
			&e.ApprovalDecision, &e.FileURL, &e.FileName, &e.TxID, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
