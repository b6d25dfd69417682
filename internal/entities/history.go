package entities

import (
	"time"

	"github.com/aarondl/null/v8"
	"github.com/google/uuid"
)

// HistoryEntry - запись истории рабочего элемента. История append-only:
// записи не редактируются и не переупорядочиваются. TxID группирует записи
// одной логической операции для таймлайна и уведомлений.
type HistoryEntry struct {
	ID               uint64      `json:"id"`
	ItemID           uint64      `json:"item_id"`
	Status           string      `json:"status"`
	UserID           uint64      `json:"user_id"`
	Comment          null.String `json:"comment"`
	RequestedStatus  null.String `json:"requested_status"`
	ApprovalDecision null.String `json:"approval_decision"`
	FileURL          null.String `json:"file_url"`
	FileName         null.String `json:"file_name"`
	TxID             uuid.UUID   `json:"tx_id"`
	CreatedAt        time.Time   `json:"created_at"`
}
