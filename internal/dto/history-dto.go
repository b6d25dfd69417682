package dto

type HistoryEntryDTO struct {
	ID               uint64       `json:"id"`
	Status           string       `json:"status"`
	User             ShortUserDTO `json:"user"`
	Comment          string       `json:"comment,omitempty"`
	RequestedStatus  string       `json:"requested_status,omitempty"`
	ApprovalDecision string       `json:"approval_decision,omitempty"`
	FileURL          string       `json:"file_url,omitempty"`
	FileName         string       `json:"file_name,omitempty"`
	CreatedAt        string       `json:"created_at"`
}

// TimelineBlockDTO - записи истории одной логической операции (один tx_id),
// показываемые как единый блок таймлайна.
type TimelineBlockDTO struct {
	Actor     ShortUserDTO      `json:"actor"`
	Entries   []HistoryEntryDTO `json:"entries"`
	CreatedAt string            `json:"created_at"`
}
