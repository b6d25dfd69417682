package dto

// ReportRowDTO - строка сводного отчёта по рабочим элементам;
// выгружается в JSON или XLSX.
type ReportRowDTO struct {
	ID             uint64 `json:"id"`
	Kind           string `json:"kind"`
	Title          string `json:"title"`
	Project        string `json:"project,omitempty"`
	Priority       string `json:"priority"`
	Status         string `json:"status"`
	ApprovalStatus string `json:"approval_status,omitempty"`
	Responsible    string `json:"responsible"`
	Approver       string `json:"approver"`
	StartDate      string `json:"start_date,omitempty"`
	EndDate        string `json:"end_date,omitempty"`
	CreatedAt      string `json:"created_at"`
}
