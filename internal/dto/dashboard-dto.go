package dto

type DashboardDTO struct {
	CountByStatus      []CountByGroupDTO      `json:"count_by_status"`
	CountByPriority    []CountByGroupDTO      `json:"count_by_priority"`
	CountByResponsible []CountByGroupDTO      `json:"count_by_responsible"`
	OverdueCount       uint64                 `json:"overdue_count"`
	PendingApprovals   uint64                 `json:"pending_approvals"`
	Projects           []ProjectProgressDTO   `json:"projects"`
}

type CountByGroupDTO struct {
	Group string `json:"group"`
	Count uint64 `json:"count"`
}

type ProjectProgressDTO struct {
	ProjectID         uint64 `json:"project_id"`
	Title             string `json:"title"`
	Status            string `json:"status"`
	TotalActivities   uint64 `json:"total_activities"`
	FinishedApproved  uint64 `json:"finished_approved"`
	CompletionPercent int    `json:"completion_percent"`
}
