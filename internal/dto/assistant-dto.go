package dto

// --- Чат-ассистент ---

type ChatMessageDTO struct {
	Role    string `json:"role" validate:"required,oneof=user assistant system"`
	Content string `json:"content" validate:"required"`
}

type ChatRequestDTO struct {
	Messages  []ChatMessageDTO `json:"messages" validate:"required,min=1,dive"`
	ProjectID *uint64          `json:"project_id,omitempty" validate:"omitempty,gt=0"`
}

type ChatResponseDTO struct {
	Reply     string        `json:"reply"`
	ToolCalls []ToolCallDTO `json:"tool_calls,omitempty"`
}

type ToolCallDTO struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// --- Анализ задач ---

// Разобранный ответ анализатора. Формат маркеров SECTION_HEADER:/LIST_ITEM:
// зафиксирован контрактом слоя отображения.
type AnalysisDTO struct {
	Sections []AnalysisSectionDTO `json:"sections"`
}

type AnalysisSectionDTO struct {
	Header string            `json:"header"`
	Items  []AnalysisItemDTO `json:"items"`
}

type AnalysisItemDTO struct {
	Priority string `json:"priority"`
	Title    string `json:"title"`
	EndDate  string `json:"end_date"`
	Roles    string `json:"roles"`
}
