package events

import "project-system/internal/entities"

// WorkItemHistoryCreatedEvent возникает после фиксации записи истории
// рабочего элемента. Слушатели группируют события по tx_id: одна
// бизнес-операция порождает одно уведомление, сколько бы записей
// истории она ни создала.
type WorkItemHistoryCreatedEvent struct {
	Entry entities.HistoryEntry
	Item  *entities.WorkItem
	Actor *entities.User
}

func (e WorkItemHistoryCreatedEvent) Name() string {
	return "workitem.history.created"
}
