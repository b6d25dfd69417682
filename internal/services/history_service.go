package services

import (
	"context"

	"go.uber.org/zap"

	"project-system/internal/dto"
	"project-system/internal/repositories"
)

type HistoryServiceInterface interface {
	GetTimeline(ctx context.Context, itemID uint64) ([]dto.TimelineBlockDTO, error)
}

type historyService struct {
	historyRepo  repositories.HistoryRepositoryInterface
	workItemRepo repositories.WorkItemRepositoryInterface
	userRepo     repositories.UserRepositoryInterface
	logger       *zap.Logger
}

func NewHistoryService(
	historyRepo repositories.HistoryRepositoryInterface,
	workItemRepo repositories.WorkItemRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	logger *zap.Logger,
) HistoryServiceInterface {
	return &historyService{
		historyRepo:  historyRepo,
		workItemRepo: workItemRepo,
		userRepo:     userRepo,
		logger:       logger,
	}
}

// GetTimeline собирает журнал элемента в блоки по tx_id: записи одной
// бизнес-операции показываются как единое событие таймлайна. Записи
// приходят от новых к старым, порядок блоков сохраняет порядок записей.
func (s *historyService) GetTimeline(ctx context.Context, itemID uint64) ([]dto.TimelineBlockDTO, error) {
	if _, err := s.workItemRepo.FindWorkItem(ctx, itemID); err != nil {
		return nil, err
	}

	entries, err := s.historyRepo.FindByItemID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return []dto.TimelineBlockDTO{}, nil
	}

	idSet := make(map[uint64]struct{})
	for i := range entries {
		idSet[entries[i].UserID] = struct{}{}
	}
	ids := make([]uint64, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	users, err := s.userRepo.FindUsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	var blocks []dto.TimelineBlockDTO
	blockIndex := make(map[string]int)

	for i := range entries {
		entry := &entries[i]
		key := entry.TxID.String()

		idx, exists := blockIndex[key]
		if !exists {
			blocks = append(blocks, dto.TimelineBlockDTO{
				Actor:     shortUser(users, entry.UserID),
				CreatedAt: formatTime(entry.CreatedAt),
			})
			idx = len(blocks) - 1
			blockIndex[key] = idx
		}
		blocks[idx].Entries = append(blocks[idx].Entries, buildHistoryEntryDTO(entry, users))
	}

	return blocks, nil
}
