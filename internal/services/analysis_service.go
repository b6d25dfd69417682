package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"project-system/internal/dto"
	"project-system/internal/integrations/llm"
	"project-system/internal/repositories"
	"project-system/pkg/utils"
)

type AnalysisServiceInterface interface {
	AnalyzeMyTasks(ctx context.Context) (*dto.AnalysisDTO, error)
}

type analysisService struct {
	workItemRepo repositories.WorkItemRepositoryInterface
	llmClient    llm.ClientInterface
	logger       *zap.Logger
}

func NewAnalysisService(
	workItemRepo repositories.WorkItemRepositoryInterface,
	llmClient llm.ClientInterface,
	logger *zap.Logger,
) AnalysisServiceInterface {
	return &analysisService{
		workItemRepo: workItemRepo,
		llmClient:    llmClient,
		logger:       logger,
	}
}

// Системный промпт фиксирует маркерную грамматику ответа: слой
// отображения разбирает её построчно и другого формата не поймёт.
const analysisSystemPrompt = `Ты - помощник по управлению задачами. Проанализируй список задач пользователя:
сгруппируй их по срочности и предложи порядок выполнения.
Отвечай СТРОГО в формате:
SECTION_HEADER:<заголовок секции>
LIST_ITEM:<приоритет>|<название>|<срок>|<роли>
Никакого другого текста между размеченными строками быть не должно.`

func (s *analysisService) AnalyzeMyTasks(ctx context.Context) (*dto.AnalysisDTO, error) {
	userID, err := utils.UserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	items, _, err := s.workItemRepo.GetWorkItems(ctx, repositories.WorkItemFilter{ResponsibleID: userID})
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	sb.WriteString("Задачи пользователя:\n")
	for i := range items {
		it := &items[i]
		fmt.Fprintf(&sb, "- [%s] %s (статус: %s, срок: %s)\n",
			it.Priority, it.Title, it.Status, it.EndDate.String)
	}
	if len(items) == 0 {
		sb.WriteString("(список пуст)\n")
	}

	completion, err := s.llmClient.Complete(ctx, []llm.Message{
		{Role: "system", Content: analysisSystemPrompt},
		{Role: "user", Content: sb.String()},
	})
	if err != nil {
		return nil, err
	}

	result := &dto.AnalysisDTO{Sections: []dto.AnalysisSectionDTO{}}
	for _, section := range llm.ParseAnalysis(completion.Text) {
		sectionDTO := dto.AnalysisSectionDTO{Header: section.Header, Items: []dto.AnalysisItemDTO{}}
		for _, item := range section.Items {
			sectionDTO.Items = append(sectionDTO.Items, dto.AnalysisItemDTO{
				Priority: item.Priority,
				Title:    item.Title,
				EndDate:  item.EndDate,
				Roles:    item.Roles,
			})
		}
		result.Sections = append(result.Sections, sectionDTO)
	}

	return result, nil
}
