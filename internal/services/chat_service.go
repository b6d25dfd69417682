package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"project-system/internal/dto"
	"project-system/internal/entities"
	"project-system/internal/integrations/llm"
	"project-system/internal/repositories"
)

type ChatServiceInterface interface {
	Chat(ctx context.Context, payload dto.ChatRequestDTO) (*dto.ChatResponseDTO, error)
}

type chatService struct {
	projectRepo  repositories.ProjectRepositoryInterface
	workItemRepo repositories.WorkItemRepositoryInterface
	llmClient    llm.ClientInterface
	logger       *zap.Logger
}

func NewChatService(
	projectRepo repositories.ProjectRepositoryInterface,
	workItemRepo repositories.WorkItemRepositoryInterface,
	llmClient llm.ClientInterface,
	logger *zap.Logger,
) ChatServiceInterface {
	return &chatService{
		projectRepo:  projectRepo,
		workItemRepo: workItemRepo,
		llmClient:    llmClient,
		logger:       logger,
	}
}

const chatSystemPrompt = `Ты - ассистент системы управления проектами. Отвечай кратко и по делу,
опираясь на снимок данных проекта, если он приложен.`

// Chat пересылает диалог модели. Если указан проект, его снимок
// добавляется системным сообщением: модель отвечает в контексте данных.
func (s *chatService) Chat(ctx context.Context, payload dto.ChatRequestDTO) (*dto.ChatResponseDTO, error) {
	messages := []llm.Message{{Role: "system", Content: chatSystemPrompt}}

	if payload.ProjectID != nil {
		snapshot, err := s.projectSnapshot(ctx, *payload.ProjectID)
		if err != nil {
			return nil, err
		}
		messages = append(messages, llm.Message{Role: "system", Content: snapshot})
	}

	for _, m := range payload.Messages {
		messages = append(messages, llm.Message{Role: m.Role, Content: m.Content})
	}

	completion, err := s.llmClient.Complete(ctx, messages)
	if err != nil {
		return nil, err
	}

	response := &dto.ChatResponseDTO{Reply: completion.Text}
	for _, tc := range completion.ToolCalls {
		response.ToolCalls = append(response.ToolCalls, dto.ToolCallDTO{
			Name:      tc.Name,
			Arguments: tc.Arguments,
		})
	}
	return response, nil
}

func (s *chatService) projectSnapshot(ctx context.Context, projectID uint64) (string, error) {
	project, err := s.projectRepo.FindProject(ctx, projectID)
	if err != nil {
		return "", err
	}
	items, _, err := s.workItemRepo.GetWorkItems(ctx, repositories.WorkItemFilter{
		Kind:      entities.KindActivity,
		ProjectID: projectID,
	})
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Снимок проекта «%s» (статус: %s):\n", project.Title, project.Status)
	for i := range items {
		it := &items[i]
		fmt.Fprintf(&sb, "- %s: статус %s, приоритет %s, срок %s\n",
			it.Title, it.Status, it.Priority, it.EndDate.String)
	}
	return sb.String(), nil
}
