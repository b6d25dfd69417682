package services

import (
	"context"

	"github.com/aarondl/null/v8"
	"go.uber.org/zap"

	"project-system/internal/dto"
	"project-system/internal/entities"
	"project-system/internal/repositories"
	"project-system/pkg/utils"
)

// Заметки - личные, доступ всегда ограничен их владельцем.
type NoteServiceInterface interface {
	GetNotes(ctx context.Context, limit, offset uint64) ([]dto.NoteDTO, uint64, error)
	FindNote(ctx context.Context, id uint64) (*dto.NoteDTO, error)
	CreateNote(ctx context.Context, payload dto.CreateNoteDTO) (*dto.NoteDTO, error)
	UpdateNote(ctx context.Context, id uint64, payload dto.UpdateNoteDTO) (*dto.NoteDTO, error)
	DeleteNote(ctx context.Context, id uint64) error
}

type noteService struct {
	noteRepo repositories.NoteRepositoryInterface
	logger   *zap.Logger
}

func NewNoteService(noteRepo repositories.NoteRepositoryInterface, logger *zap.Logger) NoteServiceInterface {
	return &noteService{noteRepo: noteRepo, logger: logger}
}

func buildNoteDTO(note *entities.Note) dto.NoteDTO {
	return dto.NoteDTO{
		ID:        note.ID,
		Title:     note.Title,
		Body:      note.Body.String,
		CreatedAt: formatTime(note.CreatedAt),
		UpdatedAt: formatNullTime(note.UpdatedAt),
	}
}

func (s *noteService) GetNotes(ctx context.Context, limit, offset uint64) ([]dto.NoteDTO, uint64, error) {
	userID, err := utils.UserIDFromContext(ctx)
	if err != nil {
		return nil, 0, err
	}

	notes, total, err := s.noteRepo.GetNotes(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	result := make([]dto.NoteDTO, 0, len(notes))
	for i := range notes {
		result = append(result, buildNoteDTO(&notes[i]))
	}
	return result, total, nil
}

func (s *noteService) FindNote(ctx context.Context, id uint64) (*dto.NoteDTO, error) {
	userID, err := utils.UserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	note, err := s.noteRepo.FindNote(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	result := buildNoteDTO(note)
	return &result, nil
}

func (s *noteService) CreateNote(ctx context.Context, payload dto.CreateNoteDTO) (*dto.NoteDTO, error) {
	userID, err := utils.UserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	created, err := s.noteRepo.CreateNote(ctx, &entities.Note{
		UserID: userID,
		Title:  payload.Title,
		Body:   null.StringFromPtr(payload.Body),
	})
	if err != nil {
		return nil, err
	}
	result := buildNoteDTO(created)
	return &result, nil
}

func (s *noteService) UpdateNote(ctx context.Context, id uint64, payload dto.UpdateNoteDTO) (*dto.NoteDTO, error) {
	userID, err := utils.UserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	setClauses := map[string]interface{}{}
	if payload.Title != nil {
		setClauses["title"] = *payload.Title
	}
	if payload.Body != nil {
		setClauses["body"] = *payload.Body
	}

	updated, err := s.noteRepo.UpdateNote(ctx, userID, id, setClauses)
	if err != nil {
		return nil, err
	}
	result := buildNoteDTO(updated)
	return &result, nil
}

func (s *noteService) DeleteNote(ctx context.Context, id uint64) error {
	userID, err := utils.UserIDFromContext(ctx)
	if err != nil {
		return err
	}
	return s.noteRepo.DeleteNote(ctx, userID, id)
}
