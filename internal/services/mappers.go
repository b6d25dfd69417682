package services

import (
	"time"

	"github.com/aarondl/null/v8"

	"project-system/internal/dto"
	"project-system/internal/entities"
)

// Общие преобразования сущностей в DTO. Справочник пользователей
// передаётся снаружи: вызывающий код загружает участников пачкой.

const timeLayout = time.RFC3339

func formatTime(t time.Time) string {
	return t.Format(timeLayout)
}

func formatNullTime(t null.Time) string {
	if !t.Valid {
		return ""
	}
	return t.Time.Format(timeLayout)
}

func uint64Ptr(v null.Uint64) *uint64 {
	if !v.Valid {
		return nil
	}
	u := v.Uint64
	return &u
}

func shortUser(users map[uint64]entities.User, id uint64) dto.ShortUserDTO {
	if u, ok := users[id]; ok {
		return dto.ShortUserDTO{ID: u.ID, FullName: u.FullName, Role: u.Role}
	}
	return dto.ShortUserDTO{ID: id}
}

func buildWorkItemDTO(item *entities.WorkItem, users map[uint64]entities.User) dto.WorkItemDTO {
	return dto.WorkItemDTO{
		ID:               item.ID,
		Kind:             item.Kind,
		Title:            item.Title,
		Priority:         item.Priority,
		StartDate:        item.StartDate.String,
		EndDate:          item.EndDate.String,
		Status:           item.Status,
		RequestedStatus:  item.RequestedStatus.String,
		UnderlyingStatus: item.UnderlyingStatus.String,
		ApprovalStatus:   item.ApprovalStatus.String,
		UseWorkflow:      item.UseWorkflow,
		Responsible:      shortUser(users, item.ResponsibleID),
		Approver:         shortUser(users, item.ApproverID),
		Owner:            shortUser(users, item.OwnerID),
		ProjectID:        uint64Ptr(item.ProjectID),
		ParentID:         uint64Ptr(item.ParentID),
		KanbanOrder:      item.KanbanOrder,
		Version:          item.Version,
		CreatedAt:        formatTime(item.CreatedAt),
		UpdatedAt:        formatNullTime(item.UpdatedAt),
	}
}

func buildProjectDTO(project *entities.Project, users map[uint64]entities.User) dto.ProjectDTO {
	return dto.ProjectDTO{
		ID:          project.ID,
		Title:       project.Title,
		Description: project.Description.String,
		Status:      project.Status,
		UseWorkflow: project.UseWorkflow,
		Owner:       shortUser(users, project.OwnerID),
		StartDate:   project.StartDate.String,
		EndDate:     project.EndDate.String,
		CreatedAt:   formatTime(project.CreatedAt),
		UpdatedAt:   formatNullTime(project.UpdatedAt),
	}
}

func buildUserDTO(user *entities.User) dto.UserDTO {
	return dto.UserDTO{
		ID:        user.ID,
		Username:  user.Username,
		FullName:  user.FullName,
		Email:     user.Email,
		Role:      user.Role,
		UnitID:    uint64Ptr(user.UnitID),
		TeamID:    uint64Ptr(user.TeamID),
		PhotoURL:  user.PhotoURL.String,
		CreatedAt: formatTime(user.CreatedAt),
		UpdatedAt: formatNullTime(user.UpdatedAt),
	}
}

func buildHistoryEntryDTO(entry *entities.HistoryEntry, users map[uint64]entities.User) dto.HistoryEntryDTO {
	return dto.HistoryEntryDTO{
		ID:               entry.ID,
		Status:           entry.Status,
		User:             shortUser(users, entry.UserID),
		Comment:          entry.Comment.String,
		RequestedStatus:  entry.RequestedStatus.String,
		ApprovalDecision: entry.ApprovalDecision.String,
		FileURL:          entry.FileURL.String,
		FileName:         entry.FileName.String,
		CreatedAt:        formatTime(entry.CreatedAt),
	}
}
