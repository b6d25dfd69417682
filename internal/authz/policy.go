package authz

import (
	"fmt"

	"project-system/internal/entities"
	apperrors "project-system/pkg/errors"
)

// Actor - пользователь, от имени которого выполняется операция.
type Actor struct {
	ID   uint64
	Role string
}

func (a Actor) isAdmin() bool {
	return a.Role == entities.RoleAdmin
}

// CanManageUsers - создание, изменение и удаление учётных записей.
func CanManageUsers(actor Actor) error {
	if !actor.isAdmin() {
		return fmt.Errorf("%w: управление пользователями доступно только администратору", apperrors.ErrForbidden)
	}
	return nil
}

// CanManageDictionaries - справочники оргструктуры и пользовательские поля.
func CanManageDictionaries(actor Actor) error {
	if !actor.isAdmin() {
		return fmt.Errorf("%w: изменение справочников доступно только администратору", apperrors.ErrForbidden)
	}
	return nil
}

// CanRecomputeStatuses - служебный пересчёт агрегированных статусов.
func CanRecomputeStatuses(actor Actor) error {
	if !actor.isAdmin() {
		return fmt.Errorf("%w: пересчёт статусов доступен только администратору", apperrors.ErrForbidden)
	}
	return nil
}

// CanEditWorkItem - правка полей и удаление элемента: владелец,
// исполнитель или администратор.
func CanEditWorkItem(actor Actor, item *entities.WorkItem) error {
	if actor.isAdmin() || actor.ID == item.OwnerID || actor.ID == item.ResponsibleID {
		return nil
	}
	return fmt.Errorf("%w: элемент может менять владелец или исполнитель", apperrors.ErrForbidden)
}

// CanChangeStatus - прямые смены статуса и запрос согласования делает
// исполнитель; администратору тоже разрешено.
func CanChangeStatus(actor Actor, item *entities.WorkItem) error {
	if actor.isAdmin() || actor.ID == item.ResponsibleID {
		return nil
	}
	return fmt.Errorf("%w: статус меняет только исполнитель элемента", apperrors.ErrForbidden)
}

// CanDecide - решение по запросу согласования принимает назначенный
// согласующий; администратору тоже разрешено.
func CanDecide(actor Actor, item *entities.WorkItem) error {
	if actor.isAdmin() || actor.ID == item.ApproverID {
		return nil
	}
	return fmt.Errorf("%w: решение принимает назначенный согласующий", apperrors.ErrForbidden)
}

// CanEditProject - проект меняет владелец или администратор.
func CanEditProject(actor Actor, project *entities.Project) error {
	if actor.isAdmin() || actor.ID == project.OwnerID {
		return nil
	}
	return fmt.Errorf("%w: проект может менять только владелец", apperrors.ErrForbidden)
}
