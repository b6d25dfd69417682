package authz

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"project-system/internal/entities"
	apperrors "project-system/pkg/errors"
)

func TestPolicy(t *testing.T) {
	admin := Actor{ID: 1, Role: entities.RoleAdmin}
	responsible := Actor{ID: 2, Role: entities.RoleMember}
	approver := Actor{ID: 3, Role: entities.RoleMember}
	owner := Actor{ID: 4, Role: entities.RoleMember}
	outsider := Actor{ID: 5, Role: entities.RoleMember}

	item := &entities.WorkItem{ID: 10, OwnerID: owner.ID, ResponsibleID: responsible.ID, ApproverID: approver.ID}
	project := &entities.Project{ID: 20, OwnerID: owner.ID}

	t.Run("справочники и пользователи только для администратора", func(t *testing.T) {
		assert.NoError(t, CanManageUsers(admin))
		assert.NoError(t, CanManageDictionaries(admin))
		assert.ErrorIs(t, CanManageUsers(responsible), apperrors.ErrForbidden)
		assert.ErrorIs(t, CanManageDictionaries(responsible), apperrors.ErrForbidden)
	})

	t.Run("статус меняет исполнитель", func(t *testing.T) {
		assert.NoError(t, CanChangeStatus(responsible, item))
		assert.NoError(t, CanChangeStatus(admin, item))
		assert.ErrorIs(t, CanChangeStatus(approver, item), apperrors.ErrForbidden)
		assert.ErrorIs(t, CanChangeStatus(outsider, item), apperrors.ErrForbidden)
	})

	t.Run("решение принимает согласующий", func(t *testing.T) {
		assert.NoError(t, CanDecide(approver, item))
		assert.NoError(t, CanDecide(admin, item))
		assert.ErrorIs(t, CanDecide(responsible, item), apperrors.ErrForbidden)
	})

	t.Run("правка элемента: владелец или исполнитель", func(t *testing.T) {
		assert.NoError(t, CanEditWorkItem(owner, item))
		assert.NoError(t, CanEditWorkItem(responsible, item))
		assert.NoError(t, CanEditWorkItem(admin, item))
		assert.ErrorIs(t, CanEditWorkItem(outsider, item), apperrors.ErrForbidden)
	})

	t.Run("проект меняет владелец", func(t *testing.T) {
		assert.NoError(t, CanEditProject(owner, project))
		assert.NoError(t, CanEditProject(admin, project))
		err := CanEditProject(outsider, project)
		assert.True(t, errors.Is(err, apperrors.ErrForbidden))
	})
}
