package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func changeForItem(changes []Change, itemID uint64) *Change {
	for i := range changes {
		if changes[i].ItemID == itemID {
			return &changes[i]
		}
	}
	return nil
}

func changeForProject(changes []Change, projectID uint64) *Change {
	for i := range changes {
		if changes[i].ProjectID == projectID {
			return &changes[i]
		}
	}
	return nil
}

func TestRecompute_ProjectAggregation(t *testing.T) {
	// Сценарий C: проект с тремя активностями, две завершены и
	// подтверждены, одна не начата -> проект "در حال اجرا".
	items := []Node{
		{ID: 1, ProjectID: 10, Status: Finished, UseWorkflow: true, Approved: true},
		{ID: 2, ProjectID: 10, Status: Finished, UseWorkflow: true, Approved: true},
		{ID: 3, ProjectID: 10, Status: NotStarted, UseWorkflow: true},
	}
	changes := Recompute(items, []uint64{10}, map[uint64]Status{10: NotStarted})

	ch := changeForProject(changes, 10)
	require.NotNil(t, ch)
	assert.Equal(t, InProgress, ch.NewStatus)
}

func TestRecompute_ProjectFinishedOnlyWhenAllApproved(t *testing.T) {
	items := []Node{
		{ID: 1, ProjectID: 10, Status: Finished, UseWorkflow: true, Approved: true},
		// Завершён, но подтверждения нет: блокирует "خاتمه یافته".
		{ID: 2, ProjectID: 10, Status: Finished, UseWorkflow: true, Approved: false},
	}
	changes := Recompute(items, []uint64{10}, map[uint64]Status{10: NotStarted})

	ch := changeForProject(changes, 10)
	require.NotNil(t, ch)
	assert.Equal(t, InProgress, ch.NewStatus)

	// С подтверждением второй активности проект завершается.
	items[1].Approved = true
	changes = Recompute(items, []uint64{10}, map[uint64]Status{10: InProgress})
	ch = changeForProject(changes, 10)
	require.NotNil(t, ch)
	assert.Equal(t, Finished, ch.NewStatus)
}

func TestRecompute_FinishedWithoutWorkflowNeedsNoApproval(t *testing.T) {
	items := []Node{
		{ID: 1, ProjectID: 10, Status: Finished, UseWorkflow: false},
	}
	changes := Recompute(items, []uint64{10}, map[uint64]Status{10: InProgress})
	ch := changeForProject(changes, 10)
	require.NotNil(t, ch)
	assert.Equal(t, Finished, ch.NewStatus)
}

func TestRecompute_ParentFromDescendants(t *testing.T) {
	items := []Node{
		{ID: 1, Status: NotStarted},              // родитель
		{ID: 2, ParentID: 1, Status: InProgress}, // ребёнок
		{ID: 3, ParentID: 1, Status: NotStarted},
	}
	changes := Recompute(items, nil, nil)

	ch := changeForItem(changes, 1)
	require.NotNil(t, ch)
	assert.Equal(t, InProgress, ch.NewStatus)
}

func TestRecompute_MultiLevelBottomUp(t *testing.T) {
	// Трёхуровневая иерархия: лист завершён, промежуточный родитель должен
	// пересчитаться раньше корня, иначе корень увидит устаревший статус.
	items := []Node{
		{ID: 1, Status: NotStarted},
		{ID: 2, ParentID: 1, Status: NotStarted},
		{ID: 3, ParentID: 2, Status: Finished},
	}
	changes := Recompute(items, nil, nil)

	mid := changeForItem(changes, 2)
	require.NotNil(t, mid)
	assert.Equal(t, Finished, mid.NewStatus)

	// Корень видит потомков {2: خاتمه یافته, 3: خاتمه یافته}.
	root := changeForItem(changes, 1)
	require.NotNil(t, root)
	assert.Equal(t, Finished, root.NewStatus)
}

func TestRecompute_ChildlessItemUntouched(t *testing.T) {
	items := []Node{
		{ID: 1, Status: NotStarted},
		{ID: 2, Status: Finished},
	}
	changes := Recompute(items, nil, nil)
	assert.Nil(t, changeForItem(changes, 1))
	assert.Nil(t, changeForItem(changes, 2))
}

func TestRecompute_NoChangeNoWrite(t *testing.T) {
	items := []Node{
		{ID: 1, Status: InProgress},
		{ID: 2, ParentID: 1, Status: InProgress},
	}
	changes := Recompute(items, nil, nil)
	assert.Empty(t, changes, "совпадающий статус не должен порождать запись")
}

func TestRecompute_PendingParentSkipped(t *testing.T) {
	items := []Node{
		{ID: 1, Status: PendingApproval},
		{ID: 2, ParentID: 1, Status: Finished},
	}
	changes := Recompute(items, nil, nil)
	assert.Nil(t, changeForItem(changes, 1), "ожидающий согласования родитель не перезаписывается")
}

func TestRecompute_AllNotStarted(t *testing.T) {
	items := []Node{
		{ID: 1, Status: InProgress},
		{ID: 2, ParentID: 1, Status: NotStarted},
		{ID: 3, ParentID: 1, Status: NotStarted},
	}
	changes := Recompute(items, nil, nil)
	ch := changeForItem(changes, 1)
	require.NotNil(t, ch)
	assert.Equal(t, NotStarted, ch.NewStatus)
}

func TestRecompute_ProjectIncludesDelegatedSubtree(t *testing.T) {
	// Поддерево делегированного элемента учитывается в статусе проекта.
	items := []Node{
		{ID: 1, ProjectID: 10, Status: Finished, UseWorkflow: false},
		{ID: 2, ParentID: 1, ProjectID: 10, Status: InProgress},
	}
	changes := Recompute(items, []uint64{10}, map[uint64]Status{10: NotStarted})

	// Родитель с незавершённым потомком сам откатывается в "در حال اجرا".
	ch := changeForItem(changes, 1)
	require.NotNil(t, ch)
	assert.Equal(t, InProgress, ch.NewStatus)

	pch := changeForProject(changes, 10)
	require.NotNil(t, pch)
	assert.Equal(t, InProgress, pch.NewStatus)
}
