package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "project-system/pkg/errors"

	"project-system/pkg/constants"
)

func TestStateFromColumns(t *testing.T) {
	t.Run("steady", func(t *testing.T) {
		st, err := StateFromColumns(constants.StatusInProgress, "", "")
		require.NoError(t, err)
		assert.Equal(t, Steady{Status: InProgress}, st)
	})

	t.Run("pending", func(t *testing.T) {
		st, err := StateFromColumns(constants.StatusPendingApproval, constants.StatusFinished, constants.StatusInProgress)
		require.NoError(t, err)
		assert.Equal(t, Pending{Requested: Finished, RevertsTo: InProgress}, st)
	})

	t.Run("pending без requested/underlying - повреждённое состояние", func(t *testing.T) {
		_, err := StateFromColumns(constants.StatusPendingApproval, "", "")
		require.Error(t, err)
	})

	t.Run("steady с заполненным requested - повреждённое состояние", func(t *testing.T) {
		_, err := StateFromColumns(constants.StatusInProgress, constants.StatusFinished, "")
		require.Error(t, err)
	})

	t.Run("неизвестный статус", func(t *testing.T) {
		_, err := StateFromColumns("что-то", "", "")
		require.Error(t, err)
	})
}

func TestDirectSet(t *testing.T) {
	t.Run("прямой перевод из начального в конечный статус", func(t *testing.T) {
		// Сценарий D: use_workflow=false, прямое "شروع نشده" -> "خاتمه یافته".
		tr, err := DirectSet(Steady{Status: NotStarted}, Finished)
		require.NoError(t, err)
		assert.Equal(t, Steady{Status: Finished}, tr.State)
		assert.Empty(t, tr.ApprovalStatus, "поля согласования не трогаются")
		assert.Equal(t, Finished, tr.History.Status)
		assert.Empty(t, tr.History.RequestedStatus)
		assert.Empty(t, tr.History.ApprovalDecision)
	})

	t.Run("нельзя установить статус ожидания напрямую", func(t *testing.T) {
		_, err := DirectSet(Steady{Status: NotStarted}, PendingApproval)
		assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	})

	t.Run("нельзя менять статус ожидающего элемента", func(t *testing.T) {
		_, err := DirectSet(Pending{Requested: InProgress, RevertsTo: NotStarted}, Finished)
		assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	})
}

func TestSubmit(t *testing.T) {
	t.Run("запрос запуска из начального статуса", func(t *testing.T) {
		tr, err := Submit(Steady{Status: NotStarted}, InProgress)
		require.NoError(t, err)
		assert.Equal(t, Pending{Requested: InProgress, RevertsTo: NotStarted}, tr.State)
		assert.Equal(t, constants.ApprovalPending, tr.ApprovalStatus)
		assert.Equal(t, PendingApproval, tr.History.Status)
		assert.Equal(t, InProgress, tr.History.RequestedStatus)
	})

	t.Run("запрос завершения из рабочего статуса", func(t *testing.T) {
		tr, err := Submit(Steady{Status: InProgress}, Finished)
		require.NoError(t, err)
		assert.Equal(t, Pending{Requested: Finished, RevertsTo: InProgress}, tr.State)
	})

	t.Run("скачок через статус запрещён", func(t *testing.T) {
		_, err := Submit(Steady{Status: NotStarted}, Finished)
		assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	})

	t.Run("из конечного статуса запросить нечего", func(t *testing.T) {
		_, err := Submit(Steady{Status: Finished}, InProgress)
		assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	})

	t.Run("повторная отправка при ожидающем запросе запрещена", func(t *testing.T) {
		_, err := Submit(Pending{Requested: InProgress, RevertsTo: NotStarted}, Finished)
		assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	})
}

func TestDecide(t *testing.T) {
	t.Run("сценарий A: подтверждение переводит в запрошенный статус", func(t *testing.T) {
		tr, err := Submit(Steady{Status: NotStarted}, InProgress)
		require.NoError(t, err)

		tr, err = Decide(tr.State, DecisionApproved)
		require.NoError(t, err)
		assert.Equal(t, Steady{Status: InProgress}, tr.State)
		assert.Equal(t, constants.ApprovalApproved, tr.ApprovalStatus)
		assert.Equal(t, InProgress, tr.History.Status)
		assert.Equal(t, DecisionApproved, tr.History.ApprovalDecision)
	})

	t.Run("сценарий B: отклонение возвращает статус на момент запроса", func(t *testing.T) {
		tr, err := Submit(Steady{Status: NotStarted}, InProgress)
		require.NoError(t, err)

		tr, err = Decide(tr.State, DecisionRejected)
		require.NoError(t, err)
		assert.Equal(t, Steady{Status: NotStarted}, tr.State)
		assert.Equal(t, constants.ApprovalRejected, tr.ApprovalStatus)
		assert.Equal(t, NotStarted, tr.History.Status)
		assert.Equal(t, DecisionRejected, tr.History.ApprovalDecision)
	})

	t.Run("решение без ожидающего запроса запрещено", func(t *testing.T) {
		_, err := Decide(Steady{Status: InProgress}, DecisionApproved)
		assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	})

	t.Run("неизвестное решение", func(t *testing.T) {
		_, err := Decide(Pending{Requested: Finished, RevertsTo: InProgress}, Decision("maybe"))
		assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	})
}

// Каждый успешный переход порождает ровно одну запись истории.
func TestEveryTransitionYieldsOneHistoryDraft(t *testing.T) {
	tr1, err := Submit(Steady{Status: NotStarted}, InProgress)
	require.NoError(t, err)
	assert.NotEmpty(t, tr1.History.Status)

	tr2, err := Decide(tr1.State, DecisionApproved)
	require.NoError(t, err)
	assert.NotEmpty(t, tr2.History.Status)

	tr3, err := DirectSet(Steady{Status: NotStarted}, InProgress)
	require.NoError(t, err)
	assert.NotEmpty(t, tr3.History.Status)
}
