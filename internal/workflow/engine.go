package workflow

import (
	"fmt"

	apperrors "project-system/pkg/errors"

	"project-system/pkg/constants"
)

// Decision - вердикт согласующего.
type Decision string

const (
	DecisionApproved Decision = Decision(constants.ApprovalApproved)
	DecisionRejected Decision = Decision(constants.ApprovalRejected)
)

// HistoryDraft - запись истории, которую должен добавить вызывающий код.
// Каждый переход порождает ровно одну такую запись; история append-only.
type HistoryDraft struct {
	Status           Status
	RequestedStatus  Status   // только для отправки на согласование
	ApprovalDecision Decision // только для решения согласующего
}

// Transition - результат перехода: новое состояние, новое значение
// approval_status и черновик записи истории.
type Transition struct {
	State          State
	ApprovalStatus string // pending/approved/rejected, "" - не менять
	History        HistoryDraft
}

// DirectSet - прямое изменение статуса для элементов с выключенным
// workflow. Поля согласования не трогаются.
func DirectSet(cur State, target Status) (Transition, error) {
	if _, ok := cur.(Pending); ok {
		return Transition{}, fmt.Errorf("%w: элемент ожидает согласования, прямое изменение недоступно", apperrors.ErrInvalidTransition)
	}
	if !constants.IsSteadyStatus(string(target)) {
		return Transition{}, fmt.Errorf("%w: статус %q нельзя установить напрямую", apperrors.ErrInvalidTransition, target)
	}
	return Transition{
		State:   Steady{Status: target},
		History: HistoryDraft{Status: target},
	}, nil
}

// Submit - отправка запроса на смену статуса согласующему. Разрешён только
// монотонный переход вперёд: "شروع نشده" -> "در حال اجرا" и
// "در حال اجرا" -> "خاتمه یافته".
func Submit(cur State, requested Status) (Transition, error) {
	steady, ok := cur.(Steady)
	if !ok {
		return Transition{}, fmt.Errorf("%w: по элементу уже отправлен запрос на согласование", apperrors.ErrInvalidTransition)
	}

	if forwardOf(steady.Status) != requested {
		return Transition{}, fmt.Errorf("%w: из статуса %q нельзя запросить %q", apperrors.ErrInvalidTransition, steady.Status, requested)
	}

	return Transition{
		State:          Pending{Requested: requested, RevertsTo: steady.Status},
		ApprovalStatus: constants.ApprovalPending,
		History: HistoryDraft{
			Status:          PendingApproval,
			RequestedStatus: requested,
		},
	}, nil
}

// Decide - решение согласующего по ожидающему запросу. Подтверждение
// переводит элемент в запрошенный статус, отклонение возвращает статус,
// зафиксированный на момент запроса.
func Decide(cur State, decision Decision) (Transition, error) {
	pending, ok := cur.(Pending)
	if !ok {
		return Transition{}, fmt.Errorf("%w: элемент не ожидает согласования", apperrors.ErrInvalidTransition)
	}

	switch decision {
	case DecisionApproved:
		return Transition{
			State:          Steady{Status: pending.Requested},
			ApprovalStatus: constants.ApprovalApproved,
			History: HistoryDraft{
				Status:           pending.Requested,
				ApprovalDecision: DecisionApproved,
			},
		}, nil
	case DecisionRejected:
		return Transition{
			State:          Steady{Status: pending.RevertsTo},
			ApprovalStatus: constants.ApprovalRejected,
			History: HistoryDraft{
				Status:           pending.RevertsTo,
				ApprovalDecision: DecisionRejected,
			},
		}, nil
	default:
		return Transition{}, fmt.Errorf("%w: неизвестное решение %q", apperrors.ErrInvalidTransition, decision)
	}
}

func forwardOf(s Status) Status {
	switch s {
	case NotStarted:
		return InProgress
	case InProgress:
		return Finished
	default:
		return ""
	}
}
