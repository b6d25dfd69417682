// Package workflow - машина состояний рабочего элемента и правила
// пересчёта агрегированных статусов родителей. Пакет чистый: не знает ни
// про БД, ни про HTTP, работает со снимком данных и возвращает diff.
package workflow

import (
	"fmt"

	"project-system/pkg/constants"
)

// Status - статус рабочего элемента в том виде, в котором он хранится и
// показывается пользователю.
type Status string

const (
	NotStarted      Status = Status(constants.StatusNotStarted)
	InProgress      Status = Status(constants.StatusInProgress)
	PendingApproval Status = Status(constants.StatusPendingApproval)
	Finished        Status = Status(constants.StatusFinished)
)

// State - состояние элемента как размеченное объединение. Четыре свободно
// связанных nullable-поля исходной модели здесь непредставимы: элемент либо
// находится в устойчивом статусе, либо ждёт согласования с заполненной
// парой (запрошенный статус, статус для отката).
type State interface {
	// Current - статус, который видит пользователь.
	Current() Status
	isState()
}

// Steady - элемент вне процесса согласования.
type Steady struct {
	Status Status
}

func (s Steady) Current() Status { return s.Status }
func (Steady) isState()          {}

// Pending - элемент ожидает решения согласующего.
type Pending struct {
	// Requested - статус, который запросил ответственный.
	Requested Status
	// RevertsTo - статус на момент отправки запроса; восстанавливается
	// при отклонении.
	RevertsTo Status
}

func (p Pending) Current() Status { return PendingApproval }
func (Pending) isState()          {}

// StateFromColumns восстанавливает состояние из колонок БД и проверяет
// инвариант: status == "ارسال برای تایید" тогда и только тогда, когда
// заполнены requested_status и underlying_status.
func StateFromColumns(status, requestedStatus, underlyingStatus string) (State, error) {
	if status == constants.StatusPendingApproval {
		if requestedStatus == "" || underlyingStatus == "" {
			return nil, fmt.Errorf("повреждённое состояние элемента: статус %q без requested/underlying", status)
		}
		return Pending{Requested: Status(requestedStatus), RevertsTo: Status(underlyingStatus)}, nil
	}
	if requestedStatus != "" || underlyingStatus != "" {
		return nil, fmt.Errorf("повреждённое состояние элемента: статус %q с заполненными requested/underlying", status)
	}
	if !constants.IsSteadyStatus(status) {
		return nil, fmt.Errorf("неизвестный статус элемента: %q", status)
	}
	return Steady{Status: Status(status)}, nil
}
