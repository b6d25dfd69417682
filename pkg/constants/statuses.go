package constants

// Статусы рабочих элементов хранятся в БД в том виде, в котором их видит
// пользователь продукта (фарси). Коды не переводятся.
const (
	StatusNotStarted      = "شروع نشده"
	StatusInProgress      = "در حال اجرا"
	StatusPendingApproval = "ارسال برای تایید"
	StatusFinished        = "خاتمه یافته"

	// Статус самой первой записи истории при создании элемента.
	StatusCreated = "ایجاد شده - شروع نشده"
)

// Статусы, которые можно хранить как текущий статус элемента вне ожидания
// согласования.
var SteadyStatuses = []string{
	StatusNotStarted,
	StatusInProgress,
	StatusFinished,
}

func IsSteadyStatus(status string) bool {
	for _, s := range SteadyStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Приоритеты хранятся на языке продукта.
const (
	PriorityLow    = "کم"
	PriorityMedium = "متوسط"
	PriorityHigh   = "زیاد"
)

// --- РЕЗУЛЬТАТЫ СОГЛАСОВАНИЯ ---
const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)
