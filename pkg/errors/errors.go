package errors

import "errors"

var (
	// JWT и токены
	ErrInvalidSigningMethod = errors.New("неверный метод подписи токена")
	ErrInvalidToken         = errors.New("недопустимый токен")
	ErrTokenExpired         = errors.New("срок действия токена истёк")
	ErrTokenIsNotRefresh    = errors.New("токен не является refresh-токеном")
	ErrTokenIsNotAccess     = errors.New("токен не является access-токеном")

	// Авторизация
	ErrEmptyAuthHeader    = errors.New("заголовок авторизации отсутствует")
	ErrInvalidAuthHeader  = errors.New("неверный формат заголовка авторизации")
	ErrInvalidCredentials = errors.New("неверные учётные данные")
	ErrUnauthorized       = errors.New("неавторизован")
	ErrForbidden          = errors.New("доступ запрещён")

	// Контекст
	ErrUserIDNotFoundInContext = errors.New("UserID не найден в контексте запроса")
	ErrInvalidUserID           = errors.New("недопустимый UserID")

	// Таксономия доменных ошибок:
	// ErrInvalidTransition - нарушено правило workflow (локальная валидация);
	// ErrConflict          - сущность ещё используется либо версия записи устарела;
	// ErrUpstreamFailure   - отказ внешнего сервиса (хранилище/LLM/почта).
	ErrNotFound          = errors.New("запись не найдена")
	ErrBadRequest        = errors.New("неверный запрос")
	ErrConflict          = errors.New("конфликт данных")
	ErrInvalidTransition = errors.New("недопустимый переход статуса")
	ErrUpstreamFailure   = errors.New("внешний сервис недоступен")
)

// Кастомные типы ошибок
type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string { return e.Message }

func NewInvalidInputError(message string) error {
	return &InvalidInputError{Message: message}
}
