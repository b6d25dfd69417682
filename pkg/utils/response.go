package utils

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "project-system/pkg/errors"
)

type HttpResponse struct {
	Status     bool        `json:"status"`
	Body       interface{} `json:"body,omitempty"`
	Message    string      `json:"message"`
	TotalCount *uint64     `json:"total_count,omitempty"`
}

func SuccessResponse(ctx echo.Context, body interface{}, message string, code int, totalCount ...uint64) error {
	response := &HttpResponse{
		Status:  true,
		Body:    body,
		Message: message,
	}
	if len(totalCount) > 0 {
		response.TotalCount = &totalCount[0]
	}
	return ctx.JSON(code, response)
}

// ErrorResponse переводит ошибку сервиса в JSON-ответ. HttpError отдаётся
// как есть, доменные ошибки получают код из StatusForError, всё остальное
// прячется за 500 и уходит только в лог.
func ErrorResponse(ctx echo.Context, err error, logger *zap.Logger) error {
	code := http.StatusInternalServerError
	message := "Внутренняя ошибка сервера"

	var httpErr *apperrors.HttpError
	if errors.As(err, &httpErr) {
		code = httpErr.Code
		message = httpErr.Message
		logger.Error("ошибка обработки запроса",
			zap.Int("code", code),
			zap.String("message", message),
			zap.Any("details", httpErr.Details),
			zap.Error(httpErr.Err),
		)
	} else {
		if c := apperrors.StatusForError(err); c != http.StatusInternalServerError {
			code = c
			message = err.Error()
			logger.Warn("ошибка обработки запроса", zap.Int("code", code), zap.Error(err))
		} else {
			logger.Error("необработанная ошибка", zap.Error(err))
		}
	}

	return ctx.JSON(code, &HttpResponse{
		Status:  false,
		Body:    struct{}{},
		Message: message,
	})
}
