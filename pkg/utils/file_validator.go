package utils

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	apperrors "project-system/pkg/errors"
)

const maxUploadSizeBytes = 10 << 20 // 10 MB

var allowedUploadExtensions = map[string]struct{}{
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {},
	".pdf": {}, ".doc": {}, ".docx": {}, ".xls": {}, ".xlsx": {},
	".txt": {}, ".zip": {},
}

// ValidateUploadedFile проверяет размер и расширение файла до сохранения.
func ValidateUploadedFile(fileHeader *multipart.FileHeader) error {
	if fileHeader.Size > maxUploadSizeBytes {
		return apperrors.NewInvalidInputError("Файл слишком большой: максимум 10 МБ")
	}
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if _, ok := allowedUploadExtensions[ext]; !ok {
		return apperrors.NewInvalidInputError(fmt.Sprintf("Недопустимый тип файла: %s", ext))
	}
	return nil
}
