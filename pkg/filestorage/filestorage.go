package filestorage

import "io"

// FileStorageInterface - хранилище загружаемых файлов (вложения к
// переходам статусов, фотографии пользователей).
type FileStorageInterface interface {
	Save(file io.Reader, originalFileName string, prefix string) (filePath string, err error)
	Delete(filePath string) error
}
