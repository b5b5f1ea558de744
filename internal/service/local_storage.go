package service

import (
	"dms-web-server/internal/util"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

var ErrFileNotFound = errors.New("файл не найден")

// LocalStorage : файлы документов на локальном диске под content root.
// Ключи приходят в виде documents/<год>/<месяц>/<имя файла>; совпадение
// имён в одном месяце перезаписывает файл (last write wins).
type LocalStorage struct {
	root string
}

func NewLocalStorage(contentRoot string) (*LocalStorage, error) {
	if err := os.MkdirAll(contentRoot, 0755); err != nil {
		return nil, util.LogError("[LocalStorage] не удалось создать content root", err)
	}
	return &LocalStorage{root: contentRoot}, nil
}

// Save : записывает файл, создавая каталоги по пути, и возвращает число
// записанных байт
func (s *LocalStorage) Save(ctx context.Context, key string, content io.Reader) (int64, error) {
	path := s.path(key)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return 0, util.LogError("[LocalStorage] ошибка создания директории", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return 0, util.LogError("[LocalStorage] ошибка создания файла", err)
	}
	defer file.Close()

	written, err := io.Copy(file, content)
	if err != nil {
		return 0, util.LogError("[LocalStorage] ошибка записи файла", err)
	}

	return written, nil
}

func (s *LocalStorage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	file, err := os.Open(s.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrFileNotFound
		}
		return nil, util.LogError("[LocalStorage] ошибка открытия файла", err)
	}
	return file, nil
}

func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	err := os.Remove(s.path(key))
	if err != nil && errors.Is(err, os.ErrNotExist) == false {
		return util.LogError("[LocalStorage] ошибка удаления файла", err)
	}
	return nil
}

func (s *LocalStorage) Exists(ctx context.Context, key string) (bool, error) {
	_, err := os.Stat(s.path(key))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("[LocalStorage] ошибка проверки файла: %w", err)
}

func (s *LocalStorage) path(key string) string {
	return filepath.Join(s.root, filepath.FromSlash(key))
}
