// Package fsutil содержит примитивы файловой системы для файлового хранилища.
package fsutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Права на создаваемые каталоги и файлы.
const (
	DirPerm  fs.FileMode = 0o755
	FilePerm fs.FileMode = 0o644
)

// Ensure гарантирует существование каталога и файла path.
// Отсутствующий файл создается с содержимым initial; существующий не изменяется.
// Возвращает true, если файл был создан.
func Ensure(path string, initial []byte) (bool, error) {
	if err := os.MkdirAll(filepath.Dir(path), DirPerm); err != nil {
		return false, fmt.Errorf("creating directory for %s: %w", path, err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, FilePerm)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return false, nil
		}
		return false, fmt.Errorf("creating %s: %w", path, err)
	}

	if _, err := f.Write(initial); err != nil {
		f.Close()
		return true, fmt.Errorf("writing initial content to %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return true, fmt.Errorf("closing %s: %w", path, err)
	}
	return true, nil
}

// WriteAtomic записывает data во временный файл рядом с path и переименовывает его,
// так что читатели никогда не видят частично записанный файл.
func WriteAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, DirPerm); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}

	tmpFile, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", path, err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("writing %s: %w", tmpPath, err)
	}
	if err := tmpFile.Chmod(FilePerm); err != nil {
		tmpFile.Close()
		return fmt.Errorf("chmod %s: %w", tmpPath, err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmpPath, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming %s to %s: %w", tmpPath, path, err)
	}

	success = true
	return nil
}
