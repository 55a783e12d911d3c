package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"airoi/internal/domain"
)

// readJSON decodes path into out. A missing file leaves out untouched and
// reports found=false.
func readJSON(path string, out any) (found bool, err error) {
	b, err := readFile(path)
	if err != nil || b == nil {
		return false, err
	}
	if err := json.Unmarshal(b, out); err != nil {
		return true, domain.DecodeError("parse "+filepath.Base(path), err)
	}
	return true, nil
}

// readFile returns nil, nil when path does not exist.
func readFile(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.IOError("read "+filepath.Base(path), err)
	}
	return b, nil
}

func writeJSON(path string, v any, mode os.FileMode) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return domain.DecodeError("encode "+filepath.Base(path), err)
	}
	return writeFile(path, b, mode)
}

// writeFile replaces path atomically: temp file in the same directory,
// fsync, chmod, rename. The parent directory is created 0700 if missing.
func writeFile(path string, b []byte, mode os.FileMode) error {
	op := "write " + filepath.Base(path)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return domain.IOError(op, err)
	}

	f, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return domain.IOError(op, err)
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()

	if err := writeAndClose(f, b, mode); err != nil {
		return domain.IOError(op, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return domain.IOError(op, fmt.Errorf("rename: %w", err))
	}
	return nil
}

func writeAndClose(f *os.File, b []byte, mode os.FileMode) error {
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Chmod(mode); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
