package upload

import (
	"crypto/rand"
	"encoding/hex"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"jobdesk/internal/common"
)

const maxResumeBytes = 5 << 20

// Store writes uploaded files to a directory and hands back opaque paths.
// Nothing downstream interprets the path beyond storing it.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) SaveResume(file multipart.File, header *multipart.FileHeader) (string, error) {
	if header.Size > maxResumeBytes {
		return "", common.NewValidationError("resume too large", map[string]string{"resume": "resume must not exceed 5 MiB"})
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", common.NewError(common.CodeInternal, "failed to prepare upload directory", err)
	}
	name, err := randomName()
	if err != nil {
		return "", common.NewError(common.CodeInternal, "failed to name upload", err)
	}
	ext := filepath.Ext(header.Filename)
	path := filepath.Join(s.dir, name+ext)
	dst, err := os.Create(path)
	if err != nil {
		return "", common.NewError(common.CodeInternal, "failed to store resume", err)
	}
	defer dst.Close()
	if _, err := io.Copy(dst, io.LimitReader(file, maxResumeBytes)); err != nil {
		return "", common.NewError(common.CodeInternal, "failed to store resume", err)
	}
	return path, nil
}

func randomName() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
