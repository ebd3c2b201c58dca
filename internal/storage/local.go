package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Domenick1991/guestportal/internal/domain"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const (
	DefaultBaseDir    = "./uploads"
	DefaultPublicBase = "/static/uploads"

	sniffLen = 3072
)

var (
	ErrEmptyFile       = errors.New("file is empty")
	ErrFileTooLarge    = errors.New("file exceeds maximum allowed size")
	ErrInvalidMimeType = errors.New("file type is not allowed")
	ErrForeignRef      = errors.New("reference does not belong to this store")
)

// Guest documents are photos or scans.
var allowedMimeTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"image/heic":      true,
	"application/pdf": true,
}

// LocalStore keeps uploaded documents on disk under baseDir and hands out
// references below publicBase.
type LocalStore struct {
	baseDir    string
	publicBase string
	maxSize    int64
	now        func() time.Time
}

func NewLocalStore(baseDir, publicBase string, maxSize int64) *LocalStore {
	if baseDir == "" {
		baseDir = DefaultBaseDir
	}
	if publicBase == "" {
		publicBase = DefaultPublicBase
	}
	return &LocalStore{
		baseDir:    baseDir,
		publicBase: strings.TrimRight(publicBase, "/"),
		maxSize:    maxSize,
		now:        time.Now,
	}
}

// Save writes the upload to <folder>/YYYY/MM/DD/<uuid>_<name><ext> and
// returns its public reference.
func (s *LocalStore) Save(ctx context.Context, folder string, upload domain.FileUpload) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if upload.Size == 0 {
		return "", ErrEmptyFile
	}
	if s.maxSize > 0 && upload.Size > s.maxSize {
		return "", ErrFileTooLarge
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(upload.Content, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	head = head[:n]
	if n == 0 {
		return "", ErrEmptyFile
	}

	mime := mimetype.Detect(head)
	if !allowedMime(mime) {
		return "", ErrInvalidMimeType
	}

	now := s.now()
	relDir := filepath.Join(sanitizeName(folder), fmt.Sprintf("%d/%02d/%02d", now.Year(), now.Month(), now.Day()))
	absDir := filepath.Join(s.baseDir, relDir)
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(upload.Filename))
	if ext == "" {
		ext = mime.Extension()
	}
	filename := fmt.Sprintf("%s_%s%s", uuid.NewString(), sanitizeName(strings.TrimSuffix(filepath.Base(upload.Filename), filepath.Ext(upload.Filename))), ext)
	absPath := filepath.Join(absDir, filename)

	dst, err := os.Create(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.MultiReader(bytes.NewReader(head), upload.Content)); err != nil {
		_ = os.Remove(absPath)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	relPath := filepath.ToSlash(filepath.Join(relDir, filename))
	return s.publicBase + "/" + relPath, nil
}

// Delete removes the file behind ref. A file that is already gone counts as
// deleted.
func (s *LocalStore) Delete(ctx context.Context, ref string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	absPath, err := s.resolve(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(absPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete %s: %w", ref, err)
	}
	return nil
}

func (s *LocalStore) resolve(ref string) (string, error) {
	rel, ok := strings.CutPrefix(ref, s.publicBase+"/")
	if !ok || rel == "" {
		return "", ErrForeignRef
	}
	clean := filepath.Clean(filepath.FromSlash(rel))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", ErrForeignRef
	}
	return filepath.Join(s.baseDir, clean), nil
}

func allowedMime(mime *mimetype.MIME) bool {
	for m := mime; m != nil; m = m.Parent() {
		if allowedMimeTypes[m.String()] {
			return true
		}
	}
	return false
}

func sanitizeName(name string) string {
	name = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' {
			return r
		}
		return '_'
	}, name)
	if len(name) > 40 {
		name = name[:40]
	}
	if name == "" {
		return "file"
	}
	return name
}
