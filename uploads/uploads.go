// Package uploads stores item images, receipts and payment slips on local
// disk and serves them under a public path.
package uploads

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/viduni-ubesekara/GreenLink-Project/apperr"
)

// PublicPath is the URL prefix the upload directory is served under.
const PublicPath = "/uploads"

const (
	FolderItems    = "items"
	FolderPayments = "payments"
)

var allowedExt = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true, ".pdf": true,
}

type Store struct {
	dir     string
	baseURL string
	log     *zap.Logger
	now     func() time.Time
}

func New(dir, publicBaseURL string, log *zap.Logger) *Store {
	return &Store{
		dir:     dir,
		baseURL: strings.TrimRight(publicBaseURL, "/"),
		log:     log,
		now:     time.Now,
	}
}

func (s *Store) Dir() string {
	return s.dir
}

// SanitizeName keeps the base name of filename with spaces and path
// separators replaced by underscores.
func SanitizeName(filename string) string {
	filename = strings.ReplaceAll(filename, "\\", "/")
	ext := strings.ToLower(filepath.Ext(filename))
	base := strings.TrimSuffix(path.Base(filename), filepath.Ext(filename))
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" || base == "." {
		base = "file"
	}
	return base + ext
}

// Save copies the uploaded file into folder and returns its public
// reference, e.g. /uploads/items/1700000000_apple.png.
func (s *Store) Save(fh *multipart.FileHeader, folder string) (string, error) {
	name := SanitizeName(fh.Filename)
	if !allowedExt[filepath.Ext(name)] {
		return "", apperr.Validation("unsupported file type", map[string]string{"file": fh.Filename})
	}

	destDir := filepath.Join(s.dir, folder)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", errors.Wrap(err, "uploads: create folder")
	}
	filename := fmt.Sprintf("%d_%s", s.now().UnixNano(), name)

	src, err := fh.Open()
	if err != nil {
		return "", errors.Wrap(err, "uploads: open upload")
	}
	defer src.Close()

	out, err := os.Create(filepath.Join(destDir, filename))
	if err != nil {
		return "", errors.Wrap(err, "uploads: create file")
	}
	defer out.Close()
	if _, err := io.Copy(out, src); err != nil {
		return "", errors.Wrap(err, "uploads: write file")
	}

	ref := path.Join(PublicPath, folder, filename)
	s.log.Debug("upload saved", zap.String("ref", ref), zap.Int64("size", fh.Size))
	return ref, nil
}

// URL turns a stored reference into an absolute link.
func (s *Store) URL(ref string) string {
	if ref == "" || strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	return s.baseURL + ref
}

// Remove deletes the file behind ref. References outside the upload
// directory and files already gone are ignored.
func (s *Store) Remove(ref string) error {
	local, ok := s.localPath(ref)
	if !ok {
		return nil
	}
	if err := os.Remove(local); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "uploads: remove %s", ref)
	}
	return nil
}

func (s *Store) localPath(ref string) (string, bool) {
	ref = strings.TrimPrefix(ref, s.baseURL)
	if !strings.HasPrefix(ref, PublicPath+"/") {
		return "", false
	}
	rel := path.Clean(strings.TrimPrefix(ref, PublicPath+"/"))
	if rel == "." || strings.HasPrefix(rel, "..") {
		return "", false
	}
	return filepath.Join(s.dir, filepath.FromSlash(rel)), true
}
