package assets

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

var unsafePathPattern = regexp.MustCompile(`[^\w.\-/]`)

// Store is the object-storage collaborator. This implementation writes to
// a local directory and serves paths under a base URL; callers only see
// UploadImage and do not care where the bytes land.
type Store struct {
	dir     string
	baseURL string
	log     *zap.Logger
}

func NewStore(dir, baseURL string, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{dir: dir, baseURL: strings.TrimRight(baseURL, "/"), log: log}
}

// UploadImage persists the blob under destPath and returns its public URL.
func (s *Store) UploadImage(data []byte, destPath string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty image payload for %s", destPath)
	}

	clean := sanitizePath(destPath)
	if clean == "" {
		return "", fmt.Errorf("invalid destination path: %s", destPath)
	}

	full := filepath.Join(s.dir, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", err
	}

	url := s.baseURL + "/" + clean
	s.log.Debug("image uploaded", zap.String("path", clean), zap.Int("bytes", len(data)))
	return url, nil
}

func sanitizePath(destPath string) string {
	clean := path.Clean(strings.TrimLeft(destPath, "/"))
	if clean == "." || strings.HasPrefix(clean, "..") {
		return ""
	}
	return unsafePathPattern.ReplaceAllString(clean, "_")
}
