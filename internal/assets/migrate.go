package assets

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"regexp"

	"go.uber.org/zap"
)

var migratableExtPattern = regexp.MustCompile(`(?i)\.(png|jpe?g|gif|bmp|tiff)$`)

// SeenCache deduplicates migrated blobs by content hash. It is an explicit
// object scoped to one migration run, passed in by the caller.
type SeenCache struct {
	urls map[string]string
}

func NewSeenCache() *SeenCache {
	return &SeenCache{urls: map[string]string{}}
}

func (c *SeenCache) Lookup(hash string) (string, bool) {
	url, ok := c.urls[hash]
	return url, ok
}

func (c *SeenCache) Add(hash, url string) {
	c.urls[hash] = url
}

type MigrateResult struct {
	Scanned  int
	Uploaded int
	Deduped  int
	Failed   int
}

// MigrateImages uploads every image file under srcDir into the store,
// skipping blobs the cache has already seen in this run.
func MigrateImages(store *Store, srcDir, destPrefix string, cache *SeenCache) (MigrateResult, error) {
	result := MigrateResult{}

	err := filepath.WalkDir(srcDir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !migratableExtPattern.MatchString(d.Name()) {
			return nil
		}
		result.Scanned++

		data, readErr := os.ReadFile(p)
		if readErr != nil || len(data) == 0 {
			result.Failed++
			store.log.Warn("skipping unreadable image", zap.String("path", p))
			return nil
		}

		sum := sha256.Sum256(data)
		hash := hex.EncodeToString(sum[:])
		if _, seen := cache.Lookup(hash); seen {
			result.Deduped++
			return nil
		}

		url, upErr := store.UploadImage(data, filepath.ToSlash(filepath.Join(destPrefix, d.Name())))
		if upErr != nil {
			result.Failed++
			store.log.Warn("image upload failed", zap.String("path", p), zap.Error(upErr))
			return nil
		}

		cache.Add(hash, url)
		result.Uploaded++
		return nil
	})

	return result, err
}
