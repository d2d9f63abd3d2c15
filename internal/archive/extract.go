package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"mobilia/internal"
)

var (
	imageExtPattern   = regexp.MustCompile(`(?i)\.(png|jpe?g|gif|bmp|tiff|emf)$`)
	relsTargetPattern = regexp.MustCompile(`(?i)Target="([^"]+\.(?:png|jpe?g|gif|bmp|tiff))"`)
	unsafeNamePattern = regexp.MustCompile(`[^\w.\-]`)

	mediaFolders = []string{
		"xl/media/",
		"xl/drawings/",
		"xl/embeddings/",
		"word/media/",
		"ppt/media/",
	}
)

type Extractor struct {
	log *zap.Logger
}

func NewExtractor(log *zap.Logger) *Extractor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Extractor{log: log}
}

// ExtractFile surfaces every embedded raster image of a zip-based workbook
// into outDir. Strategies fall through in order: known media folders,
// relationship-file scan, raw byte-signature scan. No images is a valid
// outcome and never an error.
func (e *Extractor) ExtractFile(srcPath, outDir string) ([]internal.ExtractedImage, error) {
	content, err := os.ReadFile(srcPath)
	if err != nil {
		return nil, err
	}
	return e.Extract(content, outDir)
}

func (e *Extractor) Extract(content []byte, outDir string) ([]internal.ExtractedImage, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, err
	}

	images := []internal.ExtractedImage{}

	zr, zipErr := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if zipErr == nil {
		images = e.fromMediaFolders(zr, outDir)
		if len(images) == 0 {
			e.log.Debug("no media-folder images, scanning relationship files")
			images = e.fromRelationships(zr, outDir)
		}
		if len(images) > 0 {
			applyAnchors(zr, images)
		}
	} else {
		e.log.Warn("input is not a zip archive, falling back to signature scan", zap.Error(zipErr))
	}

	if len(images) == 0 {
		images = e.fromSignatures(content, outDir)
	}

	for i := range images {
		if images[i].AnchorRow == 0 {
			images[i].AnchorRow = anchorRowFromName(images[i].Filename)
		}
	}

	return images, nil
}

func (e *Extractor) fromMediaFolders(zr *zip.Reader, outDir string) []internal.ExtractedImage {
	out := []internal.ExtractedImage{}
	for _, entry := range zr.File {
		if !inMediaFolder(entry.Name) || !imageExtPattern.MatchString(entry.Name) {
			continue
		}
		img, ok := e.extractEntry(entry, outDir, fmt.Sprintf("img_%d", len(out)))
		if ok {
			out = append(out, img)
		}
	}
	return out
}

func (e *Extractor) fromRelationships(zr *zip.Reader, outDir string) []internal.ExtractedImage {
	byName := map[string]*zip.File{}
	for _, entry := range zr.File {
		byName[entry.Name] = entry
	}

	out := []internal.ExtractedImage{}
	seen := map[string]struct{}{}
	for _, entry := range zr.File {
		if !strings.HasSuffix(entry.Name, ".rels") {
			continue
		}
		blob, err := readZipEntry(entry)
		if err != nil {
			continue
		}
		for _, match := range relsTargetPattern.FindAllStringSubmatch(string(blob), -1) {
			target := match[1]
			resolved := resolveTarget(byName, entry.Name, target)
			if resolved == nil {
				e.log.Debug("referenced image missing from archive", zap.String("target", target))
				continue
			}
			if _, dup := seen[resolved.Name]; dup {
				continue
			}
			seen[resolved.Name] = struct{}{}
			img, ok := e.extractEntry(resolved, outDir, fmt.Sprintf("rel_%d", len(out)))
			if ok {
				out = append(out, img)
			}
		}
	}
	return out
}

func (e *Extractor) extractEntry(entry *zip.File, outDir, prefix string) (internal.ExtractedImage, bool) {
	data, err := readZipEntry(entry)
	if err != nil || len(data) == 0 {
		return internal.ExtractedImage{}, false
	}

	if !strings.EqualFold(path.Ext(entry.Name), ".emf") {
		if err := validateImage(data); err != nil {
			e.log.Debug("archive entry is not a decodable image", zap.String("entry", entry.Name), zap.Error(err))
			return internal.ExtractedImage{}, false
		}
	}

	filename := prefix + "_" + sanitizeName(path.Base(entry.Name))
	outPath := filepath.Join(outDir, filename)
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		e.log.Warn("failed to write extracted image", zap.String("path", outPath), zap.Error(err))
		return internal.ExtractedImage{}, false
	}

	return internal.ExtractedImage{
		Filename:     filename,
		Path:         outPath,
		OriginalPath: entry.Name,
		Data:         data,
	}, true
}

// resolveTarget tries the path variants a rels Target can take relative to
// its descriptor file.
func resolveTarget(byName map[string]*zip.File, relFile, target string) *zip.File {
	relDir := path.Dir(path.Dir(relFile)) // _rels folder sits next to the part it describes

	candidates := []string{
		path.Clean(path.Join(relDir, target)),
		path.Clean(strings.TrimPrefix(target, "/")),
		path.Clean(path.Join("xl", target)),
		path.Join("xl/media", path.Base(target)),
	}
	for _, c := range candidates {
		if f, ok := byName[c]; ok {
			return f
		}
	}
	return nil
}

func readZipEntry(entry *zip.File) ([]byte, error) {
	rc, err := entry.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func inMediaFolder(name string) bool {
	for _, folder := range mediaFolders {
		if strings.HasPrefix(name, folder) {
			return true
		}
	}
	return false
}

func sanitizeName(name string) string {
	return unsafeNamePattern.ReplaceAllString(name, "_")
}

var anchorNamePattern = regexp.MustCompile(`(?i)(?:row|linha)[_\-]?(\d+)`)

// anchorRowFromName recovers a row hint embedded in a filename, 0 when
// absent.
func anchorRowFromName(filename string) int {
	m := anchorNamePattern.FindStringSubmatch(filename)
	if m == nil {
		return 0
	}
	row := 0
	for _, r := range m[1] {
		row = row*10 + int(r-'0')
	}
	return row
}
