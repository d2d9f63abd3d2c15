package archive

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"go.uber.org/zap"

	"mobilia/internal"
)

type signature struct {
	magic []byte
	ext   string
}

var imageSignatures = []signature{
	{[]byte("\x89PNG\r\n\x1a\n"), ".png"},
	{[]byte("\xff\xd8\xff"), ".jpg"},
	{[]byte("GIF87a"), ".gif"},
	{[]byte("GIF89a"), ".gif"},
	{[]byte("BM"), ".bmp"},
}

// sliceSizes are the candidate byte ranges tried at each signature hit,
// smallest first; the first slice that decodes wins.
var sliceSizes = []int{1 << 10, 5 << 10, 10 << 10, 50 << 10, 100 << 10}

// fromSignatures is the absolute last resort: walk the raw file bytes for
// known image magic numbers and slice out ranges that decode.
func (e *Extractor) fromSignatures(content []byte, outDir string) []internal.ExtractedImage {
	out := []internal.ExtractedImage{}

	for _, sig := range imageSignatures {
		offset := 0
		for {
			hit := bytes.Index(content[offset:], sig.magic)
			if hit < 0 {
				break
			}
			start := offset + hit

			data := decodeSlice(content[start:])
			if data == nil {
				offset = start + len(sig.magic)
				continue
			}

			filename := fmt.Sprintf("sig_%d%s", len(out), sig.ext)
			outPath := filepath.Join(outDir, filename)
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				e.log.Warn("failed to write sliced image", zap.String("path", outPath), zap.Error(err))
				offset = start + len(data)
				continue
			}

			out = append(out, internal.ExtractedImage{
				Filename:     filename,
				Path:         outPath,
				OriginalPath: fmt.Sprintf("@%d", start),
				Data:         data,
			})
			offset = start + len(data)
		}
	}

	return out
}

// decodeSlice tries increasing size guesses until one parses as an image.
func decodeSlice(tail []byte) []byte {
	for _, size := range sliceSizes {
		if size > len(tail) {
			break
		}
		if validateImage(tail[:size]) == nil {
			return tail[:size]
		}
	}
	if validateImage(tail) == nil {
		return tail
	}
	return nil
}

func validateImage(data []byte) error {
	_, _, err := image.Decode(bytes.NewReader(data))
	return err
}
