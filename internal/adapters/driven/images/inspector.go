// Package images identifies figure payloads. Formats are detected from
// magic bytes with github.com/gabriel-vasile/mimetype; dimensions come from
// the registered image decoders, including TIFF, BMP and WebP from
// golang.org/x/image.
package images

import (
	"bytes"
	"image"
	_ "image/gif"  // GIF decoder
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"strings"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/bmp"  // BMP decoder
	_ "golang.org/x/image/tiff" // TIFF decoder
	_ "golang.org/x/image/webp" // WebP decoder

	"github.com/custodia-labs/manuscript-validator/internal/core/domain"
	"github.com/custodia-labs/manuscript-validator/internal/core/ports/driven"
	"github.com/custodia-labs/manuscript-validator/internal/logger"
)

// Ensure Inspector implements the interface.
var _ driven.ImageInspector = (*Inspector)(nil)

// formats maps detected MIME types to image kinds.
var formats = map[string]string{
	"image/png":     "png",
	"image/jpeg":    "jpeg",
	"image/tiff":    "tiff",
	"image/gif":     "gif",
	"image/bmp":     "bmp",
	"image/webp":    "webp",
	"image/svg+xml": "svg",
}

// Inspector implements driven.ImageInspector.
type Inspector struct{}

// New creates a new image inspector.
func New() *Inspector {
	return &Inspector{}
}

// Inspect detects the format and, for raster formats, the pixel size.
func (i *Inspector) Inspect(data []byte) domain.ImageInfo {
	if len(data) == 0 {
		return domain.ImageInfo{}
	}

	contentType := mimetype.Detect(data).String()
	if semi := strings.IndexByte(contentType, ';'); semi >= 0 {
		contentType = strings.TrimSpace(contentType[:semi])
	}

	info := domain.ImageInfo{
		Format:      formats[contentType],
		ContentType: contentType,
	}
	if info.Format == "" || info.Format == "svg" {
		return info
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		logger.Debug("decoding %s dimensions: %v", info.Format, err)
		return info
	}
	info.Width = cfg.Width
	info.Height = cfg.Height
	return info
}
