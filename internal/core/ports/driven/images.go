package driven

import "github.com/custodia-labs/manuscript-validator/internal/core/domain"

// ImageInspector identifies image data.
type ImageInspector interface {
	// Inspect detects the image format from magic bytes and, when decodable,
	// its pixel dimensions. Unknown formats are not an error; Format is empty.
	Inspect(data []byte) domain.ImageInfo
}
