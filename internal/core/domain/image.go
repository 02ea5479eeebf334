package domain

// ImageInfo describes image data.
type ImageInfo struct {
	// Format is the lowercase image kind, e.g. "png" or "jpeg". Empty if unknown.
	Format string

	// ContentType is the detected MIME type.
	ContentType string

	// Width and Height are in pixels; zero when they could not be decoded.
	Width  int
	Height int
}
