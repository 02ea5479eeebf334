package driven

import "context"

// BinaryStore returns the binary payload attached to a model, such as the
// image data of a figure.
type BinaryStore interface {
	// Get returns the payload for id. A nil slice with a nil error means
	// no payload is stored; it is not an error.
	Get(ctx context.Context, id string) ([]byte, error)
}
