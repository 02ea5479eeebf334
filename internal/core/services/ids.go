package services

import (
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/manuscript-validator/internal/core/domain"
)

// newModelID returns an ID of the form "<objectType>:<UUID>".
func newModelID(objectType domain.ObjectType) string {
	return string(objectType) + ":" + strings.ToUpper(uuid.NewString())
}
