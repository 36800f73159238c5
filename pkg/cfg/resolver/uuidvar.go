package resolver

import (
	"strings"

	"github.com/google/uuid"
)

// UUIDVar replaces the string Old with a random UUID.
type UUIDVar struct {
	Old string
}

func (r *UUIDVar) Resolve(in string) (string, error) {
	return strings.ReplaceAll(in, r.Old, uuid.New().String()), nil
}
