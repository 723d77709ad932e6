package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewID returns an opaque identifier with a type prefix, e.g. "case_9f1c2ab4e8d3".
func NewID(prefix string) string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + "_" + raw[:12]
}
