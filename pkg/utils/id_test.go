package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewID(t *testing.T) {
	id := NewID("case")
	assert.True(t, strings.HasPrefix(id, "case_"))
	assert.Len(t, id, len("case_")+12)

	other := NewID("case")
	assert.NotEqual(t, id, other)
}
