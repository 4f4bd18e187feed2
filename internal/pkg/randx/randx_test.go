package randx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestID(t *testing.T) {
	a, b := ID(), ID()
	assert.NotEqual(t, a, b)
	assert.True(t, IsValidID(a))
	assert.False(t, IsValidID("team-1"))
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "u1/f1.pdf", ObjectKey("u1", "f1", "Report.PDF"))
	assert.Equal(t, "u1/f1", ObjectKey("u1", "f1", "README"))
	assert.Equal(t, "u1/f1", ObjectKey("u1", "f1", "weird.this extension"))
}
