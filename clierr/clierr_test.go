package clierr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCode(t *testing.T) {
	assert.Nil(t, Code(4, nil))

	base := errors.New("repository not found")
	err := Code(4, base)
	assert.Equal(t, "repository not found", err.Error())
	assert.ErrorIs(t, err, base)
	assert.Equal(t, 4, ExitCodeOf(err))
}

func TestExitCodeOf(t *testing.T) {
	assert.Equal(t, 0, ExitCodeOf(nil))
	assert.Equal(t, 1, ExitCodeOf(errors.New("plain")))
	assert.Equal(t, 1, ExitCodeOf(Code(0, errors.New("never zero"))))

	wrapped := fmt.Errorf("outer: %w", Code(3, errors.New("inner")))
	assert.Equal(t, 3, ExitCodeOf(wrapped), "code survives further wrapping")
}
