package tide

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldTooLargeErrorIs(t *testing.T) {
	err := NewFieldTooLargeError("name", 300, 255)
	assert.ErrorIs(t, err, &FieldTooLargeError{})
	assert.Contains(t, err.Error(), "name")
	assert.Contains(t, err.Error(), "300")
}

func TestIoFailedErrorUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := NewIoFailedError("write", cause)
	assert.ErrorIs(t, err, &IoFailedError{})
	assert.ErrorIs(t, err, cause)
}

func TestInvalidArgumentErrorIs(t *testing.T) {
	err := NewInvalidArgumentError("nil sink")
	assert.ErrorIs(t, err, &InvalidArgumentError{})
	assert.Contains(t, err.Error(), "nil sink")
}
