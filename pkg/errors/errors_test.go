package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, "nothing to wrap"))

	err := Wrap(ErrBrokenObject, "class %s", "Echo")
	assert.EqualError(t, err, "class Echo: broken object: constructor hook is not callable")
	assert.True(t, Is(err, ErrBrokenObject))
	assert.False(t, Is(err, ErrUsage))
}

type kindError struct{ kind string }

func (e *kindError) Error() string { return e.kind }

func TestAs(t *testing.T) {
	err := fmt.Errorf("outer: %w", &kindError{kind: "UsageError"})

	var target *kindError
	assert.True(t, As(err, &target))
	assert.Equal(t, "UsageError", target.kind)
}
