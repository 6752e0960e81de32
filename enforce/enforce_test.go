package enforce

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Enforce(t *testing.T) {
	assert.NotPanics(t, func() { ENFORCE(true) })
	assert.NotPanics(t, func() { ENFORCE(nil) })
	var err error
	assert.NotPanics(t, func() { ENFORCE(err) })

	assert.Panics(t, func() { ENFORCE(false, "partition count ", 0) })
	assert.Panics(t, func() { ENFORCE(errors.New("boom")) })
	assert.Panics(t, func() { ENFORCE("unreachable") })
	assert.Panics(t, func() { ENFORCE(42) })
}
