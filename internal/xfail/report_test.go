//go:build !xsync_silent

package xfail

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReport(t *testing.T) {
	assert.False(t, Silent)
	assert.NoError(t, Report(nil))

	err := errors.New("boom")
	assert.Same(t, err, Report(err))
}
