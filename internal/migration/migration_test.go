package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunnerVersion(t *testing.T) {
	assert.Equal(t, "1.0.0", NewRunner().Version())
}
