package profiling_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/verifier/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/verifier/infrastructure/profiling"
)

func TestDisabledProfilersAreNoOps(t *testing.T) {
	t.Parallel()

	p, err := profiling.StartPyroscope("verifier", "test", profiling.Config{})
	require.NoError(t, err)
	assert.Nil(t, p)
	assert.NoError(t, p.Stop())

	assert.Nil(t, profiling.StartPprofServer(profiling.Config{}, logger.NewNop()))
}
