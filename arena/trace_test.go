//go:build arenatrace

package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrace(t *testing.T) {
	require.True(t, TracingEnabled())

	a := New()
	defer a.Free()

	_, err := a.AllocContext(Here("header"), 16, 8, false)
	require.NoError(t, err)

	s := a.BeginScope()
	_, err = a.AllocContext(Here("scratch"), 32, 8, false)
	require.NoError(t, err)
	require.Len(t, a.Trace(), 2)
	s.End()

	recs := a.Trace()
	require.Len(t, recs, 1)
	assert.Equal(t, "header", recs[0].Context.Tag)
	assert.Contains(t, recs[0].Context.File, "trace_test.go")
	assert.Positive(t, recs[0].Context.Line)
	assert.Equal(t, 16, recs[0].Size)
	assert.Equal(t, 0, recs[0].Block)

	a.ResetUsage(false)
	assert.Empty(t, a.Trace())
}
