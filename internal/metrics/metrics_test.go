package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NotPanics(t, func() { RegisterCollectors(reg) })

	// Registering twice on the same registry is a programming error.
	assert.Panics(t, func() { RegisterCollectors(reg) })
}

func TestResult(t *testing.T) {
	assert.Equal(t, "ok", Result(nil))
	assert.Equal(t, "error", Result(errors.New("boom")))
}

func TestBlobOperationsCounts(t *testing.T) {
	before := testutil.ToFloat64(BlobOperations.WithLabelValues("put", "ok"))
	BlobOperations.WithLabelValues("put", Result(nil)).Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(BlobOperations.WithLabelValues("put", "ok")))
}
