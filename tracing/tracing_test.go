package tracing

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracingFile(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "span.txt")
	require.NoError(t, Init("bpmnflow", "0.0.1", fname))

	ctx, span := StartSpan(context.Background(), "process", "INTERNAL")
	span.WithAttributes(map[string]string{"task": "1000", "event": "10"})
	_, child := StartSpan(ctx, "plugin", "")
	EndSpan(child, errors.New("failed"))
	EndSpan(span, nil)

	data, err := os.ReadFile(fname)
	require.NoError(t, err)
	assert.Contains(t, string(data), "process")
	assert.Contains(t, string(data), "parent.span_id")
}

func TestNilSpan(t *testing.T) {
	var span *Span
	assert.Nil(t, span.WithAttributes(map[string]string{"k": "v"}))
	EndSpan(span, nil)
}
