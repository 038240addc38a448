package tracing

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestSetupExportsSpans(t *testing.T) {
	var buf bytes.Buffer
	shutdown, err := Setup(true, "sovereignd", "test", &buf)
	require.NoError(t, err)

	_, span := otel.Tracer("test").Start(context.Background(), "sovereign.finalize")
	span.End()
	require.NoError(t, shutdown(context.Background()))

	assert.Contains(t, buf.String(), "sovereign.finalize")
	assert.Contains(t, buf.String(), "sovereignd")
}

func TestSetupDisabled(t *testing.T) {
	shutdown, err := Setup(false, "sovereignd", "test", nil)
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}
