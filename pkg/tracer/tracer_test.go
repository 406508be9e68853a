package tracer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInitAndShutdown(t *testing.T) {
	ctx := context.Background()

	shutdown, err := Init(ctx, "localhost:4318")
	require.NoError(t, err)
	require.NotNil(t, shutdown)

	_, span := Start(ctx, "test")
	require.True(t, span.SpanContext().IsValid())
	span.End()

	// nothing listens there, only make sure shutdown returns
	shutdownCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	_ = shutdown(shutdownCtx)
}
