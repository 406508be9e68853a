package mapreduce

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestRunSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	c := newCollector()
	err := New(wordMap, func(ctx context.Context, key string, get Getter, partition int) error {
		if key == "bad" {
			return errBoom
		}
		return c.reduce(ctx, key, get, partition)
	}, 2, 1, quietOpts()...).Run(context.Background(), []string{"a b", "bad"})
	require.ErrorIs(t, err, errBoom)

	names := make(map[string]int)
	for _, span := range recorder.Ended() {
		names[span.Name()]++
	}

	require.Equal(t, 1, names["MapReduce.Run"])
	require.Equal(t, 2, names["mapper.mapUnit"])
	require.Equal(t, 1, names["job.sortPartition"])
	require.Equal(t, 1, names["reducer.run"])
}
