package mapreduce

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestValueIterExhaustion(t *testing.T) {
	run := []KeyVal{{"x", "1"}, {"x", "2"}, {"x", "3"}}
	it := newValueIter(4, run)
	stats := &Stats{}
	get := it.getter(discard, stats)

	var got []string
	for {
		v, ok := get("x", 4)
		if !ok {
			break
		}
		got = append(got, v)
	}
	require.Equal(t, []string{"1", "2", "3"}, got)
	require.Equal(t, 0, it.remaining())

	for range 3 {
		_, ok := get("x", 4)
		require.False(t, ok)
	}
	require.EqualValues(t, 3, stats.ReduceIn.Load())
}

func TestValueIterMisuse(t *testing.T) {
	it := newValueIter(1, []KeyVal{{"x", "1"}})
	stats := &Stats{}
	get := it.getter(discard, stats)

	_, ok := get("y", 1)
	require.False(t, ok)
	_, ok = get("x", 0)
	require.False(t, ok)
	require.EqualValues(t, 2, stats.GetterMisuse.Load())

	// misuse does not consume anything
	v, ok := get("x", 1)
	require.True(t, ok)
	require.Equal(t, "1", v)
}
