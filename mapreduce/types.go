package mapreduce

import "context"

// MapFunc processes one input unit. It hands intermediate pairs to the
// engine through emit, which is only valid for the duration of the call.
type MapFunc func(ctx context.Context, unit string, emit EmitFunc) error

// ReduceFunc is called once per distinct key of a partition. Values of the
// key are pulled with get until it reports false.
type ReduceFunc func(ctx context.Context, key string, get Getter, partition int) error

// EmitFunc stores one intermediate pair.
type EmitFunc func(key, value string)

// Getter returns the next unread value of key in partition. The second
// result is false once the values are exhausted.
type Getter func(key string, partition int) (string, bool)

// PartitionFunc maps a key to a partition in [0, numPartitions). It must be
// deterministic.
type PartitionFunc func(key string, numPartitions int) int

type KeyVal struct {
	Key string
	Val string
}
