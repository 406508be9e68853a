package mapreduce

import "context"

// Storage is a plain single-key associative container. The engine uses it
// for the optional frequency table; reduce functions may use it as a sink.
type Storage interface {
	Put(ctx context.Context, key string, value string) error
	Get(ctx context.Context, key string) (string, bool, error)
	Size(ctx context.Context) (int, error)
	// Keys returns all keys in ascending order.
	Keys(ctx context.Context) ([]string, error)
}
