package inmemory

import (
	"context"
	"slices"
	"sync"

	"github.com/tymbaca/mrlocal/pkg/caller"
	"github.com/tymbaca/mrlocal/pkg/tracer"
)

type Storage struct {
	mu   sync.RWMutex
	data map[string]string
}

func New() *Storage {
	return &Storage{
		data: make(map[string]string, 1000),
	}
}

func (st *Storage) Put(ctx context.Context, key string, value string) error {
	_, span := tracer.Start(ctx, caller.Name())
	defer span.End()

	st.mu.Lock()
	defer st.mu.Unlock()

	st.data[key] = value

	return nil
}

func (st *Storage) Get(ctx context.Context, key string) (string, bool, error) {
	_, span := tracer.Start(ctx, caller.Name())
	defer span.End()

	st.mu.RLock()
	defer st.mu.RUnlock()

	val, ok := st.data[key]

	return val, ok, nil
}

func (st *Storage) Size(ctx context.Context) (int, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	return len(st.data), nil
}

func (st *Storage) Keys(ctx context.Context) ([]string, error) {
	_, span := tracer.Start(ctx, caller.Name())
	defer span.End()

	st.mu.RLock()
	keys := make([]string, 0, len(st.data))
	for k := range st.data {
		keys = append(keys, k)
	}
	st.mu.RUnlock()

	slices.Sort(keys)

	return keys, nil
}
