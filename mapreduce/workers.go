package mapreduce

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/tymbaca/mrlocal/pkg/caller"
	"github.com/tymbaca/mrlocal/pkg/tracer"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

func forkMapper(ctx context.Context, g *errgroup.Group, j *job, id int) {
	m := &mapper{
		id:     id,
		mapFn:  j.mapFn,
		cursor: j.cursor,
		store:  j.store,
		stats:  j.stats,
		logger: j.logger,
	}

	g.Go(func() error { return m.run(ctx) })
}

type mapper struct {
	id     int
	mapFn  MapFunc
	cursor *mapCursor
	store  *store
	stats  *Stats
	logger *slog.Logger
}

func (m *mapper) run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		unit, idx, ok := m.cursor.claim()
		if !ok {
			m.logger.Debug("mapper: no units left", "id", m.id)
			return nil
		}

		m.logger.Debug("mapper: got unit", "id", m.id, "idx", idx, "unit", unit)
		if err := m.mapUnit(ctx, unit, idx); err != nil {
			return err
		}
		m.stats.MapIn.Add(1)
	}
}

func (m *mapper) mapUnit(ctx context.Context, unit string, idx int) error {
	ctx, span := tracer.Start(ctx, caller.Name(), trace.WithAttributes(
		attribute.Int("id", m.id),
		attribute.Int("idx", idx),
		attribute.String("unit", unit),
	))
	defer span.End()

	e := &emitter{store: m.store, stats: m.stats, logger: m.logger, unit: unit}

	err := safeCall(func() error { return m.mapFn(ctx, unit, e.emit) })
	e.done.Store(true)
	if err == nil {
		err = e.failure()
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("map unit %d (%s): %w", idx, unit, err)
	}

	return nil
}

// emitter is the EmitFunc of one map call. The first failed put is kept and
// fails the call once the map function returns.
type emitter struct {
	store  *store
	stats  *Stats
	logger *slog.Logger
	unit   string
	done   atomic.Bool

	mu  sync.Mutex
	err error
}

func (e *emitter) emit(key, value string) {
	if e.done.Load() {
		e.stats.Dropped.Add(1)
		e.logger.Error("emit: map call already returned, pair dropped", "unit", e.unit, "key", key)
		return
	}

	if err := e.store.put(key, value); err != nil {
		e.mu.Lock()
		if e.err == nil {
			e.err = err
		}
		e.mu.Unlock()
		return
	}

	e.stats.MapOut.Add(1)
}

func (e *emitter) failure() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.err
}

func forkReducer(ctx context.Context, g *errgroup.Group, j *job, partition int) {
	r := &reducer{
		partition: partition,
		reduceFn:  j.reduceFn,
		store:     j.store,
		stats:     j.stats,
		logger:    j.logger,
	}

	g.Go(func() error { return r.run(ctx) })
}

type reducer struct {
	partition int
	reduceFn  ReduceFunc
	store     *store
	stats     *Stats
	logger    *slog.Logger
}

func (r *reducer) run(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, caller.Name(), trace.WithAttributes(attribute.Int("partition", r.partition)))
	defer span.End()

	r.logger.Debug("reducer: starting", "partition", r.partition)

	for run := range r.store.keyRuns(r.partition) {
		if err := ctx.Err(); err != nil {
			return err
		}

		it := newValueIter(r.partition, run)
		get := it.getter(r.logger, r.stats)

		err := safeCall(func() error { return r.reduceFn(ctx, it.key, get, r.partition) })
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return fmt.Errorf("reduce key %q in partition %d: %w", it.key, r.partition, err)
		}
		r.stats.ReduceOut.Add(1)

		r.logger.Debug("reducer: key reduced", "partition", r.partition, "key", it.key, "unread", it.remaining())
	}

	return nil
}

// safeCall runs a user callback, turning a panic into an error.
func safeCall(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if perr, ok := r.(error); ok {
				err = fmt.Errorf("%w: %w", ErrCallbackPanic, perr)
				return
			}
			err = fmt.Errorf("%w: %v", ErrCallbackPanic, r)
		}
	}()

	return fn()
}
