package mapreduce

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/tymbaca/mrlocal/pkg/caller"
	"github.com/tymbaca/mrlocal/pkg/tracer"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

type MapReduce struct {
	mapFn       MapFunc
	mapperCount int

	reduceFn     ReduceFunc
	reducerCount int

	partitionFn PartitionFunc
	frequencies Storage
	stats       *Stats
	logger      *slog.Logger
}

type Option func(*MapReduce)

// WithPartitioner replaces DefaultPartition. A nil fn is ignored.
func WithPartitioner(fn PartitionFunc) Option {
	return func(mr *MapReduce) {
		if fn != nil {
			mr.partitionFn = fn
		}
	}
}

// WithFrequencies makes every run store the number of values per key in st
// before reducing.
func WithFrequencies(st Storage) Option {
	return func(mr *MapReduce) {
		mr.frequencies = st
	}
}

// WithStats makes runs count into s instead of a private Stats.
func WithStats(s *Stats) Option {
	return func(mr *MapReduce) {
		mr.stats = s
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(mr *MapReduce) {
		if logger != nil {
			mr.logger = logger
		}
	}
}

// New creates an engine with mapperCount map workers and reducerCount
// partitions, which is also the limit of concurrent reduce tasks.
func New(mapFn MapFunc, reduceFn ReduceFunc, mapperCount, reducerCount int, opts ...Option) *MapReduce {
	mr := &MapReduce{
		mapFn:        mapFn,
		mapperCount:  mapperCount,
		reduceFn:     reduceFn,
		reducerCount: reducerCount,
		partitionFn:  DefaultPartition,
		logger:       slog.Default(),
	}

	for _, opt := range opts {
		opt(mr)
	}

	return mr
}

// Run maps every unit, then reduces every distinct key. It blocks until both
// phases are over. The first callback failure aborts the run and is returned.
func Run(ctx context.Context, units []string, mapFn MapFunc, numMappers int, reduceFn ReduceFunc, numReducers int, partitionFn PartitionFunc) error {
	return New(mapFn, reduceFn, numMappers, numReducers, WithPartitioner(partitionFn)).Run(ctx, units)
}

func (mr *MapReduce) validate() error {
	if mr.mapFn == nil || mr.reduceFn == nil {
		return ErrNilCallback
	}
	if mr.mapperCount <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMappers, mr.mapperCount)
	}
	if mr.reducerCount <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidReducers, mr.reducerCount)
	}

	return nil
}

// job is the state of a single run. Nothing in it outlives Run.
type job struct {
	id       string
	mapFn    MapFunc
	reduceFn ReduceFunc

	cursor      *mapCursor
	store       *store
	frequencies Storage
	reducers    int

	stats  *Stats
	logger *slog.Logger
}

func (mr *MapReduce) newJob(units []string) *job {
	id := uuid.NewString()

	stats := mr.stats
	if stats == nil {
		stats = &Stats{}
	}

	return &job{
		id:          id,
		mapFn:       mr.mapFn,
		reduceFn:    mr.reduceFn,
		cursor:      newMapCursor(units),
		store:       newStore(mr.reducerCount, mr.partitionFn),
		frequencies: mr.frequencies,
		reducers:    mr.reducerCount,
		stats:       stats,
		logger:      mr.logger.With("run_id", id),
	}
}

func (mr *MapReduce) Run(ctx context.Context, units []string) (err error) {
	if err := mr.validate(); err != nil {
		return err
	}

	j := mr.newJob(units)

	ctx, span := tracer.Start(ctx, caller.Name(), trace.WithAttributes(
		attribute.String("run_id", j.id),
		attribute.Int("units", len(units)),
		attribute.Int("reducers", mr.reducerCount),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	mappers := min(mr.mapperCount, len(units))
	j.logger.Info("map phase: starting", "units", len(units), "mappers", mappers)
	if err := j.mapPhase(ctx, mappers); err != nil {
		return fmt.Errorf("map phase: %w", err)
	}
	j.store.freeze()

	j.logger.Info("sort phase: starting", "partitions", j.store.size())
	if err := j.sortPhase(ctx); err != nil {
		return fmt.Errorf("sort phase: %w", err)
	}

	j.logger.Info("reduce phase: starting", "partitions", j.store.size())
	if err := j.reducePhase(ctx); err != nil {
		return fmt.Errorf("reduce phase: %w", err)
	}

	j.logger.Info("run finished", "stats", j.stats.String())

	return nil
}

func (j *job) mapPhase(ctx context.Context, mappers int) error {
	g, gctx := errgroup.WithContext(ctx)

	for id := range mappers {
		forkMapper(gctx, g, j, id)
	}

	return g.Wait()
}

func (j *job) sortPhase(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(j.reducers)

	for p := range j.store.occupiedPartitions() {
		g.Go(func() error { return j.sortPartition(gctx, p) })
	}

	return g.Wait()
}

func (j *job) sortPartition(ctx context.Context, p int) error {
	ctx, span := tracer.Start(ctx, caller.Name(), trace.WithAttributes(attribute.Int("partition", p)))
	defer span.End()

	j.store.sortPartition(p)

	if j.frequencies == nil {
		return nil
	}

	return recordFrequencies(ctx, j.frequencies, j.store, p)
}

func (j *job) reducePhase(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(j.reducers)

	for p := range j.store.occupiedPartitions() {
		forkReducer(gctx, g, j, p)
	}

	return g.Wait()
}
