package mapreduce

import (
	"iter"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
)

const _initialBucketCap = 8

// bucket holds the pairs of one partition in arrival order until sorted.
type bucket struct {
	mu    sync.Mutex
	pairs []KeyVal
}

func newBucket() *bucket {
	return &bucket{pairs: make([]KeyVal, 0, _initialBucketCap)}
}

func (b *bucket) append(kv KeyVal) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.pairs) == cap(b.pairs) {
		b.grow()
	}

	b.pairs = append(b.pairs, kv)
}

// grow doubles the backing array. Caller must hold mu.
func (b *bucket) grow() {
	newCap := max(_initialBucketCap, 2*cap(b.pairs))
	pairs := make([]KeyVal, len(b.pairs), newCap)
	copy(pairs, b.pairs)
	b.pairs = pairs
}

// store is the partitioned intermediate multimap filled during the map phase.
// Buckets are created on first write and never removed.
type store struct {
	partitionFn PartitionFunc
	buckets     []atomic.Pointer[bucket]
	occupied    atomic.Int64
	frozen      atomic.Bool
}

func newStore(numPartitions int, partitionFn PartitionFunc) *store {
	if partitionFn == nil {
		partitionFn = DefaultPartition
	}

	return &store{
		partitionFn: partitionFn,
		buckets:     make([]atomic.Pointer[bucket], numPartitions),
	}
}

func (s *store) numPartitions() int {
	return len(s.buckets)
}

func (s *store) put(key, value string) error {
	if s.frozen.Load() {
		return ErrStoreFrozen
	}

	p := s.partitionFn(key, s.numPartitions())
	if err := checkPartition(key, p, s.numPartitions()); err != nil {
		return err
	}

	s.bucketFor(p).append(KeyVal{Key: key, Val: value})

	return nil
}

func (s *store) bucketFor(p int) *bucket {
	if b := s.buckets[p].Load(); b != nil {
		return b
	}

	b := newBucket()
	if s.buckets[p].CompareAndSwap(nil, b) {
		s.occupied.Add(1)
		return b
	}

	// lost the race, someone else created it
	return s.buckets[p].Load()
}

// freeze rejects any later put. Called once all map workers are joined.
func (s *store) freeze() {
	s.frozen.Store(true)
}

// size is the number of occupied partitions.
func (s *store) size() int {
	return int(s.occupied.Load())
}

func (s *store) pairs(p int) []KeyVal {
	b := s.buckets[p].Load()
	if b == nil {
		return nil
	}

	return b.pairs
}

// sortPartition orders the bucket by key. The sort is stable, so values of
// one key keep their arrival order. Must not run concurrently with put.
func (s *store) sortPartition(p int) {
	b := s.buckets[p].Load()
	if b == nil {
		return
	}

	slices.SortStableFunc(b.pairs, func(x, y KeyVal) int {
		return strings.Compare(x.Key, y.Key)
	})
}

// occupiedPartitions yields the indexes of non-empty partitions in
// ascending order.
func (s *store) occupiedPartitions() iter.Seq[int] {
	return func(yield func(int) bool) {
		for p := range s.buckets {
			if s.buckets[p].Load() == nil {
				continue
			}

			if !yield(p) {
				return
			}
		}
	}
}

// keyRuns yields the contiguous runs of equal keys of a sorted partition.
func (s *store) keyRuns(p int) iter.Seq[[]KeyVal] {
	return func(yield func([]KeyVal) bool) {
		pairs := s.pairs(p)

		for start := 0; start < len(pairs); {
			end := start + 1
			for end < len(pairs) && pairs[end].Key == pairs[start].Key {
				end++
			}

			if !yield(pairs[start:end:end]) {
				return
			}

			start = end
		}
	}
}
