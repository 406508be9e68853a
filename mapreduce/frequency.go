package mapreduce

import (
	"context"
	"fmt"
	"strconv"
)

// recordFrequencies stores, for each distinct key of sorted partition p, the
// number of values emitted for it. Keys never span partitions, so partitions
// can be counted in parallel without overwriting each other.
func recordFrequencies(ctx context.Context, st Storage, s *store, p int) error {
	for run := range s.keyRuns(p) {
		key := run[0].Key
		if err := st.Put(ctx, key, strconv.Itoa(len(run))); err != nil {
			return fmt.Errorf("record frequency of %q: %w", key, err)
		}
	}

	return nil
}
