package mapreduce

import (
	"fmt"

	"github.com/spaolacci/murmur3"
)

// DefaultPartition is the djb2 string hash reduced modulo numPartitions.
func DefaultPartition(key string, numPartitions int) int {
	var hash uint64 = 5381
	for i := 0; i < len(key); i++ {
		hash = hash*33 + uint64(key[i])
	}

	return int(hash % uint64(numPartitions))
}

// MurmurPartition spreads keys with murmur3. Useful when keys share long
// common prefixes.
func MurmurPartition(key string, numPartitions int) int {
	return int(murmur3.Sum64([]byte(key)) % uint64(numPartitions))
}

func checkPartition(key string, partition, numPartitions int) error {
	if partition < 0 || partition >= numPartitions {
		return fmt.Errorf("key %q: got %d, want [0, %d): %w", key, partition, numPartitions, ErrPartitionOutOfRange)
	}

	return nil
}
