package mapreduce

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/require"
)

func TestDefaultPartition(t *testing.T) {
	// 5381*33 + 'a'
	require.Equal(t, 177670%7, DefaultPartition("a", 7))
	require.Equal(t, 5381%4, DefaultPartition("", 4))
	require.Equal(t, 0, DefaultPartition("anything", 1))
}

func TestPartitionDeterministicAndInRange(t *testing.T) {
	for _, fn := range []PartitionFunc{DefaultPartition, MurmurPartition} {
		for range 500 {
			key := gofakeit.Word() + gofakeit.LetterN(uint(gofakeit.IntRange(0, 40)))
			for _, n := range []int{1, 2, 3, 7, 64} {
				p := fn(key, n)
				require.GreaterOrEqual(t, p, 0)
				require.Less(t, p, n)
				require.Equal(t, p, fn(key, n), "key %q n %d", key, n)
			}
		}
	}
}

func TestDefaultPartitionLongKeyWraps(t *testing.T) {
	key := gofakeit.LetterN(10_000)
	p := DefaultPartition(key, 13)
	require.GreaterOrEqual(t, p, 0)
	require.Less(t, p, 13)
}

func TestCheckPartition(t *testing.T) {
	require.NoError(t, checkPartition("k", 0, 3))
	require.NoError(t, checkPartition("k", 2, 3))
	require.ErrorIs(t, checkPartition("k", 3, 3), ErrPartitionOutOfRange)
	require.ErrorIs(t, checkPartition("k", -1, 3), ErrPartitionOutOfRange)
}
