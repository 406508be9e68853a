package mapreduce

import "log/slog"

// valueIter walks the values of one key run. It only moves forward.
type valueIter struct {
	key       string
	partition int
	run       []KeyVal
	pos       int
}

func newValueIter(partition int, run []KeyVal) *valueIter {
	it := &valueIter{partition: partition, run: run}
	if len(run) > 0 {
		it.key = run[0].Key
	}

	return it
}

func (it *valueIter) next() (string, bool) {
	if it.pos >= len(it.run) {
		return "", false
	}

	val := it.run[it.pos].Val
	it.pos++

	return val, true
}

// remaining is the number of values the reduce function has not pulled.
func (it *valueIter) remaining() int {
	return len(it.run) - it.pos
}

// getter binds it to the Getter signature handed to ReduceFunc. Asking for
// another key or partition than the one being reduced yields no value.
func (it *valueIter) getter(logger *slog.Logger, stats *Stats) Getter {
	return func(key string, partition int) (string, bool) {
		if key != it.key || partition != it.partition {
			stats.GetterMisuse.Add(1)
			logger.Warn("getter: key is not being reduced",
				"key", key, "partition", partition,
				"current_key", it.key, "current_partition", it.partition)

			return "", false
		}

		val, ok := it.next()
		if ok {
			stats.ReduceIn.Add(1)
		}

		return val, ok
	}
}
