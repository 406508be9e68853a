package mapreduce

import "sync"

// mapCursor hands out input units to map workers, each unit exactly once.
type mapCursor struct {
	mu    sync.Mutex
	units []string
	next  int
}

func newMapCursor(units []string) *mapCursor {
	return &mapCursor{units: units}
}

// claim returns the next unclaimed unit and its index.
func (c *mapCursor) claim() (unit string, idx int, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.next >= len(c.units) {
		return "", 0, false
	}

	idx = c.next
	c.next++

	return c.units[idx], idx, true
}
