package system

import (
	"math"
	"sync/atomic"
)

// Clock measures how many steps the simulation runs per second. Tick is
// called from the simulation goroutine; StepsPerSecond may be read anywhere.
type Clock struct {
	elapsed float64
	steps   int
	rate    atomic.Uint64
}

// Tick records one step of dt seconds. Once a second has accumulated the
// rate is published and the counters restart.
func (c *Clock) Tick(dt float64) {
	c.elapsed += dt
	c.steps++
	if c.elapsed >= 1 {
		c.rate.Store(math.Float64bits(float64(c.steps) / c.elapsed))
		c.elapsed = 0
		c.steps = 0
	}
}

func (c *Clock) StepsPerSecond() float64 {
	return math.Float64frombits(c.rate.Load())
}
