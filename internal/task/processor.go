package task

import (
	"context"
	"time"

	"github.com/phrazzld/taskqueue/internal/domain"
)

// DefaultProcessingDelay is how long the simulated processor works on an item.
const DefaultProcessingDelay = 2 * time.Second

// SimulatedProcessor stands in for real work by waiting a fixed delay.
type SimulatedProcessor struct {
	Delay time.Duration
}

// NewSimulatedProcessor creates a processor that takes delay per item.
// A negative delay is treated as zero.
func NewSimulatedProcessor(delay time.Duration) *SimulatedProcessor {
	if delay < 0 {
		delay = 0
	}
	return &SimulatedProcessor{Delay: delay}
}

// Process waits for the configured delay, returning early with the context
// error if ctx is cancelled first.
func (p *SimulatedProcessor) Process(ctx context.Context, _ domain.WorkItem) error {
	if p.Delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(p.Delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
