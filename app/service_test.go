package app

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/orbitalsys/taskopt/config"
	"github.com/orbitalsys/taskopt/core/events"
	coremetrics "github.com/orbitalsys/taskopt/core/metrics"
	"github.com/orbitalsys/taskopt/infra/logger"
	"github.com/orbitalsys/taskopt/internal/eventbus"
)

type countingSink struct {
	mu       sync.Mutex
	outcomes []coremetrics.CaseOutcome
}

func (c *countingSink) RecordCaseOutcome(o coremetrics.CaseOutcome) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.outcomes = append(c.outcomes, o)
	return nil
}

func (c *countingSink) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.outcomes)
}

func TestCloseDrainsObserversBeforeReturning(t *testing.T) {
	sink := &countingSink{}
	svc := &Service{
		cfg:  &config.Config{},
		bus:  eventbus.New(),
		sink: sink,
		log:  logger.NopLogger{},
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.startObservers(ctx)

	// Publish right before shutdown: the event sits in the subscriber buffer
	// and must still be recorded once Close returns.
	svc.bus.Publish(events.CaseCompleted{RunID: "r", CaseID: "c0", Status: "converged", Revenue: 14})
	require.NoError(t, svc.Close())
	require.Equal(t, 1, sink.count())
}
