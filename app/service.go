// Package app wires configuration, inputs, observers and the optimization
// engine into a runnable service.
package app

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/orbitalsys/taskopt/config"
	"github.com/orbitalsys/taskopt/core/engine"
	coremetrics "github.com/orbitalsys/taskopt/core/metrics"
	"github.com/orbitalsys/taskopt/core/model"
	"github.com/orbitalsys/taskopt/core/pricing"
	"github.com/orbitalsys/taskopt/core/schedule"
	"github.com/orbitalsys/taskopt/core/weather"
	"github.com/orbitalsys/taskopt/infra/events"
	"github.com/orbitalsys/taskopt/infra/logger"
	"github.com/orbitalsys/taskopt/infra/metrics"
	"github.com/orbitalsys/taskopt/infra/tabular"
	"github.com/orbitalsys/taskopt/internal/eventbus"
	"github.com/orbitalsys/taskopt/pkg/export"
)

// Service owns one fully wired optimization run.
type Service struct {
	Engine *engine.Engine

	cfg       *config.Config
	bus       eventbus.EventBus
	sink      coremetrics.Sink
	publisher *events.Publisher
	log       logger.Logger
	observers []<-chan struct{}
}

// New creates a Service from the configuration: it loads the order deck,
// resolves prices, assigns weather and builds the engine. Every random stream
// derives from cfg.Seed.
func New(cfg *config.Config) (*Service, error) {
	if err := cfg.Logging.Apply(); err != nil {
		return nil, err
	}
	logg := logger.New("service")
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed))

	orders, err := tabular.LoadOrders(cfg.Inputs.OrdersFile)
	if err != nil {
		return nil, err
	}
	logg.Infof("loaded %d orders from %s", len(orders), cfg.Inputs.OrdersFile)

	if err := pricing.NewResolver(cfg.Pricing, rng).Resolve(orders); err != nil {
		return nil, err
	}

	var grids weather.GridSource
	if cfg.Weather.Mode == weather.ModeGrid {
		set, err := tabular.LoadGridDir(cfg.Inputs.GridDir, cfg.Weather.Scenarios)
		if err != nil {
			return nil, err
		}
		grids = set
	}
	assigner, err := weather.NewAssigner(cfg.Weather, grids, rng, logger.New("weather"))
	if err != nil {
		return nil, err
	}
	assignment, err := assigner.Assign(orders)
	if err != nil {
		return nil, err
	}
	if assignment.Misses > 0 {
		logg.Warnf("%d order/scenario pairs had no cloud-cover cell and will never settle", assignment.Misses)
	}

	table, err := model.NewTable(orders)
	if err != nil {
		return nil, err
	}
	if err := table.SetWeather(assignment.Actual, assignment.Predicted); err != nil {
		return nil, err
	}

	if len(cfg.Optimizer.Cases) == 0 {
		cases, err := tabular.LoadCases(cfg.Inputs.CasesFile)
		if err != nil {
			return nil, err
		}
		cfg.Optimizer.Cases = cases
	}
	if err := cfg.Optimizer.Validate(); err != nil {
		return nil, err
	}
	logg.Infof("weather mode %s, %d starting cases", cfg.Weather.Mode, len(cfg.Optimizer.Cases))

	bus := eventbus.New()
	eng, err := engine.New(cfg.Optimizer, table, schedule.New(cfg.Schedule.BandRule), rng, logger.New("engine"), bus)
	if err != nil {
		return nil, err
	}

	sink, err := buildSink(cfg)
	if err != nil {
		return nil, err
	}
	svc := &Service{Engine: eng, cfg: cfg, bus: bus, sink: sink, log: logg}
	if cfg.Events.Enabled {
		pub, err := events.NewPublisher(cfg.Events)
		if err != nil {
			return nil, fmt.Errorf("event publisher: %w", err)
		}
		svc.publisher = pub
	}
	return svc, nil
}

func buildSink(cfg *config.Config) (coremetrics.Sink, error) {
	var sinks []coremetrics.Sink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(cfg.Metrics)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(cfg.Metrics))
	}
	switch len(sinks) {
	case 0:
		return coremetrics.NopSink{}, nil
	case 1:
		return sinks[0], nil
	default:
		return metrics.NewMultiSink(sinks...), nil
	}
}

// Run executes the full multi-start search and writes the results to output
// (a timestamped CSV in the working directory when empty).
func (s *Service) Run(ctx context.Context, output string) error {
	s.startObservers(ctx)
	results, err := s.Engine.Run(ctx)
	if err != nil {
		return err
	}
	return s.finish(results, output)
}

// Evaluate scores each configured starting case once, without searching.
func (s *Service) Evaluate(ctx context.Context, output string) error {
	s.startObservers(ctx)
	results, err := s.Engine.Evaluate(ctx)
	if err != nil {
		return err
	}
	return s.finish(results, output)
}

func (s *Service) startObservers(ctx context.Context) {
	s.observers = append(s.observers, metrics.StartEventCollector(ctx, s.bus, s.sink))
	if s.publisher != nil {
		s.observers = append(s.observers, s.publisher.Start(ctx, s.bus))
	}
	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
}

func (s *Service) finish(results []engine.Result, output string) error {
	if output == "" {
		output = export.DefaultFilename("csv")
	}
	if err := export.WriteFile(output, results); err != nil {
		return err
	}
	s.log.Infof("wrote %d results to %s", len(results), output)

	best := -1
	for i, r := range results {
		if r.Status == engine.StatusSkipped {
			continue
		}
		if best < 0 || r.Cost < results[best].Cost {
			best = i
		}
	}
	if best >= 0 {
		s.log.Infof("best case %d (%s): revenue %.2f", results[best].Index, results[best].Status, results[best].Revenue)
	} else {
		s.log.Warnf("no admissible results")
	}
	return nil
}

// Close shuts the bus down and waits for the observers to drain their
// subscriptions, so results published late in a run still reach the sinks.
func (s *Service) Close() error {
	s.bus.Close()
	for _, done := range s.observers {
		<-done
	}
	if s.publisher != nil {
		s.publisher.Close()
	}
	if closer, ok := s.sink.(interface{ Close() }); ok {
		closer.Close()
	}
	return nil
}
