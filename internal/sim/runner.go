package sim

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// RunnerConfig controls how a Runner paces the colony.
type RunnerConfig struct {
	// Interval is the wall-clock time between ticks.
	Interval time.Duration
	// TimeScale multiplies Interval to give the simulated dt of each tick.
	TimeScale float64
	// MaxTicks stops the runner after that many ticks. Zero runs until stopped.
	MaxTicks int64
	// StatusEvery logs a colony summary every that many ticks. Zero disables it.
	StatusEvery int64
}

// Runner fires Colony.Tick on a ticker until stopped, its context ends, or
// MaxTicks is reached. It satisfies server.Service.
//
// Invariant: ticks never overlap; each tick runs to completion before the next.
type Runner struct {
	colony *Colony
	cfg    RunnerConfig
	logger *zap.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	stopped bool
	done    chan struct{}
}

// NewRunner returns a runner for colony.
//
// Precondition: colony and logger must be non-nil; cfg.Interval must be > 0.
func NewRunner(colony *Colony, cfg RunnerConfig, logger *zap.Logger) *Runner {
	if colony == nil {
		panic("sim.NewRunner: colony must not be nil")
	}
	if logger == nil {
		panic("sim.NewRunner: logger must not be nil")
	}
	if cfg.Interval <= 0 {
		panic("sim.NewRunner: interval must be > 0")
	}
	if cfg.TimeScale <= 0 {
		cfg.TimeScale = 1
	}
	return &Runner{colony: colony, cfg: cfg, logger: logger, done: make(chan struct{})}
}

// Dt returns the simulated seconds advanced per tick.
func (r *Runner) Dt() float64 {
	return r.cfg.Interval.Seconds() * r.cfg.TimeScale
}

// Start runs the tick loop and blocks until Stop is called or MaxTicks is
// reached.
func (r *Runner) Start() error {
	return r.Run(context.Background())
}

// Run is Start under ctx.
//
// Precondition: Run is called at most once per Runner.
// Postcondition: Done is closed when Run returns.
func (r *Runner) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	r.mu.Lock()
	r.cancel = cancel
	if r.stopped {
		cancel()
	}
	r.mu.Unlock()
	defer cancel()
	defer close(r.done)

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	dt := r.Dt()
	r.logger.Info("simulation started",
		zap.Duration("interval", r.cfg.Interval),
		zap.Float64("dt", dt),
		zap.Int64("max_ticks", r.cfg.MaxTicks),
	)
	for {
		select {
		case <-ctx.Done():
			r.logSummary("simulation stopped")
			return nil
		case <-ticker.C:
			r.colony.Tick(dt)
			n := r.colony.Ticks()
			if r.cfg.StatusEvery > 0 && n%r.cfg.StatusEvery == 0 {
				r.logSummary("colony status")
			}
			if r.cfg.MaxTicks > 0 && n >= r.cfg.MaxTicks {
				r.logSummary("simulation finished")
				return nil
			}
		}
	}
}

// Stop ends the tick loop and waits for it to exit. It is safe to call
// before Start or more than once.
func (r *Runner) Stop() {
	r.mu.Lock()
	r.stopped = true
	cancel := r.cancel
	r.mu.Unlock()
	if cancel != nil {
		cancel()
		<-r.done
	}
}

// Done is closed once the tick loop has exited.
func (r *Runner) Done() <-chan struct{} { return r.done }

func (r *Runner) logSummary(msg string) {
	st := r.colony.Status()
	fields := []zap.Field{
		zap.Int64("tick", st.Tick),
		zap.Float64("elapsed", st.Elapsed),
		zap.Int("alive", st.Alive),
		zap.Int("agents", len(st.Agents)),
		zap.Any("stockpile", st.Stockpile),
	}
	r.logger.Info(msg, fields...)
	for _, a := range st.Agents {
		r.logger.Debug("agent status",
			zap.Int("entity_id", int(a.ID)),
			zap.String("name", a.Name),
			zap.String("task", a.Task),
			zap.String("hunger", a.Hunger),
			zap.String("energy", a.Energy),
			zap.String("health", a.Health),
			zap.Float64("mood", a.Mood),
			zap.String("mood_label", a.MoodLabel),
			zap.String("carrying", a.Carrying),
		)
	}
}
