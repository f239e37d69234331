package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"netcheck/internal/models"
)

// DefaultInterval is used when no positive check interval is configured.
const DefaultInterval = 60 * time.Second

const timestampLayout = "2006-01-02 15:04:05"

// Sink receives every cycle record produced by the monitor.
type Sink interface {
	Record(models.CycleRecord)
}

// Ticker delivers ticks on C until stopped.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct {
	t *time.Ticker
}

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

func newTimeTicker(d time.Duration) Ticker {
	return timeTicker{t: time.NewTicker(d)}
}

// Monitor runs diagnosis cycles at a fixed interval.
type Monitor struct {
	engine   *Engine
	interval time.Duration
	logger   logrus.FieldLogger
	sinks    []Sink

	newTicker func(time.Duration) Ticker
	now       func() time.Time
}

// New creates a monitor that logs to logger and forwards records to sinks.
func New(engine *Engine, interval time.Duration, logger logrus.FieldLogger, sinks ...Sink) *Monitor {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Monitor{
		engine:    engine,
		interval:  interval,
		logger:    logger,
		sinks:     sinks,
		newTicker: newTimeTicker,
		now:       time.Now,
	}
}

// Run executes a cycle immediately and then once per interval until ctx is
// cancelled. A panic escaping a cycle is logged and returned as an error.
func (m *Monitor) Run(ctx context.Context) (err error) {
	m.logger.Info("Starting internet monitoring...")
	m.logger.Infof("Check interval: %d seconds", int(m.interval/time.Second))
	if !m.notificationEnabled() {
		m.logger.Warnf("Notification bot token not set. Checking only %s and %s", BaselineA, BaselineB)
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("monitor: %v", r)
			m.logger.Errorf("Critical error: %v", r)
		}
	}()

	if ctx.Err() == nil {
		m.RunOnce(ctx)
	}

	ticker := m.newTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C():
			m.RunOnce(ctx)
		case <-ctx.Done():
			m.logger.Info("Monitoring stopped by user")
			return nil
		}
	}
}

// RunOnce executes a single cycle, logs it and forwards it to the sinks.
// A cycle interrupted by ctx cancellation is discarded and reported as false.
func (m *Monitor) RunOnce(ctx context.Context) (models.CycleRecord, bool) {
	started := m.now()
	m.logger.Infof("--- Check at %s ---", started.Format(timestampLayout))

	results, verdict := m.engine.RunCycle(ctx)
	if ctx.Err() != nil {
		m.logger.Debug("check cycle interrupted by shutdown; results discarded")
		return models.CycleRecord{}, false
	}
	record := models.CycleRecord{
		ID:        uuid.NewString(),
		CheckedAt: started.UTC(),
		Results:   results,
		Verdict:   verdict,
	}

	for _, r := range results {
		mark := "✗"
		if r.Result.Success {
			mark = "✓"
		}
		m.logger.Infof("%s: %s %s", r.Name, mark, r.Result.Detail)
	}
	if verdict.InternetUp {
		m.logger.Infof("RESULT: %s", verdict.Message)
	} else {
		m.logger.Errorf("RESULT: %s", verdict.Message)
	}

	for _, s := range m.sinks {
		s.Record(record)
	}
	return record, true
}

func (m *Monitor) notificationEnabled() bool {
	for _, e := range m.engine.Endpoints() {
		if e.Name == Notification {
			return true
		}
	}
	return false
}
