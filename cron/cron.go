package cron

import (
	"context"
	"time"

	"github.com/jasonlvhit/gocron"
	"github.com/rs/zerolog/log"

	"users-backend/db"
)

const pingTimeout = 5 * time.Second

// PoolMonitor pings the pool on a schedule and logs its statistics.
type PoolMonitor struct {
	pool      *db.Pool
	scheduler *gocron.Scheduler
	stopped   chan bool
}

// Start schedules the monitor every interval. It returns nil when interval
// is below one second, which disables monitoring.
func Start(pool *db.Pool, interval time.Duration) *PoolMonitor {
	seconds := uint64(interval / time.Second)
	if seconds == 0 {
		return nil
	}

	m := &PoolMonitor{pool: pool, scheduler: gocron.NewScheduler()}
	m.scheduler.Every(seconds).Seconds().Do(m.Check)
	m.stopped = m.scheduler.Start()
	log.Info().Dur("interval", interval).Msg("Pool monitor started")
	return m
}

// Check pings the database once and logs the pool statistics.
func (m *PoolMonitor) Check() {
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	stats := m.pool.Stats()
	event := log.Debug()
	if err := m.pool.Ping(ctx); err != nil {
		event = log.Warn().Err(err)
	}
	event.
		Int("open_connections", stats.OpenConnections).
		Int("in_use", stats.InUse).
		Int("idle", stats.Idle).
		Int64("wait_count", stats.WaitCount).
		Dur("wait_duration", stats.WaitDuration).
		Msg("Pool status")
}

func (m *PoolMonitor) Stop() {
	if m == nil {
		return
	}
	m.scheduler.Clear()
	m.stopped <- true
}
