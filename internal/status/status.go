// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package status probes the services behind the admin API and keeps the
// latest result for the dashboard.
package status

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"directorio/internal/models"
)

const (
	StateOperational = "operational"
	StateDown        = "down"
	LatencyGood      = "good"
	LatencyBad       = "bad"

	// DefaultSchedule is used when Start is given an empty spec.
	DefaultSchedule = "@every 30s"

	// SlowThreshold is the probe duration above which latency is "bad".
	SlowThreshold = 500 * time.Millisecond

	probeTimeout = 5 * time.Second
)

// Probe checks one dependency. A nil error means it is reachable.
type Probe func(ctx context.Context) error

// Probes are the three checks shown on the dashboard.
type Probes struct {
	Database        Probe
	API             Probe
	ContentDelivery Probe
}

// ArticleLister is the query the API probe exercises.
type ArticleLister interface {
	List(ctx context.Context) ([]models.Article, error)
}

// DefaultProbes builds the production checks: SELECT 1 on the database, the
// article list query for the API, and PING on Valkey for content delivery.
func DefaultProbes(db *sql.DB, articles ArticleLister, valkey *redis.Client) Probes {
	return Probes{
		Database: func(ctx context.Context) error {
			var one int
			return db.QueryRowContext(ctx, "SELECT 1").Scan(&one)
		},
		API: func(ctx context.Context) error {
			_, err := articles.List(ctx)
			return err
		},
		ContentDelivery: func(ctx context.Context) error {
			if valkey == nil {
				return fmt.Errorf("valkey not configured")
			}
			return valkey.Ping(ctx).Err()
		},
	}
}

// Monitor runs the probes on a cron schedule and caches the last result.
type Monitor struct {
	probes    Probes
	threshold time.Duration

	mu       sync.RWMutex
	snapshot *models.SystemStatus

	cron *cron.Cron
}

// NewMonitor creates a monitor. No probe runs until Start or Snapshot.
func NewMonitor(probes Probes) *Monitor {
	return &Monitor{probes: probes, threshold: SlowThreshold}
}

// Start schedules periodic checks. An empty spec means DefaultSchedule.
func (m *Monitor) Start(spec string) error {
	if spec == "" {
		spec = DefaultSchedule
	}
	c := cron.New()
	if _, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*probeTimeout)
		defer cancel()
		m.Refresh(ctx)
	}); err != nil {
		return fmt.Errorf("schedule status probes: %w", err)
	}
	c.Start()
	m.cron = c
	slog.Info("status monitor started", "schedule", spec)
	return nil
}

// Stop halts the scheduler and waits for a running check to finish.
func (m *Monitor) Stop() {
	if m.cron == nil {
		return
	}
	<-m.cron.Stop().Done()
}

// Snapshot returns the latest status, probing synchronously when no check
// has completed yet.
func (m *Monitor) Snapshot(ctx context.Context) models.SystemStatus {
	m.mu.RLock()
	s := m.snapshot
	m.mu.RUnlock()
	if s != nil {
		return *s
	}
	return m.Refresh(ctx)
}

// Refresh runs every probe now and stores the result.
func (m *Monitor) Refresh(ctx context.Context) models.SystemStatus {
	s := models.SystemStatus{
		Database:        m.check(ctx, "database", m.probes.Database),
		API:             m.check(ctx, "api", m.probes.API),
		ContentDelivery: m.check(ctx, "contentDelivery", m.probes.ContentDelivery),
	}

	m.mu.Lock()
	m.snapshot = &s
	m.mu.Unlock()
	return s
}

func (m *Monitor) check(ctx context.Context, name string, probe Probe) models.ServiceState {
	if probe == nil {
		return models.ServiceState{Status: StateDown, Latency: LatencyBad}
	}

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	start := time.Now()
	err := probe(ctx)
	elapsed := time.Since(start)

	state := models.ServiceState{Status: StateOperational, Latency: LatencyGood}
	if err != nil {
		slog.Warn("status probe failed", "service", name, "error", err)
		state.Status = StateDown
	}
	if elapsed > m.threshold {
		state.Latency = LatencyBad
	}
	return state
}
