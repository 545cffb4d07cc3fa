// Package jobs runs recurring background tasks on a cron schedule.
package jobs

import (
	"expvar"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"duo-casino/internal/room"
)

var (
	metricStatsRooms      = expvar.NewInt("stats_rooms")
	metricStatsSeated     = expvar.NewInt("stats_seated")
	metricStatsSpectators = expvar.NewInt("stats_spectators")
	metricStatsRoundsLive = expvar.NewInt("stats_bj_rounds_live")
	metricStatsRuns       = expvar.NewInt("stats_runs_total")
)

// StatsSource is satisfied by *room.Registry.
type StatsSource interface {
	Stats() room.Stats
}

// Reporter snapshots registry stats into expvar and the log on a schedule.
type Reporter struct {
	src  StatsSource
	cron *cron.Cron

	mu   sync.Mutex
	last room.Stats
}

func NewReporter(src StatsSource) *Reporter {
	return &Reporter{src: src, cron: cron.New()}
}

// Start schedules the report. An empty or "off" schedule leaves the reporter idle.
func (r *Reporter) Start(schedule string) error {
	if schedule == "" || schedule == "off" {
		log.Info().Msg("stats_reporter_disabled")
		return nil
	}
	if _, err := r.cron.AddFunc(schedule, r.Report); err != nil {
		return fmt.Errorf("stats schedule %q: %w", schedule, err)
	}
	r.cron.Start()
	log.Info().Str("schedule", schedule).Msg("stats_reporter_started")
	return nil
}

// Stop waits for a running report to finish.
func (r *Reporter) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
}

// Report takes one snapshot.
func (r *Reporter) Report() {
	s := r.src.Stats()
	metricStatsRooms.Set(int64(s.Rooms))
	metricStatsSeated.Set(int64(s.Seated))
	metricStatsSpectators.Set(int64(s.Spectators))
	metricStatsRoundsLive.Set(int64(s.RoundsLive))
	metricStatsRuns.Add(1)

	r.mu.Lock()
	r.last = s
	r.mu.Unlock()

	log.Info().
		Int("rooms", s.Rooms).
		Int("seated", s.Seated).
		Int("spectators", s.Spectators).
		Int("bj_rounds_live", s.RoundsLive).
		Int("ledger_rooms", s.LedgerRooms).
		Msg("room_stats")
}

func (r *Reporter) Last() room.Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}
