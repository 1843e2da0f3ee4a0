package workers

import (
	"context"
	"log/slog"
	"time"

	"draw-lab/observability"
	"draw-lab/runtime"
)

// ReporterWorker periodically logs room occupancy and refreshes the gauges,
// so an idle server still shows a truthful /metrics without waiting for the
// next join.
type ReporterWorker struct {
	log      *slog.Logger
	interval time.Duration
	rooms    *runtime.Rooms
	registry *runtime.Registry
}

func NewReporterWorker(log *slog.Logger, interval time.Duration,
	rooms *runtime.Rooms, registry *runtime.Registry) *ReporterWorker {
	return &ReporterWorker{
		log:      log,
		interval: interval,
		rooms:    rooms,
		registry: registry,
	}
}

func (w *ReporterWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			rooms := w.rooms.Count()
			sessions := w.registry.SessionCount()
			observability.SetRooms(rooms)
			w.log.Debug("occupancy", "rooms", rooms, "sessions", sessions)
		}
	}
}
