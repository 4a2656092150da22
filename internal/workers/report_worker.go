package workers

import (
	"context"
	"time"

	"gorm.io/gorm"

	"phoneadmin_backend/internal/logger"
	"phoneadmin_backend/internal/services"
)

// ReportWorker drains the pending report queue on a ticker.
type ReportWorker struct {
	db            *gorm.DB
	reportService services.ReportService
	interval      time.Duration
}

func NewReportWorker(db *gorm.DB, reportService services.ReportService, interval time.Duration) *ReportWorker {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &ReportWorker{db: db, reportService: reportService, interval: interval}
}

func (w *ReportWorker) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *ReportWorker) run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logger.Info("report worker started", "interval", w.interval.String())

	for {
		select {
		case <-ctx.Done():
			logger.Info("report worker stopped")
			return
		case <-ticker.C:
			// Keep claiming until the queue is empty for this tick.
			for {
				processed, err := w.reportService.ProcessNext(w.db)
				if err != nil {
					logger.Error("report worker iteration failed", "error", err)
					break
				}
				if !processed {
					break
				}
			}
		}
	}
}
