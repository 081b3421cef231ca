package worker

import (
	"context"
	"time"

	"apre_report/internal/logger"
	"apre_report/internal/metrics"
)

// OptionsWarmer làm mới cache danh sách filter
type OptionsWarmer interface {
	WarmOptions(ctx context.Context) error
}

// OptionsWarmupWorker làm mới cache danh sách filter (teams, regions, products) theo chu kỳ.
type OptionsWarmupWorker struct {
	warmer   OptionsWarmer
	interval time.Duration
}

// NewOptionsWarmupWorker tạo worker. interval < 10 giây được đưa về 4 phút.
func NewOptionsWarmupWorker(warmer OptionsWarmer, interval time.Duration) *OptionsWarmupWorker {
	if interval < 10*time.Second {
		interval = 4 * time.Minute
	}
	return &OptionsWarmupWorker{warmer: warmer, interval: interval}
}

// Start chạy một lần ngay rồi lặp mỗi interval cho tới khi ctx bị huỷ
func (w *OptionsWarmupWorker) Start(ctx context.Context) {
	log := logger.WithModule("worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log.WithField("interval", w.interval.String()).Info("[OPTIONS_WARMUP] Starting Options Warmup Worker...")

	w.RunOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			log.Info("[OPTIONS_WARMUP] Options Warmup Worker stopped")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce làm mới cache một lần. Panic và lỗi chỉ được log, lần chạy sau vẫn tiếp tục.
func (w *OptionsWarmupWorker) RunOnce(ctx context.Context) {
	log := logger.WithModule("worker")
	defer func() {
		if r := recover(); r != nil {
			metrics.WarmupRuns.WithLabelValues(metrics.OutcomeError).Inc()
			log.WithField("panic", r).Error("[OPTIONS_WARMUP] Panic khi làm mới cache, sẽ tiếp tục ở lần chạy tiếp theo")
		}
	}()

	if err := w.warmer.WarmOptions(ctx); err != nil {
		metrics.WarmupRuns.WithLabelValues(metrics.OutcomeError).Inc()
		log.WithError(err).Warn("[OPTIONS_WARMUP] Làm mới cache chưa hoàn tất")
		return
	}
	metrics.WarmupRuns.WithLabelValues(metrics.OutcomeOK).Inc()
	log.Debug("[OPTIONS_WARMUP] Đã làm mới cache danh sách filter")
}
