package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	reportsvc "apre_report/internal/api/report/service"
	"apre_report/internal/database"
	"apre_report/internal/global"
	"apre_report/internal/logger"
	"apre_report/internal/worker"
)

// mongoPinger ping kết nối MongoDB toàn cục cho health check
type mongoPinger struct{}

func (mongoPinger) Ping(ctx context.Context) error {
	return global.MongoDB_Session.Ping(ctx, nil)
}

// initLogger khởi tạo logger, cấu hình đọc từ biến môi trường LOG_*
func initLogger() {
	if err := logger.Init(nil); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	logger.GetAppLogger().Info("Logger system initialized successfully")
}

// startOptionsWarmup chạy worker làm mới cache danh sách filter khi có Redis
func startOptionsWarmup(ctx context.Context) {
	log := logger.GetAppLogger()
	cfg := global.MongoDB_ServerConfig
	if global.Redis_Session == nil || cfg.OptionsWarmupInterval <= 0 {
		log.Info("[OPTIONS_WARMUP] Worker disabled")
		return
	}

	svc, err := reportsvc.NewReportService()
	if err != nil {
		log.WithError(err).Error("Failed to create report service, continuing without options warmup")
		return
	}
	w := worker.NewOptionsWarmupWorker(svc, time.Duration(cfg.OptionsWarmupInterval)*time.Second)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.WithField("panic", r).Error("[OPTIONS_WARMUP] Worker goroutine panic")
			}
		}()
		w.Start(ctx)
	}()
}

// main_thread khởi tạo và chạy Fiber server cho tới khi nhận SIGINT/SIGTERM
func main_thread(ctx context.Context) {
	log := logger.GetAppLogger()

	app, err := InitFiberApp()
	if err != nil {
		log.Fatalf("Failed to initialize Fiber app: %v", err)
	}

	go func() {
		<-ctx.Done()
		log.Info("Shutting down server...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.WithError(err).Error("Error during server shutdown")
		}
	}()

	address := ":" + global.MongoDB_ServerConfig.Address
	log.WithFields(map[string]interface{}{
		"address":  address,
		"protocol": "HTTP",
	}).Info("Starting server with HTTP")

	if err := app.Listen(address); err != nil {
		log.Fatalf("Error in Fiber Listen: %v", err)
	}
}

// Hàm main
func main() {
	initLogger()
	InitGlobal()
	InitRegistry()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startOptionsWarmup(ctx)
	main_thread(ctx)
	closeResources()
}

// closeResources đóng Redis, bỏ đăng ký collections rồi ngắt kết nối MongoDB
func closeResources() {
	log := logger.GetAppLogger()
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if count, err := global.RegistryCollections.ClearAll(nil); err != nil {
		log.WithError(err).Warn("Failed to clear collection registry")
	} else {
		log.WithField("count", count).Debug("Cleared collection registry")
	}
	_ = database.CloseInstance(global.MongoDB_Session)
}
