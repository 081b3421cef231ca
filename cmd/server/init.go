package main

import (
	"context"
	"time"

	"apre_report/config"
	"apre_report/internal/database"
	"apre_report/internal/global"

	"github.com/sirupsen/logrus"
)

// redisClient giữ wrapper Redis để health check và đóng khi tắt server
var redisClient *database.RedisClient

// Hàm khởi tạo các biến toàn cục
func InitGlobal() {
	initValidator()        // Khởi tạo validator
	initConfig()           // Khởi tạo cấu hình server
	initDatabase_MongoDB() // Khởi tạo kết nối database
	initRedis()            // Khởi tạo Redis cache (nếu cấu hình)
}

// Hàm khởi tạo validator (đăng ký custom validators: month_number, report_date)
func initValidator() {
	global.InitValidator()
	logrus.Info("Initialized validator")
}

// Hàm khởi tạo cấu hình server
func initConfig() {
	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatalf("Failed to initialize config: %v", err)
	}
	global.MongoDB_ServerConfig = cfg
	logrus.Info("Initialized server config")
}

// Hàm khởi tạo kết nối database
func initDatabase_MongoDB() {
	client, err := database.GetInstance(global.MongoDB_ServerConfig)
	if err != nil {
		logrus.Fatalf("Failed to initialize MongoDB: %v", err)
	}
	global.MongoDB_Session = client
	logrus.Info("Initialized MongoDB")
}

// Hàm khởi tạo Redis. Không cấu hình hoặc không kết nối được thì chạy không cache.
func initRedis() {
	c, err := database.NewRedis(global.MongoDB_ServerConfig)
	if err != nil || c == nil {
		logrus.Info("Redis not configured, options cache disabled")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := c.Ping(ctx); err != nil {
		logrus.Warnf("Redis unavailable, options cache disabled: %v", err)
		_ = c.Close()
		return
	}

	redisClient = c
	global.Redis_Session = c.Client
	logrus.Info("Initialized Redis options cache")
}
