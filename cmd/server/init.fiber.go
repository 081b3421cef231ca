package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"apre_report/config"
	basehdl "apre_report/internal/api/base/handler"
	"apre_report/internal/api/middleware"
	reportrouter "apre_report/internal/api/report/router"
	apirouter "apre_report/internal/api/router"
	"apre_report/internal/common"
	"apre_report/internal/global"
	"apre_report/internal/logger"
	"apre_report/internal/metrics"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/google/uuid"
)

// InitFiberApp khởi tạo ứng dụng Fiber từ cấu hình và kết nối toàn cục
func InitFiberApp() (*fiber.App, error) {
	var cachePinger basehdl.Pinger
	if redisClient != nil {
		cachePinger = redisClient
	}
	var dbPinger basehdl.Pinger
	if global.MongoDB_Session != nil {
		dbPinger = mongoPinger{}
	}
	return newFiberApp(global.MongoDB_ServerConfig, basehdl.NewSystemHandler(dbPinger, cachePinger), reportrouter.Register)
}

// errorHandler trả envelope lỗi thống nhất cho lỗi không được handler xử lý (404, 405, panic, bind...)
func errorHandler(c fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		errorCode := common.ErrCodeInternalServer.Code
		switch {
		case fe.Code == fiber.StatusNotFound:
			errorCode = common.ErrCodeNotFound.Code
		case fe.Code >= 400 && fe.Code < 500:
			errorCode = common.ErrCodeValidationInput.Code
		}
		if fe.Code >= fiber.StatusInternalServerError {
			logger.WithRequest(c).WithError(err).Error("Request error")
		}
		return middleware.JSONResponse(c, fe.Code, middleware.ErrorBody(errorCode, fe.Message))
	}
	return middleware.HandleErrorResponse(c, err)
}

// newFiberApp dựng app với middleware stack, /health, /metrics và các domain router
func newFiberApp(cfg *config.Configuration, system *basehdl.SystemHandler, regs ...apirouter.RegisterFunc) (*fiber.App, error) {
	app := fiber.New(fiber.Config{
		AppName:       "APRE Reports API",
		ServerHeader:  "APRE Reports API",
		StrictRouting: false,
		CaseSensitive: true,
		UnescapePath:  true,

		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,

		ErrorHandler: errorHandler,
	})

	// 1. Request ID - trace theo request
	app.Use(requestid.New(requestid.Config{
		Header:    "X-Request-ID",
		Generator: func() string { return uuid.NewString() },
	}))

	// 2. Metrics
	app.Use(middleware.MetricsMiddleware())

	// 3. CORS
	allowOrigins := []string{"*"}
	if cfg.CORS_Origins != "" && cfg.CORS_Origins != "*" {
		allowOrigins = strings.Split(cfg.CORS_Origins, ",")
		for i, origin := range allowOrigins {
			allowOrigins[i] = strings.TrimSpace(origin)
		}
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		AllowCredentials: cfg.CORS_AllowCredentials,
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		MaxAge:           24 * 60 * 60,
	}))

	// 4. Rate limiting (bỏ qua health, metrics và preflight)
	if cfg.RateLimit_Enabled && cfg.RateLimit_Max > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimit_Max,
			Expiration: time.Duration(cfg.RateLimit_Window) * time.Second,
			KeyGenerator: func(c fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c fiber.Ctx) error {
				return middleware.JSONResponse(c, common.StatusTooManyRequests,
					middleware.ErrorBody(common.ErrCodeValidationInput.Code, "Too many requests, please try again later"))
			},
			Next: func(c fiber.Ctx) bool {
				return c.Path() == "/health" || c.Path() == "/metrics" || c.Method() == "OPTIONS"
			},
		}))
		logger.GetAppLogger().Infof("Rate limiting enabled: %d requests per %d seconds", cfg.RateLimit_Max, cfg.RateLimit_Window)
	} else {
		logger.GetAppLogger().Info("Rate limiting disabled")
	}

	// 5. Recover - panic được chuyển thành lỗi 500 qua ErrorHandler
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e interface{}) {
			logger.WithRequest(c).WithField("panic", e).Error("Panic recovered")
		},
	}))

	app.Get("/health", system.HandleHealth)
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	if err := apirouter.SetupRoutes(app, regs...); err != nil {
		return nil, fmt.Errorf("setup routes: %w", err)
	}
	return app, nil
}
