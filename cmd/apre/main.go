// Command apre là client dòng lệnh cho API báo cáo APRE.
//
//	apre options teams
//	apre report performance-by-team --param team=Test
//	apre report sales-by-month --param month=8 --output yaml
//	apre reports
//
// Biến môi trường APRE_BASE_URL thay cho --base-url.
package main

import (
	"fmt"
	"os"

	"apre_report/internal/logger"
)

func main() {
	cfg := logger.DefaultConfig()
	if os.Getenv("LOG_OUTPUT") == "" {
		cfg.Output = "stderr"
	}
	if os.Getenv("LOG_LEVEL") == "" {
		cfg.Level = "warn"
	}
	if err := logger.Init(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	if err := buildRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
