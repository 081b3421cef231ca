package main

import (
	"apre_report/internal/database"
	"apre_report/internal/global"

	"github.com/sirupsen/logrus"
)

// InitRegistry đăng ký các collection báo cáo vào global.RegistryCollections
func InitRegistry() {
	db := global.MongoDB_Session.Database(global.MongoDB_ServerConfig.MongoDB_DBName)
	names := []string{
		global.MongoDB_ColNames.AgentPerformance,
		global.MongoDB_ColNames.Agents,
		global.MongoDB_ColNames.CustomerFeedback,
		global.MongoDB_ColNames.Sales,
	}
	if err := database.RegisterCollections(db, global.RegistryCollections, names...); err != nil {
		logrus.Fatalf("Failed to initialize collections: %v", err)
	}
	logrus.WithField("collections", global.RegistryCollections.Names()).Info("Initialized collection registry")
}
