package global

import (
	"apre_report/config"
	"apre_report/internal/registry"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoDB_Report_CollectionName chứa tên các collection báo cáo trong MongoDB
type MongoDB_Report_CollectionName struct {
	AgentPerformance string // Hiệu suất agent theo cuộc gọi
	Agents           string // Thông tin agent (join theo agentId)
	CustomerFeedback string // Phản hồi khách hàng
	Sales            string // Giao dịch bán hàng
}

// Các biến toàn cục
var Validate *validator.Validate               // Biến để xác thực dữ liệu
var MongoDB_Session *mongo.Client              // Phiên kết nối tới MongoDB
var MongoDB_ServerConfig *config.Configuration // Cấu hình của server
var Redis_Session *redis.Client                // Kết nối Redis cho cache (nil = không cache)

// Tên các collection
var MongoDB_ColNames = MongoDB_Report_CollectionName{
	AgentPerformance: "agentPerformance",
	Agents:           "agents",
	CustomerFeedback: "customerFeedback",
	Sales:            "sales",
}

// Các Registry
var RegistryCollections = registry.NewRegistry[*mongo.Collection]() // Registry chứa các collections
