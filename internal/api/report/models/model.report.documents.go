// Package models chứa mô tả document đọc từ các collection báo cáo.
// Dữ liệu không có schema cố định nên document được trả nguyên trạng sau khi project.
package models

import "go.mongodb.org/mongo-driver/bson"

// Document là một document đã project, giữ nguyên kiểu giá trị lưu trong DB
type Document = bson.M

// CustomerFeedbackFields là các field của customerFeedback được trả về cho client (bỏ _id và date)
var CustomerFeedbackFields = []string{
	"region", "customer", "salesperson", "salesAmount", "category", "product",
	"channel", "rating", "feedbackSentiment", "feedbackStatus", "feedbackSource",
}

// MonthlySaleFields là các field của sales được trả về khi xem theo tháng.
// Ngoài ra _id đổi tên thành id và month là tên tháng tiếng Anh.
var MonthlySaleFields = []string{
	"region", "product", "category", "customer", "salesperson", "channel", "amount",
}
