package reportdto

// Các field giá trị dùng any vì DB không ràng buộc kiểu: số có thể là int32, double,
// decimal hoặc chuỗi, và được trả lại cho client đúng như lưu.

// CallDurationByDateRange là kết quả pivot: agents[i] ứng với callDurations[i].
// agents[i] là null khi nhóm có agent null hoặc thiếu.
type CallDurationByDateRange struct {
	Agents        []*string `json:"agents" bson:"agents"`
	CallDurations []any     `json:"callDurations" bson:"callDurations"`
}

// PerformanceByTeamRow một dòng hiệu suất (đã loại trùng theo 4 field)
type PerformanceByTeamRow struct {
	Team           any `json:"team,omitempty" bson:"team,omitempty"`
	Region         any `json:"region,omitempty" bson:"region,omitempty"`
	CallDuration   any `json:"callDuration,omitempty" bson:"callDuration,omitempty"`
	ResolutionTime any `json:"resolutionTime,omitempty" bson:"resolutionTime,omitempty"`
}

// ChannelRatingByMonth là kết quả pivot: ratingAvg[i] là danh sách điểm trung bình của channels[i].
// Phần tử null khi channel không có rating trong tháng, channels[i] null khi channel thiếu.
type ChannelRatingByMonth struct {
	Channels  []*string `json:"channels" bson:"channels"`
	RatingAvg [][]any   `json:"ratingAvg" bson:"ratingAvg"`
}

// SalesByRegionRow tổng doanh số theo salesperson
type SalesByRegionRow struct {
	Salesperson any `json:"salesperson,omitempty" bson:"salesperson,omitempty"`
	TotalSales  any `json:"totalSales" bson:"totalSales"`
}

// SalesByRegionAndProductRow một giao dịch theo region + product
type SalesByRegionAndProductRow struct {
	Region      any `json:"region,omitempty" bson:"region,omitempty"`
	Salesperson any `json:"salesperson,omitempty" bson:"salesperson,omitempty"`
	Product     any `json:"product,omitempty" bson:"product,omitempty"`
	Amount      any `json:"amount,omitempty" bson:"amount,omitempty"`
}
