package reportsvc

import (
	"time"

	"apre_report/internal/api/report/models"
	"apre_report/internal/global"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Các hàm Build* chỉ dựng pipeline, không truy cập DB.

// BuildCallDurationByDateRangePipeline: lọc date trong [start, end] → join agents →
// tổng callDuration theo tên agent → gom thành 2 mảng song song agents / callDurations.
func BuildCallDurationByDateRangePipeline(start, end time.Time) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{
			{Key: "date", Value: bson.D{{Key: "$gte", Value: start}, {Key: "$lte", Value: end}}},
		}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: global.MongoDB_ColNames.Agents},
			{Key: "localField", Value: "agentId"},
			{Key: "foreignField", Value: "agentId"},
			{Key: "as", Value: "agentDetails"},
		}}},
		{{Key: "$unwind", Value: "$agentDetails"}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$agentDetails.name"},
			{Key: "totalCallDuration", Value: bson.D{{Key: "$sum", Value: "$callDuration"}}},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "agent", Value: "$_id"},
			{Key: "totalCallDuration", Value: 1},
		}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "agents", Value: bson.D{{Key: "$push", Value: "$agent"}}},
			{Key: "callDurations", Value: bson.D{{Key: "$push", Value: "$totalCallDuration"}}},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "agents", Value: 1},
			{Key: "callDurations", Value: 1},
		}}},
	}
}

// BuildPerformanceByTeamPipeline: lọc team → self-join theo agentId (giữ dòng không khớp) →
// group theo (team, region, callDuration, resolutionTime) để loại trùng → sort callDuration giảm dần.
func BuildPerformanceByTeamPipeline(team string) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "team", Value: team}}}},
		{{Key: "$project", Value: bson.D{
			{Key: "agentId", Value: 1},
			{Key: "team", Value: 1},
			{Key: "region", Value: 1},
			{Key: "callDuration", Value: 1},
			{Key: "resolutionTime", Value: 1},
		}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: global.MongoDB_ColNames.AgentPerformance},
			{Key: "localField", Value: "agentId"},
			{Key: "foreignField", Value: "agentId"},
			{Key: "as", Value: "performanceData"},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$performanceData"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{
				{Key: "team", Value: "$team"},
				{Key: "region", Value: "$region"},
				{Key: "callDuration", Value: "$callDuration"},
				{Key: "resolutionTime", Value: "$resolutionTime"},
			}},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "team", Value: "$_id.team"},
			{Key: "region", Value: "$_id.region"},
			{Key: "callDuration", Value: "$_id.callDuration"},
			{Key: "resolutionTime", Value: "$_id.resolutionTime"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "callDuration", Value: -1}}}},
	}
}

// BuildChannelRatingByMonthPipeline: chuẩn hoá date → trung bình rating theo (channel, tháng) →
// giữ tháng cần xem → gom theo channel rồi gom tất cả thành channels / ratingAvg.
// ratingAvg là mảng lồng: mỗi channel một mảng (thường 1 phần tử).
func BuildChannelRatingByMonthPipeline(month int) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$addFields", Value: bson.D{
			{Key: "date", Value: bson.D{{Key: "$toDate", Value: "$date"}}},
		}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{
				{Key: "channel", Value: "$channel"},
				{Key: "month", Value: bson.D{{Key: "$month", Value: "$date"}}},
			}},
			{Key: "ratingAvg", Value: bson.D{{Key: "$avg", Value: "$rating"}}},
		}}},
		{{Key: "$match", Value: bson.D{{Key: "_id.month", Value: month}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$_id.channel"},
			{Key: "ratingAvg", Value: bson.D{{Key: "$push", Value: "$ratingAvg"}}},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "channel", Value: "$_id"},
			{Key: "ratingAvg", Value: 1},
		}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "channels", Value: bson.D{{Key: "$push", Value: "$channel"}}},
			{Key: "ratingAvg", Value: bson.D{{Key: "$push", Value: "$ratingAvg"}}},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "channels", Value: 1},
			{Key: "ratingAvg", Value: 1},
		}}},
	}
}

// FeedbackByRegionFilter trả về filter và projection cho find customerFeedback theo region
func FeedbackByRegionFilter(region string) (filter bson.D, projection bson.D) {
	filter = bson.D{{Key: "region", Value: region}}
	projection = bson.D{{Key: "_id", Value: 0}}
	for _, f := range models.CustomerFeedbackFields {
		projection = append(projection, bson.E{Key: f, Value: 1})
	}
	return filter, projection
}

// BuildSalesByRegionPipeline: lọc region → tổng amount theo salesperson → sort salesperson tăng dần.
func BuildSalesByRegionPipeline(region string) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "region", Value: region}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$salesperson"},
			{Key: "totalSales", Value: bson.D{{Key: "$sum", Value: "$amount"}}},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "salesperson", Value: "$_id"},
			{Key: "totalSales", Value: 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "salesperson", Value: 1}}}},
	}
}

// BuildSalesByMonthPipeline: lọc theo tháng của date → project các field bán hàng,
// _id đổi thành id và month là tên tháng tiếng Anh (August...).
func BuildSalesByMonthPipeline(month int) mongo.Pipeline {
	project := bson.D{
		{Key: "_id", Value: 0},
		{Key: "id", Value: "$_id"},
		{Key: "month", Value: bson.D{{Key: "$literal", Value: time.Month(month).String()}}},
	}
	for _, f := range models.MonthlySaleFields {
		project = append(project, bson.E{Key: f, Value: 1})
	}

	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{
			{Key: "$expr", Value: bson.D{
				{Key: "$eq", Value: bson.A{bson.D{{Key: "$month", Value: "$date"}}, month}},
			}},
		}}},
		{{Key: "$project", Value: project}},
	}
}

// BuildSalesByRegionAndProductPipeline: lọc region + product → project → sort salesperson tăng dần.
func BuildSalesByRegionAndProductPipeline(region, product string) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{
			{Key: "region", Value: region},
			{Key: "product", Value: product},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "region", Value: 1},
			{Key: "salesperson", Value: 1},
			{Key: "product", Value: 1},
			{Key: "amount", Value: 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "salesperson", Value: 1}}}},
	}
}
