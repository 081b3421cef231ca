package view

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	reportdto "apre_report/internal/api/report/dto"
	"apre_report/internal/global"
)

// Param là một filter của form báo cáo
type Param struct {
	Name string
	// OptionsPath là endpoint trả về danh sách lựa chọn; rỗng nếu nhập tự do hoặc dùng Options tĩnh
	OptionsPath string
	// Options là danh sách lựa chọn cố định (ví dụ 12 tháng)
	Options []string
	// InPath: giá trị được đặt vào path (:name) thay vì query string
	InPath bool
}

// HasOptions cho biết param chỉ nhận giá trị trong danh sách lựa chọn
func (p Param) HasOptions() bool {
	return p.OptionsPath != "" || len(p.Options) > 0
}

// ChartSpec chọn field làm nhãn và field làm dữ liệu cho biểu đồ
type ChartSpec struct {
	Label      string
	LabelField string
	DataField  string
}

// Definition mô tả một báo cáo: endpoint, filter, cột hiển thị và cách decode
type Definition struct {
	Name    string
	Path    string
	Params  []Param
	Columns []Column
	Title   func(values map[string]string) string
	Chart   *ChartSpec
	// Decode chuyển body thô thành danh sách bản ghi; nil = mảng object
	Decode func(raw json.RawMessage) ([]Record, error)
}

// Headers trả về tên cột theo thứ tự hiển thị
func (d Definition) Headers() []string {
	headers := make([]string, len(d.Columns))
	for i, col := range d.Columns {
		headers[i] = col.Header
	}
	return headers
}

func (d Definition) decode(raw json.RawMessage) ([]Record, error) {
	if d.Decode != nil {
		return d.Decode(raw)
	}
	return decodeRecords(raw)
}

func decodeRecords(raw json.RawMessage) ([]Record, error) {
	var records []Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// decodeCallDuration tách kết quả pivot {agents, callDurations} thành từng dòng theo agent
func decodeCallDuration(raw json.RawMessage) ([]Record, error) {
	var pivot reportdto.CallDurationByDateRange
	if err := json.Unmarshal(raw, &pivot); err != nil {
		return nil, err
	}
	records := make([]Record, 0, len(pivot.Agents))
	for i, agent := range pivot.Agents {
		rec := Record{"agent": derefString(agent)}
		if i < len(pivot.CallDurations) {
			rec["callDuration"] = pivot.CallDurations[i]
		}
		records = append(records, rec)
	}
	return records, nil
}

// decodeChannelRating tách {channels, ratingAvg} thành từng dòng theo channel.
// ratingAvg[i] là một danh sách, giữ nguyên như server trả về.
func decodeChannelRating(raw json.RawMessage) ([]Record, error) {
	var pivot reportdto.ChannelRatingByMonth
	if err := json.Unmarshal(raw, &pivot); err != nil {
		return nil, err
	}
	records := make([]Record, 0, len(pivot.Channels))
	for i, channel := range pivot.Channels {
		rec := Record{"channel": derefString(channel)}
		if i < len(pivot.RatingAvg) {
			avgs := pivot.RatingAvg[i]
			if avgs == nil {
				avgs = []any{}
			}
			rec["ratingAvg"] = avgs
		}
		records = append(records, rec)
	}
	return records, nil
}

// derefString trả về nil cho phần tử null để cột dùng giá trị mặc định
func derefString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// MonthOptions là 12 tháng dạng "1".."12"
func MonthOptions() []string {
	months := make([]string, 12)
	for i := range months {
		months[i] = strconv.Itoa(i + 1)
	}
	return months
}

// MonthName trả về tên tháng tiếng Anh, hoặc chính chuỗi đầu vào nếu không hợp lệ
func MonthName(s string) string {
	if m, ok := global.ParseMonth(s); ok {
		return time.Month(m).String()
	}
	return s
}

const (
	teamsPath           = "/reports/agent-performance/teams"
	feedbackRegionsPath = "/reports/customer-feedback/regions"
	salesRegionsPath    = "/reports/sales/regions"
	productsPath        = "/reports/sales/products"
)

// OptionPaths ánh xạ tên danh sách filter sang endpoint
var OptionPaths = map[string]string{
	"teams":            teamsPath,
	"feedback-regions": feedbackRegionsPath,
	"sales-regions":    salesRegionsPath,
	"products":         productsPath,
}

var definitions = []Definition{
	{
		Name:   "performance-by-team",
		Path:   "/reports/agent-performance/performance-by-team",
		Params: []Param{{Name: "team", OptionsPath: teamsPath}},
		Columns: []Column{
			{Header: "Team", Field: "team", Default: NotAvailable},
			{Header: "Region", Field: "region", Default: NotAvailable},
			{Header: "Call Duration", Field: "callDuration", Default: NotAvailable},
			{Header: "Resolution Time", Field: "resolutionTime", Default: NotAvailable},
		},
		Title: func(v map[string]string) string { return "Performance report for team: " + v["team"] },
	},
	{
		Name:   "call-duration-by-date-range",
		Path:   "/reports/agent-performance/call-duration-by-date-range",
		Params: []Param{{Name: "startDate"}, {Name: "endDate"}},
		Columns: []Column{
			{Header: "Agent", Field: "agent", Default: NotAvailable},
			{Header: "Call Duration", Field: "callDuration", Default: 0},
		},
		Title: func(v map[string]string) string {
			return fmt.Sprintf("Call duration from %s to %s", v["startDate"], v["endDate"])
		},
		Chart:  &ChartSpec{Label: "Call Duration", LabelField: "agent", DataField: "callDuration"},
		Decode: decodeCallDuration,
	},
	{
		Name:   "channel-rating-by-month",
		Path:   "/reports/customer-feedback/channel-rating-by-month",
		Params: []Param{{Name: "month", Options: MonthOptions()}},
		Columns: []Column{
			{Header: "Channel", Field: "channel", Default: NotAvailable},
			{Header: "Rating Average", Field: "ratingAvg", Default: NotAvailable},
		},
		Title:  func(v map[string]string) string { return "Channel ratings for " + MonthName(v["month"]) },
		Decode: decodeChannelRating,
	},
	{
		Name:   "customer-feedback-by-region",
		Path:   "/reports/customer-feedback/customer-feedback-by-region",
		Params: []Param{{Name: "region", OptionsPath: feedbackRegionsPath}},
		Columns: []Column{
			{Header: "Region", Field: "region", Default: NotAvailable},
			{Header: "Customer", Field: "customer", Default: NotAvailable},
			{Header: "Sales Person", Field: "salesperson", Default: NotAvailable},
			{Header: "Sales Amount", Field: "salesAmount", Default: NotAvailable},
			{Header: "Category", Field: "category", Default: NotAvailable},
			{Header: "Product", Field: "product", Default: NotAvailable},
			{Header: "Channel", Field: "channel", Default: NotAvailable},
			{Header: "Rating", Field: "rating", Default: NotAvailable},
			{Header: "Feedback Sentiment", Field: "feedbackSentiment", Default: NotAvailable},
			{Header: "Feedback Status", Field: "feedbackStatus", Default: NotAvailable},
			{Header: "Feedback Source", Field: "feedbackSource", Default: NotAvailable},
		},
		Title: func(v map[string]string) string { return "Customer feedback for region: " + v["region"] },
	},
	{
		Name:   "sales-by-region",
		Path:   "/reports/sales/regions/:region",
		Params: []Param{{Name: "region", OptionsPath: salesRegionsPath, InPath: true}},
		Columns: []Column{
			{Header: "Sales Person", Field: "salesperson", Default: NotAvailable},
			{Header: "Total Sales", Field: "totalSales", Default: 0},
		},
		Title: func(v map[string]string) string { return "Sales for region: " + v["region"] },
		Chart: &ChartSpec{Label: "Sales by Region", LabelField: "salesperson", DataField: "totalSales"},
	},
	{
		Name:   "sales-by-month",
		Path:   "/reports/sales/sales-by-month",
		Params: []Param{{Name: "month", Options: MonthOptions()}},
		Columns: []Column{
			{Header: "Region", Field: "region", Default: NotAvailable},
			{Header: "Product", Field: "product", Default: NotAvailable},
			{Header: "Category", Field: "category", Default: NotAvailable},
			{Header: "Customer", Field: "customer", Default: NotAvailable},
			{Header: "Sales Person", Field: "salesperson", Default: NotAvailable},
			{Header: "Channel", Field: "channel", Default: NotAvailable},
			{Header: "Amount", Field: "amount", Default: 0},
		},
		Title: func(v map[string]string) string { return "Sales for " + MonthName(v["month"]) },
	},
	{
		Name: "sales-by-region-and-product",
		Path: "/reports/sales/sales-by-region-and-product",
		Params: []Param{
			{Name: "region", OptionsPath: salesRegionsPath},
			{Name: "product", OptionsPath: productsPath},
		},
		Columns: []Column{
			{Header: "Region", Field: "region", Default: NotAvailable},
			{Header: "Sales Person", Field: "salesperson", Default: NotAvailable},
			{Header: "Product", Field: "product", Default: NotAvailable},
			{Header: "Total Sales", Field: "amount", Default: 0},
		},
		Title: func(v map[string]string) string {
			return "Sales Report for " + v["region"] + " Region " + v["product"]
		},
		Chart: &ChartSpec{Label: "Sales by Region and Product", LabelField: "salesperson", DataField: "amount"},
	},
}

// Definitions trả về bản sao danh sách báo cáo
func Definitions() []Definition {
	out := make([]Definition, len(definitions))
	copy(out, definitions)
	return out
}

// DefinitionNames trả về tên các báo cáo theo thứ tự alphabet
func DefinitionNames() []string {
	names := make([]string, len(definitions))
	for i, d := range definitions {
		names[i] = d.Name
	}
	sort.Strings(names)
	return names
}

// Lookup tìm báo cáo theo tên
func Lookup(name string) (Definition, bool) {
	for _, d := range definitions {
		if d.Name == name {
			return d, true
		}
	}
	return Definition{}, false
}
