package view

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"apre_report/internal/logger"

	"github.com/sirupsen/logrus"
)

// ErrInvalidSelection: form chưa hợp lệ (thiếu giá trị hoặc giá trị ngoài danh sách lựa chọn)
var ErrInvalidSelection = errors.New("invalid report selection")

// State là trạng thái của một view báo cáo
type State int

const (
	StateIdle State = iota
	StateOptionsLoaded
	StateSubmitted
	StateDisplayed
)

func (s State) String() string {
	switch s {
	case StateOptionsLoaded:
		return "options_loaded"
	case StateSubmitted:
		return "submitted"
	case StateDisplayed:
		return "displayed"
	}
	return "idle"
}

// ChartSeries là dữ liệu biểu đồ lấy từ bản ghi gốc
type ChartSeries struct {
	Label  string   `json:"label" yaml:"label"`
	Labels []string `json:"labels" yaml:"labels"`
	Values []any    `json:"values" yaml:"values"`
}

// Table là kết quả hiển thị của một lần submit
type Table struct {
	Report  string       `json:"report" yaml:"report"`
	Title   string       `json:"title" yaml:"title"`
	Headers []string     `json:"headers" yaml:"headers"`
	Rows    []Row        `json:"rows" yaml:"rows"`
	Chart   *ChartSeries `json:"chart,omitempty" yaml:"chart,omitempty"`
}

// FilteredReport quản lý vòng đời form filter và dữ liệu hiển thị của một báo cáo.
// Không an toàn khi dùng đồng thời.
type FilteredReport struct {
	def     Definition
	fetcher Fetcher
	policy  FallbackPolicy
	log     *logrus.Entry

	state   State
	options map[string][]string
	table   *Table
}

// NewFilteredReport tạo view ở trạng thái Idle
func NewFilteredReport(def Definition, fetcher Fetcher, policy FallbackPolicy) *FilteredReport {
	return &FilteredReport{
		def:     def,
		fetcher: fetcher,
		policy:  policy,
		log:     logger.WithModule("view").WithField("report", def.Name),
		state:   StateIdle,
		options: make(map[string][]string),
	}
}

// State trả về trạng thái hiện tại
func (r *FilteredReport) State() State { return r.state }

// Definition trả về định nghĩa báo cáo
func (r *FilteredReport) Definition() Definition { return r.def }

// Table trả về bảng đang hiển thị, nil nếu chưa submit
func (r *FilteredReport) Table() *Table { return r.table }

// Options trả về danh sách lựa chọn đã tải của param
func (r *FilteredReport) Options(param string) []string {
	return r.options[param]
}

// LoadOptions tải danh sách lựa chọn cho các param. Lỗi chỉ được log,
// danh sách tương ứng để rỗng và không thử lại.
func (r *FilteredReport) LoadOptions(ctx context.Context) {
	for _, p := range r.def.Params {
		switch {
		case len(p.Options) > 0:
			r.options[p.Name] = append([]string(nil), p.Options...)
		case p.OptionsPath != "":
			var values []string
			if err := r.fetcher.GetJSON(ctx, p.OptionsPath, nil, &values); err != nil {
				r.log.WithError(err).WithField("param", p.Name).Error("Error fetching options")
				values = nil
			}
			if values == nil {
				values = []string{}
			}
			r.options[p.Name] = values
		}
	}
	r.state = StateOptionsLoaded
}

// Validate kiểm tra form: mọi param bắt buộc, param có danh sách lựa chọn phải chọn trong danh sách
func (r *FilteredReport) Validate(values map[string]string) error {
	for _, p := range r.def.Params {
		v := strings.TrimSpace(values[p.Name])
		if v == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidSelection, p.Name)
		}
		if !p.HasOptions() {
			continue
		}
		if !contains(r.options[p.Name], v) {
			return fmt.Errorf("%w: %s %q is not an available option", ErrInvalidSelection, p.Name, v)
		}
	}
	return nil
}

// Submit gửi truy vấn và thay bảng đang hiển thị bằng kết quả mới.
// Form không hợp lệ trả ErrInvalidSelection và không gọi API.
// Lỗi khi lấy dữ liệu chỉ được log, bảng được đặt về rỗng.
func (r *FilteredReport) Submit(ctx context.Context, values map[string]string) (*Table, error) {
	if err := r.Validate(values); err != nil {
		return nil, err
	}

	r.state = StateSubmitted
	path, query := r.buildRequest(values)
	table := &Table{
		Report:  r.def.Name,
		Title:   r.def.Title(values),
		Headers: r.def.Headers(),
		Rows:    []Row{},
	}

	records, err := r.fetch(ctx, path, query)
	if err != nil {
		r.log.WithError(err).Error("Error fetching data from server")
	} else {
		table.Rows = Transform(records, r.def.Columns, r.policy)
		if r.def.Chart != nil {
			table.Chart = chartSeries(*r.def.Chart, records)
		}
	}

	r.table = table
	r.state = StateDisplayed
	return table, nil
}

func (r *FilteredReport) fetch(ctx context.Context, path string, query url.Values) ([]Record, error) {
	var raw json.RawMessage
	if err := r.fetcher.GetJSON(ctx, path, query, &raw); err != nil {
		return nil, err
	}
	records, err := r.def.decode(raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", r.def.Name, err)
	}
	return records, nil
}

func (r *FilteredReport) buildRequest(values map[string]string) (string, url.Values) {
	path := r.def.Path
	query := url.Values{}
	for _, p := range r.def.Params {
		v := strings.TrimSpace(values[p.Name])
		if p.InPath {
			path = strings.Replace(path, ":"+p.Name, url.PathEscape(v), 1)
			continue
		}
		query.Set(p.Name, v)
	}
	return path, query
}

// chartSeries lấy nhãn và dữ liệu từ bản ghi gốc, không áp dụng giá trị mặc định
func chartSeries(spec ChartSpec, records []Record) *ChartSeries {
	series := &ChartSeries{
		Label:  spec.Label,
		Labels: make([]string, 0, len(records)),
		Values: make([]any, 0, len(records)),
	}
	for _, rec := range records {
		label := ""
		if v, ok := rec[spec.LabelField]; ok && v != nil {
			label = fmt.Sprint(v)
		}
		series.Labels = append(series.Labels, label)
		series.Values = append(series.Values, rec[spec.DataField])
	}
	return series
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
