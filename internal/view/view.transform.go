package view

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// FallbackPolicy quyết định khi nào một field được coi là thiếu và bị thay bằng giá trị mặc định
type FallbackPolicy int

const (
	// FallbackTruthy (mặc định) thay cả nil, 0, "" và false bằng giá trị mặc định của cột
	FallbackTruthy FallbackPolicy = iota
	// FallbackMissing chỉ thay khi field không có hoặc null
	FallbackMissing
)

// ParseFallbackPolicy đọc "truthy" hoặc "missing"
func ParseFallbackPolicy(s string) (FallbackPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "truthy":
		return FallbackTruthy, nil
	case "missing":
		return FallbackMissing, nil
	}
	return FallbackTruthy, fmt.Errorf("unknown fallback policy %q (truthy|missing)", s)
}

func (p FallbackPolicy) String() string {
	if p == FallbackMissing {
		return "missing"
	}
	return "truthy"
}

// NotAvailable là giá trị hiển thị mặc định cho field chữ
const NotAvailable = "N/A"

// Column ánh xạ field của bản ghi gốc sang một cột hiển thị
type Column struct {
	Header  string
	Field   string
	Default any
}

// Record là một bản ghi JSON thô từ API
type Record = map[string]any

// Row là một dòng hiển thị, key là tên cột
type Row = map[string]any

// Transform tạo dòng hiển thị mới cho từng bản ghi, bản ghi gốc giữ nguyên
func Transform(records []Record, columns []Column, policy FallbackPolicy) []Row {
	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		row := make(Row, len(columns))
		for _, col := range columns {
			v, ok := rec[col.Field]
			if useDefault(v, ok, policy) {
				v = col.Default
			}
			row[col.Header] = v
		}
		rows = append(rows, row)
	}
	return rows
}

func useDefault(v any, present bool, policy FallbackPolicy) bool {
	if policy == FallbackMissing {
		return !present || v == nil
	}
	return !isTruthy(v)
}

// isTruthy theo quy tắc truthiness của JavaScript cho các kiểu JSON decode ra
func isTruthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0 && !math.IsNaN(t)
	case float32:
		return t != 0 && !math.IsNaN(float64(t))
	case int:
		return t != 0
	case int64:
		return t != 0
	case int32:
		return t != 0
	case json.Number:
		f, err := t.Float64()
		return err != nil || (f != 0 && !math.IsNaN(f))
	}
	return true
}
