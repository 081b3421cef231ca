package global

import (
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ReportDateLayouts là các định dạng ngày được chấp nhận cho startDate/endDate
var ReportDateLayouts = []string{"2006-01-02", time.RFC3339}

// InitValidator khởi tạo và đăng ký các custom validator
func InitValidator() {
	Validate = validator.New()

	// Dùng tên query/json thay vì tên field Go trong lỗi
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"query", "uri", "json"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})

	_ = Validate.RegisterValidation("month_number", validateMonthNumber)
	_ = Validate.RegisterValidation("report_date", validateReportDate)
}

// validateMonthNumber kiểm tra chuỗi là số nguyên 1..12
func validateMonthNumber(fl validator.FieldLevel) bool {
	_, ok := ParseMonth(fl.Field().String())
	return ok
}

// validateReportDate kiểm tra chuỗi theo một trong ReportDateLayouts
func validateReportDate(fl validator.FieldLevel) bool {
	_, ok := ParseReportDate(fl.Field().String())
	return ok
}

// ParseMonth parse tháng dạng số (1..12)
func ParseMonth(s string) (int, bool) {
	m, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || m < 1 || m > 12 {
		return 0, false
	}
	return m, true
}

// ParseReportDate parse ngày theo ReportDateLayouts, kết quả ở UTC
func ParseReportDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range ReportDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
