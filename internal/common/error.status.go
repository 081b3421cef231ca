package common

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// HTTP Status Code Constants
const (
	StatusOK = 200 // Thành công

	StatusBadRequest      = 400 // Yêu cầu không hợp lệ
	StatusNotFound        = 404 // Không tìm thấy tài nguyên
	StatusTooManyRequests = 429 // Quá nhiều yêu cầu

	StatusInternalServerError = 500 // Lỗi server
	StatusServiceUnavailable  = 503 // Dịch vụ không khả dụng
)

// Response Messages
const (
	MsgInternalError = "Internal server error"
	MsgDatabaseError = "Error querying report data"
)

// ErrorCode định nghĩa mã lỗi chi tiết
type ErrorCode struct {
	Code        string // Mã lỗi (ví dụ: VAL_001)
	Category    string // Phân loại lỗi (ví dụ: Validation)
	SubCategory string // Phân loại con (ví dụ: Input)
	Description string // Mô tả chi tiết
}

// Định nghĩa các mã lỗi theo hệ thống phân cấp
var (
	// System Errors (SYS_xxx)
	ErrCodeInternalServer = ErrorCode{
		Code:        "SYS_001",
		Category:    "System",
		SubCategory: "Internal",
		Description: "Lỗi hệ thống nội bộ",
	}

	// Validation Errors (VAL_xxx)
	ErrCodeValidationInput = ErrorCode{
		Code:        "VAL_001",
		Category:    "Validation",
		SubCategory: "Input",
		Description: "Lỗi dữ liệu đầu vào",
	}

	ErrCodeValidationFormat = ErrorCode{
		Code:        "VAL_002",
		Category:    "Validation",
		SubCategory: "Format",
		Description: "Lỗi định dạng dữ liệu",
	}

	// Database Errors (DB_xxx)
	ErrCodeDatabase = ErrorCode{
		Code:        "DB",
		Category:    "Database",
		SubCategory: "General",
		Description: "Lỗi cơ sở dữ liệu chung",
	}

	ErrCodeDatabaseConnection = ErrorCode{
		Code:        "DB_001",
		Category:    "Database",
		SubCategory: "Connection",
		Description: "Lỗi kết nối cơ sở dữ liệu",
	}

	ErrCodeDatabaseQuery = ErrorCode{
		Code:        "DB_002",
		Category:    "Database",
		SubCategory: "Query",
		Description: "Lỗi truy vấn dữ liệu",
	}

	// Resource Errors (RES_xxx)
	ErrCodeNotFound = ErrorCode{
		Code:        "RES_001",
		Category:    "Resource",
		SubCategory: "NotFound",
		Description: "Không tìm thấy tài nguyên",
	}
)

// Lỗi dùng chung
var (
	ErrRequiredField = NewError(ErrCodeValidationInput, "Required field is missing", StatusBadRequest, nil)
)

// Error định nghĩa cấu trúc lỗi chi tiết
type Error struct {
	Code       ErrorCode // Mã lỗi chi tiết
	Message    string    // Thông báo lỗi
	StatusCode int       // HTTP status code
	Details    any       // Thông tin chi tiết thêm về lỗi
}

// Error trả về message của lỗi
func (e *Error) Error() string {
	return e.Message
}

// Unwrap trả về lỗi gốc nếu Details là error (hỗ trợ errors.Is/As qua lớp bọc)
func (e *Error) Unwrap() error {
	if err, ok := e.Details.(error); ok {
		return err
	}
	return nil
}

// Is so sánh theo mã lỗi và message
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code.Code == t.Code.Code && e.Message == t.Message
}

// NewError tạo một error mới với đầy đủ thông tin
func NewError(code ErrorCode, message string, statusCode int, details any) error {
	return &Error{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Details:    details,
	}
}

// NewValidationError tạo lỗi 400 cho tham số đầu vào thiếu hoặc sai
func NewValidationError(message string) error {
	return NewError(ErrCodeValidationInput, message, StatusBadRequest, nil)
}

// NewFormatError tạo lỗi 400 cho tham số sai định dạng
func NewFormatError(message string) error {
	return NewError(ErrCodeValidationFormat, message, StatusBadRequest, nil)
}

// IsValidationError cho biết err có phải lỗi phía client (4xx) hay không
func IsValidationError(err error) bool {
	var customErr *Error
	if errors.As(err, &customErr) {
		return customErr.StatusCode >= 400 && customErr.StatusCode < 500
	}
	return false
}

// MongoDB Specific Errors
var (
	ErrMongoConnection = NewError(ErrCodeDatabaseConnection, "MongoDB connection error", StatusServiceUnavailable, nil)
	ErrMongoNetwork    = NewError(ErrCodeDatabaseConnection, "MongoDB network error", StatusServiceUnavailable, nil)
	ErrMongoTimeout    = NewError(ErrCodeDatabaseConnection, "MongoDB connection timed out", StatusServiceUnavailable, nil)
	ErrMongoQuery      = NewError(ErrCodeDatabaseQuery, "MongoDB query error", StatusInternalServerError, nil)
	ErrMongoSystem     = NewError(ErrCodeDatabase, "MongoDB system error", StatusInternalServerError, nil)
)

// ConvertMongoError chuyển đổi lỗi MongoDB sang lỗi hệ thống.
// Lỗi đã là *Error thì giữ nguyên.
func ConvertMongoError(err error) error {
	if err == nil {
		return nil
	}

	var customErr *Error
	if errors.As(err, &customErr) {
		return err
	}

	if mongo.IsNetworkError(err) {
		return wrapMongo(ErrMongoNetwork, err)
	}
	if mongo.IsTimeout(err) {
		return wrapMongo(ErrMongoTimeout, err)
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		switch {
		// Connection Errors
		case cmdErr.Code >= 100 && cmdErr.Code < 200:
			return wrapMongo(ErrMongoConnection, err)
		// System Errors
		case cmdErr.Code >= 500:
			return wrapMongo(ErrMongoSystem, err)
		default:
			return wrapMongo(ErrMongoQuery, err)
		}
	}

	// Nếu không tìm thấy lỗi cụ thể, trả về lỗi cơ sở dữ liệu chung
	return NewError(ErrCodeDatabase, MsgDatabaseError, StatusInternalServerError, err)
}

// wrapMongo sao chép lỗi mẫu và gắn lỗi gốc vào Details
func wrapMongo(tpl error, cause error) error {
	base := tpl.(*Error)
	return NewError(base.Code, base.Message, base.StatusCode, cause)
}
