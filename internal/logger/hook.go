package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

const filteredKey = "_filtered"

// AsyncHook ghi log bất đồng bộ vào nhiều writers, tránh block request handling
type AsyncHook struct {
	writers []io.Writer
	entries chan []byte
	wg      sync.WaitGroup
	mu      sync.Mutex
	closed  bool
}

// NewAsyncHookWithWriters tạo async hook với buffer bufferSize entries
func NewAsyncHookWithWriters(writers []io.Writer, bufferSize int) *AsyncHook {
	if bufferSize <= 0 {
		bufferSize = 1000
	}
	h := &AsyncHook{
		writers: writers,
		entries: make(chan []byte, bufferSize),
	}
	h.wg.Add(1)
	go h.processEntries()
	return h
}

// Levels trả về các log levels mà hook này xử lý
func (h *AsyncHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire format entry ngay (entry có thể bị logrus tái sử dụng) rồi đẩy vào hàng đợi.
// Không block: channel đầy thì bỏ qua entry.
func (h *AsyncHook) Fire(entry *logrus.Entry) error {
	if filtered, ok := entry.Data[filteredKey].(bool); ok && filtered {
		return nil
	}
	delete(entry.Data, filteredKey)

	data, err := entry.Logger.Formatter.Format(entry)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		h.write(data)
		return nil
	}

	select {
	case h.entries <- data:
	default:
	}
	return nil
}

func (h *AsyncHook) processEntries() {
	defer h.wg.Done()
	for data := range h.entries {
		func() {
			defer func() {
				if r := recover(); r != nil {
					// Không dùng logger ở đây vì sẽ tạo vòng lặp
					fmt.Fprintf(os.Stderr, "[LOGGER PANIC] %v\n", r)
				}
			}()
			h.write(data)
		}()
	}
}

// write ghi dữ liệu đã format vào tất cả writers
func (h *AsyncHook) write(data []byte) {
	for _, w := range h.writers {
		_, _ = w.Write(data)
	}
}

// Close đóng hook và đợi các entries còn lại được ghi xong
func (h *AsyncHook) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	close(h.entries)
	h.mu.Unlock()

	h.wg.Wait()
	return nil
}

// FilterHook đánh dấu entry của module không nằm trong danh sách cho phép.
// Entry không có field "module" luôn được giữ lại.
type FilterHook struct {
	allowed map[string]bool
}

// NewFilterHook parse "report,cache" hoặc "*" / rỗng (cho phép tất cả)
func NewFilterHook(modules string) *FilterHook {
	h := &FilterHook{allowed: make(map[string]bool)}
	if modules == "" || modules == "*" {
		return h
	}
	for _, m := range strings.Split(modules, ",") {
		if m = strings.TrimSpace(m); m != "" {
			h.allowed[strings.ToLower(m)] = true
		}
	}
	return h
}

// Levels trả về các log levels mà hook này xử lý
func (h *FilterHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire đánh dấu "_filtered" để AsyncHook bỏ qua
func (h *FilterHook) Fire(entry *logrus.Entry) error {
	if len(h.allowed) == 0 || entry.Level <= logrus.ErrorLevel {
		return nil
	}
	module, ok := entry.Data["module"].(string)
	if !ok {
		return nil
	}
	if !h.allowed[strings.ToLower(module)] {
		entry.Data[filteredKey] = true
	}
	return nil
}
