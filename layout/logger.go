package layout

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler 丢弃所有日志记录，Enabled 返回 false，调用方因此跳过格式化。
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger 设置布局引擎使用的日志器，传入 nil 恢复静默。
//
// 日志级别：
//   - [slog.LevelDebug]：阶段执行、换行与缩放细节
//   - [slog.LevelWarn]：图集缺字等非致命问题
//
// 新建的 Engine 会读取当前日志器，之后的 SetLogger 不影响已有实例。
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger 返回当前日志器，可安全并发调用。
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
