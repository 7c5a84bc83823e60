package logger

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
)

// APITurn 是一次请求中单个 turn 的日志摘要。内联图片只记录数量与大小，不落原始 base64。
type APITurn struct {
	Role        string
	Text        string
	InlineParts int
	InlineBytes int
}

// APILogger 负责输出与远端生成接口交互的请求、响应与错误信息。
type APILogger interface {
	Request(provider, model string, turns []APITurn)
	Response(provider, model, text string)
	Error(provider, model string, err error)
}

// APILog 是全局唯一的 API 日志器实例。
var APILog APILogger = NewAPILogger(nil)

// StdAPILogger 使用 logrus 输出日志。
type StdAPILogger struct {
	logger *logrus.Entry
}

// NewAPILogger 构造默认的 API 日志记录器。
func NewAPILogger(l *Logger) *StdAPILogger {
	if l == nil {
		l = rootLogger
	}
	return &StdAPILogger{logger: logrus.NewEntry(l).WithField("component", "api")}
}

// Request 记录一次请求携带的完整 transcript 摘要。
func (l *StdAPILogger) Request(provider, model string, turns []APITurn) {
	l.printf(logrus.InfoLevel, "-> request provider=%s model=%s turns=%d", provider, model, len(turns))
	for i, turn := range turns {
		if turn.InlineParts > 0 {
			l.printf(logrus.DebugLevel, "-> turn[%d] role=%s text=%s inline=%d inline_bytes=%d", i, turn.Role, sanitize(turn.Text), turn.InlineParts, turn.InlineBytes)
			continue
		}
		l.printf(logrus.DebugLevel, "-> turn[%d] role=%s text=%s", i, turn.Role, sanitize(turn.Text))
	}
}

// Response 记录一次成功响应。
func (l *StdAPILogger) Response(provider, model, text string) {
	l.printf(logrus.InfoLevel, "<- response provider=%s model=%s text=%s", provider, model, sanitize(text))
}

// Error 记录请求错误。
func (l *StdAPILogger) Error(provider, model string, err error) {
	l.printf(logrus.ErrorLevel, "!! error provider=%s model=%s err=%v", provider, model, err)
}

// NoopAPILogger 忽略所有日志输出。
type NoopAPILogger struct{}

func (NoopAPILogger) Request(provider, model string, turns []APITurn) {}
func (NoopAPILogger) Response(provider, model, text string)          {}
func (NoopAPILogger) Error(provider, model string, err error)        {}

func (l *StdAPILogger) printf(level logrus.Level, format string, args ...any) {
	if l == nil || l.logger == nil {
		return
	}
	if !l.logger.Logger.IsLevelEnabled(level) {
		return
	}
	msg := fmt.Sprintf(format, args...)
	entry := l.logger
	if caller := findCaller(); caller != "" {
		entry = entry.WithField("caller", caller)
	}
	entry.Log(level, msg)
}

func sanitize(text string) string {
	text = strings.ReplaceAll(text, "\n", `\n`)
	text = strings.ReplaceAll(text, "\r", `\r`)
	const max = 240
	if r := []rune(text); len(r) > max {
		return string(r[:max]) + "…"
	}
	return text
}

func findCaller() string {
	pcs := make([]uintptr, 16)
	n := runtime.Callers(3, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if frame.File != "" && !strings.HasSuffix(frame.File, "logger/api.go") {
			return fmt.Sprintf("%s:%d", shortenFilePath(frame.File), frame.Line)
		}
		if !more {
			break
		}
	}
	return ""
}
