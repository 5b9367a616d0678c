package logger

import (
	"os"
	"strings"

	"github.com/gookit/slog"
	"github.com/gookit/slog/handler"
)

// Logger 는 서비스 전역에서 사용하는 최소 로거 인터페이스다.
type Logger interface {
	Debug(args ...any)
	Info(args ...any)
	Warn(args ...any)
	Error(args ...any)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Fields 는 구조화 로그에 top-level 키로 출력되는 필드 묶음이다.
type Fields map[string]any

// Log 는 전역 로거다. Init 이 호출되기 전에도 info 레벨로 동작한다.
var Log Logger = NewLogger("info")

// InitFromEnv 는 envKey 환경변수의 레벨로 전역 로거를 다시 만든다.
// 값이 비어 있으면 fallback 레벨을 사용한다.
func InitFromEnv(envKey, fallback string) {
	level := strings.ToLower(strings.TrimSpace(os.Getenv(envKey)))
	if level == "" {
		level = fallback
	}
	if level == "" {
		level = "info"
	}
	Log = NewLogger(level)
}

// NewLogger 는 gookit/slog 기반 JSON 콘솔 로거를 만든다.
// 기본 필드는 datetime/level/message 세 개로 제한하고 나머지는 Fields 로만 출력한다.
func NewLogger(level string) Logger {
	max := slog.LevelByName(level)

	var levels slog.Levels
	for _, lv := range slog.AllLevels {
		if lv <= max {
			levels = append(levels, lv)
		}
	}

	h := handler.NewConsoleHandler(levels)
	h.SetFormatter(slog.NewJSONFormatter(func(f *slog.JSONFormatter) {
		f.Fields = []string{
			slog.FieldKeyDatetime,
			slog.FieldKeyLevel,
			slog.FieldKeyMessage,
		}
		f.Aliases = slog.StringMap{
			slog.FieldKeyDatetime: "datetime",
			slog.FieldKeyLevel:    "level",
			slog.FieldKeyMessage:  "message",
		}
		f.TimeFormat = "2006-01-02T15:04:05"
	}))

	return slog.NewWithHandlers(h)
}

// withServiceName 은 SERVICE_NAME 이 설정되어 있으면 service_name 필드를 채운다.
func withServiceName(fields Fields) Fields {
	if fields == nil {
		fields = Fields{}
	}
	if _, ok := fields["service_name"]; !ok {
		if sn := os.Getenv("SERVICE_NAME"); sn != "" {
			fields["service_name"] = sn
		}
	}
	return fields
}

func logWithFields(level slog.Level, msg string, fields Fields) {
	fields = withServiceName(fields)
	lg, ok := Log.(*slog.Logger)
	if !ok {
		switch level {
		case slog.DebugLevel:
			Log.Debug(msg)
		case slog.WarnLevel:
			Log.Warn(msg)
		case slog.ErrorLevel:
			Log.Error(msg)
		default:
			Log.Info(msg)
		}
		return
	}
	lg.WithFields(slog.M(fields)).Log(level, msg)
}

func DebugWithFields(msg string, fields Fields) { logWithFields(slog.DebugLevel, msg, fields) }

func InfoWithFields(msg string, fields Fields) { logWithFields(slog.InfoLevel, msg, fields) }

func WarnWithFields(msg string, fields Fields) { logWithFields(slog.WarnLevel, msg, fields) }

func ErrorWithFields(msg string, fields Fields) { logWithFields(slog.ErrorLevel, msg, fields) }
