// Package logger 基于zap的结构化日志封装
//
// 使用方式：
//
//	log, err := logger.New(cfg.Log)
//	log.Info("图书已创建", "book_id", b.ID, "version", b.Version)
//	log.With("request_id", rid).Warn("版本冲突", "current_version", v)
//
// 键值对参数与zap.SugaredLogger的Infow一致；包含token/password/secret等
// 关键字的字段会被替换为[REDACTED]。
package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config 日志配置（与config.LogConfig字段一致，避免pkg依赖internal）
type Config struct {
	Level        string // debug | info | warn | error
	Format       string // console | json
	Output       string // stdout | stderr | /path/to/file
	EnableCaller bool
}

// Logger 日志对象
type Logger struct {
	SugaredLogger *zap.SugaredLogger
}

// New 根据配置创建日志对象
func New(cfg Config) (*Logger, error) {
	var zc zap.Config
	if strings.ToLower(cfg.Format) == "json" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
	}

	level := zapcore.InfoLevel
	if cfg.Level != "" {
		if err := level.Set(strings.ToLower(cfg.Level)); err != nil {
			return nil, fmt.Errorf("无效的日志级别 %q: %w", cfg.Level, err)
		}
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	if cfg.Output != "" {
		zc.OutputPaths = []string{cfg.Output}
	}
	zc.DisableCaller = !cfg.EnableCaller

	zapLogger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("创建日志对象失败: %w", err)
	}
	return &Logger{SugaredLogger: zapLogger.Sugar()}, nil
}

// Nop 不输出任何内容的日志对象（测试使用）
func Nop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}

func (l *Logger) Sync() {
	_ = l.SugaredLogger.Sync()
}

func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Debugw(msg, sanitizeKVs(keysAndValues)...)
}

func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Infow(msg, sanitizeKVs(keysAndValues)...)
}

func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Warnw(msg, sanitizeKVs(keysAndValues)...)
}

func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Errorw(msg, sanitizeKVs(keysAndValues)...)
}

func (l *Logger) Fatal(msg string, keysAndValues ...interface{}) {
	l.SugaredLogger.Fatalw(msg, sanitizeKVs(keysAndValues)...)
}

// With 返回附加了固定字段的子日志对象
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{SugaredLogger: l.SugaredLogger.With(sanitizeKVs(keysAndValues)...)}
}

func sanitizeKVs(kv []interface{}) []interface{} {
	if len(kv) == 0 {
		return kv
	}
	out := make([]interface{}, 0, len(kv))
	for i := 0; i < len(kv); i += 2 {
		if i == len(kv)-1 {
			out = append(out, kv[i])
			break
		}
		key := fmt.Sprint(kv[i])
		if isRedactKey(strings.ToLower(key)) {
			out = append(out, key, "[REDACTED]")
			continue
		}
		out = append(out, key, kv[i+1])
	}
	return out
}

func isRedactKey(key string) bool {
	for _, k := range []string{"token", "authorization", "password", "secret", "cookie"} {
		if strings.Contains(key, k) {
			return true
		}
	}
	return false
}
