package common

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap/zapcore"
)

// LogLevel 日志级别
type LogLevel string

// 支持的日志级别
const (
	Debug LogLevel = "debug"
	Info  LogLevel = "info"
	Warn  LogLevel = "warn"
	Error LogLevel = "error"
)

func (p LogLevel) zapLevel() (zapcore.Level, bool) {
	switch LogLevel(strings.ToLower(string(p))) {
	case Debug:
		return zapcore.DebugLevel, true
	case Info:
		return zapcore.InfoLevel, true
	case Warn:
		return zapcore.WarnLevel, true
	case Error:
		return zapcore.ErrorLevel, true
	}
	return zapcore.InfoLevel, false
}

// Logger 日志接口
type Logger interface {
	Debugf(format string, params ...interface{})
	DebugEnabled() bool
	Infof(format string, params ...interface{})
	InfoEnabled() bool
	Warnf(format string, params ...interface{})
	WarnEnabled() bool
	Errorf(format string, params ...interface{})
	ErrorEnabled() bool
	SetLevel(level LogLevel)
	Sync()
}

// 环境
const (
	EnvProduction  = "production"
	EnvDevelopment = "development"
)

var (
	loggerMu sync.RWMutex
	logger   Logger = NewZapLogger(&LogConfig{Env: EnvDevelopment, Level: string(Info)})
)

func currentLogger() Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return logger
}

// SetLogger replace the global logger
func SetLogger(l Logger) {
	if l == nil {
		return
	}
	loggerMu.Lock()
	old := logger
	logger = l
	loggerMu.Unlock()
	if old != nil {
		old.Sync()
	}
}

func initLogger(conf *LogConfig) error {
	if conf == nil {
		return nil
	}
	if conf.Level != "" {
		if _, ok := LogLevel(conf.Level).zapLevel(); !ok {
			return fmt.Errorf("invalid log level %s", conf.Level)
		}
	}
	if conf.Env != "" && conf.Env != EnvProduction && conf.Env != EnvDevelopment {
		return fmt.Errorf("invalid log env %s", conf.Env)
	}
	SetLogger(NewZapLogger(conf))
	fmt.Fprintf(os.Stderr, "init logger,env:%s,level:%s,file:%s\n", conf.Env, conf.Level, conf.FileName)
	return nil
}

// SetLogLevel set the level of the global logger,ignore the invalid level
func SetLogLevel(level LogLevel) {
	currentLogger().SetLevel(level)
}

// Debugf debug
func Debugf(format string, params ...interface{}) {
	currentLogger().Debugf(format, params...)
}

// Infof info
func Infof(format string, params ...interface{}) {
	currentLogger().Infof(format, params...)
}

// Warnf warn
func Warnf(format string, params ...interface{}) {
	currentLogger().Warnf(format, params...)
}

// Errorf error
func Errorf(format string, params ...interface{}) {
	currentLogger().Errorf(format, params...)
}

// Logf log with level
func Logf(level LogLevel, format string, params ...interface{}) {
	l := currentLogger()
	switch level {
	case Debug:
		l.Debugf(format, params...)
	case Warn:
		l.Warnf(format, params...)
	case Error:
		l.Errorf(format, params...)
	default:
		l.Infof(format, params...)
	}
}

// DebugEnabled is debug enabled
func DebugEnabled() bool {
	return currentLogger().DebugEnabled()
}

// InfoEnabled is info enabled
func InfoEnabled() bool {
	return currentLogger().InfoEnabled()
}

// ErrorEnabled is error enabled
func ErrorEnabled() bool {
	return currentLogger().ErrorEnabled()
}

// SyncLog flush the buffered logs
func SyncLog() {
	currentLogger().Sync()
}
