package common

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// ZapLogger 使用zap封装的logger
type ZapLogger struct {
	level  zap.AtomicLevel
	logger *zap.SugaredLogger
}

// Debugf implements Logger.Debugf
func (l *ZapLogger) Debugf(format string, params ...interface{}) {
	l.logger.Debugf(format, params...)
}

// DebugEnabled implements Logger.DebugEnabled
func (l *ZapLogger) DebugEnabled() bool {
	return l.level.Enabled(zap.DebugLevel)
}

// Infof implements Logger.Infof
func (l *ZapLogger) Infof(format string, params ...interface{}) {
	l.logger.Infof(format, params...)
}

// InfoEnabled implements Logger.InfoEnabled
func (l *ZapLogger) InfoEnabled() bool {
	return l.level.Enabled(zap.InfoLevel)
}

// Warnf implements Logger.Warnf
func (l *ZapLogger) Warnf(format string, params ...interface{}) {
	l.logger.Warnf(format, params...)
}

// WarnEnabled implements Logger.WarnEnabled
func (l *ZapLogger) WarnEnabled() bool {
	return l.level.Enabled(zap.WarnLevel)
}

// Errorf implements Logger.Errorf
func (l *ZapLogger) Errorf(format string, params ...interface{}) {
	l.logger.Errorf(format, params...)
}

// ErrorEnabled implements Logger.ErrorEnabled
func (l *ZapLogger) ErrorEnabled() bool {
	return l.level.Enabled(zap.ErrorLevel)
}

// Sync implements Logger.Sync
func (l *ZapLogger) Sync() {
	_ = l.logger.Sync()
}

// SetLevel implements Logger.SetLevel
func (l *ZapLogger) SetLevel(level LogLevel) {
	if zl, ok := level.zapLevel(); ok {
		l.level.SetLevel(zl)
	}
}

func zapEncoder(env string) (zapcore.Encoder, zapcore.Level) {
	if env == EnvProduction {
		config := zap.NewProductionEncoderConfig()
		config.EncodeTime = zapcore.ISO8601TimeEncoder
		return zapcore.NewConsoleEncoder(config), zapcore.InfoLevel
	}
	return zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()), zapcore.DebugLevel
}

func zapWriter(conf *LogConfig) zapcore.WriteSyncer {
	if conf.FileName == "" {
		return zapcore.AddSync(os.Stderr)
	}
	//按大小滚动日志文件
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   conf.FileName,
		MaxSize:    conf.MaxSize,
		MaxBackups: conf.MaxBackups,
		MaxAge:     conf.MaxAge,
		LocalTime:  true,
	})
}

// NewZapLogger create zap logger with the log config
func NewZapLogger(conf *LogConfig) *ZapLogger {
	encoder, defaultLevel := zapEncoder(conf.Env)
	level := zap.NewAtomicLevelAt(defaultLevel)
	if zl, ok := LogLevel(conf.Level).zapLevel(); ok {
		level.SetLevel(zl)
	}

	l := zap.New(zapcore.NewCore(encoder, zapWriter(conf), level))
	if !conf.NoCaller {
		// 跳过ZapLogger和包级别的日志函数
		l = l.WithOptions(zap.AddCaller(), zap.AddCallerSkip(2))
	}
	return &ZapLogger{level: level, logger: l.Sugar()}
}
