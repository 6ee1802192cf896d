package utils

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type ILogger interface {
	Debug(module, message string, details map[string]interface{})
	Info(module, message string, details map[string]interface{})
	Warn(module, message string, details map[string]interface{})
	Error(module, message string, details map[string]interface{})
	Sync() error
}

type ZapLogger struct {
	logger *zap.Logger
}

// LogOptions picks the sinks of a logger. The file sink is always JSON and
// rotated; the console sink is optional.
type LogOptions struct {
	FilePath    string
	FileLevel   zapcore.Level
	Console     bool
	JSONConsole bool
}

// NewLogger builds a logger from opts.
func NewLogger(opts LogOptions) *ZapLogger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.MessageKey = "message"
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	fileEncoder := zapcore.NewJSONEncoder(encoderConfig)

	rotator := &lumberjack.Logger{Filename: opts.FilePath, MaxSize: 10, MaxBackups: 5, MaxAge: 30, Compress: true}
	cores := []zapcore.Core{zapcore.NewCore(fileEncoder, zapcore.AddSync(rotator), opts.FileLevel)}

	if opts.Console {
		consoleEncoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
		if opts.JSONConsole {
			consoleEncoder = fileEncoder
		}
		cores = append(cores, zapcore.NewCore(consoleEncoder, zapcore.Lock(os.Stdout), zap.DebugLevel))
	}
	return &ZapLogger{logger: zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1))}
}

// NewZapLogger logs to the rotated file at info and mirrors everything to
// stdout, as JSON in production.
func NewZapLogger(logFilePath string, isProd bool) *ZapLogger {
	return NewLogger(LogOptions{FilePath: logFilePath, FileLevel: zap.InfoLevel, Console: true, JSONConsole: isProd})
}

// NewIsolatedLogger only writes the file, at debug. The terminal UI uses it
// so log lines never tear the rendered screen.
func NewIsolatedLogger(logFilePath string) *ZapLogger {
	return NewLogger(LogOptions{FilePath: logFilePath, FileLevel: zap.DebugLevel})
}

// NewNopLogger discards everything. Tests use it.
func NewNopLogger() *ZapLogger {
	return &ZapLogger{logger: zap.NewNop()}
}

func fields(module string, details map[string]interface{}) []zap.Field {
	if details == nil {
		details = make(map[string]interface{})
	}
	f := []zap.Field{zap.String("module", module), zap.Any("details", details)}
	if err, ok := details["error"]; ok {
		f = append(f, zap.Any("error", err))
	}
	return f
}

func (l *ZapLogger) Debug(module, message string, details map[string]interface{}) {
	l.logger.Debug(message, fields(module, details)...)
}

func (l *ZapLogger) Info(module, message string, details map[string]interface{}) {
	l.logger.Info(message, fields(module, details)...)
}

func (l *ZapLogger) Warn(module, message string, details map[string]interface{}) {
	l.logger.Warn(message, fields(module, details)...)
}

func (l *ZapLogger) Error(module, message string, details map[string]interface{}) {
	l.logger.Error(message, fields(module, details)...)
}

func (l *ZapLogger) Sync() error {
	return l.logger.Sync()
}
