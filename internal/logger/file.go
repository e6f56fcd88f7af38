package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LatestLogName is the symlink that always points at the newest run log.
const LatestLogName = "latest.log"

// FileLogger writes one JSON record per message to a timestamped run log
// (run-YYYYMMDD-HHMMSS.log) and keeps latest.log pointing at it.
type FileLogger struct {
	runFile string
	file    *os.File
	zl      *zap.Logger
	mu      sync.Mutex
	closed  bool
}

// NewFileLogger creates the log directory if needed, opens a new run log and
// updates the latest.log symlink. Fields are attached to every record.
func NewFileLogger(logDir string, logLevel string, fields ...zap.Field) (*FileLogger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	runFile := filepath.Join(logDir, fmt.Sprintf("run-%s.log", time.Now().Format("20060102-150405")))

	file, err := os.OpenFile(runFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create run log file: %w", err)
	}

	level := zap.NewAtomicLevelAt(zapLevel(NormalizeLevel(logLevel)))

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(file), level)
	zl := zap.New(core,
		zap.AddCaller(),
		zap.AddCallerSkip(2),
		zap.AddStacktrace(zapcore.ErrorLevel),
		zap.Fields(fields...),
	)

	symlinkPath := filepath.Join(logDir, LatestLogName)
	if _, err := os.Lstat(symlinkPath); err == nil {
		if err := os.Remove(symlinkPath); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to remove old symlink: %w", err)
		}
	}
	if err := os.Symlink(filepath.Base(runFile), symlinkPath); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to create symlink: %w", err)
	}

	return &FileLogger{
		runFile: runFile,
		file:    file,
		zl:      zl,
	}, nil
}

// zapLevel maps a normalized level name onto zap. zap has no trace level, so
// trace records are written at debug with a "trace" marker field.
func zapLevel(level string) zapcore.Level {
	if level == "trace" {
		return zapcore.DebugLevel
	}
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return zapcore.InfoLevel
	}
	return l
}

// Path returns the run log file path.
func (fl *FileLogger) Path() string {
	return fl.runFile
}

func (fl *FileLogger) LogTrace(message string) {
	fl.log(zapcore.DebugLevel, message, zap.Bool("trace", true))
}

func (fl *FileLogger) LogDebug(message string) {
	fl.log(zapcore.DebugLevel, message)
}

func (fl *FileLogger) LogInfo(message string) {
	fl.log(zapcore.InfoLevel, message)
}

func (fl *FileLogger) LogWarn(message string) {
	fl.log(zapcore.WarnLevel, message)
}

func (fl *FileLogger) LogError(message string) {
	fl.log(zapcore.ErrorLevel, message)
}

func (fl *FileLogger) log(level zapcore.Level, message string, fields ...zap.Field) {
	fl.mu.Lock()
	closed := fl.closed
	fl.mu.Unlock()
	if closed {
		return
	}
	if ce := fl.zl.Check(level, message); ce != nil {
		ce.Write(fields...)
	}
}

// Close flushes the run log. Further messages are dropped.
func (fl *FileLogger) Close() error {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.closed {
		return nil
	}
	fl.closed = true

	if err := fl.zl.Sync(); err != nil {
		return fmt.Errorf("failed to sync run log: %w", err)
	}
	if err := fl.file.Close(); err != nil {
		return fmt.Errorf("failed to close run log: %w", err)
	}
	return nil
}
