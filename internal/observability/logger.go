package observability

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Level = zapcore.Level

const (
	LevelDebug = zapcore.DebugLevel
	LevelInfo  = zapcore.InfoLevel
	LevelWarn  = zapcore.WarnLevel
	LevelError = zapcore.ErrorLevel
)

const timeLayout = "[2006-01-02 15:04:05]"

// ParseLevel: пустая строка = info
func ParseLevel(s string) (Level, error) {
	if s == "" {
		return LevelInfo, nil
	}
	level, err := zapcore.ParseLevel(s)
	if err != nil {
		return LevelInfo, fmt.Errorf("unknown log level: %s", s)
	}
	return level, nil
}

// Logger пишет одну строку с меткой времени на событие в файл запуска.
// Info/Warn/Error дублируются в stderr, Report пишется в файл всегда и эхом в stdout.
type Logger struct {
	sugar  *zap.SugaredLogger
	report *zap.Logger
	stdout io.Writer
	closer io.Closer
}

type Options struct {
	Dir        string
	Prefix     string
	Level      string
	MaxSizeMB  int
	MaxBackups int
}

// LogPath возвращает путь файла лога для даты запуска: <dir>/<prefix>-YYYYMMDD.log
func LogPath(dir, prefix string, runAt time.Time) (string, error) {
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve log dir: %w", err)
	}
	return filepath.Join(abs, fmt.Sprintf("%s-%s.log", prefix, runAt.Format("20060102"))), nil
}

func NewLogger(opts Options) (*Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	path, err := LogPath(opts.Dir, opts.Prefix, time.Now())
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log dir: %w", err)
	}

	sink := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		LocalTime:  true,
	}

	l := build(zapcore.AddSync(sink), level, zapcore.Lock(os.Stderr), os.Stdout)
	l.closer = sink
	return l, nil
}

// NewWriterLogger пишет "файловый" поток в w, без эха в консоль
func NewWriterLogger(w io.Writer, level Level) *Logger {
	return build(zapcore.AddSync(w), level, zapcore.AddSync(io.Discard), io.Discard)
}

func NewNop() *Logger {
	return &Logger{
		sugar:  zap.NewNop().Sugar(),
		report: zap.NewNop(),
		stdout: io.Discard,
	}
}

func build(file zapcore.WriteSyncer, level Level, stderr zapcore.WriteSyncer, stdout io.Writer) *Logger {
	file = zapcore.Lock(file)

	fileEnc := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		MessageKey:     "msg",
		EncodeTime:     zapcore.TimeEncoderOfLayout(timeLayout),
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
	// В консоль без времени, как print в терминал
	echoEnc := zapcore.EncoderConfig{
		LevelKey:       "level",
		MessageKey:     "msg",
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
	reportEnc := zapcore.EncoderConfig{
		TimeKey:    "time",
		MessageKey: "msg",
		EncodeTime: zapcore.TimeEncoderOfLayout(timeLayout),
	}

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewConsoleEncoder(fileEnc), file, level),
		zapcore.NewCore(zapcore.NewConsoleEncoder(echoEnc), stderr, LevelInfo),
	)
	// Отчёт попадает в файл независимо от уровня
	reportCore := zapcore.NewCore(zapcore.NewConsoleEncoder(reportEnc), file, LevelDebug)

	return &Logger{
		sugar:  zap.New(core).Sugar(),
		report: zap.New(reportCore),
		stdout: stdout,
	}
}

func (l *Logger) Debug(msg string, fields ...interface{}) {
	l.sugar.Debugw(msg, fields...)
}

func (l *Logger) Info(msg string, fields ...interface{}) {
	l.sugar.Infow(msg, fields...)
}

func (l *Logger) Warn(msg string, fields ...interface{}) {
	l.sugar.Warnw(msg, fields...)
}

func (l *Logger) Error(msg string, fields ...interface{}) {
	l.sugar.Errorw(msg, fields...)
}

// Report пишет многострочный текст в лог и копию в stdout.
// echo может отличаться от записанного (например, с цветом).
func (l *Logger) Report(text, echo string) {
	l.report.Info(text)
	fmt.Fprintln(l.stdout, echo)
}

func (l *Logger) Close() error {
	_ = l.sugar.Sync()
	_ = l.report.Sync()
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
