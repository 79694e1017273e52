package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Loggers menyimpan logger yang sudah diinisialisasi.
// Each logger writes to its own file so audit and security trails stay separate
// from request noise.
type Loggers struct {
	Error    *zap.Logger
	Audit    *zap.Logger
	Request  *zap.Logger
	Security *zap.Logger
	System   *zap.Logger
}

// DisabledDir turns every logger into a no-op when passed to New.
const DisabledDir = "-"

func newLogger(filePath string, level zapcore.Level) (*zap.Logger, error) {
	file, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	ws := zapcore.AddSync(file)

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		ws,
		level,
	)
	return zap.New(core), nil
}

// New creates the file loggers under dir, creating the directory if needed.
func New(dir string) (*Loggers, error) {
	if dir == DisabledDir {
		return NewNop(), nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	l := &Loggers{}
	var err error
	if l.Error, err = newLogger(filepath.Join(dir, "errors.log"), zapcore.ErrorLevel); err != nil {
		return nil, fmt.Errorf("cannot create error logger: %w", err)
	}
	if l.Audit, err = newLogger(filepath.Join(dir, "audit.log"), zapcore.InfoLevel); err != nil {
		return nil, fmt.Errorf("cannot create audit logger: %w", err)
	}
	if l.Request, err = newLogger(filepath.Join(dir, "request.log"), zapcore.InfoLevel); err != nil {
		return nil, fmt.Errorf("cannot create request logger: %w", err)
	}
	if l.Security, err = newLogger(filepath.Join(dir, "security.log"), zapcore.WarnLevel); err != nil {
		return nil, fmt.Errorf("cannot create security logger: %w", err)
	}
	if l.System, err = newLogger(filepath.Join(dir, "system.log"), zapcore.InfoLevel); err != nil {
		return nil, fmt.Errorf("cannot create system logger: %w", err)
	}
	return l, nil
}

// NewNop returns loggers that discard everything. Used by tests.
func NewNop() *Loggers {
	nop := zap.NewNop()
	return &Loggers{
		Error:    nop,
		Audit:    nop,
		Request:  nop,
		Security: nop,
		System:   nop,
	}
}

func (l *Loggers) Sync() {
	_ = l.Error.Sync()
	_ = l.Audit.Sync()
	_ = l.Request.Sync()
	_ = l.Security.Sync()
	_ = l.System.Sync()
}
