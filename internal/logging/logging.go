// Package logging builds the process logger.
//
// Output always goes to stderr: stdout carries the MCP stdio transport.
package logging

import (
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Field names shared across packages.
const (
	FieldComponent  = "component"
	FieldEntailment = "entailment"
	FieldKind       = "kind"
	FieldUnit       = "unit"
	FieldCount      = "count"
	FieldFile       = "file"
	FieldSession    = "session"
)

// New builds a stderr logger at the given level ("debug", "info", "warn",
// "error"). json selects the production JSON encoder; otherwise a console
// encoder is used.
func New(level string, json bool) (*zap.SugaredLogger, error) {
	return newWithSink(level, json, os.Stderr)
}

func newWithSink(level string, json bool, w io.Writer) (*zap.SugaredLogger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrapf(err, "log level %q", level)
	}

	var enc zapcore.Encoder
	if json {
		enc = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	} else {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(cfg)
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(w), zap.NewAtomicLevelAt(lvl))
	return zap.New(core).Sugar(), nil
}

// Component returns a child logger tagged with the component name.
func Component(l *zap.SugaredLogger, name string) *zap.SugaredLogger {
	if l == nil {
		l = zap.NewNop().Sugar()
	}
	return l.With(FieldComponent, name)
}
