package logging

import (
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

type testAppender struct {
	tb      testing.TB
	encoder zapcore.Encoder
}

// NewTestAppender returns an appender that writes each entry through tb.Log, so lines are
// attributed to the test that produced them even when tests run in parallel.
func NewTestAppender(tb testing.TB) Appender {
	return &testAppender{tb, zapcore.NewConsoleEncoder(consoleEncoderConfig(false))}
}

// Write logs the entry as one console formatted line.
func (tapp *testAppender) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	tapp.tb.Helper()
	buf, err := tapp.encoder.EncodeEntry(entry, fields)
	if err != nil {
		tapp.tb.Log(entry.Message)
		return err
	}
	defer buf.Free()
	tapp.tb.Log(strings.TrimSuffix(buf.String(), "\n"))
	return nil
}

// Sync is a no-op.
func (tapp *testAppender) Sync() error {
	return nil
}
