package logging

import (
	"fmt"
	"os"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type (
	impl struct {
		name  string
		level AtomicLevel
		// parent is nil for root loggers. A sublogger follows its parent's level until
		// SetLevel is called on it.
		parent   *impl
		levelSet atomic.Bool
		inUTC    bool
		// fields are attached to every entry, ahead of the per-call fields.
		fields []zapcore.Field

		appenders []Appender
	}

	// LogEntry embeds a zapcore Entry and slice of Fields.
	LogEntry struct {
		zapcore.Entry
		fields []zapcore.Field
	}
)

func (imp *impl) AddAppender(appender Appender) {
	imp.appenders = append(imp.appenders, appender)
}

func (imp *impl) SetLevel(level Level) {
	imp.level.Set(level)
	if imp.parent != nil {
		imp.levelSet.Store(true)
	}
}

func (imp *impl) GetLevel() Level {
	if imp.parent == nil || imp.levelSet.Load() {
		return imp.level.Get()
	}
	return imp.parent.GetLevel()
}

func (imp *impl) child(name string, fields []zapcore.Field) *impl {
	return &impl{
		name:      name,
		level:     NewAtomicLevelAt(imp.GetLevel()),
		parent:    imp,
		inUTC:     imp.inUTC,
		fields:    fields,
		appenders: imp.appenders,
	}
}

func (imp *impl) Sublogger(subname string) Logger {
	name := subname
	if imp.name != "" {
		name = imp.name + "." + subname
	}
	return imp.child(name, imp.fields)
}

func (imp *impl) With(keysAndValues ...interface{}) Logger {
	fields := make([]zapcore.Field, 0, len(imp.fields)+len(keysAndValues)/2)
	fields = append(fields, imp.fields...)
	fields = append(fields, toFields(keysAndValues)...)
	return imp.child(imp.name, fields)
}

func (imp *impl) Sync() error {
	var errs error
	for _, appender := range imp.appenders {
		errs = multierr.Append(errs, appender.Sync())
	}
	return errs
}

// newEntry must be called directly by emit so that the caller lookup lands on the user's frame.
func (imp *impl) newEntry(level Level, msg string, fields []zapcore.Field) *LogEntry {
	entry := &LogEntry{}
	entry.Time = time.Now()
	if imp.inUTC {
		entry.Time = entry.Time.UTC()
	}
	entry.LoggerName = imp.name
	entry.Caller = getCaller()
	entry.Level = level.AsZap()
	entry.Message = msg
	if len(imp.fields) == 0 {
		entry.fields = fields
	} else {
		entry.fields = append(append(make([]zapcore.Field, 0, len(imp.fields)+len(fields)), imp.fields...), fields...)
	}
	return entry
}

// emit builds the message only once the level check has passed.
func (imp *impl) emit(level Level, msg func() string, keysAndValues []interface{}) {
	if level < imp.GetLevel() {
		return
	}
	entry := imp.newEntry(level, msg(), toFields(keysAndValues))
	for _, appender := range imp.appenders {
		if err := appender.Write(entry.Entry, entry.fields); err != nil {
			//nolint:errcheck
			fmt.Fprint(os.Stderr, err)
		}
	}
}

// toFields pairs up keys and values. A trailing key without a value is kept with an error value
// so the mistake shows up in the output.
func toFields(keysAndValues []interface{}) []zapcore.Field {
	if len(keysAndValues) == 0 {
		return nil
	}
	fields := make([]zapcore.Field, 0, (len(keysAndValues)+1)/2)
	for i := 0; i < len(keysAndValues); i += 2 {
		var key string
		if stringer, ok := keysAndValues[i].(fmt.Stringer); ok {
			key = stringer.String()
		} else {
			key = fmt.Sprintf("%v", keysAndValues[i])
		}
		if i+1 < len(keysAndValues) {
			fields = append(fields, zap.Any(key, keysAndValues[i+1]))
		} else {
			fields = append(fields, zap.Any(key, errors.New("unpaired log key")))
		}
	}
	return fields
}

func sprint(args []interface{}) func() string {
	return func() string { return fmt.Sprint(args...) }
}

func sprintf(template string, args []interface{}) func() string {
	return func() string { return fmt.Sprintf(template, args...) }
}

func literal(msg string) func() string {
	return func() string { return msg }
}

func (imp *impl) Debug(args ...interface{}) { imp.emit(DEBUG, sprint(args), nil) }

func (imp *impl) Debugf(template string, args ...interface{}) {
	imp.emit(DEBUG, sprintf(template, args), nil)
}

func (imp *impl) Debugw(msg string, keysAndValues ...interface{}) {
	imp.emit(DEBUG, literal(msg), keysAndValues)
}

func (imp *impl) Info(args ...interface{}) { imp.emit(INFO, sprint(args), nil) }

func (imp *impl) Infof(template string, args ...interface{}) {
	imp.emit(INFO, sprintf(template, args), nil)
}

func (imp *impl) Infow(msg string, keysAndValues ...interface{}) {
	imp.emit(INFO, literal(msg), keysAndValues)
}

func (imp *impl) Warn(args ...interface{}) { imp.emit(WARN, sprint(args), nil) }

func (imp *impl) Warnf(template string, args ...interface{}) {
	imp.emit(WARN, sprintf(template, args), nil)
}

func (imp *impl) Warnw(msg string, keysAndValues ...interface{}) {
	imp.emit(WARN, literal(msg), keysAndValues)
}

func (imp *impl) Error(args ...interface{}) { imp.emit(ERROR, sprint(args), nil) }

func (imp *impl) Errorf(template string, args ...interface{}) {
	imp.emit(ERROR, sprintf(template, args), nil)
}

func (imp *impl) Errorw(msg string, keysAndValues ...interface{}) {
	imp.emit(ERROR, literal(msg), keysAndValues)
}

// getCaller returns the frame that called one of the exported logging methods, e.g.
// "shape/scene.go:62". The call chain is getCaller, newEntry, emit, then the logging method.
func getCaller() zapcore.EntryCaller {
	const skipToLogCaller = 4
	var caller zapcore.EntryCaller
	var ok bool
	caller.PC, caller.File, caller.Line, ok = runtime.Caller(skipToLogCaller)
	if !ok {
		return caller
	}
	caller.Defined = true
	if fn := runtime.FuncForPC(caller.PC); fn != nil {
		caller.Function = fn.Name()
	}
	return caller
}
