package log

import (
	"gopkg.in/Sirupsen/logrus.v0"
)

type Fields logrus.Fields

// Entry is the printf-style counterpart of EntryZ. Fields are only evaluated
// when the entry is emitted.
type Entry struct {
	mod  Module
	lazy []func() Fields
}

func (entry Entry) WithFields(fields Fields) Entry {
	return entry.WithDelayedFields(func() Fields { return fields })
}

func (entry Entry) WithField(key string, value any) Entry {
	return entry.WithDelayedFields(func() Fields { return Fields{key: value} })
}

// WithDelayedFields adds fields computed at emission time.
func (entry Entry) WithDelayedFields(getfields func() Fields) Entry {
	entry.lazy = append(entry.lazy[:len(entry.lazy):len(entry.lazy)], getfields)
	return entry
}

func (entry Entry) Debugf(format string, args ...any) { entry.logf(DebugLevel, format, args) }
func (entry Entry) Infof(format string, args ...any)  { entry.logf(InfoLevel, format, args) }
func (entry Entry) Warnf(format string, args ...any)  { entry.logf(WarnLevel, format, args) }
func (entry Entry) Errorf(format string, args ...any) { entry.logf(ErrorLevel, format, args) }
func (entry Entry) Fatalf(format string, args ...any) { entry.logf(FatalLevel, format, args) }

func (entry Entry) logf(lvl Level, format string, args []any) {
	if !entry.mod.Enabled(lvl) {
		return
	}

	fields := logrus.Fields{"_mod": entry.mod.String()}
	for _, lf := range entry.lazy {
		for k, v := range lf() {
			fields[k] = v
		}
	}
	var ctx EntryZ
	for _, c := range contexts {
		c.AddLogContext(&ctx)
	}
	for i := range ctx.zfbuf[:ctx.zfidx] {
		fields[ctx.zfbuf[i].Key] = ctx.zfbuf[i].Value()
	}

	e := logrus.StandardLogger().WithFields(fields)
	switch lvl {
	case FatalLevel:
		e.Fatalf(format, args...)
	case ErrorLevel:
		e.Errorf(format, args...)
	case WarnLevel:
		e.Warnf(format, args...)
	case InfoLevel:
		e.Infof(format, args...)
	default:
		e.Debugf(format, args...)
	}
}
