// SPDX-License-Identifier: Apache-2.0

package log

// Logger is the logging interface used by the colmap packages. Library code
// never logs through a global logger, it receives one through its options.
type Logger interface {
	Trace(msg string, fields ...Fields)
	Debug(msg string, fields ...Fields)
	Info(msg string, fields ...Fields)
	Warn(err error, msg string, fields ...Fields)
	Error(err error, msg string, fields ...Fields)
	Panic(msg string, fields ...Fields)
	WithFields(fields Fields) Logger
}

type Fields map[string]any

type NoopLogger struct{}

func (l *NoopLogger) Trace(msg string, fields ...Fields)            {}
func (l *NoopLogger) Debug(msg string, fields ...Fields)            {}
func (l *NoopLogger) Info(msg string, fields ...Fields)             {}
func (l *NoopLogger) Warn(err error, msg string, fields ...Fields)  {}
func (l *NoopLogger) Error(err error, msg string, fields ...Fields) {}
func (l *NoopLogger) Panic(msg string, fields ...Fields)            {}
func (l *NoopLogger) WithFields(fields Fields) Logger {
	return l
}

// Common field keys, so that log lines for the same dataset subset can be
// correlated across packages.
const (
	ModuleField  = "module"
	RunIDField   = "run_id"
	DatasetField = "dataset"
	SubsetField  = "subset"
	SplitField   = "split"
)

func NewNoopLogger() *NoopLogger {
	return &NoopLogger{}
}

// NewLogger will return the logger on input if not nil, or a noop logger
// otherwise.
func NewLogger(l Logger) Logger {
	if l == nil {
		return &NoopLogger{}
	}
	return l
}

// MergeFields returns a new set of fields with the contents of both inputs.
// Keys in f2 take precedence.
func MergeFields(f1, f2 Fields) Fields {
	allFields := make(Fields, len(f1)+len(f2))
	for _, fmap := range []Fields{f1, f2} {
		for k, v := range fmap {
			allFields[k] = v
		}
	}
	return allFields
}

// DatasetFields returns the log fields identifying a dataset subset. The split
// is omitted when empty.
func DatasetFields(dataset, subset, split string) Fields {
	fields := Fields{
		DatasetField: dataset,
		SubsetField:  subset,
	}
	if split != "" {
		fields[SplitField] = split
	}
	return fields
}
