package restkit

import (
	"sort"

	"github.com/hashicorp/go-hclog"
)

// hclogLogger adapts an hclog.Logger to Logger.
type hclogLogger struct {
	logger hclog.Logger
}

// NewHCLogLogger returns a Logger writing to logger. A nil logger discards
// everything.
func NewHCLogLogger(logger hclog.Logger) Logger {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	return &hclogLogger{logger: logger}
}

func (l *hclogLogger) Debug(msg string, fields map[string]interface{}) {
	l.logger.Debug(msg, flattenFields(fields)...)
}

func (l *hclogLogger) Info(msg string, fields map[string]interface{}) {
	l.logger.Info(msg, flattenFields(fields)...)
}

func (l *hclogLogger) Warn(msg string, fields map[string]interface{}) {
	l.logger.Warn(msg, flattenFields(fields)...)
}

func (l *hclogLogger) Error(msg string, fields map[string]interface{}) {
	l.logger.Error(msg, flattenFields(fields)...)
}

// flattenFields turns a field map into hclog key/value pairs, ordered by key.
func flattenFields(fields map[string]interface{}) []interface{} {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	args := make([]interface{}, 0, len(fields)*2)
	for _, key := range keys {
		args = append(args, key, fields[key])
	}

	return args
}
