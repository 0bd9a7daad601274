// Package metric reports named measurements through the process logger. The
// extractor has no metrics backend; a reporter that renders to structured log
// fields is enough for operators to scrape progress out of the log stream.
package metric

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ethetl/ethetl/internal/logger"
)

// Measure is one named measurement.
type Measure struct {
	Name  string
	Value float64
}

// MetricReporter records measures somewhere an operator can see them.
type MetricReporter struct {
	Record func(ctx context.Context, m Measure, opts ...any)
}

var LogOptions = LogOptionBuilder{}

// NewLogMetricReporter returns a reporter that renders each measure as a
// structured log line via logger.For.
func NewLogMetricReporter() MetricReporter {
	return MetricReporter{Record: LogMetricReporter{}.Record}
}

type LogMetricReporter struct{}

type LogArgs struct {
	Tags   map[string]string
	LogMsg string
	Level  *logrus.Level
}

type LogOptionBuilder struct{}

func (LogOptionBuilder) WithLogMessage(msg string) func(*LogArgs) {
	return func(a *LogArgs) {
		a.LogMsg = msg
	}
}

func (LogOptionBuilder) WithTags(tags map[string]string) func(*LogArgs) {
	return func(a *LogArgs) {
		a.Tags = tags
	}
}

func (LogOptionBuilder) WithLevel(l logrus.Level) func(*LogArgs) {
	return func(a *LogArgs) {
		a.Level = &l
	}
}

func (l LogMetricReporter) Record(ctx context.Context, m Measure, opts ...any) {
	args := LogArgs{}
	for _, opt := range opts {
		opt.(func(*LogArgs))(&args)
	}

	payload := logrus.Fields{"metric": logrus.Fields{
		"metricName":  m.Name,
		"metricValue": m.Value,
		"metricTags":  args.Tags,
	}}

	logLine := fmt.Sprintf("reporting metric %s(val=%0.2f)", m.Name, m.Value)
	if args.LogMsg != "" {
		logLine += ": " + args.LogMsg
	}

	level := logrus.InfoLevel
	if args.Level != nil {
		level = *args.Level
	}

	logger.For(ctx).WithFields(payload).Log(level, logLine)
}
