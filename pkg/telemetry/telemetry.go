// Package telemetry defines the sink that loandesk services report page
// views, events, exceptions, dependency calls, and metrics into. A Noop sink
// is substitutable anywhere with zero behavior difference to callers.
package telemetry

import "time"

// Properties carries operation-specific attributes on a tracked record.
type Properties map[string]string

// Sink receives structured telemetry from services and state containers.
type Sink interface {
	TrackPageView(name, uri string)
	TrackEvent(name string, props Properties)
	TrackException(err error, props Properties)
	TrackDependency(name, target string, duration time.Duration, success bool, responseCode int, props Properties)
	TrackMetric(name string, value float64, props Properties)
}

// Noop discards everything.
type Noop struct{}

var _ Sink = Noop{}

func (Noop) TrackPageView(string, string)                                          {}
func (Noop) TrackEvent(string, Properties)                                         {}
func (Noop) TrackException(error, Properties)                                      {}
func (Noop) TrackDependency(string, string, time.Duration, bool, int, Properties)  {}
func (Noop) TrackMetric(string, float64, Properties)                               {}
