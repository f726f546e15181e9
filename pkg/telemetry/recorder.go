package telemetry

import (
	"sync"
	"time"
)

// Dependency is one recorded dependency call.
type Dependency struct {
	Name         string
	Target       string
	Duration     time.Duration
	Success      bool
	ResponseCode int
	Props        Properties
}

// Event is one recorded named event.
type Event struct {
	Name  string
	Props Properties
}

// Exception is one recorded exception.
type Exception struct {
	Err   error
	Props Properties
}

// Metric is one recorded metric sample.
type Metric struct {
	Name  string
	Value float64
	Props Properties
}

// Recorder is an in-memory Sink that keeps everything it receives, for
// assertions in tests.
type Recorder struct {
	mu           sync.Mutex
	PageViews    []Event
	Events       []Event
	Exceptions   []Exception
	Dependencies []Dependency
	Metrics      []Metric
}

var _ Sink = (*Recorder)(nil)

func (r *Recorder) TrackPageView(name, uri string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.PageViews = append(r.PageViews, Event{Name: name, Props: Properties{"uri": uri}})
}

func (r *Recorder) TrackEvent(name string, props Properties) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, Event{Name: name, Props: props})
}

func (r *Recorder) TrackException(err error, props Properties) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Exceptions = append(r.Exceptions, Exception{Err: err, Props: props})
}

func (r *Recorder) TrackDependency(name, target string, duration time.Duration, success bool, responseCode int, props Properties) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Dependencies = append(r.Dependencies, Dependency{
		Name:         name,
		Target:       target,
		Duration:     duration,
		Success:      success,
		ResponseCode: responseCode,
		Props:        props,
	})
}

func (r *Recorder) TrackMetric(name string, value float64, props Properties) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Metrics = append(r.Metrics, Metric{Name: name, Value: value, Props: props})
}

// EventNames returns the names of all tracked events in order.
func (r *Recorder) EventNames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, len(r.Events))
	for i, e := range r.Events {
		names[i] = e.Name
	}
	return names
}
