// Package events provides the observability sink for the prompt pipeline.
// Every correction, downgrade, and generation flows through a Sink; emission
// is fire-and-forget and must never fail the caller.
package events

import (
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Event kinds emitted by the pipeline.
const (
	KindInputCorrected   = "input_corrected"
	KindUpgradePrompted  = "upgrade_prompted"
	KindTemplateFallback = "template_fallback"
	KindPromptGenerated  = "prompt_generated"
	KindRegistryUpdated  = "registry_updated"
	KindRegistryReloaded = "registry_reloaded"
	KindMutationSkipped  = "mutation_skipped"
	KindQuotaExceeded    = "quota_exceeded"
)

// Event is a single structured observability record.
type Event struct {
	Kind   string
	Time   time.Time
	Fields map[string]any
}

// Sink consumes events. Implementations must not block the pipeline and
// must not return errors; a lost event is acceptable, a failed generation
// is not.
type Sink interface {
	Emit(e Event)
}

// Emit is a nil-safe helper that stamps the event time and forwards it.
func Emit(s Sink, kind string, fields map[string]any) {
	if s == nil {
		return
	}
	s.Emit(Event{Kind: kind, Time: time.Now(), Fields: fields})
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) Emit(Event) {}

// LogSink writes events as structured log entries.
type LogSink struct{ L *zap.Logger }

func (s LogSink) Emit(e Event) {
	if s.L == nil {
		return
	}
	fields := make([]zap.Field, 0, len(e.Fields))
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fields = append(fields, zap.Any(k, e.Fields[k]))
	}
	s.L.Info(e.Kind, fields...)
}

// ChannelSink bridges events onto a channel, e.g. for a UI. Events are
// dropped rather than blocking when the receiver is slow.
type ChannelSink struct{ Ch chan<- Event }

func (s ChannelSink) Emit(e Event) {
	if s.Ch == nil {
		return
	}
	select {
	case s.Ch <- e:
	default:
	}
}

// Recorder captures events in memory for assertions in tests.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Emit(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// ByKind returns recorded events matching the given kind.
func (r *Recorder) ByKind(kind string) []Event {
	var out []Event
	for _, e := range r.Events() {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}
