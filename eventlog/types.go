// Package eventlog provides loading and analysis of process event logs.
// Supports JSON trace arrays, JSONL, CSV, and XES formats commonly used
// in process mining.
package eventlog

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Event represents a single event in a process execution.
type Event struct {
	CaseID     string                 // Identifier for the process instance/case
	Activity   string                 // Name of the activity/task performed
	Timestamp  time.Time              // When the event occurred (zero if unknown)
	Resource   string                 // Who/what performed the activity (optional)
	Lifecycle  string                 // Event lifecycle: start, complete, etc. (optional)
	Attributes map[string]interface{} // Additional event attributes
}

// Trace represents the ordered sequence of events for a single case.
type Trace struct {
	CaseID     string
	Events     []Event
	Attributes map[string]interface{}
}

// EventLog contains all traces from a process log.
type EventLog struct {
	Cases map[string]*Trace

	order   []string // case IDs in first-seen order
	nextGen int      // counter for synthesized case IDs
}

// NewEventLog creates an empty event log.
func NewEventLog() *EventLog {
	return &EventLog{Cases: make(map[string]*Trace)}
}

// AddEvent adds an event to the log, creating a new trace if needed.
func (log *EventLog) AddEvent(event Event) {
	trace, exists := log.Cases[event.CaseID]
	if !exists {
		trace = &Trace{
			CaseID:     event.CaseID,
			Events:     make([]Event, 0),
			Attributes: make(map[string]interface{}),
		}
		log.Cases[event.CaseID] = trace
		log.order = append(log.order, event.CaseID)
	}
	trace.Events = append(trace.Events, event)
}

// AddTrace appends a whole trace given only its activity sequence,
// synthesizing a case ID. Used by the generator and the JSON trace-array
// loader, where logs carry no case or timestamp information.
func (log *EventLog) AddTrace(activities []string) *Trace {
	log.nextGen++
	caseID := fmt.Sprintf("case_%d", log.nextGen)
	trace := &Trace{
		CaseID:     caseID,
		Events:     make([]Event, 0, len(activities)),
		Attributes: make(map[string]interface{}),
	}
	for _, act := range activities {
		trace.Events = append(trace.Events, Event{CaseID: caseID, Activity: act})
	}
	log.Cases[caseID] = trace
	log.order = append(log.order, caseID)
	return trace
}

// SortTraces sorts events within each trace by timestamp.
// Traces without timestamps keep their insertion order.
func (log *EventLog) SortTraces() {
	for _, trace := range log.Cases {
		sort.SliceStable(trace.Events, func(i, j int) bool {
			return trace.Events[i].Timestamp.Before(trace.Events[j].Timestamp)
		})
	}
}

// Traces returns all traces in first-seen order.
func (log *EventLog) Traces() []*Trace {
	traces := make([]*Trace, 0, len(log.Cases))
	for _, caseID := range log.order {
		traces = append(traces, log.Cases[caseID])
	}
	return traces
}

// NumCases returns the number of cases in the log.
func (log *EventLog) NumCases() int {
	return len(log.Cases)
}

// NumEvents returns the total number of events across all cases.
func (log *EventLog) NumEvents() int {
	total := 0
	for _, trace := range log.Cases {
		total += len(trace.Events)
	}
	return total
}

// Activities returns a sorted list of unique activities in the log.
func (log *EventLog) Activities() []string {
	seen := make(map[string]bool)
	for _, trace := range log.Cases {
		for _, event := range trace.Events {
			seen[event.Activity] = true
		}
	}

	result := make([]string, 0, len(seen))
	for activity := range seen {
		result = append(result, activity)
	}
	sort.Strings(result)
	return result
}

// ActivitySequence returns the ordered activity names of a trace.
func (trace *Trace) ActivitySequence() []string {
	seq := make([]string, len(trace.Events))
	for i, event := range trace.Events {
		seq[i] = event.Activity
	}
	return seq
}

// String returns a compact representation of the trace.
func (trace *Trace) String() string {
	return fmt.Sprintf("Case %s: %s", trace.CaseID, strings.Join(trace.ActivitySequence(), " → "))
}

// Variant is one distinct activity sequence together with the number of
// traces that follow it.
type Variant struct {
	Activities []string
	Count      int
}

// Key returns the canonical identity of the variant's sequence.
func (v Variant) Key() string {
	return strings.Join(v.Activities, "\x1f")
}

// String renders the variant as an arrow-joined sequence.
func (v Variant) String() string {
	return strings.Join(v.Activities, " → ")
}

// Variants deduplicates the log's traces into distinct activity sequences
// with occurrence counts, preserving first-seen order. The counts always
// sum to NumCases.
func (log *EventLog) Variants() []Variant {
	index := make(map[string]int)
	var variants []Variant

	for _, trace := range log.Traces() {
		seq := trace.ActivitySequence()
		key := strings.Join(seq, "\x1f")
		if i, ok := index[key]; ok {
			variants[i].Count++
			continue
		}
		index[key] = len(variants)
		variants = append(variants, Variant{Activities: seq, Count: 1})
	}

	return variants
}
