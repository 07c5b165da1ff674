package eventlog

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// Standard XES attribute keys.
const (
	xesConceptName = "concept:name"
	xesTimestamp   = "time:timestamp"
	xesResource    = "org:resource"
	xesLifecycle   = "lifecycle:transition"
)

// ParseXES parses an event log from an XES (XML Event Stream) file, the
// IEEE standard interchange format for process mining logs.
func ParseXES(filename string) (*EventLog, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return ParseXESReader(f)
}

// ParseXESReader parses XES from a reader using a streaming token scan,
// so large logs never need to be held in memory as a DOM.
func ParseXESReader(r io.Reader) (*EventLog, error) {
	log := NewEventLog()
	dec := xml.NewDecoder(r)

	var (
		inTrace       bool
		inEvent       bool
		traceCount    int
		currentCaseID string
		currentEvent  Event
		traceEvents   []Event
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing XES: %w", err)
		}

		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "trace":
				inTrace = true
				traceCount++
				// Placeholder until the trace-level concept:name arrives.
				currentCaseID = fmt.Sprintf("trace_%d", traceCount)
				traceEvents = nil
			case "event":
				if !inTrace {
					return nil, fmt.Errorf("parsing XES: event element outside a trace")
				}
				inEvent = true
				currentEvent = Event{Attributes: make(map[string]interface{})}
			case "string", "date", "int", "float", "boolean":
				key, value := xesAttr(el)
				if key == "" {
					continue
				}
				if inEvent {
					applyEventAttr(&currentEvent, el.Name.Local, key, value)
				} else if inTrace && key == xesConceptName {
					currentCaseID = value
				}
			}
		case xml.EndElement:
			switch el.Name.Local {
			case "event":
				if inEvent {
					if currentEvent.Activity == "" {
						return nil, fmt.Errorf("parsing XES: event in trace %q has no %s", currentCaseID, xesConceptName)
					}
					traceEvents = append(traceEvents, currentEvent)
					inEvent = false
				}
			case "trace":
				// The case ID is only final here: the trace-level
				// concept:name may follow the events it names.
				for i := range traceEvents {
					traceEvents[i].CaseID = currentCaseID
					log.AddEvent(traceEvents[i])
				}
				inTrace = false
			}
		}
	}

	log.SortTraces()
	return log, nil
}

// xesAttr pulls the key/value attribute pair off an XES attribute element.
func xesAttr(el xml.StartElement) (key, value string) {
	for _, attr := range el.Attr {
		switch attr.Name.Local {
		case "key":
			key = attr.Value
		case "value":
			value = attr.Value
		}
	}
	return key, value
}

// applyEventAttr maps an XES attribute onto the event being built.
func applyEventAttr(event *Event, elType, key, value string) {
	switch key {
	case xesConceptName:
		event.Activity = value
		return
	case xesTimestamp:
		if ts, err := time.Parse(time.RFC3339, value); err == nil {
			event.Timestamp = ts
		}
		return
	case xesResource:
		event.Resource = value
		return
	case xesLifecycle:
		event.Lifecycle = value
		return
	}

	switch elType {
	case "int":
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			event.Attributes[key] = n
			return
		}
	case "float":
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			event.Attributes[key] = f
			return
		}
	case "boolean":
		if b, err := strconv.ParseBool(value); err == nil {
			event.Attributes[key] = b
			return
		}
	}
	event.Attributes[key] = value
}
