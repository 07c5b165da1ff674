package eventlog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// JSONConfig configures JSON trace-array parsing.
type JSONConfig struct {
	// TaskField is the object key holding the activity name when trace
	// entries are objects rather than bare strings.
	TaskField string
}

// DefaultJSONConfig returns a configuration with common defaults.
func DefaultJSONConfig() JSONConfig {
	return JSONConfig{TaskField: "task"}
}

// ParseJSON parses an event log from a JSON trace-array file: a top-level
// array of traces, where each trace is an array of activity names or of
// objects carrying the activity under the configured task field.
//
//	[["A","B","C"], ["A","C","B"]]
//	[[{"task":"A"},{"task":"B"}]]
func ParseJSON(filename string, config JSONConfig) (*EventLog, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return ParseJSONReader(f, config)
}

// ParseJSONReader parses a JSON trace array from a reader.
func ParseJSONReader(r io.Reader, config JSONConfig) (*EventLog, error) {
	if config.TaskField == "" {
		config.TaskField = DefaultJSONConfig().TaskField
	}

	var raw [][]json.RawMessage
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding trace array: %w", err)
	}

	log := NewEventLog()
	for ti, rawTrace := range raw {
		activities := make([]string, 0, len(rawTrace))
		for ei, rawEvent := range rawTrace {
			activity, err := decodeActivity(rawEvent, config.TaskField)
			if err != nil {
				return nil, fmt.Errorf("trace %d, event %d: %w", ti, ei, err)
			}
			activities = append(activities, activity)
		}
		log.AddTrace(activities)
	}

	return log, nil
}

// WriteJSON writes the log as a JSON trace array, the format ParseJSON
// reads back: one array of activity names per trace, first-seen order.
func WriteJSON(log *EventLog, filename string) error {
	traces := make([][]string, 0, log.NumCases())
	for _, trace := range log.Traces() {
		traces = append(traces, trace.ActivitySequence())
	}

	data, err := json.MarshalIndent(traces, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding trace array: %w", err)
	}
	return os.WriteFile(filename, data, 0644)
}

// decodeActivity accepts either a bare string or an object holding the
// activity under taskField.
func decodeActivity(raw json.RawMessage, taskField string) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s == "" {
			return "", fmt.Errorf("empty activity name")
		}
		return s, nil
	}

	var obj map[string]interface{}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return "", fmt.Errorf("event is neither a string nor an object: %w", err)
	}

	value, ok := obj[taskField]
	if !ok {
		return "", fmt.Errorf("missing field %q", taskField)
	}
	name, ok := value.(string)
	if !ok || name == "" {
		return "", fmt.Errorf("field %q is not a non-empty string", taskField)
	}
	return name, nil
}
