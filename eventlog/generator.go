package eventlog

import (
	"fmt"
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"
)

// ProcessSpec describes a process for synthetic log generation: its tasks,
// the dependencies between them, which tasks may run concurrently, and any
// uncommon paths that occasionally replace the normal flow.
type ProcessSpec struct {
	Tasks         []string            `yaml:"tasks"`
	Dependencies  map[string][]string `yaml:"dependencies"`
	Concurrency   []string            `yaml:"concurrency"`
	UncommonPaths [][]string          `yaml:"uncommon_paths"`
}

// LoadProcessSpec reads a process description from a YAML file.
func LoadProcessSpec(filename string) (*ProcessSpec, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading process spec: %w", err)
	}

	var spec ProcessSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parsing process spec: %w", err)
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &spec, nil
}

// Validate checks that the process description is consistent: every dependency
// refers to a declared task, and the dependency graph is acyclic so that
// generation can always make progress.
func (spec *ProcessSpec) Validate() error {
	if len(spec.Tasks) == 0 {
		return fmt.Errorf("process spec declares no tasks")
	}

	declared := make(map[string]bool, len(spec.Tasks))
	for _, task := range spec.Tasks {
		declared[task] = true
	}
	for task, deps := range spec.Dependencies {
		if !declared[task] {
			return fmt.Errorf("dependency declared for unknown task %q", task)
		}
		for _, dep := range deps {
			if !declared[dep] {
				return fmt.Errorf("task %q depends on unknown task %q", task, dep)
			}
		}
	}

	// Cycle check: repeatedly remove tasks whose dependencies are all
	// removed. Anything left is part of a cycle.
	remaining := make(map[string]bool, len(spec.Tasks))
	for _, task := range spec.Tasks {
		remaining[task] = true
	}
	for len(remaining) > 0 {
		progressed := false
		for task := range remaining {
			ready := true
			for _, dep := range spec.Dependencies[task] {
				if remaining[dep] {
					ready = false
					break
				}
			}
			if ready {
				delete(remaining, task)
				progressed = true
			}
		}
		if !progressed {
			return fmt.Errorf("dependency cycle among tasks: %v", keys(remaining))
		}
	}

	return nil
}

// GenerateOptions controls synthetic log generation.
type GenerateOptions struct {
	NumTraces        int     `yaml:"num_traces"`
	NoiseLevel       float64 `yaml:"noise_level"`        // fraction of events that are injected noise
	UncommonPathFreq float64 `yaml:"uncommon_path_freq"` // probability a trace follows an uncommon path
	MissingEventProb float64 `yaml:"missing_event_prob"` // probability each event is dropped
	Seed             int64   `yaml:"seed"`               // 0 means a fixed default seed
}

// DefaultGenerateOptions returns the generation defaults.
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{NumTraces: 50, Seed: 1}
}

// Generate produces a synthetic event log from the process description.
// Traces respect the declared dependencies; concurrency-listed tasks are
// preferred when several tasks are available, producing interleavings.
// Generation is deterministic for a given seed.
func Generate(spec *ProcessSpec, opts GenerateOptions) (*EventLog, error) {
	return GenerateWithProgress(spec, opts, nil)
}

// GenerateWithProgress is Generate with a per-trace callback, for callers
// that report progress on large logs. progress may be nil.
func GenerateWithProgress(spec *ProcessSpec, opts GenerateOptions, progress func(done int)) (*EventLog, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if opts.NumTraces < 0 {
		return nil, fmt.Errorf("NumTraces must be non-negative, got %d", opts.NumTraces)
	}

	seed := opts.Seed
	if seed == 0 {
		seed = DefaultGenerateOptions().Seed
	}
	rng := rand.New(rand.NewSource(seed))

	log := NewEventLog()
	for i := 0; i < opts.NumTraces; i++ {
		trace := generateTrace(spec, opts, rng)
		log.AddTrace(trace)
		if progress != nil {
			progress(i + 1)
		}
	}
	return log, nil
}

// generateTrace produces one trace.
func generateTrace(spec *ProcessSpec, opts GenerateOptions, rng *rand.Rand) []string {
	var trace []string

	if len(spec.UncommonPaths) > 0 && rng.Float64() < opts.UncommonPathFreq {
		src := spec.UncommonPaths[rng.Intn(len(spec.UncommonPaths))]
		trace = append(trace, src...)
	} else {
		trace = generateNormalPath(spec, rng)
	}

	// Missing-event dropout.
	if opts.MissingEventProb > 0 {
		kept := trace[:0]
		for _, task := range trace {
			if rng.Float64() > opts.MissingEventProb {
				kept = append(kept, task)
			}
		}
		trace = kept
	}

	// Noise injection.
	if opts.NoiseLevel > 0 {
		numNoise := int(float64(len(trace)) * opts.NoiseLevel)
		for i := 0; i < numNoise; i++ {
			noise := fmt.Sprintf("noise_%d", rng.Intn(100)+1)
			pos := rng.Intn(len(trace) + 1)
			trace = append(trace[:pos], append([]string{noise}, trace[pos:]...)...)
		}
	}

	return trace
}

// generateNormalPath schedules every task once, honoring dependencies and
// preferring concurrency-listed tasks among those available.
func generateNormalPath(spec *ProcessSpec, rng *rand.Rand) []string {
	done := make(map[string]bool, len(spec.Tasks))
	remaining := make([]string, len(spec.Tasks))
	copy(remaining, spec.Tasks)

	concurrent := make(map[string]bool, len(spec.Concurrency))
	for _, task := range spec.Concurrency {
		concurrent[task] = true
	}

	var trace []string
	for len(remaining) > 0 {
		var available, availableConcurrent []string
		for _, task := range remaining {
			ready := true
			for _, dep := range spec.Dependencies[task] {
				if !done[dep] {
					ready = false
					break
				}
			}
			if ready {
				available = append(available, task)
				if concurrent[task] {
					availableConcurrent = append(availableConcurrent, task)
				}
			}
		}

		pool := available
		if len(availableConcurrent) > 0 {
			pool = availableConcurrent
		}
		selected := pool[rng.Intn(len(pool))]

		trace = append(trace, selected)
		done[selected] = true
		for i, task := range remaining {
			if task == selected {
				remaining = append(remaining[:i], remaining[i+1:]...)
				break
			}
		}
	}
	return trace
}

func keys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
