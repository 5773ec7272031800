package model

import (
	"fmt"
	"time"

	yamlv3 "gopkg.in/yaml.v3"

	"github.com/msageha/planwright/internal/calendar"
)

// DateLayout is the textual date format used in spec files.
const DateLayout = calendar.DateLayout

// DefaultProjectStart is used when the spec omits project.start_date.
// A fixed constant (not wall-clock today) keeps output deterministic.
var DefaultProjectStart = time.Date(2025, time.January, 6, 0, 0, 0, 0, time.UTC)

// SpecFile is the raw, hierarchical schedule specification as authored.
// The schedule pipeline never mutates it; the diff engine does.
type SpecFile struct {
	Project  ProjectSpec   `yaml:"project"`
	Calendar CalendarSpec  `yaml:"calendar"`
	Baseline *BaselineSpec `yaml:"baseline,omitempty"`
	Phases   []PhaseSpec   `yaml:"phases"`
}

type ProjectSpec struct {
	Name          string `yaml:"name"`
	ID            string `yaml:"id"`
	Updated       string `yaml:"updated,omitempty"`
	StartDate     string `yaml:"start_date,omitempty"`
	Status        string `yaml:"status,omitempty"` // green|yellow|red
	StatusSummary string `yaml:"status_summary,omitempty"`
}

type CalendarSpec struct {
	WorkingDays  []string `yaml:"working_days,omitempty"`
	Holidays     []string `yaml:"holidays,omitempty"`
	DurationUnit string   `yaml:"duration_unit,omitempty"`
}

type BaselineSpec struct {
	CapturedOn string                      `yaml:"captured_on,omitempty"`
	Tasks      map[string]BaselineTaskSpec `yaml:"tasks,omitempty"`
}

type BaselineTaskSpec struct {
	Start  string `yaml:"start"`
	Finish string `yaml:"finish"`
}

type PhaseSpec struct {
	ID          string           `yaml:"id"`
	Name        string           `yaml:"name"`
	Workstreams []WorkstreamSpec `yaml:"workstreams"`
}

type WorkstreamSpec struct {
	ID    string     `yaml:"id"`
	Name  string     `yaml:"name"`
	Tasks []TaskSpec `yaml:"tasks"`
}

type TaskSpec struct {
	ID           string           `yaml:"id"`
	Name         string           `yaml:"name"`
	Duration     int              `yaml:"duration"`
	Progress     int              `yaml:"progress,omitempty"`
	Status       string           `yaml:"status,omitempty"`
	StatusNote   string           `yaml:"status_note,omitempty"`
	Milestone    bool             `yaml:"milestone,omitempty"`
	Owner        string           `yaml:"owner,omitempty"`
	DependsOn    []DependencySpec `yaml:"depends_on,omitempty"`
	ActualStart  string           `yaml:"actual_start,omitempty"`
	ActualFinish string           `yaml:"actual_finish,omitempty"`
	Constraint   *ConstraintSpec  `yaml:"constraint,omitempty"`
	Start        string           `yaml:"start,omitempty"` // explicit start override
}

type ConstraintSpec struct {
	Date   string `yaml:"date"`
	Reason string `yaml:"reason,omitempty"`
}

// DependencySpec accepts either a bare task-id string (lag 0) or an
// object {id, lag}.
type DependencySpec struct {
	ID  string
	Lag int
}

func (d *DependencySpec) UnmarshalYAML(value *yamlv3.Node) error {
	if value.Kind == yamlv3.ScalarNode {
		d.Lag = 0
		return value.Decode(&d.ID)
	}
	var obj struct {
		ID  string `yaml:"id"`
		Lag int    `yaml:"lag"`
	}
	if err := value.Decode(&obj); err != nil {
		return fmt.Errorf("dependency must be a task id or {id, lag}: %w", err)
	}
	d.ID = obj.ID
	d.Lag = obj.Lag
	return nil
}

func (d DependencySpec) MarshalYAML() (any, error) {
	if d.Lag == 0 {
		return d.ID, nil
	}
	return struct {
		ID  string `yaml:"id"`
		Lag int    `yaml:"lag"`
	}{ID: d.ID, Lag: d.Lag}, nil
}

// ParseSpec decodes raw spec text. Malformed YAML is surfaced to the
// caller, never silently defaulted.
func ParseSpec(text []byte) (*SpecFile, error) {
	var spec SpecFile
	if err := yamlv3.Unmarshal(text, &spec); err != nil {
		return nil, fmt.Errorf("parse spec: %w", err)
	}
	return &spec, nil
}

// Serialize re-encodes the spec to text for round-tripping edits.
func (s *SpecFile) Serialize() ([]byte, error) {
	out, err := yamlv3.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("serialize spec: %w", err)
	}
	return out, nil
}

// FindTask returns the raw leaf task entry with the given id, or nil.
func (s *SpecFile) FindTask(id string) *TaskSpec {
	for pi := range s.Phases {
		for wi := range s.Phases[pi].Workstreams {
			tasks := s.Phases[pi].Workstreams[wi].Tasks
			for ti := range tasks {
				if tasks[ti].ID == id {
					return &tasks[ti]
				}
			}
		}
	}
	return nil
}

// LeafTasks returns all raw leaf task entries in document order.
func (s *SpecFile) LeafTasks() []*TaskSpec {
	var out []*TaskSpec
	for pi := range s.Phases {
		for wi := range s.Phases[pi].Workstreams {
			tasks := s.Phases[pi].Workstreams[wi].Tasks
			for ti := range tasks {
				out = append(out, &tasks[ti])
			}
		}
	}
	return out
}

// ParseDate parses a yyyy-mm-dd date string.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want %s)", s, DateLayout)
	}
	return t, nil
}

// FormatDate renders t in the spec's date format.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
