package model

import "time"

// Hierarchy levels. Phases and workstreams are synthesized as pseudo-tasks
// so the whole tree lives in one flat map.
const (
	LevelPhase      = 1
	LevelWorkstream = 2
	LevelTask       = 3
)

// ConstraintNoEarlierThan is the only supported constraint type.
const ConstraintNoEarlierThan = "no_earlier_than"

// Dependency is a resolved predecessor edge with a working-day lag.
type Dependency struct {
	TaskID string
	Lag    int
}

// Constraint floors a task's computed start date.
type Constraint struct {
	Type   string
	Date   time.Time
	Reason string
}

// BaselineDates is a frozen snapshot of planned dates for variance
// comparison.
type BaselineDates struct {
	Start  time.Time
	Finish time.Time
}

// Task is the single entity type for phases, workstreams, and leaf tasks,
// distinguished by Level. Planning inputs come from the spec; computed
// fields are written only by the schedule pipeline.
type Task struct {
	ID    string
	Name  string
	Level int

	ParentID     string
	PhaseID      string
	WorkstreamID string

	Duration      int
	Dependencies  []Dependency
	Constraint    *Constraint
	Owner         string
	ExplicitStart *time.Time

	ActualStart  *time.Time
	ActualFinish *time.Time

	Progress   int
	Status     Status
	StatusNote string
	Milestone  bool

	Baseline *BaselineDates

	// Computed by the pipeline.
	StartDate  *time.Time
	EndDate    *time.Time
	LateStart  *time.Time
	LateFinish *time.Time
	FloatDays  int
	IsCritical bool
	Successors []string
}

// IsLeaf reports whether t is a level-3 task (the only level the CPM
// passes compute directly).
func (t *Task) IsLeaf() bool {
	return t.Level == LevelTask
}
