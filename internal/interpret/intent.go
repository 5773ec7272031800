package interpret

// Intent is the structured meaning extracted from a free-text command.
type Intent string

const (
	IntentSetProgress      Intent = "set_progress"
	IntentMarkComplete     Intent = "mark_complete"
	IntentExtendDuration   Intent = "extend_duration"
	IntentShortenDuration  Intent = "shorten_duration"
	IntentSetDuration      Intent = "set_duration"
	IntentAddRisk          Intent = "add_risk"
	IntentSetActualStart   Intent = "set_actual_start"
	IntentSetActualFinish  Intent = "set_actual_finish"
	IntentAddDependency    Intent = "add_dependency"
	IntentAddLag           Intent = "add_lag"
	IntentAddConstraint    Intent = "add_constraint"
	IntentWhatIf           Intent = "what_if"
	IntentShowCriticalPath Intent = "show_critical_path"
	IntentShowMilestones   Intent = "show_milestones"
	IntentShowVariance     Intent = "show_variance"
	IntentShowStatus       Intent = "show_status"
	IntentUnknown          Intent = "unknown"
)

// ParsedCommand is the interpreter's output: an intent plus the resolved
// entity and extracted values. Queries never produce diffs.
type ParsedCommand struct {
	Intent     Intent
	TaskID     string
	TaskName   string
	Value      any
	Value2     any
	Confidence float64
	IsQuery    bool
}

// Diff is one reviewable field-level change against the raw spec. A list
// of Diffs from one GenerateDiff call is the unit of atomic application;
// compound edits (mark_complete, add_risk) are only meaningful as a set.
type Diff struct {
	TaskID      string
	Field       string
	OldValue    any
	NewValue    any
	Description string
	Impact      string
}
