package interpret

import (
	"fmt"

	"github.com/msageha/planwright/internal/model"
)

// GenerateDiff turns a parsed command into field-level changes against
// the raw spec. Old values are the raw entries as authored, not computed
// fields, so the review is meaningful before any computation. Queries,
// unknown intents, and unresolved entities produce no diffs.
func (i *Interpreter) GenerateDiff(cmd ParsedCommand) []Diff {
	if cmd.IsQuery || cmd.Intent == IntentUnknown || cmd.TaskID == "" {
		return nil
	}
	task := i.spec.FindTask(cmd.TaskID)
	if task == nil {
		return nil
	}

	switch cmd.Intent {
	case IntentSetProgress:
		v := cmd.Value.(int)
		return []Diff{fieldDiff(task.ID, "progress", task.Progress, v,
			fmt.Sprintf("%s: progress %d%% -> %d%%", task.ID, task.Progress, v))}

	case IntentMarkComplete:
		return []Diff{
			fieldDiff(task.ID, "progress", task.Progress, 100,
				fmt.Sprintf("%s: progress %d%% -> 100%%", task.ID, task.Progress)),
			fieldDiff(task.ID, "status", task.Status, string(model.StatusComplete),
				fmt.Sprintf("%s: status %s -> %s", task.ID, displayStatus(task.Status), model.StatusComplete)),
		}

	case IntentExtendDuration:
		v := cmd.Value.(int)
		return []Diff{durationDiff(task, task.Duration+v)}

	case IntentShortenDuration:
		v := cmd.Value.(int)
		next := task.Duration - v
		if next < 0 {
			next = 0
		}
		return []Diff{durationDiff(task, next)}

	case IntentSetDuration:
		return []Diff{durationDiff(task, cmd.Value.(int))}

	case IntentAddRisk:
		note, _ := cmd.Value.(string)
		if note == "" {
			note = "flagged at risk"
		}
		return []Diff{
			fieldDiff(task.ID, "status", task.Status, string(model.StatusAtRisk),
				fmt.Sprintf("%s: status %s -> %s", task.ID, displayStatus(task.Status), model.StatusAtRisk)),
			fieldDiff(task.ID, "status_note", task.StatusNote, note,
				fmt.Sprintf("%s: status_note -> %q", task.ID, note)),
		}

	case IntentSetActualStart:
		v := cmd.Value.(string)
		return []Diff{fieldDiff(task.ID, "actual_start", task.ActualStart, v,
			fmt.Sprintf("%s: actual_start %s -> %s", task.ID, displayDate(task.ActualStart), v))}

	case IntentSetActualFinish:
		v := cmd.Value.(string)
		return []Diff{fieldDiff(task.ID, "actual_finish", task.ActualFinish, v,
			fmt.Sprintf("%s: actual_finish %s -> %s", task.ID, displayDate(task.ActualFinish), v))}

	case IntentAddDependency:
		predID := cmd.Value.(string)
		for _, dep := range task.DependsOn {
			if dep.ID == predID {
				return nil // already present
			}
		}
		next := append(cloneDeps(task.DependsOn), model.DependencySpec{ID: predID})
		return []Diff{fieldDiff(task.ID, "depends_on", cloneDeps(task.DependsOn), next,
			fmt.Sprintf("%s: add dependency on %s", task.ID, predID))}

	case IntentAddLag:
		days := cmd.Value.(int)
		predID := cmd.Value2.(string)
		next := cloneDeps(task.DependsOn)
		found := false
		for di := range next {
			if next[di].ID == predID {
				next[di].Lag = days
				found = true
				break
			}
		}
		if !found {
			next = append(next, model.DependencySpec{ID: predID, Lag: days})
		}
		return []Diff{fieldDiff(task.ID, "depends_on", cloneDeps(task.DependsOn), next,
			fmt.Sprintf("%s: %d day lag after %s", task.ID, days, predID))}

	case IntentAddConstraint:
		date := cmd.Value.(string)
		next := &model.ConstraintSpec{Date: date}
		return []Diff{fieldDiff(task.ID, "constraint", task.Constraint, next,
			fmt.Sprintf("%s: cannot start before %s", task.ID, date))}

	case IntentWhatIf:
		days := cmd.Value.(int)
		d := durationDiff(task, task.Duration+days)
		d.Description = fmt.Sprintf("what-if: %s slips %d working days", task.ID, days)
		d.Impact = fmt.Sprintf("%s duration %d -> %d; successors and the project end shift by up to %d working days",
			task.ID, task.Duration, task.Duration+days, days)
		return []Diff{d}
	}

	return nil
}

// ApplyDiff mutates the raw spec per diff and re-serializes it. A diff
// whose task id no longer exists is skipped, never an error. Callers are
// expected to apply a full GenerateDiff result together; compound diffs
// are only meaningful as a set.
func (i *Interpreter) ApplyDiff(diffs []Diff) ([]byte, error) {
	for _, d := range diffs {
		task := i.spec.FindTask(d.TaskID)
		if task == nil {
			continue
		}
		applyField(task, d)
	}
	return i.spec.Serialize()
}

func applyField(task *model.TaskSpec, d Diff) {
	switch d.Field {
	case "progress":
		task.Progress = d.NewValue.(int)
	case "duration":
		task.Duration = d.NewValue.(int)
	case "status":
		task.Status = d.NewValue.(string)
	case "status_note":
		task.StatusNote = d.NewValue.(string)
	case "actual_start":
		task.ActualStart = d.NewValue.(string)
	case "actual_finish":
		task.ActualFinish = d.NewValue.(string)
	case "depends_on":
		task.DependsOn = d.NewValue.([]model.DependencySpec)
	case "constraint":
		task.Constraint = d.NewValue.(*model.ConstraintSpec)
	}
}

func fieldDiff(taskID, field string, oldValue, newValue any, description string) Diff {
	return Diff{
		TaskID:      taskID,
		Field:       field,
		OldValue:    oldValue,
		NewValue:    newValue,
		Description: description,
	}
}

func durationDiff(task *model.TaskSpec, next int) Diff {
	return fieldDiff(task.ID, "duration", task.Duration, next,
		fmt.Sprintf("%s: duration %d -> %d days", task.ID, task.Duration, next))
}

func cloneDeps(deps []model.DependencySpec) []model.DependencySpec {
	out := make([]model.DependencySpec, len(deps))
	copy(out, deps)
	return out
}

func displayStatus(s string) string {
	if s == "" {
		return string(model.StatusNotStarted)
	}
	return s
}

func displayDate(s string) string {
	if s == "" {
		return "(unset)"
	}
	return s
}
