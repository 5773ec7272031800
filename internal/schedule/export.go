package schedule

import (
	"encoding/json"
	"time"

	"github.com/msageha/planwright/internal/model"
)

// Export is the JSON-serializable view of a computed schedule.
type Export struct {
	Project            ProjectExport  `json:"project"`
	Calendar           CalendarExport `json:"calendar"`
	BaselineCapturedOn string         `json:"baseline_captured_on,omitempty"`
	Tasks              []TaskExport   `json:"tasks"`
}

type ProjectExport struct {
	Name          string `json:"name"`
	ID            string `json:"id"`
	Updated       string `json:"updated,omitempty"`
	Status        string `json:"status,omitempty"`
	StatusSummary string `json:"status_summary,omitempty"`
	Start         string `json:"start"`
	End           string `json:"end"`
	Duration      int    `json:"duration"`
}

type CalendarExport struct {
	WorkingDays  []string `json:"working_days,omitempty"`
	Holidays     []string `json:"holidays,omitempty"`
	DurationUnit string   `json:"duration_unit,omitempty"`
}

type DependencyExport struct {
	TaskID string `json:"task_id"`
	Lag    int    `json:"lag,omitempty"`
}

type TaskExport struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Level        int    `json:"level"`
	ParentID     string `json:"parent_id,omitempty"`
	PhaseID      string `json:"phase_id,omitempty"`
	WorkstreamID string `json:"workstream_id,omitempty"`

	Duration     int                `json:"duration"`
	Dependencies []DependencyExport `json:"dependencies,omitempty"`
	Owner        string             `json:"owner,omitempty"`

	Progress   int    `json:"progress"`
	Status     string `json:"status"`
	StatusNote string `json:"status_note,omitempty"`
	Milestone  bool   `json:"milestone,omitempty"`

	StartDate    string `json:"start_date,omitempty"`
	EndDate      string `json:"end_date,omitempty"`
	ActualStart  string `json:"actual_start,omitempty"`
	ActualFinish string `json:"actual_finish,omitempty"`
	LateStart    string `json:"late_start,omitempty"`
	LateFinish   string `json:"late_finish,omitempty"`
	FloatDays    int    `json:"float_days"`
	IsCritical   bool   `json:"is_critical"`

	Successors []string `json:"successors,omitempty"`

	BaselineStart      string `json:"baseline_start,omitempty"`
	BaselineFinish     string `json:"baseline_finish,omitempty"`
	StartVarianceDays  *int   `json:"start_variance_days,omitempty"`
	FinishVarianceDays *int   `json:"finish_variance_days,omitempty"`
}

func formatOpt(t *time.Time) string {
	if t == nil {
		return ""
	}
	return model.FormatDate(*t)
}

// ExportJSON serializes the computed schedule, keeping tasks at or below
// the given hierarchy level (1 = phases only, 3 = everything).
func (s *Schedule) ExportJSON(level int) ([]byte, error) {
	start, end, duration := s.ProjectDates()

	out := Export{
		Project: ProjectExport{
			Name:          s.Spec.Project.Name,
			ID:            s.Spec.Project.ID,
			Updated:       s.Spec.Project.Updated,
			Status:        s.Spec.Project.Status,
			StatusSummary: s.Spec.Project.StatusSummary,
			Start:         model.FormatDate(start),
			End:           model.FormatDate(end),
			Duration:      duration,
		},
		Calendar: CalendarExport{
			WorkingDays:  s.Spec.Calendar.WorkingDays,
			Holidays:     s.Spec.Calendar.Holidays,
			DurationUnit: s.Spec.Calendar.DurationUnit,
		},
	}
	if s.Spec.Baseline != nil {
		out.BaselineCapturedOn = s.Spec.Baseline.CapturedOn
	}

	for _, id := range s.Order {
		task := s.Tasks[id]
		if task.Level > level {
			continue
		}
		out.Tasks = append(out.Tasks, s.exportTask(task))
	}

	return json.MarshalIndent(out, "", "  ")
}

func (s *Schedule) exportTask(task *model.Task) TaskExport {
	te := TaskExport{
		ID:           task.ID,
		Name:         task.Name,
		Level:        task.Level,
		ParentID:     task.ParentID,
		PhaseID:      task.PhaseID,
		WorkstreamID: task.WorkstreamID,
		Duration:     task.Duration,
		Owner:        task.Owner,
		Progress:     task.Progress,
		Status:       string(task.Status),
		StatusNote:   task.StatusNote,
		Milestone:    task.Milestone,
		StartDate:    formatOpt(task.StartDate),
		EndDate:      formatOpt(task.EndDate),
		ActualStart:  formatOpt(task.ActualStart),
		ActualFinish: formatOpt(task.ActualFinish),
		LateStart:    formatOpt(task.LateStart),
		LateFinish:   formatOpt(task.LateFinish),
		FloatDays:    task.FloatDays,
		IsCritical:   task.IsCritical,
		Successors:   task.Successors,
	}

	for _, dep := range task.Dependencies {
		te.Dependencies = append(te.Dependencies, DependencyExport{TaskID: dep.TaskID, Lag: dep.Lag})
	}

	if task.Baseline != nil {
		te.BaselineStart = model.FormatDate(task.Baseline.Start)
		te.BaselineFinish = model.FormatDate(task.Baseline.Finish)
		if task.StartDate != nil {
			v := s.Cal.DaysBetween(task.Baseline.Start, *task.StartDate)
			te.StartVarianceDays = &v
		}
		if task.EndDate != nil {
			v := s.Cal.DaysBetween(task.Baseline.Finish, *task.EndDate)
			te.FinishVarianceDays = &v
		}
	}

	return te
}
