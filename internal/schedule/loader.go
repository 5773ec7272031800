package schedule

import (
	"fmt"
	"time"

	"github.com/msageha/planwright/internal/calendar"
	"github.com/msageha/planwright/internal/model"
)

// buildCalendar constructs the working calendar from the raw spec.
func buildCalendar(spec *model.SpecFile) (*calendar.Calendar, error) {
	holidays := make([]time.Time, 0, len(spec.Calendar.Holidays))
	for _, h := range spec.Calendar.Holidays {
		d, err := model.ParseDate(h)
		if err != nil {
			return nil, fmt.Errorf("calendar.holidays: %w", err)
		}
		holidays = append(holidays, d)
	}
	return calendar.New(spec.Calendar.WorkingDays, holidays, calendar.DurationUnit(spec.Calendar.DurationUnit))
}

// buildTasks flattens the phases→workstreams→tasks hierarchy into an
// ordered flat map. Phases and workstreams become level-1/level-2
// pseudo-tasks with zero duration and not_started status; rollup
// overwrites their dates, progress, and status later.
//
// Successor edges are built in a separate pass once every entity exists,
// so forward references between tasks never matter.
func (s *Schedule) buildTasks() error {
	s.Tasks = make(map[string]*model.Task)
	s.Order = nil

	add := func(t *model.Task) {
		// Duplicate ids are caught by validation; keep the first entry so
		// the validator sees the full ordered list.
		if _, exists := s.Tasks[t.ID]; !exists {
			s.Tasks[t.ID] = t
		}
		s.Order = append(s.Order, t.ID)
	}

	for pi := range s.Spec.Phases {
		phase := &s.Spec.Phases[pi]
		add(&model.Task{
			ID:     phase.ID,
			Name:   phase.Name,
			Level:  model.LevelPhase,
			Status: model.StatusNotStarted,
		})

		for wi := range phase.Workstreams {
			ws := &phase.Workstreams[wi]
			add(&model.Task{
				ID:       ws.ID,
				Name:     ws.Name,
				Level:    model.LevelWorkstream,
				ParentID: phase.ID,
				PhaseID:  phase.ID,
				Status:   model.StatusNotStarted,
			})

			for ti := range ws.Tasks {
				task, err := buildLeafTask(&ws.Tasks[ti], phase.ID, ws.ID)
				if err != nil {
					return err
				}
				add(task)
			}
		}
	}

	if s.Spec.Baseline != nil {
		for id, b := range s.Spec.Baseline.Tasks {
			task, ok := s.Tasks[id]
			if !ok {
				continue
			}
			start, err := model.ParseDate(b.Start)
			if err != nil {
				return fmt.Errorf("baseline.tasks[%s]: %w", id, err)
			}
			finish, err := model.ParseDate(b.Finish)
			if err != nil {
				return fmt.Errorf("baseline.tasks[%s]: %w", id, err)
			}
			task.Baseline = &model.BaselineDates{Start: start, Finish: finish}
		}
	}

	return nil
}

func buildLeafTask(spec *model.TaskSpec, phaseID, workstreamID string) (*model.Task, error) {
	status := model.Status(spec.Status)
	if spec.Status == "" {
		status = model.StatusNotStarted
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("task %s: unknown status %q", spec.ID, spec.Status)
	}

	task := &model.Task{
		ID:           spec.ID,
		Name:         spec.Name,
		Level:        model.LevelTask,
		ParentID:     workstreamID,
		PhaseID:      phaseID,
		WorkstreamID: workstreamID,
		Duration:     spec.Duration,
		Owner:        spec.Owner,
		Progress:     spec.Progress,
		Status:       status,
		StatusNote:   spec.StatusNote,
		Milestone:    spec.Milestone,
	}

	for _, dep := range spec.DependsOn {
		task.Dependencies = append(task.Dependencies, model.Dependency{TaskID: dep.ID, Lag: dep.Lag})
	}

	parseOpt := func(field, value string) (*time.Time, error) {
		if value == "" {
			return nil, nil
		}
		d, err := model.ParseDate(value)
		if err != nil {
			return nil, fmt.Errorf("task %s: %s: %w", spec.ID, field, err)
		}
		return &d, nil
	}

	var err error
	if task.ActualStart, err = parseOpt("actual_start", spec.ActualStart); err != nil {
		return nil, err
	}
	if task.ActualFinish, err = parseOpt("actual_finish", spec.ActualFinish); err != nil {
		return nil, err
	}
	if task.ExplicitStart, err = parseOpt("start", spec.Start); err != nil {
		return nil, err
	}

	if spec.Constraint != nil {
		date, err := model.ParseDate(spec.Constraint.Date)
		if err != nil {
			return nil, fmt.Errorf("task %s: constraint.date: %w", spec.ID, err)
		}
		task.Constraint = &model.Constraint{
			Type:   model.ConstraintNoEarlierThan,
			Date:   date,
			Reason: spec.Constraint.Reason,
		}
	}

	return task, nil
}

// buildSuccessors computes the inverse dependency edges. Runs after all
// entities exist and after validation proved every reference resolves.
func (s *Schedule) buildSuccessors() {
	for _, id := range s.Order {
		task := s.Tasks[id]
		for _, dep := range task.Dependencies {
			pred := s.Tasks[dep.TaskID]
			pred.Successors = append(pred.Successors, task.ID)
		}
	}
}
