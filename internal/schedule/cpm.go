package schedule

import (
	"math"
	"time"

	"github.com/msageha/planwright/internal/calendar"
	"github.com/msageha/planwright/internal/model"
)

// forwardPass computes early start/end dates for every leaf task. The
// recursion is memoized by a visited set; it is safe because validation
// already proved the dependency graph acyclic. Phases and workstreams
// are skipped — rollup derives their dates from children.
func (s *Schedule) forwardPass() {
	visited := make(map[string]bool, len(s.Order))

	var compute func(id string)
	compute = func(id string) {
		if visited[id] {
			return
		}
		visited[id] = true

		task := s.Tasks[id]
		if !task.IsLeaf() {
			return
		}

		// A recorded finish settles the task outright; dependencies are
		// irrelevant to what actually happened.
		if task.ActualFinish != nil {
			end := calendar.Normalize(*task.ActualFinish)
			task.EndDate = &end
			if task.ActualStart != nil {
				start := calendar.Normalize(*task.ActualStart)
				task.StartDate = &start
			} else {
				start := s.Cal.AddWorkingDays(end, -task.Duration)
				task.StartDate = &start
			}
			return
		}

		for _, dep := range task.Dependencies {
			compute(dep.TaskID)
		}

		start := s.earlyStart(task)
		task.StartDate = &start

		end := s.earlyEnd(task, start)
		task.EndDate = &end
	}

	for _, id := range s.Order {
		compute(id)
	}
}

// earlyStart resolves the start date by priority: actual start, explicit
// start when the task has no dependencies, latest predecessor finish plus
// lag, then clamped up to a no_earlier_than constraint.
func (s *Schedule) earlyStart(task *model.Task) time.Time {
	start := s.ProjectStart

	switch {
	case task.ActualStart != nil:
		start = calendar.Normalize(*task.ActualStart)
	case task.ExplicitStart != nil && len(task.Dependencies) == 0:
		start = calendar.Normalize(*task.ExplicitStart)
	case len(task.Dependencies) > 0:
		for _, dep := range task.Dependencies {
			pred := s.Tasks[dep.TaskID]
			if pred.EndDate == nil {
				continue
			}
			candidate := s.Cal.AddWorkingDays(*pred.EndDate, dep.Lag)
			if candidate.After(start) {
				start = candidate
			}
		}
	}

	if task.Constraint != nil && task.Constraint.Type == model.ConstraintNoEarlierThan {
		floor := calendar.Normalize(task.Constraint.Date)
		if start.Before(floor) {
			start = floor
		}
	}

	return start
}

// earlyEnd projects the finish date. A partially progressed task with a
// recorded actual start is forecast from "now": the remaining share of
// the duration is added to today, not to the task's start, modelling
// work left from this moment.
func (s *Schedule) earlyEnd(task *model.Task, start time.Time) time.Time {
	switch {
	case task.Progress >= 100:
		if task.ActualFinish != nil {
			return calendar.Normalize(*task.ActualFinish)
		}
		return s.Cal.AddWorkingDays(start, task.Duration)
	case task.Progress > 0 && task.ActualStart != nil:
		remaining := int(math.Ceil(float64(task.Duration) * float64(100-task.Progress) / 100))
		return s.Cal.AddWorkingDays(calendar.Normalize(s.now), remaining)
	default:
		return s.Cal.AddWorkingDays(start, task.Duration)
	}
}

// backwardPass computes late dates, float, and criticality. It mirrors
// the forward pass but recurses over successors, and must run after
// rollup so the project end reflects the rolled-up leaf dates.
func (s *Schedule) backwardPass() {
	projectEnd := s.ProjectStart
	for _, id := range s.Order {
		task := s.Tasks[id]
		if task.IsLeaf() && task.EndDate != nil && task.EndDate.After(projectEnd) {
			projectEnd = *task.EndDate
		}
	}
	s.ProjectEnd = projectEnd

	visited := make(map[string]bool, len(s.Order))

	var compute func(id string)
	compute = func(id string) {
		if visited[id] {
			return
		}
		visited[id] = true

		task := s.Tasks[id]
		if !task.IsLeaf() {
			return
		}

		lateFinish := projectEnd
		first := true
		for _, succID := range task.Successors {
			compute(succID)
			succ := s.Tasks[succID]
			if succ.LateStart == nil {
				continue
			}
			// The lag lives on the successor's own dependency entry
			// pointing back at this task.
			lag := 0
			for _, dep := range succ.Dependencies {
				if dep.TaskID == task.ID {
					lag = dep.Lag
					break
				}
			}
			candidate := s.Cal.AddWorkingDays(*succ.LateStart, -lag)
			if first || candidate.Before(lateFinish) {
				lateFinish = candidate
				first = false
			}
		}

		task.LateFinish = &lateFinish
		lateStart := s.Cal.AddWorkingDays(lateFinish, -task.Duration)
		task.LateStart = &lateStart

		if task.EndDate != nil {
			task.FloatDays = s.Cal.DaysBetween(*task.EndDate, lateFinish)
		}
		task.IsCritical = task.FloatDays <= 0
	}

	for _, id := range s.Order {
		compute(id)
	}
}
