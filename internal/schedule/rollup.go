package schedule

import (
	"math"

	"github.com/msageha/planwright/internal/model"
)

// rollup aggregates child dates, progress, and status into workstreams,
// then phases. Workstreams must complete first: phase rollup reads the
// workstream computed fields, not the raw tasks.
func (s *Schedule) rollup() {
	for _, id := range s.Order {
		if s.Tasks[id].Level == model.LevelWorkstream {
			s.rollupInto(s.Tasks[id], s.childrenOf(id, model.LevelTask))
		}
	}
	for _, id := range s.Order {
		if s.Tasks[id].Level == model.LevelPhase {
			s.rollupInto(s.Tasks[id], s.childrenOf(id, model.LevelWorkstream))
		}
	}
}

func (s *Schedule) childrenOf(parentID string, level int) []*model.Task {
	var children []*model.Task
	for _, id := range s.Order {
		task := s.Tasks[id]
		if task.Level == level && task.ParentID == parentID {
			children = append(children, task)
		}
	}
	return children
}

func (s *Schedule) rollupInto(parent *model.Task, children []*model.Task) {
	if len(children) == 0 {
		return
	}

	var weightedProgress, totalWeight float64
	statuses := make([]model.Status, 0, len(children))

	for _, child := range children {
		if child.StartDate != nil && (parent.StartDate == nil || child.StartDate.Before(*parent.StartDate)) {
			start := *child.StartDate
			parent.StartDate = &start
		}
		if child.EndDate != nil && (parent.EndDate == nil || child.EndDate.After(*parent.EndDate)) {
			end := *child.EndDate
			parent.EndDate = &end
		}

		// Zero-duration children carry zero weight, so milestones drop
		// out of the progress mean entirely.
		weightedProgress += float64(child.Duration) * float64(child.Progress)
		totalWeight += float64(child.Duration)

		statuses = append(statuses, child.Status)
	}

	if parent.StartDate != nil && parent.EndDate != nil {
		parent.Duration = s.Cal.DaysBetween(*parent.StartDate, *parent.EndDate)
	}
	if totalWeight > 0 {
		parent.Progress = int(math.Round(weightedProgress / totalWeight))
	}
	parent.Status = model.WorstStatus(statuses)
}
