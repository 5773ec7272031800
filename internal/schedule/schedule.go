// Package schedule turns a raw hierarchical specification into a fully
// computed project schedule: validation, forward/backward CPM passes,
// and hierarchy rollup.
//
// A Schedule is computed eagerly at load time and never recomputed in
// place. Edits go through the raw spec and a fresh Load — computed state
// is never partially mutated.
package schedule

import (
	"sort"
	"time"

	"github.com/msageha/planwright/internal/calendar"
	"github.com/msageha/planwright/internal/model"
)

// Schedule is one fully computed instance of a specification.
type Schedule struct {
	Spec  *model.SpecFile
	Cal   *calendar.Calendar
	Tasks map[string]*model.Task
	Order []string // ids in document order

	ProjectStart time.Time
	ProjectEnd   time.Time

	now time.Time
}

// Load parses, validates, and computes a schedule from raw spec text.
// In-progress tasks are forecast from the current wall-clock time; use
// LoadAt for deterministic output.
func Load(text []byte) (*Schedule, error) {
	return LoadAt(text, time.Now())
}

// LoadAt is Load with an injected "now" for the remaining-work forecast.
func LoadAt(text []byte, now time.Time) (*Schedule, error) {
	spec, err := model.ParseSpec(text)
	if err != nil {
		return nil, err
	}
	return FromSpecAt(spec, now)
}

// FromSpecAt computes a schedule from an already parsed spec. The
// pipeline order is strict: validate → forward pass → rollup → backward
// pass. The backward pass needs the rollup-adjusted project end, and
// rollup needs the forward-pass leaf dates.
func FromSpecAt(spec *model.SpecFile, now time.Time) (*Schedule, error) {
	cal, err := buildCalendar(spec)
	if err != nil {
		return nil, err
	}

	start := model.DefaultProjectStart
	if spec.Project.StartDate != "" {
		start, err = model.ParseDate(spec.Project.StartDate)
		if err != nil {
			return nil, err
		}
	}

	s := &Schedule{
		Spec:         spec,
		Cal:          cal,
		ProjectStart: calendar.Normalize(start),
		now:          calendar.Normalize(now),
	}

	if err := s.buildTasks(); err != nil {
		return nil, err
	}
	if verr := s.validate(); verr != nil {
		return nil, verr
	}
	s.buildSuccessors()

	s.forwardPass()
	s.rollup()
	s.backwardPass()

	return s, nil
}

// ProjectDates reports the computed project span and its working-day
// duration.
func (s *Schedule) ProjectDates() (start, end time.Time, duration int) {
	return s.ProjectStart, s.ProjectEnd, s.Cal.DaysBetween(s.ProjectStart, s.ProjectEnd)
}

// CriticalPath returns the critical leaf tasks ordered by start date.
func (s *Schedule) CriticalPath() []*model.Task {
	var out []*model.Task
	for _, id := range s.Order {
		task := s.Tasks[id]
		if task.IsLeaf() && task.IsCritical {
			out = append(out, task)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.StartDate == nil || b.StartDate == nil {
			return a.StartDate != nil
		}
		return a.StartDate.Before(*b.StartDate)
	})
	return out
}

// Milestones returns the leaf milestone tasks in document order.
func (s *Schedule) Milestones() []*model.Task {
	var out []*model.Task
	for _, id := range s.Order {
		task := s.Tasks[id]
		if task.IsLeaf() && task.Milestone {
			out = append(out, task)
		}
	}
	return out
}
