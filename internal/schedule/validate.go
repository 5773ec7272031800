package schedule

import (
	"fmt"
	"strings"
)

// validate enforces the structural invariants of the flattened task map.
// It fails fast: the first violation is returned, in a fixed priority
// order — missing id, duplicate id, unresolved dependency, circular
// dependency, milestone duration, progress range.
func (s *Schedule) validate() *ValidationError {
	seen := make(map[string]bool, len(s.Order))
	for i, id := range s.Order {
		if id == "" {
			return newValidationError(fmt.Sprintf("tasks[%d].id", i), "required field is missing")
		}
		if seen[id] {
			return newValidationError("tasks", "duplicate id %q", id)
		}
		seen[id] = true
	}

	for _, id := range s.Order {
		task := s.Tasks[id]
		for di, dep := range task.Dependencies {
			if _, ok := s.Tasks[dep.TaskID]; !ok {
				return newValidationError(
					fmt.Sprintf("%s.depends_on[%d]", id, di),
					"references unknown task %q", dep.TaskID)
			}
		}
	}

	if cycle := s.findCycle(); cycle != nil {
		return newValidationError("tasks", "circular dependency detected: %s", strings.Join(cycle, " -> "))
	}

	for _, id := range s.Order {
		task := s.Tasks[id]
		if task.Milestone && task.Duration != 0 {
			return newValidationError(id+".duration", "milestone must have duration 0, got %d", task.Duration)
		}
	}

	for _, id := range s.Order {
		task := s.Tasks[id]
		if task.Progress < 0 || task.Progress > 100 {
			return newValidationError(id+".progress", "must be between 0 and 100, got %d", task.Progress)
		}
	}

	return nil
}

// findCycle runs a colored DFS over the dependency edges and returns the
// full cycle path when one exists, nil otherwise. Gray nodes form the
// current recursion stack.
func (s *Schedule) findCycle() []string {
	const (
		white = 0 // unvisited
		gray  = 1 // in current path
		black = 2 // finished
	)

	color := make(map[string]int, len(s.Order))
	parent := make(map[string]string)

	var cyclePath []string

	var dfs func(id string) bool
	dfs = func(id string) bool {
		color[id] = gray
		for _, dep := range s.Tasks[id].Dependencies {
			next := dep.TaskID
			if color[next] == gray {
				// Reconstruct the path back to where the cycle closes.
				cyclePath = []string{next}
				for current := id; current != next; current = parent[current] {
					cyclePath = append(cyclePath, current)
				}
				cyclePath = append(cyclePath, next)
				for i, j := 0, len(cyclePath)-1; i < j; i, j = i+1, j-1 {
					cyclePath[i], cyclePath[j] = cyclePath[j], cyclePath[i]
				}
				return true
			}
			if color[next] == white {
				parent[next] = id
				if dfs(next) {
					return true
				}
			}
		}
		color[id] = black
		return false
	}

	for _, id := range s.Order {
		if color[id] == white {
			if dfs(id) {
				return cyclePath
			}
		}
	}
	return nil
}
