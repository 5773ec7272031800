package model

// Status is the tracking status of a task, workstream, or phase.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusOnTrack    Status = "on_track"
	StatusAtRisk     Status = "at_risk"
	StatusDelayed    Status = "delayed"
	StatusComplete   Status = "complete"
)

var validStatuses = map[Status]bool{
	StatusNotStarted: true,
	StatusOnTrack:    true,
	StatusAtRisk:     true,
	StatusDelayed:    true,
	StatusComplete:   true,
}

// IsValid reports whether s is a known status value.
func (s Status) IsValid() bool {
	return validStatuses[s]
}

// severity ranks statuses for worst-case rollup. Higher is worse.
var severity = map[Status]int{
	StatusDelayed:    4,
	StatusAtRisk:     3,
	StatusOnTrack:    2,
	StatusComplete:   1,
	StatusNotStarted: 0,
}

// Severity returns the rollup rank of s. Unknown statuses rank lowest.
func (s Status) Severity() int {
	return severity[s]
}

// WorstStatus returns the highest-severity status among ss, or
// not_started when ss is empty.
func WorstStatus(ss []Status) Status {
	worst := StatusNotStarted
	for _, s := range ss {
		if s.Severity() > worst.Severity() {
			worst = s
		}
	}
	return worst
}
