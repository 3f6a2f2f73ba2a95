package domain

// Status is the lifecycle label of a task. The code strings below are the
// stable values used both on the wire and in storage; human-readable text
// comes from Label so the storage format never tracks display copy.
type Status string

const (
	StatusPlanning    Status = "Planning"
	StatusInProgress  Status = "InProgress"
	StatusUnderReview Status = "UnderReview"
	StatusCompleted   Status = "Completed"
)

// Statuses lists every status in board-column order.
var Statuses = []Status{
	StatusPlanning,
	StatusInProgress,
	StatusUnderReview,
	StatusCompleted,
}

var statusLabels = map[Status]string{
	StatusPlanning:    "Planning",
	StatusInProgress:  "In Progress",
	StatusUnderReview: "Under Review",
	StatusCompleted:   "Completed",
}

// Valid reports whether s is a recognized status code. The empty string is
// not valid; callers treat absence separately.
func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Label returns the display text for s, or the raw code if unknown.
func (s Status) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// ParseStatus converts a wire value into a Status.
func ParseStatus(value string) (Status, error) {
	s := Status(value)
	if !s.Valid() {
		return "", NewError(ErrCodeInvalid, "unknown status")
	}
	return s, nil
}

// Priority is the urgency label of a task, independent of status.
type Priority string

const (
	PriorityUrgent  Priority = "Urgent"
	PriorityHigh    Priority = "High"
	PriorityMedium  Priority = "Medium"
	PriorityLow     Priority = "Low"
	PriorityBacklog Priority = "Backlog"
)

var priorityLabels = map[Priority]string{
	PriorityUrgent:  "Urgent",
	PriorityHigh:    "High",
	PriorityMedium:  "Medium",
	PriorityLow:     "Low",
	PriorityBacklog: "Backlog",
}

func (p Priority) Valid() bool {
	_, ok := priorityLabels[p]
	return ok
}

func (p Priority) Label() string {
	if label, ok := priorityLabels[p]; ok {
		return label
	}
	return string(p)
}

// ParsePriority converts a wire value into a Priority.
func ParsePriority(value string) (Priority, error) {
	p := Priority(value)
	if !p.Valid() {
		return "", NewError(ErrCodeInvalid, "unknown priority")
	}
	return p, nil
}
