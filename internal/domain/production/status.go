package production

// OrderStatus represents the lifecycle state of a production order
type OrderStatus string

const (
	// StatusPlanned is the initial state of a new order
	StatusPlanned OrderStatus = "planned"
	// StatusInProgress means execution has started
	StatusInProgress OrderStatus = "in_progress"
	// StatusCompleted means materials were consumed and output credited
	StatusCompleted OrderStatus = "completed"
	// StatusCancelled means the order was abandoned without stock movement
	StatusCancelled OrderStatus = "cancelled"
)

// IsValid checks if the status is a known value
func (s OrderStatus) IsValid() bool {
	switch s {
	case StatusPlanned, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed
func (s OrderStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo checks if a transition to the target status is allowed.
// Completed is only reachable from in_progress; cancellation is allowed
// from any non-terminal state.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case StatusPlanned:
		return target == StatusInProgress || target == StatusCancelled
	case StatusInProgress:
		return target == StatusCompleted || target == StatusCancelled
	default:
		return false
	}
}
