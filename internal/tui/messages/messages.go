package messages

import "moviesort/internal/bridge"

// PickResult is the outcome of an in-terminal directory pick.
type PickResult struct {
	Path string
	OK   bool
}

// OpenPickerMsg asks the model to show the directory picker. The model
// answers exactly once on Reply.
type OpenPickerMsg struct {
	Reply chan<- PickResult
}

// StatusMsg mirrors a bridge notification.
type StatusMsg struct {
	Busy bool
	Text string
}

// SelectionMsg carries the result of a selection request.
type SelectionMsg struct {
	Selection bridge.Selection
	Err       error
}
