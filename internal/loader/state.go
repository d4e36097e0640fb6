package loader

import (
	"github.com/dgallion1/mdview/internal/outline"
)

// State is the lifecycle of a page load.
type State string

const (
	StateIdle       State = "idle"
	StateFetching   State = "fetching"
	StateRendered   State = "rendered"
	StateNotFound   State = "not_found"
	StateFetchError State = "fetch_error"
)

// Done reports whether the state is terminal for a load.
func (s State) Done() bool {
	switch s {
	case StateRendered, StateNotFound, StateFetchError:
		return true
	}
	return false
}

// Page identifies the document to load.
type Page struct {
	Index int    `json:"index"`
	Path  string `json:"path"`
	Key   string `json:"key"`
}

// Result is the outcome of one load.
type Result struct {
	State State `json:"state"`
	Page  Page  `json:"page"`

	// Title is set only for rendered pages.
	Title    string            `json:"title,omitempty"`
	Content  string            `json:"content"`
	Headings []outline.Heading `json:"headings"`

	// Status is the failure status for StateNotFound.
	Status int   `json:"status,omitempty"`
	Err    error `json:"-"`
}
