package view

import "github.com/LuckylisaBemeye/Bomahub/pkg/client"

// State is the lifecycle of a page's data.
type State int

const (
	Loading State = iota
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "loading"
	}
}

// Page carries the data of a page or the reason it could not be loaded.
type Page[T any] struct {
	State State
	Data  T
	Error string
}

// Load builds the page state from the result of a fetch.
func Load[T any](data T, err error) Page[T] {
	if err != nil {
		var zero T
		return Page[T]{State: Failed, Data: zero, Error: client.Message(err, "")}
	}
	return Page[T]{State: Ready, Data: data}
}

// Loaded reports whether the fetch has finished, successfully or not.
func (p Page[T]) Loaded() bool {
	return p.State != Loading
}
