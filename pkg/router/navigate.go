package router

import "fmt"

// History is the navigation handle that owns the current location.
type History interface {
	// Push appends an entry and makes it current.
	Push(path string, state map[string]any) error

	// Replace swaps the current entry.
	Replace(path string, state map[string]any) error
}

// Mode selects how a navigation changes the history.
type Mode uint8

const (
	ModePush Mode = iota
	ModeReplace
)

func (m Mode) String() string {
	switch m {
	case ModePush:
		return "push"
	case ModeReplace:
		return "replace"
	default:
		return fmt.Sprintf("Mode(%d)", m)
	}
}

// ParseMode parses "push" and "replace". The empty string is push.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "push":
		return ModePush, nil
	case "replace":
		return ModeReplace, nil
	}
	return 0, fmt.Errorf("unknown navigation mode %q", s)
}

// Navigate applies a target to h.
func Navigate(h History, mode Mode, path string, state map[string]any) error {
	if mode == ModeReplace {
		return h.Replace(path, state)
	}
	return h.Push(path, state)
}

// Actions are the typed navigation operations of a route.
type Actions[T any] struct {
	route   *Route[T]
	history History
}

// To returns the href of the route for v.
func (a Actions[T]) To(v T) (string, error) {
	t, err := a.route.Target(v)
	if err != nil {
		return "", err
	}
	return t.Path, nil
}

// Href is To, for use in links.
func (a Actions[T]) Href(v T) (string, error) {
	return a.To(v)
}

// Push navigates to the route, appending a history entry.
func (a Actions[T]) Push(v T) error {
	return a.navigate(ModePush, v)
}

// Replace navigates to the route, replacing the current history entry.
func (a Actions[T]) Replace(v T) error {
	return a.navigate(ModeReplace, v)
}

func (a Actions[T]) navigate(mode Mode, v T) error {
	if a.history == nil {
		return fmt.Errorf("route %s: no history bound", a.route.Name())
	}
	t, err := a.route.Target(v)
	if err != nil {
		return err
	}
	return Navigate(a.history, mode, t.Path, t.State)
}
