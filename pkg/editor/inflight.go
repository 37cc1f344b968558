package editor

import (
	"errors"
	"fmt"
	"sync"
)

// ErrBusy is returned when an action is triggered while the same action is
// still in flight.
var ErrBusy = errors.New("editor: action already in progress")

// Action names a backend-bound operation.
type Action string

const (
	ActionLoad      Action = "load"
	ActionOpen      Action = "open"
	ActionSave      Action = "save"
	ActionPublish   Action = "publish"
	ActionArchive   Action = "archive"
	ActionUnarchive Action = "unarchive"
)

// inflight tracks one loading flag per action. Different actions may run
// at the same time.
type inflight struct {
	mu     sync.Mutex
	active map[Action]bool
}

func (f *inflight) begin(action Action) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.active == nil {
		f.active = make(map[Action]bool)
	}
	if f.active[action] {
		return fmt.Errorf("%w: %s", ErrBusy, action)
	}
	f.active[action] = true
	return nil
}

func (f *inflight) end(action Action) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.active, action)
}

func (f *inflight) busy(action Action) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active[action]
}
