// Package registry tracks live executions so they can be mass-cancelled.
package registry

import (
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Entry is a handle to one live process.
type Entry struct {
	ID        string
	PID       int
	StartedAt time.Time

	proc *os.Process
}

// Kill sends a hard termination signal to the entry's process group.
// Best-effort; the process's own exit handler performs removal.
func (e *Entry) Kill() {
	if e == nil || e.proc == nil {
		return
	}
	killProcess(e.proc)
}

// Registry is an ordered collection of live process handles. It is the
// sole shared mutable state of the runner and is safe for concurrent
// use.
type Registry struct {
	mu      sync.Mutex
	entries []*Entry
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{}
}

// Add registers a live process and returns its entry. An empty id gets
// a generated one.
func (r *Registry) Add(id string, proc *os.Process) *Entry {
	if id == "" {
		id = uuid.NewString()
	}
	entry := &Entry{
		ID:        id,
		PID:       proc.Pid,
		StartedAt: time.Now(),
		proc:      proc,
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return entry
}

// Remove drops the entry with the given id. Unknown ids are ignored so
// removal stays idempotent across the exit and kill paths.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.entries[:0]
	for _, e := range r.entries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	r.entries = kept
}

// KillAll signals every currently registered process and returns how
// many were signalled. It does not wait for exits and does not clear
// the registry; each process's own exit handler removes its entry.
func (r *Registry) KillAll() int {
	entries := r.snapshot()
	for _, e := range entries {
		e.Kill()
	}
	return len(entries)
}

// Size reports the number of live entries.
func (r *Registry) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *Registry) snapshot() []*Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Entry, len(r.entries))
	copy(out, r.entries)
	return out
}
