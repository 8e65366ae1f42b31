package lock

import (
	"sort"
	"sync"
)

// Registry hands out mutexes keyed by account identifier. A transfer locks
// both parties for the full check-then-act sequence, so a balance read and
// the debit/credit that follows form one atomic unit per account pair.
type Registry struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{locks: make(map[string]*sync.Mutex)}
}

func (r *Registry) mutexFor(key string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.locks[key]
	if !ok {
		m = &sync.Mutex{}
		r.locks[key] = m
	}
	return m
}

// Acquire locks every given key in lexicographic order and returns the
// release function. Ordering the acquisition makes overlapping transfers
// deadlock-free; duplicate keys are collapsed so a key is never locked
// twice in one call.
func (r *Registry) Acquire(keys ...string) func() {
	unique := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, key)
	}
	sort.Strings(unique)

	held := make([]*sync.Mutex, 0, len(unique))
	for _, key := range unique {
		m := r.mutexFor(key)
		m.Lock()
		held = append(held, m)
	}

	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}
